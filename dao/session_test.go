package dao

import (
	"strings"
	"testing"
	"time"
)

func TestNewSessionIDTimePrefix(t *testing.T) {
	before := time.Now().UTC().Format("20060102150405")
	id := NewSessionID()
	after := time.Now().UTC().Format("20060102150405")

	prefix := id[:14]
	if prefix < before || prefix > after {
		t.Errorf("session id prefix %s not derived from current time [%s, %s]", prefix, before, after)
	}

	parts := strings.SplitN(id, "-", 2)
	if len(parts) != 2 || len(parts[0]) != 20 || len(parts[1]) != 8 {
		t.Errorf("unexpected session id shape: %s", id)
	}
}

func TestNewSessionIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewSessionID()
		if seen[id] {
			t.Fatalf("duplicate session id generated: %s", id)
		}
		seen[id] = true
	}
}
