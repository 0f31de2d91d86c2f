package model

import (
	"testing"
	"time"
)

func TestProfileStale(t *testing.T) {
	fresh := time.Now().Add(-time.Hour)
	old := time.Now().Add(-ProfileTTL - time.Minute)
	profile := []byte(`{"pace":"medium"}`)

	cases := []struct {
		name string
		user User
		want bool
	}{
		{"无画像", User{}, true},
		{"有画像无时间戳", User{LearningProfile: profile}, true},
		{"保鲜期内", User{LearningProfile: profile, ProfileUpdatedAt: &fresh}, false},
		{"超过保鲜期", User{LearningProfile: profile, ProfileUpdatedAt: &old}, true},
		{"只有时间戳没有画像", User{ProfileUpdatedAt: &fresh}, true},
	}
	for _, c := range cases {
		if got := c.user.ProfileStale(); got != c.want {
			t.Errorf("%s: ProfileStale() = %v, want %v", c.name, got, c.want)
		}
	}
}
