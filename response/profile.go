package response

import (
	"encoding/json"
	"time"
)

type LearningProfileResponse struct {
	Profile   json.RawMessage `json:"profile,omitempty"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
	Stale     bool            `json:"stale"`
}
