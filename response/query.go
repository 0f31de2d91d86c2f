package response

import "time"

// QuerySessionResponse 会话创建结果，调用方持 session_id 去流式接口取回答
type QuerySessionResponse struct {
	SessionID   string `json:"session_id"`
	Kind        string `json:"kind"`
	Level       string `json:"level"`
	LevelSource string `json:"level_source"`
	Phase       int    `json:"phase"`
	ParentID    string `json:"parent_id,omitempty"`
}

type QueryResultResponse struct {
	SessionID string `json:"session_id"`
	Kind      string `json:"kind"`
	Question  string `json:"question"`
	Subject   string `json:"subject"`
	Level     string `json:"level"`
	Phase     int    `json:"phase"`
	DeepThink bool   `json:"deep_think"`

	Thinking       string `json:"thinking,omitempty"`
	Answer         string `json:"answer,omitempty"`
	VerifyThinking string `json:"verify_thinking,omitempty"`
	VerifyAnswer   string `json:"verify_answer,omitempty"`
	Emotional      string `json:"emotional,omitempty"`
	GoalAnalysis   string `json:"goal_analysis,omitempty"`

	CompletedAt time.Time `json:"completed_at"`
}
