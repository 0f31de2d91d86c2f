package model

import (
	"encoding/json"
	"time"
)

// 查询类型，封闭集合，编排器入口处穷举处理
const (
	KindText      = "text"
	KindImage     = "image"
	KindTextDeep  = "text_deep"
	KindImageDeep = "image_deep"
	KindDiary     = "diary"
)

// QuerySession 一次提问的快照，创建后只读，流式阶段据此驱动模型调用
type QuerySession struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	SessionID string    `gorm:"not null;uniqueIndex" json:"session_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Kind      string    `gorm:"not null" json:"kind"`

	Question  string `gorm:"type:text" json:"question"`
	Subject   string `json:"subject"`
	Lang      string `json:"lang"`
	DeepThink bool   `json:"deep_think"`

	// 生效讲解层级及其来源（manual/default/score）
	Level       string `json:"level"`
	LevelSource string `json:"level_source"`
	Phase       int    `json:"phase"`
	Score       *int   `json:"score"`

	// 已脱敏的学习画像快照
	Profile     json.RawMessage `gorm:"type:json" json:"profile"`
	ProfileUsed bool            `json:"profile_used"`

	// 图片题的 OSS 对象键
	ImageKey string `json:"image_key"`

	// 阶段提升时指向原会话
	ParentID string `json:"parent_id"`

	// 日记复盘会话
	DiaryID      uint `json:"diary_id"`
	AnalyzeGoals bool `json:"analyze_goals"`
}

func (QuerySession) TableName() string {
	return "query_session"
}

func (s *QuerySession) HasImage() bool {
	return s.ImageKey != ""
}

// ResponseRecord 流式完成后写入，每个会话至多一条；只允许整体覆盖，不允许原地修改
type ResponseRecord struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	SessionID string `gorm:"not null;uniqueIndex" json:"session_id"`
	DeepThink bool   `json:"deep_think"`

	Thinking string `gorm:"type:text" json:"thinking"`
	Answer   string `gorm:"type:text" json:"answer"`

	VerifyThinking string `gorm:"type:text" json:"verify_thinking"`
	VerifyAnswer   string `gorm:"type:text" json:"verify_answer"`

	Emotional    string `gorm:"type:text" json:"emotional"`
	GoalAnalysis string `gorm:"type:text" json:"goal_analysis"`

	CompletedAt time.Time `json:"completed_at"`
}

func (ResponseRecord) TableName() string {
	return "query_response"
}
