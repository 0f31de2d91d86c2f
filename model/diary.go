package model

import "time"

// Diary 建立联合索引 (user_id, created_at)
type Diary struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index:idx_diary_user_created" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uint      `gorm:"not null;index:idx_diary_user_created" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`

	// 心情评分 1-5
	MoodScore *int `json:"mood_score"`

	AIResponse   string `gorm:"type:text" json:"ai_response"`
	GoalAnalysis string `gorm:"type:text" json:"goal_analysis"`
}

func (Diary) TableName() string {
	return "diaries"
}
