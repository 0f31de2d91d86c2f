package model

import (
	"encoding/json"
	"time"
)

type User struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Name           string    `gorm:"not null" json:"name"`
	Email          *string   `gorm:"uniqueIndex" json:"email"`
	Phone          *string   `gorm:"uniqueIndex" json:"phone"`
	PasswordHash   string    `gorm:"not null" json:"-"`
	PhysicsScore   *int      `json:"physics_score"`
	ChemistryScore *int      `json:"chemistry_score"`

	// 用户偏好讲解层级，auto 表示按成绩推导
	DefaultExplainLevel string `gorm:"default:auto" json:"default_explain_level"`

	// 学习画像（已脱敏的结构化摘要，禁止存放日记原文）
	LearningProfile  json.RawMessage `gorm:"type:json" json:"learning_profile"`
	ProfileUpdatedAt *time.Time      `json:"profile_updated_at"`
}

func (User) TableName() string {
	return "users"
}

// 学习画像的保鲜期，超过后视为过期，需要重建
const ProfileTTL = 24 * time.Hour

// ProfileStale 画像缺失或超过保鲜期
func (u *User) ProfileStale() bool {
	if len(u.LearningProfile) == 0 || u.ProfileUpdatedAt == nil {
		return true
	}
	return time.Since(*u.ProfileUpdatedAt) > ProfileTTL
}

// SubjectScore 返回对应学科的自评分数
func (u *User) SubjectScore(subject string) *int {
	if subject == "chemistry" {
		return u.ChemistryScore
	}
	return u.PhysicsScore
}
