package dao

import (
	"encoding/json"
	"time"
	"tutor-agent-backend/model"
)

func CreateUser(user *model.User) error {
	return DB.Create(user).Error
}

// GetUserByAccount 支持邮箱或手机号登录
func GetUserByAccount(account string) (*model.User, error) {
	var user model.User
	if err := DB.Where("email = ? OR phone = ?", account, account).
		First(&user).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &user, nil
}

func GetUserByID(userID uint) (*model.User, error) {
	var user model.User
	if err := DB.Where("id = ?", userID).
		First(&user).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &user, nil
}

func UpdateUserPassword(userID uint, passwordHash string) error {
	return DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("password_hash", passwordHash).Error
}

func UpdateUserScores(userID uint, physicsScore, chemistryScore *int) error {
	return DB.Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"physics_score":   physicsScore,
			"chemistry_score": chemistryScore,
		}).Error
}

func UpdateUserDefaultLevel(userID uint, level string) error {
	return DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("default_explain_level", level).Error
}

func UpdateUserLearningProfile(userID uint, profile json.RawMessage) error {
	now := time.Now()
	return DB.Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"learning_profile":   profile,
			"profile_updated_at": &now,
		}).Error
}
