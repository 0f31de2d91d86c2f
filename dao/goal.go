package dao

import "tutor-agent-backend/model"

func CreateGoal(goal *model.Goal) error {
	return DB.Create(goal).Error
}

func GetUserGoals(userID uint, status string) ([]model.Goal, error) {
	var goals []model.Goal
	query := DB.Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Order("created_at DESC").
		Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}

func UpdateGoal(goalID, userID uint, updates map[string]any) error {
	return DB.Model(&model.Goal{}).
		Where("id = ? AND user_id = ?", goalID, userID).
		Updates(updates).Error
}

func DeleteGoal(goalID, userID uint) error {
	return DB.Where("id = ? AND user_id = ?", goalID, userID).
		Delete(&model.Goal{}).Error
}
