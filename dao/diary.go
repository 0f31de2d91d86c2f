package dao

import (
	"time"
	"tutor-agent-backend/model"
)

func CreateDiary(diary *model.Diary) error {
	return DB.Create(diary).Error
}

func GetDiaryByID(diaryID, userID uint) (*model.Diary, error) {
	var diary model.Diary
	if err := DB.Where("id = ? AND user_id = ?", diaryID, userID).
		First(&diary).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &diary, nil
}

func GetUserDiaries(userID uint, limit, offset int) ([]model.Diary, error) {
	var diaries []model.Diary
	if err := DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&diaries).Error; err != nil {
		return nil, err
	}
	return diaries, nil
}

// GetRecentDiaries 取最近 days 天内的日记，供学习画像提炼
func GetRecentDiaries(userID uint, days, limit int) ([]model.Diary, error) {
	since := time.Now().AddDate(0, 0, -days)
	var diaries []model.Diary
	if err := DB.Where("user_id = ? AND created_at >= ?", userID, since).
		Order("created_at DESC").
		Limit(limit).
		Find(&diaries).Error; err != nil {
		return nil, err
	}
	return diaries, nil
}

func DeleteDiary(diaryID, userID uint) error {
	return DB.Where("id = ? AND user_id = ?", diaryID, userID).
		Delete(&model.Diary{}).Error
}

func UpdateDiaryAIResponse(diaryID uint, response string) error {
	return DB.Model(&model.Diary{}).
		Where("id = ?", diaryID).
		Update("ai_response", response).Error
}

func UpdateDiaryGoalAnalysis(diaryID uint, analysis string) error {
	return DB.Model(&model.Diary{}).
		Where("id = ?", diaryID).
		Update("goal_analysis", analysis).Error
}

// HasDiaryToday 今日是否已写日记
func HasDiaryToday(userID uint) (bool, error) {
	start := time.Now().Truncate(24 * time.Hour)
	var count int64
	if err := DB.Model(&model.Diary{}).
		Where("user_id = ? AND created_at >= ?", userID, start).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetDiaryStreak 连续写日记的天数
func GetDiaryStreak(userID uint) (int, error) {
	var dates []time.Time
	if err := DB.Model(&model.Diary{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(365).
		Pluck("created_at", &dates).Error; err != nil {
		return 0, err
	}

	seen := make(map[string]bool)
	var days []string
	for _, d := range dates {
		day := d.Format("2006-01-02")
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	if len(days) == 0 {
		return 0, nil
	}

	// 今天没写时从昨天起算
	today := time.Now()
	cursor := today
	if days[0] != today.Format("2006-01-02") {
		cursor = today.AddDate(0, 0, -1)
	}

	streak := 0
	for _, day := range days {
		if day != cursor.Format("2006-01-02") {
			break
		}
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak, nil
}
