package dao

import (
	"fmt"
	"time"
	"tutor-agent-backend/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NewSessionID 生成会话 ID：UTC 时间戳（微秒精度）加随机后缀，创建时刻全局唯一
func NewSessionID() string {
	now := time.Now().UTC()
	return fmt.Sprintf("%s%06d-%s",
		now.Format("20060102150405"),
		now.Nanosecond()/1000,
		uuid.New().String()[:8])
}

func CreateQuerySession(session *model.QuerySession) error {
	return DB.Create(session).Error
}

func GetQuerySession(sessionID string) (*model.QuerySession, error) {
	var session model.QuerySession
	if err := DB.Where("session_id = ?", sessionID).
		First(&session).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &session, nil
}

// SaveResponseRecord 写入完整结果；重试时允许整体覆盖旧记录
func SaveResponseRecord(record *model.ResponseRecord) error {
	return DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", record.SessionID).
			Delete(&model.ResponseRecord{}).Error; err != nil {
			return err
		}
		return tx.Create(record).Error
	})
}

func GetResponseRecord(sessionID string) (*model.ResponseRecord, error) {
	var record model.ResponseRecord
	if err := DB.Where("session_id = ?", sessionID).
		First(&record).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &record, nil
}
