package dao

import (
	"errors"
	"fmt"
	"tutor-agent-backend/config"
	"tutor-agent-backend/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var DB *gorm.DB

// ErrNotFound 按 ID 查找不到记录
var ErrNotFound = errors.New("record not found")

func Init() error {
	db, err := gorm.Open(mysql.Open(config.Cfg.MySQLDSN()), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("failed to connect to mysql: %v", err)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Diary{},
		&model.Goal{},
		&model.QuerySession{},
		&model.ResponseRecord{},
	); err != nil {
		return fmt.Errorf("failed to migrate tables: %v", err)
	}

	DB = db
	return nil
}

func wrapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
