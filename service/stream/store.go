package stream

import (
	"context"
	"tutor-agent-backend/dao"
	"tutor-agent-backend/model"
	"tutor-agent-backend/service/imagestore"
	"tutor-agent-backend/service/provider"
)

type dbStore struct{}

func (dbStore) GetSession(sessionID string) (*model.QuerySession, error) {
	return dao.GetQuerySession(sessionID)
}

func (dbStore) SaveRecord(record *model.ResponseRecord) error {
	return dao.SaveResponseRecord(record)
}

type dbDiaryStore struct{}

func (dbDiaryStore) GetDiary(diaryID, userID uint) (*model.Diary, error) {
	return dao.GetDiaryByID(diaryID, userID)
}

func (dbDiaryStore) ActiveGoals(userID uint) ([]model.Goal, error) {
	return dao.GetUserGoals(userID, model.GoalStatusActive)
}

func (dbDiaryStore) SaveReflection(diaryID uint, emotional, goalAnalysis string) error {
	if err := dao.UpdateDiaryAIResponse(diaryID, emotional); err != nil {
		return err
	}
	if goalAnalysis == "" {
		return nil
	}
	return dao.UpdateDiaryGoalAnalysis(diaryID, goalAnalysis)
}

type ossImageResolver struct{}

func (ossImageResolver) ResolveURL(ctx context.Context, key string) (string, error) {
	return imagestore.PresignURL(ctx, key)
}

// OrchestratorInstance 全局编排器单例，启动时由 Init 填充
var OrchestratorInstance *Orchestrator

func Init() error {
	o, err := NewOrchestrator()
	if err != nil {
		return err
	}
	OrchestratorInstance = o
	return nil
}

// NewOrchestrator 组装生产环境依赖：MySQL 存储、OSS 图片、双模型家族
func NewOrchestrator() (*Orchestrator, error) {
	text, err := provider.NewDeepSeek()
	if err != nil {
		return nil, err
	}
	vision, err := provider.NewDoubao()
	if err != nil {
		return nil, err
	}
	return &Orchestrator{
		Text:    text,
		Vision:  vision,
		Store:   dbStore{},
		Diaries: dbDiaryStore{},
		Images:  ossImageResolver{},
	}, nil
}
