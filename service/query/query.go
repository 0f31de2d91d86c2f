package query

import (
	"encoding/json"
	"errors"
	"time"
	"tutor-agent-backend/dao"
	"tutor-agent-backend/model"
	"tutor-agent-backend/request"
	"tutor-agent-backend/service/personalize"
	"tutor-agent-backend/service/prompt"
)

var ErrNotOwner = errors.New("session does not belong to user")

// CreateTextSession 固化一次文字提问的完整快照。
// 层级、阶段、画像在此刻确定，之后流式阶段只读快照，重试也不再重新推导
func CreateTextSession(userID uint, req request.TextQueryRequest) (*model.QuerySession, error) {
	user, err := dao.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	sess := buildSnapshot(user, req.Subject, req.Lang, req.Level, req.DeepThink, req.UseProfile)
	sess.Kind = model.KindText
	if req.DeepThink {
		sess.Kind = model.KindTextDeep
	}
	sess.Question = req.Question

	if err := dao.CreateQuerySession(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// CreateImageSession 图片题快照，imageKey 为已上传到 OSS 的对象键
func CreateImageSession(userID uint, req request.ImageQueryRequest, imageKey string) (*model.QuerySession, error) {
	user, err := dao.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	sess := buildSnapshot(user, req.Subject, req.Lang, req.Level, req.DeepThink, req.UseProfile)
	sess.Kind = model.KindImage
	if req.DeepThink {
		sess.Kind = model.KindImageDeep
	}
	sess.Question = req.Question
	sess.ImageKey = imageKey

	if err := dao.CreateQuerySession(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// CreateDiarySession 日记复盘快照，目标分析按请求开关
func CreateDiarySession(userID, diaryID uint, req request.DiaryReflectRequest) (*model.QuerySession, error) {
	// 校验日记归属
	if _, err := dao.GetDiaryByID(diaryID, userID); err != nil {
		return nil, err
	}

	sess := &model.QuerySession{
		SessionID:    dao.NewSessionID(),
		UserID:       userID,
		Kind:         model.KindDiary,
		Lang:         normalizeLang(req.Lang),
		DiaryID:      diaryID,
		AnalyzeGoals: req.AnalyzeGoals,
	}
	if err := dao.CreateQuerySession(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// RevealAnswer 把引导式会话提升到完整讲解阶段。
// 原会话保持不变，提升产生一个指向它的新会话，由调用方再次走流式接口
func RevealAnswer(userID uint, sessionID string) (*model.QuerySession, error) {
	orig, err := dao.GetQuerySession(sessionID)
	if err != nil {
		return nil, err
	}
	if orig.UserID != userID {
		return nil, ErrNotOwner
	}
	if err := personalize.CanPromote(orig.Level, orig.Phase); err != nil {
		return nil, err
	}

	promoted := *orig
	promoted.ID = 0
	promoted.CreatedAt = time.Time{}
	promoted.SessionID = dao.NewSessionID()
	promoted.Phase = personalize.PhaseFull
	promoted.ParentID = orig.SessionID

	if err := dao.CreateQuerySession(&promoted); err != nil {
		return nil, err
	}
	return &promoted, nil
}

// GetResult 取回已完成会话的最终内容
func GetResult(userID uint, sessionID string) (*model.QuerySession, *model.ResponseRecord, error) {
	sess, err := dao.GetQuerySession(sessionID)
	if err != nil {
		return nil, nil, err
	}
	if sess.UserID != userID {
		return nil, nil, ErrNotOwner
	}

	record, err := dao.GetResponseRecord(sessionID)
	if err != nil {
		return nil, nil, err
	}
	return sess, record, nil
}

func buildSnapshot(user *model.User, subject, lang, manualLevel string, deepThink, useProfile bool) *model.QuerySession {
	score := user.SubjectScore(subject)
	res := personalize.Resolve(manualLevel, user.DefaultExplainLevel, score)

	sess := &model.QuerySession{
		SessionID:   dao.NewSessionID(),
		UserID:      user.ID,
		Subject:     subject,
		Lang:        normalizeLang(lang),
		DeepThink:   deepThink,
		Level:       res.Level,
		LevelSource: res.Source,
		Phase:       res.Phase,
		Score:       score,
	}

	// 画像只有在调用方要求且净化后非空时才进入快照
	if useProfile {
		safe := personalize.Sanitize(user.LearningProfile)
		if !safe.IsEmpty() {
			if data, err := json.Marshal(safe); err == nil {
				sess.Profile = data
				sess.ProfileUsed = true
			}
		}
	}
	return sess
}

func normalizeLang(lang string) string {
	if lang == prompt.LangEN {
		return prompt.LangEN
	}
	return prompt.LangZH
}
