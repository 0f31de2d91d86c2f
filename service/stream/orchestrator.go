package stream

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"tutor-agent-backend/model"
	"tutor-agent-backend/service/personalize"
	"tutor-agent-backend/service/prompt"
	"tutor-agent-backend/service/provider"
	"tutor-agent-backend/utils"
)

// Sink 事件出口；Send 返回错误视为调用方断开，整个流立即停止
type Sink interface {
	Send(event utils.SSEEvent) error
}

// Store 会话与结果的读写
type Store interface {
	GetSession(sessionID string) (*model.QuerySession, error)
	SaveRecord(record *model.ResponseRecord) error
}

// DiaryStore 日记复盘管线的依赖
type DiaryStore interface {
	GetDiary(diaryID, userID uint) (*model.Diary, error)
	ActiveGoals(userID uint) ([]model.Goal, error)
	SaveReflection(diaryID uint, emotional, goalAnalysis string) error
}

// ImageResolver 把会话里的图片对象键换成视觉模型可访问的 URL
type ImageResolver interface {
	ResolveURL(ctx context.Context, key string) (string, error)
}

const (
	msgSessionNotFound = "session not found"
	msgBadSessionKind  = "unknown session kind"
	msgSolveFailed     = "failed to generate answer"
	msgVerifyFailed    = "failed to verify answer"
	msgImageFailed     = "failed to load problem image"
	msgDiaryFailed     = "failed to load diary entry"
	msgSaveFailed      = "failed to save result"
)

// Orchestrator 单个会话的流式状态机。
// 依赖两个模型家族：文本推理与视觉；深度思考时第二阶段换用另一族交叉核查
type Orchestrator struct {
	Text   provider.Provider
	Vision provider.Provider

	Store   Store
	Diaries DiaryStore
	Images  ImageResolver
}

// Run 读取会话快照并驱动对应管线直至终态。
// 事件按模型 chunk 到达顺序原样转发；done 至多发送一次；
// 任何阶段失败只发送一个 error 事件且不落任何结果记录
func (o *Orchestrator) Run(ctx context.Context, sessionID string, sink Sink) {
	sess, err := o.Store.GetSession(sessionID)
	if err != nil {
		o.finish(ctx, sink, err, msgSessionNotFound)
		return
	}

	switch sess.Kind {
	case model.KindText, model.KindImage:
		o.runSingle(ctx, sess, sink)
	case model.KindTextDeep, model.KindImageDeep:
		o.runDeepThink(ctx, sess, sink)
	case model.KindDiary:
		o.runDiary(ctx, sess, sink)
	default:
		o.finish(ctx, sink, nil, msgBadSessionKind)
	}
}

// accumulator 单个阶段的双通道累积器；thinkingEvent 为空表示丢弃思考通道
type accumulator struct {
	thinkingEvent string
	answerEvent   string
	thinking      strings.Builder
	answer        strings.Builder
}

// runPhase 驱动一次模型调用，chunk 到达即转发，不缓冲不重排
func (o *Orchestrator) runPhase(ctx context.Context, p provider.Provider, req provider.Request, acc *accumulator, sink Sink) error {
	return p.Stream(ctx, req, func(chunk provider.Chunk) error {
		switch chunk.Kind {
		case provider.ChunkThinking:
			if acc.thinkingEvent == "" {
				return nil
			}
			acc.thinking.WriteString(chunk.Text)
			return sink.Send(utils.SSEEvent{Type: acc.thinkingEvent, Content: chunk.Text})
		case provider.ChunkAnswer:
			acc.answer.WriteString(chunk.Text)
			return sink.Send(utils.SSEEvent{Type: acc.answerEvent, Content: chunk.Text})
		default:
			// 终态 done 由编排器在记录落库后统一发送
			return nil
		}
	})
}

func (o *Orchestrator) runSingle(ctx context.Context, sess *model.QuerySession, sink Sink) {
	p, req, err := o.solveRequest(ctx, sess)
	if err != nil {
		o.finish(ctx, sink, err, msgImageFailed)
		return
	}

	acc := &accumulator{
		thinkingEvent: utils.EventThinking,
		answerEvent:   utils.EventAnswer,
	}
	if err := o.runPhase(ctx, p, req, acc, sink); err != nil {
		o.finish(ctx, sink, err, msgSolveFailed)
		return
	}

	record := &model.ResponseRecord{
		SessionID:   sess.SessionID,
		Thinking:    acc.thinking.String(),
		Answer:      acc.answer.String(),
		CompletedAt: time.Now(),
	}
	o.commit(ctx, sink, record)
}

func (o *Orchestrator) runDeepThink(ctx context.Context, sess *model.QuerySession, sink Sink) {
	p, req, err := o.solveRequest(ctx, sess)
	if err != nil {
		o.finish(ctx, sink, err, msgImageFailed)
		return
	}

	if err := sink.Send(stageEvent("solving", sess.Lang)); err != nil {
		return
	}

	solve := &accumulator{
		thinkingEvent: utils.EventThinking,
		answerEvent:   utils.EventAnswer,
	}
	if err := o.runPhase(ctx, p, req, solve, sink); err != nil {
		o.finish(ctx, sink, err, msgSolveFailed)
		return
	}

	// 第二阶段严格在第一阶段 done 之后开始，交由另一族模型核查
	if err := sink.Send(stageEvent("verifying", sess.Lang)); err != nil {
		return
	}

	verifier := o.Text
	if !sess.HasImage() {
		verifier = o.Vision
	}
	verifyReq := provider.Request{
		SystemPrompt: prompt.BuildVerifierSystemPrompt(sess.Subject, sess.Lang),
		Question:     prompt.BuildVerificationQuery(sess.Subject, sess.Lang, sess.Question, solve.answer.String()),
	}

	verify := &accumulator{
		thinkingEvent: utils.EventVerifyThinking,
		answerEvent:   utils.EventVerifyAnswer,
	}
	if err := o.runPhase(ctx, verifier, verifyReq, verify, sink); err != nil {
		o.finish(ctx, sink, err, msgVerifyFailed)
		return
	}

	record := &model.ResponseRecord{
		SessionID:      sess.SessionID,
		DeepThink:      true,
		Thinking:       solve.thinking.String(),
		Answer:         solve.answer.String(),
		VerifyThinking: verify.thinking.String(),
		VerifyAnswer:   verify.answer.String(),
		CompletedAt:    time.Now(),
	}
	o.commit(ctx, sink, record)
}

func (o *Orchestrator) runDiary(ctx context.Context, sess *model.QuerySession, sink Sink) {
	diary, err := o.Diaries.GetDiary(sess.DiaryID, sess.UserID)
	if err != nil {
		o.finish(ctx, sink, err, msgDiaryFailed)
		return
	}

	if err := sink.Send(stageEvent("emotional", sess.Lang)); err != nil {
		return
	}

	emotional := &accumulator{answerEvent: utils.EventEmotional}
	emotionalReq := provider.Request{
		SystemPrompt: prompt.BuildEmotionalSystemPrompt(sess.Lang),
		Question:     diary.Content,
	}
	if err := o.runPhase(ctx, o.Text, emotionalReq, emotional, sink); err != nil {
		o.finish(ctx, sink, err, msgSolveFailed)
		return
	}

	// 目标分析只有在调用方要求且存在激活目标时才进入
	goalAnalysis := &accumulator{answerEvent: utils.EventGoalAnalysis}
	if sess.AnalyzeGoals {
		goals, err := o.Diaries.ActiveGoals(sess.UserID)
		if err != nil {
			o.finish(ctx, sink, err, msgDiaryFailed)
			return
		}
		if len(goals) > 0 {
			if err := sink.Send(stageEvent("goal_analysis", sess.Lang)); err != nil {
				return
			}
			titles := make([]string, 0, len(goals))
			for _, g := range goals {
				titles = append(titles, g.Title)
			}
			goalReq := provider.Request{
				SystemPrompt: prompt.BuildGoalAnalysisSystemPrompt(sess.Lang),
				Question:     prompt.BuildGoalAnalysisQuery(sess.Lang, diary.Content, titles),
			}
			if err := o.runPhase(ctx, o.Text, goalReq, goalAnalysis, sink); err != nil {
				o.finish(ctx, sink, err, msgVerifyFailed)
				return
			}
		}
	}

	if err := o.Diaries.SaveReflection(sess.DiaryID, emotional.answer.String(), goalAnalysis.answer.String()); err != nil {
		o.finish(ctx, sink, err, msgSaveFailed)
		return
	}

	record := &model.ResponseRecord{
		SessionID:    sess.SessionID,
		Emotional:    emotional.answer.String(),
		GoalAnalysis: goalAnalysis.answer.String(),
		CompletedAt:  time.Now(),
	}
	o.commit(ctx, sink, record)
}

// solveRequest 选择解题模型并组装请求：带图走视觉族，否则走文本推理族
func (o *Orchestrator) solveRequest(ctx context.Context, sess *model.QuerySession) (provider.Provider, provider.Request, error) {
	pctx := composeContext(sess)
	baseline := prompt.SubjectBaseline(sess.Subject, sess.Lang, sess.DeepThink)

	question := sess.Question
	if sess.HasImage() {
		if question == "" {
			question = defaultImageQuestion(sess.Lang)
		}
		imageURL, err := o.Images.ResolveURL(ctx, sess.ImageKey)
		if err != nil {
			return nil, provider.Request{}, err
		}
		return o.Vision, provider.Request{
			SystemPrompt: prompt.BuildVisionSystemPrompt(baseline, pctx),
			Question:     question,
			ImageURL:     imageURL,
		}, nil
	}

	return o.Text, provider.Request{
		SystemPrompt: prompt.BuildTextSystemPrompt(baseline, pctx),
		Question:     question,
	}, nil
}

// composeContext 由会话快照还原提示词上下文；快照不变则组装结果逐字节一致
func composeContext(sess *model.QuerySession) prompt.Context {
	prefLevel := personalize.LevelAuto
	if sess.LevelSource == personalize.SourceManual {
		prefLevel = sess.Level
	}

	pctx := prompt.Context{
		Subject:   sess.Subject,
		Lang:      sess.Lang,
		Level:     sess.Level,
		Phase:     sess.Phase,
		Score:     sess.Score,
		PrefLevel: prefLevel,
		DeepThink: sess.DeepThink,
		HasImage:  sess.HasImage(),
	}
	if sess.ProfileUsed {
		pctx.Profile = personalize.Sanitize(sess.Profile)
	}
	return pctx
}

func defaultImageQuestion(lang string) string {
	if lang == prompt.LangEN {
		return "Please analyze the problem in this image and solve it in detail."
	}
	return "请分析这张图片中的题目并详细解答。"
}

func stageEvent(stage, lang string) utils.SSEEvent {
	messages := map[string][2]string{
		"solving":       {"正在深度分析问题...", "Analyzing the problem..."},
		"verifying":     {"正在验证答案...", "Verifying the answer..."},
		"emotional":     {"正在倾听你的日记...", "Reading your diary..."},
		"goal_analysis": {"正在分析目标进度...", "Reviewing your goals..."},
	}
	idx := 0
	if lang == prompt.LangEN {
		idx = 1
	}
	return utils.SSEEvent{
		Type:    utils.EventStage,
		Stage:   stage,
		Message: messages[stage][idx],
	}
}

// commit 先落库再发送终态 done；落库失败按错误终止，不发 done
func (o *Orchestrator) commit(ctx context.Context, sink Sink, record *model.ResponseRecord) {
	if ctx.Err() != nil {
		// 调用方已断开：不落库，保证已存在的记录只可能代表完整运行
		slog.Info("stream cancelled before commit", "session_id", record.SessionID)
		return
	}
	if err := o.Store.SaveRecord(record); err != nil {
		o.finish(ctx, sink, err, msgSaveFailed)
		return
	}
	_ = sink.Send(utils.SSEEvent{Type: utils.EventDone})
}

// finish 以 error 事件终止；调用方断开时静默返回，error 之后永远不再跟 done
func (o *Orchestrator) finish(ctx context.Context, sink Sink, err error, msg string) {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		slog.Info("stream cancelled by client", "err", err)
		return
	}
	slog.Error(msg, "err", err)
	_ = sink.Send(utils.SSEEvent{Type: utils.EventError, Message: msg})
}
