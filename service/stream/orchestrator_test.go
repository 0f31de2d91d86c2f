package stream

import (
	"context"
	"errors"
	"strings"
	"testing"
	"tutor-agent-backend/dao"
	"tutor-agent-backend/model"
	"tutor-agent-backend/service/personalize"
	"tutor-agent-backend/service/prompt"
	"tutor-agent-backend/service/provider"
	"tutor-agent-backend/utils"
)

type fakeSink struct {
	events  []utils.SSEEvent
	sendErr error
}

func (s *fakeSink) Send(event utils.SSEEvent) error {
	if s.sendErr != nil {
		return s.sendErr
	}
	s.events = append(s.events, event)
	return nil
}

func (s *fakeSink) types() []string {
	types := make([]string, 0, len(s.events))
	for _, e := range s.events {
		types = append(types, e.Type)
	}
	return types
}

func (s *fakeSink) count(eventType string) int {
	n := 0
	for _, e := range s.events {
		if e.Type == eventType {
			n++
		}
	}
	return n
}

type fakeProvider struct {
	name    string
	chunks  []provider.Chunk
	err     error
	calls   int
	lastReq provider.Request
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Stream(ctx context.Context, req provider.Request, fn provider.Handler) error {
	p.calls++
	p.lastReq = req
	for _, chunk := range p.chunks {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(chunk); err != nil {
			return err
		}
	}
	if p.err != nil {
		return p.err
	}
	return fn(provider.Chunk{Kind: provider.ChunkDone})
}

type fakeStore struct {
	sessions map[string]*model.QuerySession
	records  []*model.ResponseRecord
	saveErr  error
}

func (s *fakeStore) GetSession(sessionID string) (*model.QuerySession, error) {
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, dao.ErrNotFound
	}
	return sess, nil
}

func (s *fakeStore) SaveRecord(record *model.ResponseRecord) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.records = append(s.records, record)
	return nil
}

type fakeDiaries struct {
	diary         *model.Diary
	goals         []model.Goal
	emotional     string
	goalAnalysis  string
	reflectionSet bool
}

func (d *fakeDiaries) GetDiary(diaryID, userID uint) (*model.Diary, error) {
	if d.diary == nil {
		return nil, dao.ErrNotFound
	}
	return d.diary, nil
}

func (d *fakeDiaries) ActiveGoals(userID uint) ([]model.Goal, error) {
	return d.goals, nil
}

func (d *fakeDiaries) SaveReflection(diaryID uint, emotional, goalAnalysis string) error {
	d.reflectionSet = true
	d.emotional = emotional
	d.goalAnalysis = goalAnalysis
	return nil
}

type fakeImages struct {
	url string
	err error
}

func (i *fakeImages) ResolveURL(ctx context.Context, key string) (string, error) {
	return i.url, i.err
}

func textSession(id string) *model.QuerySession {
	return &model.QuerySession{
		SessionID:   id,
		UserID:      1,
		Kind:        model.KindText,
		Question:    "为什么天空是蓝色的？",
		Subject:     "physics",
		Lang:        prompt.LangZH,
		Level:       personalize.LevelStandard,
		LevelSource: personalize.SourceDefault,
		Phase:       personalize.PhaseFull,
	}
}

func newTestOrchestrator(store *fakeStore) (*Orchestrator, *fakeProvider, *fakeProvider) {
	text := &fakeProvider{name: "text"}
	vision := &fakeProvider{name: "vision"}
	return &Orchestrator{
		Text:    text,
		Vision:  vision,
		Store:   store,
		Diaries: &fakeDiaries{},
		Images:  &fakeImages{url: "https://example.com/img.jpg"},
	}, text, vision
}

func TestRunTextSessionEventOrder(t *testing.T) {
	store := &fakeStore{sessions: map[string]*model.QuerySession{"s1": textSession("s1")}}
	o, text, vision := newTestOrchestrator(store)
	text.chunks = []provider.Chunk{
		{Kind: provider.ChunkThinking, Text: "思考1"},
		{Kind: provider.ChunkThinking, Text: "思考2"},
		{Kind: provider.ChunkAnswer, Text: "答案1"},
		{Kind: provider.ChunkAnswer, Text: "答案2"},
	}

	sink := &fakeSink{}
	o.Run(context.Background(), "s1", sink)

	want := []string{
		utils.EventThinking, utils.EventThinking,
		utils.EventAnswer, utils.EventAnswer,
		utils.EventDone,
	}
	got := sink.types()
	if len(got) != len(want) {
		t.Fatalf("got %d events %v, want %v", len(got), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d = %s, want %s", i, got[i], want[i])
		}
	}

	if vision.calls != 0 {
		t.Errorf("vision provider called %d times for text session", vision.calls)
	}
	if len(store.records) != 1 {
		t.Fatalf("got %d records, want 1", len(store.records))
	}
	rec := store.records[0]
	if rec.Thinking != "思考1思考2" || rec.Answer != "答案1答案2" {
		t.Errorf("record content = (%q, %q), chunks not accumulated in order", rec.Thinking, rec.Answer)
	}
	if rec.CompletedAt.IsZero() {
		t.Error("record CompletedAt not set")
	}
}

func TestRunSessionNotFound(t *testing.T) {
	store := &fakeStore{sessions: map[string]*model.QuerySession{}}
	o, _, _ := newTestOrchestrator(store)

	sink := &fakeSink{}
	o.Run(context.Background(), "missing", sink)

	if sink.count(utils.EventError) != 1 {
		t.Fatalf("got %d error events, want exactly 1", sink.count(utils.EventError))
	}
	if sink.count(utils.EventDone) != 0 {
		t.Error("done event emitted after error")
	}
	if len(store.records) != 0 {
		t.Error("record written for unknown session")
	}
}

func TestRunDeepThinkSequence(t *testing.T) {
	sess := textSession("s1")
	sess.Kind = model.KindTextDeep
	sess.DeepThink = true
	store := &fakeStore{sessions: map[string]*model.QuerySession{"s1": sess}}
	o, text, vision := newTestOrchestrator(store)
	text.chunks = []provider.Chunk{
		{Kind: provider.ChunkThinking, Text: "推导"},
		{Kind: provider.ChunkAnswer, Text: "最终答案"},
	}
	vision.chunks = []provider.Chunk{
		{Kind: provider.ChunkThinking, Text: "核查中"},
		{Kind: provider.ChunkAnswer, Text: "答案正确"},
	}

	sink := &fakeSink{}
	o.Run(context.Background(), "s1", sink)

	want := []string{
		utils.EventStage, utils.EventThinking, utils.EventAnswer,
		utils.EventStage, utils.EventVerifyThinking, utils.EventVerifyAnswer,
		utils.EventDone,
	}
	got := sink.types()
	if len(got) != len(want) {
		t.Fatalf("got events %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d = %s, want %s", i, got[i], want[i])
		}
	}
	if sink.events[0].Stage != "solving" || sink.events[3].Stage != "verifying" {
		t.Errorf("stage markers = (%s, %s), want (solving, verifying)", sink.events[0].Stage, sink.events[3].Stage)
	}

	// 核查阶段交给另一族模型，且输入携带第一阶段的完整答案
	if vision.calls != 1 {
		t.Fatalf("verifier (vision family) called %d times, want 1", vision.calls)
	}
	if !strings.Contains(vision.lastReq.Question, "最终答案") {
		t.Error("verification query does not contain the solver answer")
	}
	if vision.lastReq.ImageURL != "" {
		t.Error("verification request carries an image for a text session")
	}

	if len(store.records) != 1 {
		t.Fatalf("got %d records, want 1", len(store.records))
	}
	rec := store.records[0]
	if !rec.DeepThink {
		t.Error("record DeepThink flag not set")
	}
	if rec.Answer != "最终答案" || rec.VerifyAnswer != "答案正确" {
		t.Errorf("record answers = (%q, %q)", rec.Answer, rec.VerifyAnswer)
	}
}

func TestDeepThinkVerifyFailure(t *testing.T) {
	sess := textSession("s1")
	sess.Kind = model.KindTextDeep
	sess.DeepThink = true
	store := &fakeStore{sessions: map[string]*model.QuerySession{"s1": sess}}
	o, text, vision := newTestOrchestrator(store)
	text.chunks = []provider.Chunk{{Kind: provider.ChunkAnswer, Text: "答案"}}
	vision.chunks = []provider.Chunk{{Kind: provider.ChunkAnswer, Text: "部分核查"}}
	vision.err = errors.New("upstream closed")

	sink := &fakeSink{}
	o.Run(context.Background(), "s1", sink)

	if sink.count(utils.EventError) != 1 {
		t.Fatalf("got %d error events, want exactly 1", sink.count(utils.EventError))
	}
	got := sink.types()
	if got[len(got)-1] != utils.EventError {
		t.Errorf("last event = %s, want error to be terminal", got[len(got)-1])
	}
	if sink.count(utils.EventDone) != 0 {
		t.Error("done emitted after verify failure")
	}
	if len(store.records) != 0 {
		t.Error("partial record written after verify failure")
	}
}

func TestProviderErrorNoRecordNoDone(t *testing.T) {
	store := &fakeStore{sessions: map[string]*model.QuerySession{"s1": textSession("s1")}}
	o, text, _ := newTestOrchestrator(store)
	text.chunks = []provider.Chunk{{Kind: provider.ChunkThinking, Text: "开始"}}
	text.err = errors.New("rate limited")

	sink := &fakeSink{}
	o.Run(context.Background(), "s1", sink)

	if sink.count(utils.EventError) != 1 {
		t.Fatalf("got %d error events, want exactly 1", sink.count(utils.EventError))
	}
	if sink.count(utils.EventDone) != 0 {
		t.Error("done emitted after provider failure")
	}
	if len(store.records) != 0 {
		t.Error("record written for failed run")
	}
}

func TestCancelledRunWritesNothing(t *testing.T) {
	store := &fakeStore{sessions: map[string]*model.QuerySession{"s1": textSession("s1")}}
	o, text, _ := newTestOrchestrator(store)
	text.chunks = []provider.Chunk{{Kind: provider.ChunkAnswer, Text: "答"}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := &fakeSink{}
	o.Run(ctx, "s1", sink)

	if sink.count(utils.EventError) != 0 {
		t.Error("error event emitted for client cancellation")
	}
	if sink.count(utils.EventDone) != 0 {
		t.Error("done emitted for cancelled run")
	}
	if len(store.records) != 0 {
		t.Error("record written for cancelled run")
	}
}

func TestImageSessionUsesVisionFamily(t *testing.T) {
	sess := textSession("s1")
	sess.Kind = model.KindImage
	sess.Question = ""
	sess.ImageKey = "problem-images/1/abc.jpg"
	store := &fakeStore{sessions: map[string]*model.QuerySession{"s1": sess}}
	o, text, vision := newTestOrchestrator(store)
	vision.chunks = []provider.Chunk{{Kind: provider.ChunkAnswer, Text: "图中求斜面加速度"}}

	sink := &fakeSink{}
	o.Run(context.Background(), "s1", sink)

	if text.calls != 0 {
		t.Errorf("text provider called %d times for image session", text.calls)
	}
	if vision.calls != 1 {
		t.Fatalf("vision provider called %d times, want 1", vision.calls)
	}
	if vision.lastReq.ImageURL != "https://example.com/img.jpg" {
		t.Errorf("image url = %q, want the resolved presigned url", vision.lastReq.ImageURL)
	}
	if vision.lastReq.Question == "" {
		t.Error("empty question not replaced with the default image question")
	}
	if len(store.records) != 1 {
		t.Fatalf("got %d records, want 1", len(store.records))
	}
}

func TestImageResolveFailure(t *testing.T) {
	sess := textSession("s1")
	sess.Kind = model.KindImage
	sess.ImageKey = "problem-images/1/abc.jpg"
	store := &fakeStore{sessions: map[string]*model.QuerySession{"s1": sess}}
	o, _, vision := newTestOrchestrator(store)
	o.Images = &fakeImages{err: errors.New("oss unreachable")}

	sink := &fakeSink{}
	o.Run(context.Background(), "s1", sink)

	if vision.calls != 0 {
		t.Error("vision provider called despite image resolution failure")
	}
	if sink.count(utils.EventError) != 1 || sink.count(utils.EventDone) != 0 {
		t.Errorf("events = %v, want a single terminal error", sink.types())
	}
}

func TestDiaryPipelineWithoutActiveGoals(t *testing.T) {
	sess := textSession("s1")
	sess.Kind = model.KindDiary
	sess.DiaryID = 7
	sess.AnalyzeGoals = true
	store := &fakeStore{sessions: map[string]*model.QuerySession{"s1": sess}}
	o, text, _ := newTestOrchestrator(store)
	diaries := &fakeDiaries{diary: &model.Diary{Content: "今天物理考砸了"}}
	o.Diaries = diaries
	text.chunks = []provider.Chunk{{Kind: provider.ChunkAnswer, Text: "失利只是一次反馈"}}

	sink := &fakeSink{}
	o.Run(context.Background(), "s1", sink)

	if sink.count(utils.EventGoalAnalysis) != 0 {
		t.Error("goal analysis emitted with no active goals")
	}
	if sink.count(utils.EventEmotional) == 0 {
		t.Fatal("no emotional events emitted")
	}
	if sink.count(utils.EventDone) != 1 {
		t.Fatalf("got %d done events, want 1", sink.count(utils.EventDone))
	}
	if !diaries.reflectionSet || diaries.emotional != "失利只是一次反馈" {
		t.Errorf("diary reflection not saved, got %q", diaries.emotional)
	}
	if diaries.goalAnalysis != "" {
		t.Errorf("goal analysis saved = %q, want empty", diaries.goalAnalysis)
	}
}

func TestDiaryPipelineWithGoals(t *testing.T) {
	sess := textSession("s1")
	sess.Kind = model.KindDiary
	sess.DiaryID = 7
	sess.AnalyzeGoals = true
	store := &fakeStore{sessions: map[string]*model.QuerySession{"s1": sess}}
	o, text, _ := newTestOrchestrator(store)
	diaries := &fakeDiaries{
		diary: &model.Diary{Content: "刷完了两套电磁学卷子"},
		goals: []model.Goal{{Title: "电磁学专题突破"}},
	}
	o.Diaries = diaries
	text.chunks = []provider.Chunk{{Kind: provider.ChunkAnswer, Text: "回应"}}

	sink := &fakeSink{}
	o.Run(context.Background(), "s1", sink)

	if sink.count(utils.EventGoalAnalysis) == 0 {
		t.Fatal("no goal analysis events despite active goals")
	}
	// 两个阶段共用文本族模型：情绪回应一次、目标分析一次
	if text.calls != 2 {
		t.Errorf("text provider called %d times, want 2", text.calls)
	}
	if !strings.Contains(text.lastReq.Question, "电磁学专题突破") {
		t.Error("goal analysis query does not mention the active goal title")
	}
	if diaries.goalAnalysis == "" {
		t.Error("goal analysis not saved to diary")
	}
	if len(store.records) != 1 {
		t.Fatalf("got %d records, want 1", len(store.records))
	}
}

func TestSaveFailureEmitsErrorNotDone(t *testing.T) {
	store := &fakeStore{
		sessions: map[string]*model.QuerySession{"s1": textSession("s1")},
		saveErr:  errors.New("db down"),
	}
	o, text, _ := newTestOrchestrator(store)
	text.chunks = []provider.Chunk{{Kind: provider.ChunkAnswer, Text: "答"}}

	sink := &fakeSink{}
	o.Run(context.Background(), "s1", sink)

	if sink.count(utils.EventDone) != 0 {
		t.Error("done emitted although the record was never written")
	}
	if sink.count(utils.EventError) != 1 {
		t.Errorf("got %d error events, want 1", sink.count(utils.EventError))
	}
}
