package profile

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"text/template"
	"tutor-agent-backend/config"
	"tutor-agent-backend/dao"
	"tutor-agent-backend/model"
	"tutor-agent-backend/service/personalize"
	"tutor-agent-backend/utils"

	"github.com/avast/retry-go/v4"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	// 画像提炼不需要推理链，用对话模型更快更省
	modelName = "deepseek-chat"

	taskChanSize = 100
	workerNum    = 4
	llmAttempts  = 3

	recentDays     = 30
	maxDiaries     = 30
	maxDiaryRunes  = 400
	maxCorpusRunes = 6000
)

//go:embed prompts/profile.txt
var profilePrompt string

// 模型偶尔会在 JSON 前后夹带说明文字，只取第一个对象
var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

type RebuildTask struct {
	UserID uint
	// Force 为 false 时画像在保鲜期内就跳过重建
	Force bool
}

// Builder 后台重建学习画像的工作池
type Builder struct {
	llm      llms.Model
	taskChan chan RebuildTask
}

// BuilderInstance Builder 单例，启动时由 Init 填充
var BuilderInstance *Builder

func Init() error {
	httpClient := utils.DefaultHTTPClient()
	llm, err := openai.New(
		openai.WithModel(modelName),
		openai.WithToken(config.Cfg.DeepSeek.APIKey),
		openai.WithBaseURL(config.Cfg.DeepSeek.BaseURL),
		openai.WithHTTPClient(httpClient),
	)
	if err != nil {
		return fmt.Errorf("failed to create profile llm client: %v", err)
	}

	BuilderInstance = &Builder{
		llm:      llm,
		taskChan: make(chan RebuildTask, taskChanSize),
	}
	return nil
}

func (b *Builder) Run() {
	ctx := context.Background()
	for i := 1; i <= workerNum; i++ {
		go b.executeRebuild(ctx, i)
	}
}

func (b *Builder) RegisterRebuildTask(task RebuildTask) {
	b.taskChan <- task
}

func (b *Builder) executeRebuild(ctx context.Context, id int) {
	slog.Info("Starting profile worker", "worker_id", id)
	defer slog.Info("Profile worker exit", "worker_id", id)

	for task := range b.taskChan {
		select {
		case <-ctx.Done():
			slog.Info("Profile worker shutting down", "worker_id", id)
			return
		default:
			if err := b.Rebuild(ctx, task.UserID, task.Force); err != nil {
				slog.Error("Failed to rebuild learning profile",
					"user_id", task.UserID,
					"err", err,
				)
			}
		}
	}
}

// Rebuild 用最近日记重建一名学生的学习画像。
// 非强制重建时保鲜期内直接跳过；日记不足时保留旧画像不动
func (b *Builder) Rebuild(ctx context.Context, userID uint, force bool) error {
	if !force {
		user, err := dao.GetUserByID(userID)
		if err != nil {
			return fmt.Errorf("failed to load user: %v", err)
		}
		if !user.ProfileStale() {
			slog.Info("Profile still fresh, skipping rebuild", "user_id", userID)
			return nil
		}
	}

	diaries, err := dao.GetRecentDiaries(userID, recentDays, maxDiaries)
	if err != nil {
		return fmt.Errorf("failed to load recent diaries: %v", err)
	}
	corpus := buildCorpus(diaries)
	if corpus == "" {
		slog.Info("No recent diaries, keeping existing profile", "user_id", userID)
		return nil
	}

	promptText, err := renderPrompt(corpus)
	if err != nil {
		return err
	}

	var raw string
	err = retry.Do(
		func() error {
			var callErr error
			raw, callErr = llms.GenerateFromSinglePrompt(ctx, b.llm, promptText)
			return callErr
		},
		retry.Attempts(llmAttempts),
		retry.DelayType(retry.BackOffDelay),
		retry.OnRetry(func(n uint, err error) {
			slog.Warn("Retrying profile llm call",
				"attempt", n+1,
				"user_id", userID,
				"err", err)
		}),
	)
	if err != nil {
		return fmt.Errorf("profile llm call failed after retries: %v", err)
	}

	safe := extractProfile(raw)
	if safe.IsEmpty() {
		return fmt.Errorf("llm output contains no usable profile: %q", raw)
	}

	data, err := json.Marshal(safe)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %v", err)
	}
	if err := dao.UpdateUserLearningProfile(userID, data); err != nil {
		return fmt.Errorf("failed to save profile: %v", err)
	}

	slog.Info("Learning profile rebuilt", "user_id", userID)
	return nil
}

func renderPrompt(corpus string) (string, error) {
	tmpl, err := template.New("prompt").Parse(profilePrompt)
	if err != nil {
		return "", fmt.Errorf("failed to parse prompt template: %v", err)
	}

	var buf bytes.Buffer
	data := struct{ Corpus string }{Corpus: corpus}
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %v", err)
	}
	return buf.String(), nil
}

// buildCorpus 拼接日记正文：单篇截断，总量封顶，最近的优先
func buildCorpus(diaries []model.Diary) string {
	var buf bytes.Buffer
	total := 0
	for _, d := range diaries {
		entry := truncateRunes(d.Content, maxDiaryRunes)
		if entry == "" {
			continue
		}
		runes := len([]rune(entry))
		if total+runes > maxCorpusRunes {
			break
		}
		if buf.Len() > 0 {
			buf.WriteString("\n---\n")
		}
		buf.WriteString(entry)
		total += runes
	}
	return buf.String()
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// extractProfile 从模型输出中抓取 JSON 并过净化层，抓不到则返回空画像
func extractProfile(raw string) personalize.SafeProfile {
	match := jsonObjectPattern.FindString(raw)
	if match == "" {
		return personalize.SafeProfile{}
	}
	return personalize.Sanitize(match)
}
