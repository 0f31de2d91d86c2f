package provider

import (
	"context"
	"fmt"
	"tutor-agent-backend/config"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Doubao 视觉家族：走 Ark 的 OpenAI 兼容端点，题目图片以 URL 形式传入
type Doubao struct {
	llm *openai.LLM
}

var _ Provider = &Doubao{}

func NewDoubao() (*Doubao, error) {
	llm, err := openai.New(
		openai.WithModel(config.Cfg.Doubao.Model),
		openai.WithToken(config.Cfg.Doubao.APIKey),
		openai.WithBaseURL(config.Cfg.Doubao.BaseURL),
		openai.WithHTTPClient(llmHTTPClient),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create doubao client: %v", err)
	}
	return &Doubao{llm: llm}, nil
}

func (d *Doubao) Name() string {
	return "doubao"
}

func (d *Doubao) Stream(ctx context.Context, req Request, fn Handler) error {
	var userParts []llms.ContentPart
	if req.ImageURL != "" {
		userParts = append(userParts, llms.ImageURLPart(req.ImageURL))
	}
	userParts = append(userParts, llms.TextPart(req.Question))

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, req.SystemPrompt),
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: userParts,
		},
	}

	_, err := d.llm.GenerateContent(ctx, messages,
		llms.WithStreamingReasoningFunc(streamCallback(fn)),
	)
	if err != nil {
		return fmt.Errorf("doubao stream failed: %w", err)
	}

	return fn(Chunk{Kind: ChunkDone})
}
