package provider

import (
	"context"
	"fmt"
	"time"
	"tutor-agent-backend/config"
	"tutor-agent-backend/utils"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// 流式输出耗时较长，统一配置 300s 超时
var llmHTTPClient = utils.NewHTTPClient(
	utils.WithTimeout(300 * time.Second),
)

// DeepSeek 文本推理家族：推理轨迹走 reasoning 增量，正文走 content 增量
type DeepSeek struct {
	llm *openai.LLM
}

var _ Provider = &DeepSeek{}

func NewDeepSeek() (*DeepSeek, error) {
	llm, err := openai.New(
		openai.WithModel(config.Cfg.DeepSeek.Model),
		openai.WithToken(config.Cfg.DeepSeek.APIKey),
		openai.WithBaseURL(config.Cfg.DeepSeek.BaseURL),
		openai.WithHTTPClient(llmHTTPClient),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create deepseek client: %v", err)
	}
	return &DeepSeek{llm: llm}, nil
}

func (d *DeepSeek) Name() string {
	return "deepseek"
}

func (d *DeepSeek) Stream(ctx context.Context, req Request, fn Handler) error {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, req.SystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, req.Question),
	}

	_, err := d.llm.GenerateContent(ctx, messages,
		llms.WithStreamingReasoningFunc(streamCallback(fn)),
	)
	if err != nil {
		return fmt.Errorf("deepseek stream failed: %w", err)
	}

	return fn(Chunk{Kind: ChunkDone})
}

// streamCallback 把 langchaingo 的推理/正文增量转成统一 chunk 回调
func streamCallback(fn Handler) func(ctx context.Context, reasoningChunk, chunk []byte) error {
	return func(ctx context.Context, reasoningChunk, chunk []byte) error {
		if len(reasoningChunk) > 0 {
			if err := fn(Chunk{Kind: ChunkThinking, Text: string(reasoningChunk)}); err != nil {
				return err
			}
		}
		if len(chunk) > 0 {
			if err := fn(Chunk{Kind: ChunkAnswer, Text: string(chunk)}); err != nil {
				return err
			}
		}
		return nil
	}
}
