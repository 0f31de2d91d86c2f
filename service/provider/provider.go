package provider

import "context"

type ChunkKind string

const (
	ChunkThinking ChunkKind = "thinking"
	ChunkAnswer   ChunkKind = "answer"
	ChunkDone     ChunkKind = "done"
)

// Chunk 模型输出的最小单元：思考增量、答案增量或结束标记
type Chunk struct {
	Kind ChunkKind
	Text string
}

// Request 一次模型调用的输入；ImageURL 仅视觉模型使用
type Request struct {
	SystemPrompt string
	Question     string
	ImageURL     string
}

// Handler 按到达顺序处理 chunk；返回错误会中止整个流
type Handler func(chunk Chunk) error

// Provider 两类模型后端的统一流式契约。
// 实现必须：按网络到达顺序回调 fn；成功时恰好回调一次 done；
// 传输失败时返回非空错误且不再回调 done
type Provider interface {
	Name() string
	Stream(ctx context.Context, req Request, fn Handler) error
}
