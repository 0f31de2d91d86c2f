package utils

import (
	"encoding/json"
	"fmt"

	"github.com/gin-gonic/gin"
)

const (
	EventThinking       = "thinking"
	EventAnswer         = "answer"
	EventVerifyThinking = "verify_thinking"
	EventVerifyAnswer   = "verify_answer"
	EventStage          = "stage"
	EventEmotional      = "emotional"
	EventGoalAnalysis   = "goal_analysis"
	EventDone           = "done"
	EventError          = "error"
)

// SSEEvent 流式事件，每个事件序列化为一行 JSON
type SSEEvent struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
	Stage   string `json:"stage,omitempty"`
	Message string `json:"message,omitempty"`
}

func SetSSEHeaders(c *gin.Context) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("Transfer-Encoding", "chunked")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
}

// SendSSEEvent 发送单个事件并立即刷新
func SendSSEEvent(c *gin.Context, event SSEEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(c.Writer, "data: %s\n\n", data); err != nil {
		return err
	}
	c.Writer.Flush()
	return nil
}
