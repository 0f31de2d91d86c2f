package profile

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/apache/rocketmq-client-go/v2/primitive"
)

type RefreshMessage struct {
	UserID uint `json:"user_id"`
	Force  bool `json:"force"`
}

// HandleRefreshMessage 消费画像刷新消息，任务入队后即确认
func HandleRefreshMessage(ctx context.Context, msg *primitive.MessageExt) error {
	var m RefreshMessage
	if err := json.Unmarshal(msg.Body, &m); err != nil {
		return fmt.Errorf("failed to unmarshal refresh message: %v", err)
	}
	if m.UserID == 0 {
		return fmt.Errorf("refresh message missing user_id")
	}

	BuilderInstance.RegisterRebuildTask(RebuildTask{UserID: m.UserID, Force: m.Force})
	return nil
}
