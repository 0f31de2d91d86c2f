package controller

import (
	"tutor-agent-backend/dao"
	"tutor-agent-backend/middleware"
	"tutor-agent-backend/service/stream"
	"tutor-agent-backend/utils"

	"github.com/gin-gonic/gin"
)

type ginSink struct {
	c *gin.Context
}

func (s ginSink) Send(event utils.SSEEvent) error {
	return utils.SendSSEEvent(s.c, event)
}

var getQuerySession = dao.GetQuerySession

// StreamQuery 以 SSE 推送一次会话的流式回答
func StreamQuery(c *gin.Context) {
	utils.SetSSEHeaders(c)

	sessionID := c.Param("id")
	sess, err := getQuerySession(sessionID)
	if err != nil || sess.UserID != middleware.UserID(c) {
		// 归属失败和不存在同样处理，不泄露他人会话的存在性
		utils.SendSSEEvent(c, utils.SSEEvent{
			Type:    utils.EventError,
			Message: "session not found",
		})
		return
	}

	// 客户端断开时 Request.Context 即被 http.Server 取消，编排器据此终止
	stream.OrchestratorInstance.Run(c.Request.Context(), sessionID, ginSink{c: c})
}
