package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"tutor-agent-backend/dao"
	"tutor-agent-backend/middleware"
	"tutor-agent-backend/model"
	"tutor-agent-backend/request"
	"tutor-agent-backend/response"
	"tutor-agent-backend/service/imagestore"
	"tutor-agent-backend/service/personalize"
	"tutor-agent-backend/service/query"

	"github.com/gin-gonic/gin"
)

func SubmitTextQuery(c *gin.Context) {
	var req request.TextQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error(ErrParseRequest.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	sess, err := query.CreateTextSession(middleware.UserID(c), req)
	if err != nil {
		slog.Error(ErrCreateQuery.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrCreateQuery.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, response.Response{
		Data: sessionResponse(sess),
	})
}

func SubmitImageQuery(c *gin.Context) {
	var req request.ImageQueryRequest
	if err := c.ShouldBind(&req); err != nil {
		slog.Error(ErrParseRequest.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		slog.Error(ErrParseRequest.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	src, err := file.Open()
	if err != nil {
		slog.Error(ErrUploadImage.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrUploadImage.Error(),
		})
		return
	}
	defer src.Close()

	userID := middleware.UserID(c)
	imageKey, err := imagestore.Upload(c.Request.Context(), userID, file.Filename, src)
	if err != nil {
		slog.Error(ErrUploadImage.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrUploadImage.Error(),
		})
		return
	}

	sess, err := query.CreateImageSession(userID, req, imageKey)
	if err != nil {
		slog.Error(ErrCreateQuery.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrCreateQuery.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, response.Response{
		Data: sessionResponse(sess),
	})
}

// RevealAnswer 引导阶段结束后索取完整讲解，返回新的会话
func RevealAnswer(c *gin.Context) {
	sess, err := query.RevealAnswer(middleware.UserID(c), c.Param("id"))
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, dao.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, query.ErrNotOwner):
			status = http.StatusForbidden
		case errors.Is(err, personalize.ErrNotPromotable):
			status = http.StatusConflict
		}
		slog.Error(ErrRevealAnswer.Error(), "session_id", c.Param("id"), "err", err)
		c.AbortWithStatusJSON(status, response.Response{
			Msg: ErrRevealAnswer.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, response.Response{
		Data: sessionResponse(sess),
	})
}

func GetQueryResult(c *gin.Context) {
	sess, record, err := query.GetResult(middleware.UserID(c), c.Param("id"))
	if err != nil {
		status := http.StatusInternalServerError
		msg := ErrGetQueryResult
		switch {
		case errors.Is(err, query.ErrNotOwner):
			status = http.StatusForbidden
			msg = ErrSessionOwner
		case errors.Is(err, dao.ErrNotFound):
			// 会话存在但尚未完成时结果记录还没写入
			status = http.StatusNotFound
			msg = ErrResultNotReady
		}
		slog.Error(msg.Error(), "session_id", c.Param("id"), "err", err)
		c.AbortWithStatusJSON(status, response.Response{
			Msg: msg.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response.Response{
		Data: response.QueryResultResponse{
			SessionID:      sess.SessionID,
			Kind:           sess.Kind,
			Question:       sess.Question,
			Subject:        sess.Subject,
			Level:          sess.Level,
			Phase:          sess.Phase,
			DeepThink:      sess.DeepThink,
			Thinking:       record.Thinking,
			Answer:         record.Answer,
			VerifyThinking: record.VerifyThinking,
			VerifyAnswer:   record.VerifyAnswer,
			Emotional:      record.Emotional,
			GoalAnalysis:   record.GoalAnalysis,
			CompletedAt:    record.CompletedAt,
		},
	})
}

func sessionResponse(sess *model.QuerySession) response.QuerySessionResponse {
	return response.QuerySessionResponse{
		SessionID:   sess.SessionID,
		Kind:        sess.Kind,
		Level:       sess.Level,
		LevelSource: sess.LevelSource,
		Phase:       sess.Phase,
		ParentID:    sess.ParentID,
	}
}
