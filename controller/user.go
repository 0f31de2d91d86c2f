package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"tutor-agent-backend/dao"
	"tutor-agent-backend/middleware"
	"tutor-agent-backend/request"
	"tutor-agent-backend/response"
	"tutor-agent-backend/service/auth"
	"tutor-agent-backend/service/mq"
	"tutor-agent-backend/service/profile"

	"github.com/gin-gonic/gin"
)

func GetCurrentUser(c *gin.Context) {
	user, err := dao.GetUserByID(middleware.UserID(c))
	if err != nil {
		slog.Error(ErrGetUser.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrGetUser.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response.Response{Data: user})
}

func UpdateScores(c *gin.Context) {
	var req request.UpdateScoresRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error(ErrParseRequest.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	if err := dao.UpdateUserScores(middleware.UserID(c), req.PhysicsScore, req.ChemistryScore); err != nil {
		slog.Error(ErrUpdateScores.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrUpdateScores.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response.Response{})
}

func ChangePassword(c *gin.Context) {
	var req request.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error(ErrParseRequest.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	if err := auth.ChangePassword(middleware.UserID(c), req); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, auth.ErrWrongPassword) {
			status = http.StatusForbidden
		}
		slog.Error(ErrChangePassword.Error(), "err", err)
		c.AbortWithStatusJSON(status, response.Response{
			Msg: ErrChangePassword.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response.Response{})
}

func UpdateExplainLevel(c *gin.Context) {
	var req request.UpdateLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error(ErrParseRequest.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	if err := dao.UpdateUserDefaultLevel(middleware.UserID(c), req.Level); err != nil {
		slog.Error(ErrUpdateLevel.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrUpdateLevel.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response.Response{})
}

// RefreshProfile 手动触发学习画像重建，无视保鲜期
func RefreshProfile(c *gin.Context) {
	userID := middleware.UserID(c)
	err := mq.SendMessage(c.Request.Context(), &mq.Message{
		Topic:   mq.TopicProfile,
		Tag:     mq.TagRefresh,
		Payload: profile.RefreshMessage{UserID: userID, Force: true},
	})
	if err != nil {
		slog.Error(ErrRefreshSignal.Error(), "user_id", userID, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrRefreshSignal.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, response.Response{})
}

// GetLearningProfile 读取学习画像；画像过期时顺手投递一条重建消息
func GetLearningProfile(c *gin.Context) {
	userID := middleware.UserID(c)
	user, err := dao.GetUserByID(userID)
	if err != nil {
		slog.Error(ErrGetUser.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrGetUser.Error(),
		})
		return
	}

	stale := user.ProfileStale()
	if stale {
		err := mq.SendMessage(c.Request.Context(), &mq.Message{
			Topic:   mq.TopicProfile,
			Tag:     mq.TagRefresh,
			Payload: profile.RefreshMessage{UserID: userID},
		})
		if err != nil {
			slog.Warn("Failed to enqueue profile refresh on stale read", "user_id", userID, "err", err)
		}
	}

	c.JSON(http.StatusOK, response.Response{Data: response.LearningProfileResponse{
		Profile:   user.LearningProfile,
		UpdatedAt: user.ProfileUpdatedAt,
		Stale:     stale,
	}})
}
