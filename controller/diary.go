package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"tutor-agent-backend/dao"
	"tutor-agent-backend/middleware"
	"tutor-agent-backend/model"
	"tutor-agent-backend/request"
	"tutor-agent-backend/response"
	"tutor-agent-backend/service/mq"
	"tutor-agent-backend/service/profile"
	"tutor-agent-backend/service/query"

	"github.com/gin-gonic/gin"
)

const defaultDiaryPageSize = 20

func CreateDiary(c *gin.Context) {
	var req request.DiaryCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error(ErrParseRequest.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	userID := middleware.UserID(c)
	diary := &model.Diary{
		UserID:    userID,
		Content:   req.Content,
		MoodScore: req.MoodScore,
	}
	if err := dao.CreateDiary(diary); err != nil {
		slog.Error(ErrCreateDiary.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrCreateDiary.Error(),
		})
		return
	}

	// 新日记异步触发学习画像重建，失败不影响日记创建
	err := mq.SendMessage(c.Request.Context(), &mq.Message{
		Topic:   mq.TopicProfile,
		Tag:     mq.TagRefresh,
		Payload: profile.RefreshMessage{UserID: userID},
	})
	if err != nil {
		slog.Error(ErrRefreshSignal.Error(), "user_id", userID, "err", err)
	}

	c.JSON(http.StatusCreated, response.Response{Data: diary})
}

func GetDiaries(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultDiaryPageSize)))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	diaries, err := dao.GetUserDiaries(middleware.UserID(c), limit, offset)
	if err != nil {
		slog.Error(ErrGetDiaries.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrGetDiaries.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response.Response{Data: diaries})
}

func DeleteDiary(c *gin.Context) {
	diaryID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	if err := dao.DeleteDiary(uint(diaryID), middleware.UserID(c)); err != nil {
		slog.Error(ErrDeleteDiary.Error(), "diary_id", diaryID, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrDeleteDiary.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response.Response{})
}

func GetDiaryStats(c *gin.Context) {
	userID := middleware.UserID(c)

	hasToday, err := dao.HasDiaryToday(userID)
	if err != nil {
		slog.Error(ErrDiaryStats.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrDiaryStats.Error(),
		})
		return
	}

	streak, err := dao.GetDiaryStreak(userID)
	if err != nil {
		slog.Error(ErrDiaryStats.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrDiaryStats.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response.Response{
		Data: response.DiaryStatsResponse{
			HasToday: hasToday,
			Streak:   streak,
		},
	})
}

// ReflectDiary 为一篇日记创建复盘会话，回答走流式接口
func ReflectDiary(c *gin.Context) {
	diaryID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	var req request.DiaryReflectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error(ErrParseRequest.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	sess, err := query.CreateDiarySession(middleware.UserID(c), uint(diaryID), req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, dao.ErrNotFound) {
			status = http.StatusNotFound
		}
		slog.Error(ErrReflectDiary.Error(), "diary_id", diaryID, "err", err)
		c.AbortWithStatusJSON(status, response.Response{
			Msg: ErrReflectDiary.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, response.Response{
		Data: sessionResponse(sess),
	})
}
