package controller

import (
	"log/slog"
	"net/http"
	"strconv"
	"tutor-agent-backend/dao"
	"tutor-agent-backend/middleware"
	"tutor-agent-backend/model"
	"tutor-agent-backend/request"
	"tutor-agent-backend/response"

	"github.com/gin-gonic/gin"
)

func CreateGoal(c *gin.Context) {
	var req request.GoalCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error(ErrParseRequest.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	goal := &model.Goal{
		UserID:      middleware.UserID(c),
		Title:       req.Title,
		Description: req.Description,
		Status:      model.GoalStatusActive,
	}
	if err := dao.CreateGoal(goal); err != nil {
		slog.Error(ErrCreateGoal.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrCreateGoal.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, response.Response{Data: goal})
}

func GetGoals(c *gin.Context) {
	// 不带 status 参数时返回全部目标
	goals, err := dao.GetUserGoals(middleware.UserID(c), c.Query("status"))
	if err != nil {
		slog.Error(ErrGetGoals.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrGetGoals.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response.Response{Data: goals})
}

func UpdateGoal(c *gin.Context) {
	goalID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	var req request.GoalUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error(ErrParseRequest.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	updates := make(map[string]any)
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if len(updates) == 0 {
		c.JSON(http.StatusOK, response.Response{})
		return
	}

	if err := dao.UpdateGoal(uint(goalID), middleware.UserID(c), updates); err != nil {
		slog.Error(ErrUpdateGoal.Error(), "goal_id", goalID, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrUpdateGoal.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response.Response{})
}

func DeleteGoal(c *gin.Context) {
	goalID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	if err := dao.DeleteGoal(uint(goalID), middleware.UserID(c)); err != nil {
		slog.Error(ErrDeleteGoal.Error(), "goal_id", goalID, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrDeleteGoal.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response.Response{})
}
