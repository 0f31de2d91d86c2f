package router

import (
	"net/http"
	"tutor-agent-backend/controller"
	"tutor-agent-backend/middleware"

	"github.com/gin-gonic/gin"
)

func Register() *gin.Engine {
	r := gin.Default()
	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	api := r.Group("/api")
	{
		public := api.Group("/user")
		{
			public.POST("/register", controller.UserRegister)
			public.POST("/login", controller.UserLogin)
		}

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/user/me", controller.GetCurrentUser)
			protected.PUT("/user/password", controller.ChangePassword)
			protected.PUT("/user/scores", controller.UpdateScores)
			protected.PUT("/user/explain-level", controller.UpdateExplainLevel)
			protected.GET("/profile", controller.GetLearningProfile)
			protected.POST("/user/profile/refresh", controller.RefreshProfile)

			protected.POST("/query/text", controller.SubmitTextQuery)
			protected.POST("/query/image", controller.SubmitImageQuery)
			protected.POST("/query/:id/reveal", controller.RevealAnswer)
			protected.GET("/stream/:id", controller.StreamQuery)
			protected.GET("/result/:id", controller.GetQueryResult)

			protected.POST("/diary", controller.CreateDiary)
			protected.GET("/diaries", controller.GetDiaries)
			protected.DELETE("/diary/:id", controller.DeleteDiary)
			protected.GET("/diary/stats", controller.GetDiaryStats)
			protected.POST("/diary/:id/reflect", controller.ReflectDiary)

			protected.POST("/goal", controller.CreateGoal)
			protected.GET("/goals", controller.GetGoals)
			protected.PUT("/goal/:id", controller.UpdateGoal)
			protected.DELETE("/goal/:id", controller.DeleteGoal)
		}
	}

	return r
}
