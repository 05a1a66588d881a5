package router

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/moodlog/internal/handler"
	"github.com/moodlog/internal/metrics"
)

const sessionCookieName = "moodlog_session"

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(sessionSecret string, api *handler.API, m *metrics.Metrics) *gin.Engine {
	r := gin.Default()
	r.Use(m.Middleware())

	// 配置会话中间件
	if sessionSecret == "" {
		sessionSecret = "moodlog-dev-secret"
	}
	store := cookie.NewStore([]byte(sessionSecret))
	store.Options(sessions.Options{Path: "/", MaxAge: 30 * 24 * 3600, HttpOnly: true})
	r.Use(sessions.Sessions(sessionCookieName, store))
	r.Use(handler.LocaleMiddleware())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})
	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/auth/login", api.Login)
		apiGroup.POST("/auth/logout", api.Logout)

		auth := apiGroup.Group("")
		auth.Use(handler.AuthRequired())
		{
			// 远端存储接口，CLI 通过它同步
			auth.GET("/checkins", api.ListCheckIns)
			auth.POST("/checkins", api.CreateCheckIn)
			auth.GET("/journal", api.ListJournalEntries)
			auth.GET("/journal/counts", api.JournalCounts)
			auth.POST("/journal", api.CreateJournalEntry)
			auth.PUT("/journal/:id", api.UpdateJournalEntry)
			auth.DELETE("/journal/:id", api.DeleteJournalEntry)

			auth.GET("/activities", api.ListActivitySessions)
			auth.POST("/activities", api.CreateActivitySession)

			auth.GET("/profile", api.GetProfile)
			auth.PUT("/profile", api.SaveProfile)

			auth.GET("/settings", api.GetSettings)
			auth.PUT("/settings", api.UpdateSettings)

			wellbeing := auth.Group("/wellbeing")
			{
				wellbeing.POST("/sync", api.SyncRecords)
				wellbeing.GET("/state", api.GetState)
				wellbeing.GET("/aggregates", api.GetDailyAggregates)
				wellbeing.GET("/score", api.GetWellbeingScore)
				wellbeing.GET("/daily-score", api.GetDailyScore)
				wellbeing.GET("/streak", api.GetStreak)
				wellbeing.GET("/today", api.GetToday)
				wellbeing.POST("/checkins", api.AddCheckIn)
				wellbeing.GET("/journal", api.ListSessionJournal)
				wellbeing.POST("/journal", api.AddJournalEntry)
				wellbeing.PUT("/journal/:id", api.EditJournalEntry)
				wellbeing.DELETE("/journal/:id", api.RemoveJournalEntry)
				wellbeing.GET("/activities", api.ListSessionActivities)
				wellbeing.POST("/activities", api.AddActivitySession)
				wellbeing.GET("/heavy-card", api.GetHeavyCard)
				wellbeing.POST("/heavy-card/shown", api.MarkHeavyCardShown)
				wellbeing.POST("/heavy-card/dismissed", api.MarkHeavyCardDismissed)
				wellbeing.DELETE("/data", api.ClearLocalData)
			}
		}
	}

	return r
}
