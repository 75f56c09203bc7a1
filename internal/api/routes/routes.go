package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/arogyalabs/medassist/internal/api/handlers"
	"github.com/arogyalabs/medassist/internal/api/middleware"
)

type Deps struct {
	Session *handlers.SessionHandler
	Query   *handlers.QueryHandler
	Report  *handlers.AnalysisHandler
	Skin    *handlers.AnalysisHandler
	Records *handlers.RecordHandler

	JWTSecret string
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	r.POST("/session/start", d.Session.Start)

	// Everything else needs the session token issued at start.
	auth := r.Group("/")
	auth.Use(middleware.SessionAuth(d.JWTSecret))

	auth.GET("/session/state", d.Session.State)
	auth.POST("/session/end", d.Session.End)

	auth.POST("/query/summarize", d.Query.Summarize)

	report := auth.Group("/report")
	report.POST("/upload", d.Report.Upload)
	report.POST("/analyze", d.Report.Analyze)
	report.POST("/chat", d.Report.Chat)
	report.POST("/chat/clear", d.Report.ClearChat)

	skin := auth.Group("/skin")
	skin.POST("/upload", d.Skin.Upload)
	skin.POST("/analyze", d.Skin.Analyze)
	skin.POST("/chat", d.Skin.Chat)
	skin.POST("/chat/clear", d.Skin.ClearChat)

	auth.GET("/records", d.Records.List)
}
