package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/quizmentor/quizmentor/internal/api/handlers"
	"github.com/quizmentor/quizmentor/internal/api/middleware"
)

type Deps struct {
	Interview   *handlers.InterviewHandler
	InterviewWS *handlers.InterviewWSHandler
	Course      *handlers.CourseHandler
	Persona     *handlers.PersonaHandler
	User        *handlers.UserHandler
	Quiz        *handlers.QuizHandler
	Dispute     *handlers.DisputeHandler
	Settings    *handlers.SettingsHandler
	Performance *handlers.PerformanceHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Protected routes (JWT)
	auth := r.Group("/")
	auth.Use(middleware.JWTAuth())

	auth.POST("/interview/start", d.Interview.Start)
	auth.GET("/interview/:session_id", d.Interview.Get)
	auth.POST("/interview/:session_id/respond", d.Interview.Respond)
	auth.POST("/interview/:session_id/end", d.Interview.End)
	auth.GET("/interview/history", d.Interview.History)

	auth.GET("/courses", d.Course.List)
	auth.GET("/courses/:course_id", d.Course.Get)
	auth.GET("/courses/:course_id/topics", d.Course.ListTopics)

	auth.GET("/personas", d.Persona.List)
	auth.GET("/personas/:persona_id", d.Persona.Get)
	auth.GET("/roles", d.Persona.ListRoles)

	auth.GET("/users/me", d.User.Me)

	auth.GET("/quiz/questions", d.Quiz.List)
	auth.GET("/quiz/questions/:question_id/similar", d.Quiz.Similar)
	auth.POST("/quiz/submit", d.Quiz.Submit)

	auth.POST("/disputes", d.Dispute.Create)
	auth.GET("/disputes", d.Dispute.ListMine)
	auth.GET("/disputes/:dispute_id", d.Dispute.Get)
	auth.POST("/disputes/:dispute_id/attachment", d.Dispute.Attach)

	auth.GET("/performance/me", d.Performance.ListMine)

	// Admin-only management surface
	admin := auth.Group("/")
	admin.Use(middleware.RequireAdmin())

	admin.POST("/courses", d.Course.Create)
	admin.PUT("/courses/:course_id", d.Course.Update)
	admin.DELETE("/courses/:course_id", d.Course.Delete)

	admin.POST("/users", d.User.Create)
	admin.GET("/users", d.User.List)
	admin.GET("/users/:user_id", d.User.Get)
	admin.PUT("/users/:user_id", d.User.Update)
	admin.DELETE("/users/:user_id", d.User.Delete)

	admin.POST("/quiz/generate", d.Quiz.Generate)
	admin.DELETE("/quiz/questions/:question_id", d.Quiz.Delete)

	admin.GET("/admin/disputes", d.Dispute.ListOpen)
	admin.POST("/disputes/:dispute_id/resolve", d.Dispute.Resolve)

	admin.GET("/settings", d.Settings.List)
	admin.GET("/settings/:key", d.Settings.Get)
	admin.PUT("/settings/:key", d.Settings.Put)
	admin.DELETE("/settings/:key", d.Settings.Delete)

	// WebSocket
	auth.GET("/ws/interview/:session_id", d.InterviewWS.SessionWS)
}
