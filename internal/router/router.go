package router

import (
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"aicoach-go/internal/handlers"
	"aicoach-go/internal/questions"
	"aicoach-go/internal/repository"
	"aicoach-go/internal/session"
)

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}

func rateLimitErrorHandler(c *gin.Context, info ratelimit.Info) {
	c.String(429, "Too many requests. Try again later.")
}

// Setup wires middleware, handlers, and routes.
func Setup(log *zap.Logger, db *gorm.DB, generator *questions.Generator, manager *session.Manager) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
	})
	router.Use(func(c *gin.Context) {
		if err := secureMiddleware.Process(c.Writer, c.Request); err != nil {
			c.Abort()
			return
		}
		c.Next()
	})

	sessionRepo := repository.NewSessionRepo(db, log)
	feedbackRepo := repository.NewFeedbackRepo(db, log)

	sessionsHandler := handlers.NewSessionsHandler(log, sessionRepo, generator)
	interviewHandler := handlers.NewInterviewHandler(log, sessionRepo, manager)
	resultsHandler := handlers.NewResultsHandler(log, feedbackRepo)

	// Generative endpoints are expensive; keep them behind a per-IP limiter.
	rateLimitStore := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: 5,
	})
	limiter := ratelimit.RateLimiter(rateLimitStore, &ratelimit.Options{
		ErrorHandler: rateLimitErrorHandler,
		KeyFunc:      keyFunc,
	})

	sessions := router.Group("/sessions")
	{
		sessions.POST("", limiter, sessionsHandler.Create)
		sessions.GET("", sessionsHandler.List)
		sessions.GET("/:sessionId", sessionsHandler.Get)
		sessions.DELETE("/:sessionId", sessionsHandler.Delete)

		sessions.GET("/:sessionId/feedback", resultsHandler.Report)
		sessions.GET("/:sessionId/feedback/chart", resultsHandler.Chart)
	}

	interview := router.Group("/interview/:sessionId")
	{
		interview.POST("/start", interviewHandler.Start)
		interview.POST("/frames", interviewHandler.ObserveFrame)
		interview.POST("/transcript", interviewHandler.AppendTranscript)
		interview.GET("/metrics", interviewHandler.Metrics)
		interview.POST("/end", limiter, interviewHandler.End)
	}

	return router
}
