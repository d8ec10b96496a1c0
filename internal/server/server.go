// Package server exposes the platform over HTTP using gin.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/devpath-labs/devpath/internal/assistant"
	"github.com/devpath-labs/devpath/internal/auth"
	"github.com/devpath-labs/devpath/internal/course"
	"github.com/devpath-labs/devpath/internal/question"
)

// Server holds the handler dependencies.
type Server struct {
	courses   *course.Repository
	questions *question.Repository
	auth      *auth.Service
	assistant *assistant.Engine
	ready     func(ctx context.Context) error
}

// Option configures a Server.
type Option func(*Server)

// WithReadyCheck sets the probe behind /readyz, typically the backing
// store's health check.
func WithReadyCheck(fn func(ctx context.Context) error) Option {
	return func(s *Server) {
		s.ready = fn
	}
}

// WithAssistant enables the assistant chat endpoints.
func WithAssistant(engine *assistant.Engine) Option {
	return func(s *Server) {
		s.assistant = engine
	}
}

// NewServer creates a Server over the given repositories and auth
// service.
func NewServer(courses *course.Repository, questions *question.Repository, authSvc *auth.Service, opts ...Option) *Server {
	s := &Server{
		courses:   courses,
		questions: questions,
		auth:      authSvc,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/healthz", s.healthz)
	r.GET("/readyz", s.readyz)
	r.GET("/ws/assistant", s.assistantWS)

	api := r.Group("/api")
	{
		api.POST("/auth/login", s.login)
		api.POST("/auth/logout", s.logout)

		api.GET("/courses", s.listCourses)
		api.GET("/courses/:id", s.getCourse)
		api.GET("/courses/:id/topics/:topicID", s.getTopic)

		api.GET("/questions", s.listQuestions)
		api.GET("/questions/:id", s.getQuestion)
		api.POST("/questions/:id/check", s.checkQuestion)

		api.POST("/highlight", s.highlightCode)
		api.POST("/assistant/chat", s.assistantChat)

		admin := api.Group("", s.requireAdmin())
		{
			admin.POST("/courses", s.createCourse)
			admin.PUT("/courses/:id", s.updateCourse)
			admin.DELETE("/courses/:id", s.deleteCourse)

			admin.POST("/questions", s.createQuestion)
			admin.PUT("/questions/:id", s.updateQuestion)
			admin.DELETE("/questions/:id", s.deleteQuestion)
			admin.POST("/questions/import", s.importQuestions)
			admin.GET("/questions/export", s.exportQuestions)
		}
	}

	return r
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) readyz(c *gin.Context) {
	if s.ready != nil {
		if err := s.ready(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// requestLogger logs one line per request via slog.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
