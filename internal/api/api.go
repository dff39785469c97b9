package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/studylync/studylync/internal/api/handler"
	"github.com/studylync/studylync/internal/config"
	"github.com/studylync/studylync/internal/database"
	"github.com/studylync/studylync/internal/membership"
	"github.com/studylync/studylync/internal/query"
	"github.com/studylync/studylync/internal/scheduler"
)

const requestIDHeader = "X-Request-ID"

type Server struct {
	cfg        *config.Config
	ginEngine  *gin.Engine
	db         database.DB
	query      *query.Service
	membership *membership.Service
	scheduler  *scheduler.Scheduler
}

func New(cfg *config.Config, db database.DB, q *query.Service, m *membership.Service, sched *scheduler.Scheduler) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	ginEngine := gin.New()
	ginEngine.Use(
		gin.Recovery(),
		requestID(),
		requestLogger(),
		gzip.Gzip(gzip.DefaultCompression),
	)

	s := &Server{
		cfg:        cfg,
		ginEngine:  ginEngine,
		db:         db,
		query:      q,
		membership: m,
		scheduler:  sched,
	}
	s.setupRoutes()
	s.setupAdminRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	h := handler.New(s.db, s.query, s.membership, s.cfg)

	api := s.ginEngine.Group("/api")
	api.GET("/health", h.Health)

	courses := api.Group("/courses")
	courses.GET("", h.GetCourses)
	courses.GET("/:title", h.GetCourse)
	courses.POST("", h.CreateCourse)

	users := api.Group("/users")
	users.GET("", h.GetUsers)
	users.GET("/:netId", h.GetUser)
	users.POST("", h.CreateUser)
	users.POST("/login", h.Login)

	locations := api.Group("/locations")
	locations.GET("", h.GetLocations)
	locations.GET("/:id", h.GetLocation)
	locations.POST("", h.CreateLocation)

	sessions := api.Group("/study-sessions")
	sessions.GET("", h.GetSessions)
	sessions.GET("/:id", h.GetSession)
	sessions.POST("", h.CreateSession)
	sessions.POST("/:id/join", h.JoinSession)
	sessions.POST("/:id/leave", h.LeaveSession)
	sessions.DELETE("/:id", h.DeleteSession)

	reviews := api.Group("/reviews")
	reviews.GET("", h.GetReviewSummary)
	reviews.GET("/all", h.GetReviews)
	reviews.POST("", h.CreateReview)

	api.GET("/stats/top-courses", h.GetTopCourses)
}

func (s *Server) setupAdminRoutes() {
	h := handler.NewAdmin(s.scheduler, s.query)

	admin := s.ginEngine.Group("/api/admin")
	admin.GET("/cache/stats", h.GetCacheStats)

	if s.scheduler == nil {
		return
	}
	jobs := admin.Group("/jobs")
	jobs.GET("", h.GetSchedulerJobs)
	jobs.POST("/:id/run", h.RunSchedulerJob)
	jobs.POST("/:id/enable", h.EnableSchedulerJob)
	jobs.POST("/:id/disable", h.DisableSchedulerJob)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.ginEngine
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.ginEngine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting StudyLync server", "listen", s.cfg.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down StudyLync server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

// requestID propagates the client's X-Request-ID or generates one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(handler.RequestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("Handled request",
			"request_id", c.GetString(handler.RequestIDKey),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
