// Package server exposes the portfolio editor over HTTP for a browser preview.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"archfolio/internal/assistant"
	"archfolio/internal/logging"
	"archfolio/internal/portfolio"
)

// Options configures the server.
type Options struct {
	AllowedOrigins []string
}

// Server serves one Store.
type Server struct {
	store     *portfolio.Store
	assistant *assistant.Assistant
	router    *gin.Engine
}

// New builds the router. asst may be nil, in which case the AI routes report a
// configuration error.
func New(store *portfolio.Store, asst *assistant.Assistant, opts Options) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	if len(opts.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:  opts.AllowedOrigins,
			AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type"},
			ExposeHeaders: []string{"Content-Length"},
			MaxAge:        12 * time.Hour,
		}))
	}

	s := &Server{store: store, assistant: asst, router: router}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.GET("/healthz", s.health)
	s.router.GET("/preview", s.previewHTML)
	s.router.GET("/preview.md", s.previewMarkdown)

	api := s.router.Group("/api")
	{
		api.POST("/describe", s.describe)

		doc := api.Group("/portfolio")
		{
			doc.GET("", s.getPortfolio)
			doc.PUT("/profile", s.updateProfile)
			doc.PUT("/contact", s.updateContact)
			doc.POST("/ai-update", s.aiUpdate)

			doc.POST("/projects", s.createProject)
			doc.PUT("/projects/:id", s.updateProject)
			doc.DELETE("/projects/:id", s.deleteProject)

			doc.POST("/resources", s.createResource)
			doc.PUT("/resources/:id", s.updateResource)
			doc.DELETE("/resources/:id", s.deleteResource)
		}
	}
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Server("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logging.Server("stopped")
	return nil
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logging.Get(logging.CategoryServer).With(
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		).Debug("%s %s", c.Request.Method, c.Request.URL.Path)
	}
}
