package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/qa-agent/internal/core/ports/driving"
	"github.com/custodia-labs/qa-agent/internal/logger"
)

// Ports aggregates the driving ports served over HTTP.
type Ports struct {
	// Agent indexes documents and answers questions.
	Agent driving.Agent

	// Documents lists supported documents. Optional.
	Documents driving.DocumentService
}

// Server is the HTTP API server.
type Server struct {
	ports  *Ports
	router *gin.Engine
}

// NewServer builds the router for ports.
func NewServer(ports *Ports) (*Server, error) {
	if ports == nil || ports.Agent == nil {
		return nil, ErrMissingAgent
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	s := &Server{ports: ports, router: router}
	s.routes()
	return s, nil
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// done releases the shutdown goroutine when serving fails on its own.
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
		case <-done:
			return
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("serving http on %s: %w", addr, err)
	}
	return nil
}

func (s *Server) routes() {
	s.router.GET("/healthz", s.health)

	v1 := s.router.Group("/v1")
	v1.POST("/index", s.index)
	v1.DELETE("/index", s.deleteIndex)
	v1.POST("/query", s.query)
	v1.POST("/context", s.retrieveContext)
	v1.GET("/count", s.count)
	v1.GET("/documents", s.documents)
}

// requestLogger logs each request at debug level.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("http: %s %s -> %d (%s)",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start).Round(time.Millisecond))
	}
}
