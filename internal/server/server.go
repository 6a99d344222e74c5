package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"fleetgate/internal/app"
	"fleetgate/internal/metrics"
	"fleetgate/internal/routes"
	"fleetgate/pkg/logging"
)

const shutdownTimeout = 5 * time.Second

// Remounts re-run the whole backend sequence, so they are throttled.
const (
	remountRate  = rate.Limit(1)
	remountBurst = 5
)

// Console is the part of the application the HTTP surface serves.
type Console interface {
	Shell() *app.Shell
	Services() *app.Services
	RouteOptions() routes.Options
	Remount() (app.Attempt, error)
}

// Server serves a Console over HTTP.
type Server struct {
	console Console
	addr    string
	router  *gin.Engine
	remount *rate.Limiter
}

// New builds the router for console. addr is host:port.
func New(console Console, addr string) *Server {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestMetrics())

	s := &Server{
		console: console,
		addr:    addr,
		router:  r,
		remount: rate.NewLimiter(remountRate, remountBurst),
	}
	s.registerRoutes()
	return s
}

// Addr formats host and port as a listen address.
func Addr(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) registerRoutes() {
	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.router.Group("/api")
	api.GET("/status", s.handleStatus)
	api.POST("/remount", s.handleRemount)
	api.POST("/dismiss", s.handleDismiss)
	api.GET("/agents/:agentId", s.handleAgent)

	s.router.GET("/app", s.handleApp)
	s.router.GET("/app/*path", s.handleApp)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("HTTPServer", "Listening on %s", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("HTTPServer", err, "Graceful shutdown failed")
		return err
	}
	logging.Info("HTTPServer", "Stopped")
	return nil
}

func requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		code := strconv.Itoa(c.Writer.Status())
		metrics.HTTPRequests.WithLabelValues(route, code).Inc()
		logging.Debug("HTTPServer", "%s %s -> %s (%s)", c.Request.Method, c.Request.URL.Path, code, time.Since(start))
	}
}
