// Package server holds the HTTP surface of the microservice: routing,
// middleware and the request-path detection service.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Prathmesh2931/vision-processing-microservice/internal/config"
	"github.com/Prathmesh2931/vision-processing-microservice/internal/metrics"
	"github.com/Prathmesh2931/vision-processing-microservice/pkg/backend"
	"github.com/Prathmesh2931/vision-processing-microservice/pkg/types"
)

const (
	serviceName    = "vision-processing-microservice"
	serviceVersion = "2.0"
)

// Server binds configuration, the selected backend and the HTTP router.
type Server struct {
	cfg     *config.Config
	sel     backend.Selection
	svc     *Service
	metrics *metrics.Metrics
	log     *zap.Logger
}

// New assembles a server around an already-made backend selection.
func New(cfg *config.Config, sel backend.Selection, m *metrics.Metrics, log *zap.Logger) *Server {
	return &Server{
		cfg:     cfg,
		sel:     sel,
		svc:     NewService(sel, m, log),
		metrics: m,
		log:     log,
	}
}

// Router builds the gin engine with all routes and middleware attached.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = s.cfg.MaxUploadBytes()

	r.Use(s.requestLogger())
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		s.log.Error("panic in handler", zap.Any("panic", recovered))
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			types.ErrorResponse{Error: fmt.Sprint(recovered)})
	}))
	r.Use(corsMiddleware())

	r.GET("/", s.handleIndex)
	r.POST("/detect", s.handleDetect)
	r.GET("/health", s.handleHealth)
	r.GET("/api/status", s.handleStatus)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	return r
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.cfg.Server.Port,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// requestLogger logs every request with latency and status.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client", c.ClientIP()))
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
