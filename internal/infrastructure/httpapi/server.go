package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"blockchain-marketplace/internal/infrastructure/config"
	"blockchain-marketplace/internal/infrastructure/logger"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// Server wraps the echo instance serving the marketplace API
type Server struct {
	echo   *echo.Echo
	config *config.HTTPConfig
	logger *logger.Logger
}

// NewServer creates the API server and registers all routes
func NewServer(cfg *config.Config, controller *Controller, log *logger.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	// Cross-origin requests are unrestricted.
	e.Use(middleware.CORS())
	e.Use(requestLogger(log.WithComponent("http-server")))

	e.GET("/api/products", controller.GetProducts)
	e.GET("/api/blockchain", controller.GetBlockchain)
	e.GET("/api/blockchain/validate", controller.ValidateBlockchain)
	e.GET("/api/transactions", controller.GetTransactions)
	e.POST("/api/purchase", controller.Purchase)
	e.GET("/health", controller.Health)
	e.GET("/ws", controller.StreamBlocks)

	return &Server{
		echo:   e,
		config: &cfg.HTTP,
		logger: log.WithComponent("http-server"),
	}
}

// Start begins serving and blocks until the listener fails or is shut down
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("API server listening", zap.String("addr", addr))

	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server")
	return s.echo.Shutdown(ctx)
}

// requestLogger logs each request with method, path, status and latency
func requestLogger(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			log.Debug("Request handled",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)))

			return err
		}
	}
}
