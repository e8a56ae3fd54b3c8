package main

import (
	"context"

	"blockchain-marketplace/internal/adapters/secondary"
	appservice "blockchain-marketplace/internal/application/service"
	"blockchain-marketplace/internal/domain/repository"
	"blockchain-marketplace/internal/domain/service"
	"blockchain-marketplace/internal/infrastructure/blockchain"
	"blockchain-marketplace/internal/infrastructure/config"
	"blockchain-marketplace/internal/infrastructure/httpapi"
	"blockchain-marketplace/internal/infrastructure/logger"
	"blockchain-marketplace/internal/infrastructure/messaging"
	"blockchain-marketplace/internal/infrastructure/ws"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	app := fx.New(
		// Configuration
		fx.Provide(config.LoadConfig),

		// Infrastructure
		fx.Provide(logger.NewLogger),

		// Ledger engine
		fx.Provide(
			fx.Annotate(
				blockchain.NewLedger,
				fx.As(new(service.LedgerService)),
			),
		),

		// Catalog
		fx.Provide(
			fx.Annotate(
				secondary.NewProductRepository,
				fx.As(new(repository.ProductRepository)),
			),
		),

		// Messaging
		fx.Provide(
			fx.Annotate(
				messaging.NewNATSMessagingService,
				fx.As(new(service.MessagingService)),
			),
		),

		// Live block feed
		fx.Provide(ws.NewHub),
		fx.Provide(
			fx.Annotate(
				func(hub *ws.Hub) *ws.Hub { return hub },
				fx.As(new(service.BlockStreamService)),
			),
		),

		// Application services
		fx.Provide(appservice.NewMarketService),

		// HTTP API
		fx.Provide(httpapi.NewController),
		fx.Provide(httpapi.NewServer),

		// Lifecycle hooks
		fx.Invoke(registerHooks),
	)

	app.Run()
}

// registerHooks registers application lifecycle hooks
func registerHooks(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	cfg *config.Config,
	logger *logger.Logger,
	messagingService service.MessagingService,
	hub *ws.Hub,
	server *httpapi.Server,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Starting Blockchain Marketplace",
				zap.String("env", cfg.App.Env),
				zap.Int("difficulty", cfg.Ledger.Difficulty),
				zap.String("addr", cfg.HTTP.Host),
				zap.Int("port", cfg.HTTP.Port))

			// Connect messaging (no-op when disabled)
			if err := messagingService.Connect(ctx); err != nil {
				logger.Error("Failed to connect messaging", zap.Error(err))
				return err
			}

			// Serve the API
			go func() {
				if err := server.Start(); err != nil {
					logger.Error("API server stopped", zap.Error(err))
					shutdowner.Shutdown()
				}
			}()

			logger.Info("Blockchain Marketplace started successfully")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping Blockchain Marketplace")

			if err := server.Shutdown(ctx); err != nil {
				logger.Error("Error shutting down API server", zap.Error(err))
			}

			hub.Close()

			if err := messagingService.Disconnect(); err != nil {
				logger.Error("Error disconnecting messaging", zap.Error(err))
			}

			// Sync logger
			if err := logger.Sync(); err != nil {
				// Ignore errors on sync as this is expected on some systems
			}

			logger.Info("Blockchain Marketplace stopped")
			return nil
		},
	})
}
