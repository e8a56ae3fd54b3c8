package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"blockchain-marketplace/internal/domain/entity"
	"blockchain-marketplace/internal/infrastructure/config"
	"blockchain-marketplace/internal/infrastructure/logger"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// NATSClient handles NATS JetStream operations and implements the
// MessagingService interface. When disabled via configuration every
// operation is a no-op.
type NATSClient struct {
	conn      *nats.Conn
	js        nats.JetStreamContext
	config    *config.NATSConfig
	logger    *logger.Logger
	isRunning bool
}

// NewNATSClient creates a new NATS client
func NewNATSClient(cfg *config.NATSConfig, logger *logger.Logger) *NATSClient {
	return &NATSClient{
		config: cfg,
		logger: logger.WithComponent("nats-client"),
	}
}

// NewNATSMessagingService creates a new NATS messaging service from main config
func NewNATSMessagingService(cfg *config.Config, logger *logger.Logger) *NATSClient {
	return NewNATSClient(&cfg.NATS, logger)
}

// Connect connects to NATS server and sets up JetStream
func (n *NATSClient) Connect(ctx context.Context) error {
	if !n.config.Enabled {
		n.logger.Info("NATS is disabled, skipping connection")
		return nil
	}

	n.logger.Info("Connecting to NATS server", zap.String("url", n.config.URL))

	opts := []nats.Option{
		nats.Name("blockchain-marketplace"),
		nats.Timeout(n.config.ConnectTimeout),
		nats.ReconnectWait(n.config.ReconnectDelay),
		nats.MaxReconnects(n.config.ReconnectAttempts),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			n.logger.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			n.logger.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			n.logger.Info("NATS connection closed")
		}),
	}

	conn, err := nats.Connect(n.config.URL, opts...)
	if err != nil {
		n.logger.Error("Failed to connect to NATS", zap.Error(err))
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}

	n.conn = conn

	js, err := conn.JetStream()
	if err != nil {
		n.logger.Error("Failed to create JetStream context", zap.Error(err))
		return fmt.Errorf("failed to create JetStream context: %w", err)
	}

	n.js = js

	if err := n.setupStream(ctx); err != nil {
		return fmt.Errorf("failed to setup stream: %w", err)
	}

	n.isRunning = true
	n.logger.Info("Successfully connected to NATS and setup JetStream")

	return nil
}

// Disconnect disconnects from NATS server
func (n *NATSClient) Disconnect() error {
	if n.conn != nil {
		n.conn.Close()
		n.conn = nil
		n.js = nil
	}
	n.isRunning = false
	n.logger.Info("Disconnected from NATS")
	return nil
}

// IsConnected checks if connected to NATS
func (n *NATSClient) IsConnected() bool {
	return n.isRunning && n.conn != nil && n.conn.IsConnected()
}

// setupStream creates the JetStream stream if it does not exist yet
func (n *NATSClient) setupStream(ctx context.Context) error {
	streamName := n.config.StreamName
	subject := fmt.Sprintf("%s.purchases", n.config.SubjectPrefix)

	stream, err := n.js.StreamInfo(streamName)
	if err != nil {
		n.logger.Info("Creating JetStream stream",
			zap.String("stream", streamName),
			zap.String("subject", subject))

		streamConfig := &nats.StreamConfig{
			Name:       streamName,
			Subjects:   []string{subject},
			Storage:    nats.FileStorage,
			Retention:  nats.WorkQueuePolicy,
			MaxMsgs:    1000000,
			MaxBytes:   1024 * 1024 * 1024,
			MaxAge:     24 * time.Hour,
			Duplicates: 5 * time.Minute,
		}

		_, err = n.js.AddStream(streamConfig)
		if err != nil {
			n.logger.Error("Failed to create stream", zap.Error(err))
			return err
		}

		n.logger.Info("Successfully created JetStream stream")
	} else {
		n.logger.Info("JetStream stream already exists",
			zap.String("stream", streamName),
			zap.Uint64("messages", stream.State.Msgs))
	}

	return nil
}

// PublishPurchase publishes a purchase event to NATS JetStream
func (n *NATSClient) PublishPurchase(ctx context.Context, event *entity.PurchaseEvent) error {
	if !n.IsConnected() {
		if !n.config.Enabled {
			return nil
		}
		return fmt.Errorf("NATS client is not connected")
	}

	data, err := json.Marshal(event)
	if err != nil {
		n.logger.Error("Failed to marshal purchase event", zap.Error(err))
		return fmt.Errorf("failed to marshal purchase event: %w", err)
	}

	subject := fmt.Sprintf("%s.purchases", n.config.SubjectPrefix)

	// Transaction id doubles as the deduplication key.
	_, err = n.js.Publish(subject, data, nats.MsgId(event.TransactionID), nats.Context(ctx))
	if err != nil {
		n.logger.Error("Failed to publish purchase event",
			zap.String("tx_id", event.TransactionID),
			zap.Error(err))
		return fmt.Errorf("failed to publish purchase event: %w", err)
	}

	n.logger.Debug("Published purchase event",
		zap.String("subject", subject),
		zap.String("tx_id", event.TransactionID))

	return nil
}
