package messaging

import (
	"context"
	"testing"
	"time"

	"blockchain-marketplace/internal/domain/entity"
	"blockchain-marketplace/internal/infrastructure/config"
	"blockchain-marketplace/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()

	log, err := logger.NewLogger(&config.Config{
		App: config.AppConfig{Env: "development", LogLevel: "error"},
	})
	require.NoError(t, err)
	return log
}

func TestNewNATSClient(t *testing.T) {
	cfg := &config.NATSConfig{
		URL:               "nats://localhost:4222",
		StreamName:        "TEST_STREAM",
		SubjectPrefix:     "test",
		ConnectTimeout:    10 * time.Second,
		ReconnectDelay:    2 * time.Second,
		ReconnectAttempts: 5,
	}

	client := NewNATSClient(cfg, newTestLogger(t))

	assert.NotNil(t, client)
	assert.False(t, client.IsConnected())
}

func TestDisabledClientIsNoOp(t *testing.T) {
	cfg := &config.NATSConfig{Enabled: false}
	client := NewNATSClient(cfg, newTestLogger(t))
	ctx := context.Background()

	// Connect succeeds without reaching any server.
	require.NoError(t, client.Connect(ctx))
	assert.False(t, client.IsConnected())

	// Publishing is silently dropped.
	err := client.PublishPurchase(ctx, &entity.PurchaseEvent{TransactionID: "tx-1"})
	assert.NoError(t, err)

	assert.NoError(t, client.Disconnect())
}

func TestPublishWhenEnabledButDisconnected(t *testing.T) {
	cfg := &config.NATSConfig{Enabled: true}
	client := NewNATSClient(cfg, newTestLogger(t))

	err := client.PublishPurchase(context.Background(), &entity.PurchaseEvent{TransactionID: "tx-1"})
	assert.Error(t, err)
}
