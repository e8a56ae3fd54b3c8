package config

import (
	"bufio"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Ledger    LedgerConfig    `mapstructure:"ledger"`
	Market    MarketConfig    `mapstructure:"market"`
	NATS      NATSConfig      `mapstructure:"nats"`
	WebSocket WebSocketConfig `mapstructure:"websocket"`
}

// AppConfig represents application configuration
type AppConfig struct {
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
}

// HTTPConfig represents the API server configuration
type HTTPConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// LedgerConfig represents the ledger engine configuration
type LedgerConfig struct {
	// Difficulty is the number of leading '0' hex characters a block hash
	// must have. Fixed for the process lifetime.
	Difficulty int `mapstructure:"difficulty"`
}

// MarketConfig represents marketplace configuration
type MarketConfig struct {
	// SellerAddress is the store's wallet address recorded on every
	// purchase transaction.
	SellerAddress string `mapstructure:"seller_address"`
}

// NATSConfig represents NATS JetStream configuration
type NATSConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	URL               string        `mapstructure:"url"`
	StreamName        string        `mapstructure:"stream_name"`
	SubjectPrefix     string        `mapstructure:"subject_prefix"`
	ConnectTimeout    time.Duration `mapstructure:"connect_timeout"`
	ReconnectDelay    time.Duration `mapstructure:"reconnect_delay"`
	ReconnectAttempts int           `mapstructure:"reconnect_attempts"`
}

// WebSocketConfig represents the live block feed configuration
type WebSocketConfig struct {
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	BufferSize   int           `mapstructure:"buffer_size"`
}

// loadEnvFile manually loads environment variables from .env file
func loadEnvFile() error {
	file, err := os.Open(".env")
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) == 2 {
			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])
			os.Setenv(key, value)
		}
	}

	return scanner.Err()
}

// LoadConfig loads configuration from environment variables and config files
func LoadConfig() (*Config, error) {
	// Load .env file manually first
	if _, err := os.Stat(".env"); err == nil {
		if err := loadEnvFile(); err != nil {
			return nil, err
		}
	}

	// Set default values first
	setDefaults()

	// Bind environment variables
	bindEnvVars()

	// Read environment variables automatically
	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults() {
	// App defaults
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.log_level", "info")

	// HTTP defaults
	viper.SetDefault("http.host", "127.0.0.1")
	viper.SetDefault("http.port", 8080)

	// Ledger defaults
	viper.SetDefault("ledger.difficulty", 2)

	// Market defaults
	viper.SetDefault("market.seller_address", "0x1234567890abcdef")

	// NATS defaults
	viper.SetDefault("nats.enabled", false)
	viper.SetDefault("nats.url", "nats://localhost:4222")
	viper.SetDefault("nats.stream_name", "MARKETPLACE")
	viper.SetDefault("nats.subject_prefix", "marketplace")
	viper.SetDefault("nats.connect_timeout", "10s")
	viper.SetDefault("nats.reconnect_delay", "2s")
	viper.SetDefault("nats.reconnect_attempts", 5)

	// WebSocket defaults
	viper.SetDefault("websocket.write_timeout", "10s")
	viper.SetDefault("websocket.buffer_size", 1024)
}

func bindEnvVars() {
	// App
	viper.BindEnv("app.env", "APP_ENV")
	viper.BindEnv("app.log_level", "LOG_LEVEL")

	// HTTP
	viper.BindEnv("http.host", "HTTP_HOST")
	viper.BindEnv("http.port", "HTTP_PORT")

	// Ledger
	viper.BindEnv("ledger.difficulty", "LEDGER_DIFFICULTY")

	// Market
	viper.BindEnv("market.seller_address", "SELLER_ADDRESS")

	// NATS
	viper.BindEnv("nats.enabled", "NATS_ENABLED")
	viper.BindEnv("nats.url", "NATS_URL")
	viper.BindEnv("nats.stream_name", "NATS_STREAM_NAME")
	viper.BindEnv("nats.subject_prefix", "NATS_SUBJECT_PREFIX")
	viper.BindEnv("nats.connect_timeout", "NATS_CONNECT_TIMEOUT")
	viper.BindEnv("nats.reconnect_delay", "NATS_RECONNECT_DELAY")
	viper.BindEnv("nats.reconnect_attempts", "NATS_RECONNECT_ATTEMPTS")

	// WebSocket
	viper.BindEnv("websocket.write_timeout", "WS_WRITE_TIMEOUT")
	viper.BindEnv("websocket.buffer_size", "WS_BUFFER_SIZE")
}
