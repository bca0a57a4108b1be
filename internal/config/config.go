package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendS3       = "s3"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	S3       S3Config
	Notify   NotifyConfig
	Tokens   TokensConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// AuthConfig holds the HS256 secret used to verify bearer tokens.
type AuthConfig struct {
	JWTSecret string
	Issuer    string
}

// StoreConfig selects where snapshots go and how often the timers fire.
type StoreConfig struct {
	Backend          string
	DataDir          string
	LocalFallback    bool // mirror a remote backend into DataDir
	SnapshotInterval time.Duration
	SweepInterval    time.Duration
	PendingThreshold time.Duration
	CodePrefix       string
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
}

// RedisConfig holds the Redis snapshot backend settings.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// S3Config holds AWS S3 configuration for snapshots and token batches.
type S3Config struct {
	Enabled     bool
	Bucket      string
	Region      string
	Prefix      string // token batch prefix within bucket (e.g., "tokens/")
	SnapshotKey string
}

// NotifyConfig holds the optional event sinks. Empty values disable a sink.
type NotifyConfig struct {
	NATSURL       string
	SubjectPrefix string
	KafkaBrokers  []string
	KafkaTopic    string
	WebSocket     bool
}

// TokensConfig lists token batch files imported at startup.
type TokensConfig struct {
	ImportFiles []string
	ImportNote  string
}

// Load reads envFile (if given) into the environment and then loads
// configuration from environment variables. Variables already set win
// over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			Issuer:    getEnv("JWT_ISSUER", ""),
		},
		Store: StoreConfig{
			Backend:          getEnv("STORE_BACKEND", BackendFile),
			DataDir:          getEnv("STORE_DATA_DIR", "data"),
			LocalFallback:    getEnvAsBool("STORE_LOCAL_FALLBACK", true),
			SnapshotInterval: getEnvAsDuration("STORE_SNAPSHOT_INTERVAL", 5*time.Minute),
			SweepInterval:    getEnvAsDuration("STORE_SWEEP_INTERVAL", 24*time.Hour),
			PendingThreshold: getEnvAsDuration("STORE_PENDING_THRESHOLD", 7*24*time.Hour),
			CodePrefix:       getEnv("STORE_CODE_PREFIX", "ED"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "orderdesk"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 10),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 1),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
		},
		Redis: RedisConfig{
			Addr:      getEnv("REDIS_ADDR", "localhost:6379"),
			Password:  getEnv("REDIS_PASSWORD", ""),
			DB:        getEnvAsInt("REDIS_DB", 0),
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "orderdesk"),
		},
		S3: S3Config{
			Enabled:     getEnvAsBool("S3_ENABLED", false),
			Bucket:      getEnv("S3_BUCKET", ""),
			Region:      getEnv("S3_REGION", "us-east-1"),
			Prefix:      getEnv("S3_PREFIX", "tokens/"),
			SnapshotKey: getEnv("S3_SNAPSHOT_KEY", "orderdesk/snapshot.json.gz"),
		},
		Notify: NotifyConfig{
			NATSURL:       getEnv("NATS_URL", ""),
			SubjectPrefix: getEnv("NATS_SUBJECT_PREFIX", "orderdesk"),
			KafkaBrokers:  getEnvAsList("KAFKA_BROKERS", nil),
			KafkaTopic:    getEnv("KAFKA_TOPIC", "orderdesk-events"),
			WebSocket:     getEnvAsBool("WEBSOCKET_ENABLED", true),
		},
		Tokens: TokensConfig{
			ImportFiles: getEnvAsList("TOKEN_IMPORT_FILES", nil),
			ImportNote:  getEnv("TOKEN_IMPORT_DESCRIPTION", "imported batch"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.Store.SnapshotInterval <= 0 {
		return fmt.Errorf("snapshot interval must be positive")
	}

	if c.Store.SweepInterval <= 0 {
		return fmt.Errorf("sweep interval must be positive")
	}

	switch c.Store.Backend {
	case BackendFile:
		if c.Store.DataDir == "" {
			return fmt.Errorf("data directory is required for the file backend")
		}
	case BackendPostgres:
		if err := c.Database.validate(); err != nil {
			return err
		}
	case BackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis address is required for the redis backend")
		}
	case BackendS3:
		if !c.S3.Enabled {
			return fmt.Errorf("S3 must be enabled for the s3 backend")
		}
	default:
		return fmt.Errorf("invalid store backend: %s (must be file, postgres, redis, or s3)", c.Store.Backend)
	}

	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 is enabled")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("S3 region is required when S3 is enabled")
		}
	}

	if len(c.Notify.KafkaBrokers) > 0 && c.Notify.KafkaTopic == "" {
		return fmt.Errorf("kafka topic is required when brokers are set")
	}

	return nil
}

func (c *DatabaseConfig) validate() error {
	if c.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Port)
	}

	if c.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.MinConnections > c.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts Go duration syntax ("5m", "36h").
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated variable, dropping blanks.
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
