package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IBM/sarama"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"orderdesk/internal/config"
	"orderdesk/internal/database"
	"orderdesk/internal/handler"
	"orderdesk/internal/notify"
	"orderdesk/internal/queue"
	"orderdesk/internal/repository"
	"orderdesk/internal/router"
	"orderdesk/internal/scheduler"
	"orderdesk/internal/service"
	"orderdesk/internal/token"
)

func main() {
	envFile := pflag.String("env-file", ".env", "dotenv file to load before reading the environment")
	pflag.Parse()

	if err := run(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// closers collects shutdown hooks, run in reverse order.
type closers []func()

func (c *closers) add(fn func()) { *c = append(*c, fn) }

func (c closers) run() {
	for i := len(c) - 1; i >= 0; i-- {
		c[i]()
	}
}

func run(envFile string) error {
	// Load configuration
	cfg, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Str("backend", cfg.Store.Backend).Msg("starting order desk API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var cleanup closers
	defer cleanup.run()

	var s3Client *s3.Client
	if cfg.Store.Backend == config.BackendS3 || cfg.S3.Enabled {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.S3.Region))
		if err != nil {
			return fmt.Errorf("failed to load AWS config: %w", err)
		}
		s3Client = s3.NewFromConfig(awsCfg)
	}

	repo, err := openRepository(ctx, cfg, s3Client, &cleanup, logger)
	if err != nil {
		return err
	}

	store := queue.NewStore(logger, queue.WithCodePrefix(cfg.Store.CodePrefix))

	// Notification sinks
	var hub *notify.Hub
	sinks := []notify.Notifier{notify.NewLogNotifier(logger)}

	if cfg.Notify.NATSURL != "" {
		nc, err := notify.ConnectNATS(cfg.Notify.NATSURL)
		if err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		cleanup.add(func() { drainNATS(nc, logger) })
		sinks = append(sinks, notify.NewNATSNotifier(nc, cfg.Notify.SubjectPrefix, logger))
	}

	if len(cfg.Notify.KafkaBrokers) > 0 {
		producer, err := notify.NewKafkaProducer(cfg.Notify.KafkaBrokers)
		if err != nil {
			return fmt.Errorf("failed to create Kafka producer: %w", err)
		}
		cleanup.add(func() { closeProducer(producer, logger) })
		sinks = append(sinks, notify.NewKafkaNotifier(producer, cfg.Notify.KafkaTopic, logger))
	}

	if cfg.Notify.WebSocket {
		hub = notify.NewHub(logger)
		go hub.Run(ctx)
		sinks = append(sinks, hub)
	}
	notifier := notify.Multi(sinks...)

	// Token batches: S3 first when enabled, local files otherwise
	var s3Loader token.Loader
	if s3Client != nil && cfg.S3.Enabled {
		s3Loader = token.NewS3Loader(s3Client, cfg.S3.Bucket, logger)
	}
	loader := token.NewFallbackLoader(s3Loader, token.NewFileLoader(logger), cfg.S3.Prefix, cfg.S3.Enabled, logger)

	// Initialize services
	maintenance := service.NewMaintenanceService(store, repo, notifier, cfg.Store.PendingThreshold, logger)
	orders := service.NewOrderService(store, repo, notifier, logger)
	tokens := service.NewTokenService(store, loader, cfg.Tokens.ImportNote, repo, notifier, logger)

	if err := maintenance.Restore(ctx); err != nil {
		return fmt.Errorf("failed to restore state: %w", err)
	}

	for _, path := range cfg.Tokens.ImportFiles {
		result, err := tokens.Import(ctx, path, "system")
		if err != nil {
			logger.Error().Err(err).Str("path", path).Msg("token import failed")
			continue
		}
		logger.Info().
			Str("path", path).
			Int("imported", len(result.Imported)).
			Int("skipped", len(result.Skipped)).
			Msg("token batch imported")
	}

	sched := scheduler.New(maintenance, cfg.Store.SnapshotInterval, cfg.Store.SweepInterval, logger)
	go sched.Run(ctx)

	// Initialize HTTP handlers and router
	handlers := router.Handlers{
		Orders: handler.NewOrderHandler(orders, logger),
		Tokens: handler.NewTokenHandler(tokens, logger),
		Admin:  handler.NewAdminHandler(maintenance, logger),
	}
	if hub != nil {
		handlers.Live = hub
	}
	mux := router.New(handlers, router.Auth{Secret: cfg.Auth.JWTSecret, Issuer: cfg.Auth.Issuer}, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
		}

		// Stop the scheduler and hub before the final save.
		cancel()
		if err := maintenance.SaveNow(shutdownCtx); err != nil {
			return fmt.Errorf("final snapshot failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// openRepository builds the configured snapshot backend. Remote backends
// are mirrored into the data directory when local fallback is on.
func openRepository(
	ctx context.Context,
	cfg *config.Config,
	s3Client *s3.Client,
	cleanup *closers,
	logger zerolog.Logger,
) (repository.SnapshotRepository, error) {
	local := repository.NewFileRepository(cfg.Store.DataDir, logger)

	var remote repository.SnapshotRepository
	switch cfg.Store.Backend {
	case config.BackendFile:
		return local, nil

	case config.BackendPostgres:
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		cleanup.add(pool.Close)
		if err := repository.EnsureSchema(ctx, pool); err != nil {
			return nil, err
		}
		remote = repository.NewPostgresRepository(pool, logger)

	case config.BackendRedis:
		client, err := openRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		cleanup.add(func() { client.Close() })
		remote = repository.NewRedisRepository(client, cfg.Redis.KeyPrefix, logger)

	case config.BackendS3:
		remote = repository.NewS3Repository(s3Client, cfg.S3.Bucket, cfg.S3.SnapshotKey, logger)

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	if cfg.Store.LocalFallback {
		return repository.NewFallbackRepository(remote, local, logger), nil
	}
	return remote, nil
}

func openRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}

func drainNATS(nc *nats.Conn, logger zerolog.Logger) {
	if err := nc.Drain(); err != nil {
		logger.Warn().Err(err).Msg("failed to drain NATS connection")
	}
}

func closeProducer(producer sarama.SyncProducer, logger zerolog.Logger) {
	if err := producer.Close(); err != nil {
		logger.Warn().Err(err).Msg("failed to close Kafka producer")
	}
}
