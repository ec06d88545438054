package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/feral-file/ff-confirmator/internal/adapter"
	"github.com/feral-file/ff-confirmator/internal/api/rest"
	"github.com/feral-file/ff-confirmator/internal/api/server"
	"github.com/feral-file/ff-confirmator/internal/block"
	"github.com/feral-file/ff-confirmator/internal/blocktracker"
	"github.com/feral-file/ff-confirmator/internal/config"
	"github.com/feral-file/ff-confirmator/internal/confirmator"
	"github.com/feral-file/ff-confirmator/internal/emitter"
	"github.com/feral-file/ff-confirmator/internal/lock"
	"github.com/feral-file/ff-confirmator/internal/logger"
	"github.com/feral-file/ff-confirmator/internal/messaging"
	"github.com/feral-file/ff-confirmator/internal/metrics"
	"github.com/feral-file/ff-confirmator/internal/providers/ethereum"
	"github.com/feral-file/ff-confirmator/internal/providers/jetstream"
	"github.com/feral-file/ff-confirmator/internal/ratelimit"
	"github.com/feral-file/ff-confirmator/internal/store"
	"github.com/feral-file/ff-confirmator/internal/webhook"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadConfirmatorConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": config.ServiceName,
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Confirmator",
		zap.Strings("contracts", cfg.Confirmator.ContractAddresses),
		zap.String("emission_policy", cfg.Confirmator.EmissionPolicy))

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database")

	// Initialize store
	dataStore := store.NewPGStore(db)

	// Initialize adapters
	clockAdapter := adapter.NewClock()
	jsonAdapter := adapter.NewJSON()

	// Initialize metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(registry)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to register metrics", zap.Error(err))
	}

	// Initialize run lock
	var locker lock.Locker
	var lockRefreshInterval time.Duration
	var redisClient adapter.RedisClient
	if cfg.Redis.URL != "" {
		redisClient, err = adapter.NewRedisClient(cfg.Redis.URL, cfg.Redis.Password)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to create Redis client", zap.Error(err))
		}
		defer func() { _ = redisClient.Close() }()
		if err := redisClient.Ping(ctx); err != nil {
			logger.FatalCtx(ctx, "Failed to connect to Redis", zap.Error(err))
		}
		locker = lock.NewRedisLocker(redisClient, cfg.Redis.LockTTL)
		lockRefreshInterval = cfg.Redis.LockTTL / 3
		logger.InfoCtx(ctx, "Connected to Redis")
	} else {
		logger.WarnCtx(ctx, "Redis not configured, run locks are kept in-process")
		locker = lock.NewLocalLocker()
	}

	// Initialize ethereum client
	ethDialer := adapter.NewEthClientDialer()
	ethClient, err := ethDialer.Dial(ctx, cfg.Ethereum.RPCURL)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to dial Ethereum RPC", zap.Error(err), zap.String("rpc_url", cfg.Ethereum.RPCURL))
	}
	defer ethClient.Close()

	if err := ethereum.VerifyChain(ctx, ethClient, cfg.Ethereum.ChainID); err != nil {
		logger.FatalCtx(ctx, "Ethereum RPC does not serve the configured chain", zap.Error(err), zap.String("chain_id", string(cfg.Ethereum.ChainID)))
	}

	if cfg.Ethereum.RequestsPerSecond > 0 {
		limiterCfg := ratelimit.Config{
			Name:              "ethereum-rpc",
			RequestsPerSecond: cfg.Ethereum.RequestsPerSecond,
			Burst:             cfg.Ethereum.RequestBurst,
		}
		var limiter ratelimit.Limiter
		if redisClient != nil {
			limiter, err = ratelimit.NewRedisLimiter(limiterCfg, redisClient, clockAdapter)
		} else {
			limiter, err = ratelimit.NewLocalLimiter(limiterCfg)
		}
		if err != nil {
			logger.FatalCtx(ctx, "Failed to create RPC rate limiter", zap.Error(err))
		}
		ethClient = ratelimit.NewEthClient(ethClient, limiter)
		logger.InfoCtx(ctx, "RPC rate limiting enabled", zap.Int("requests_per_second", cfg.Ethereum.RequestsPerSecond))
	}

	headProvider := block.NewHeadProvider(
		ethereum.NewHeadFetcher(ethClient),
		block.Config{
			TTL:         cfg.Ethereum.BlockHeadTTL,
			StaleWindow: cfg.Ethereum.BlockHeadStaleWindow,
		},
		clockAdapter,
	)
	receiptValidator := ethereum.NewReceiptValidator(ethClient)

	// Initialize notification publishers
	callbacks := messaging.NewRegistry()
	unsubscribe := callbacks.Subscribe(m.CountNotification)
	defer unsubscribe()

	publishers := []messaging.Publisher{callbacks}
	if cfg.NATS.Enabled {
		natsPublisher, err := jetstream.NewPublisher(
			ctx,
			jetstream.Config{
				URL:             cfg.NATS.URL,
				StreamName:      cfg.NATS.StreamName,
				SubjectPrefix:   cfg.NATS.SubjectPrefix,
				MaxReconnects:   cfg.NATS.MaxReconnects,
				ReconnectWait:   cfg.NATS.ReconnectWait,
				ConnectionName:  cfg.NATS.ConnectionName,
				DuplicateWindow: cfg.NATS.DuplicateWindow,
			}, adapter.NewNatsJetStream(), jsonAdapter)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to create NATS publisher", zap.Error(err), zap.String("url", cfg.NATS.URL))
		}
		publishers = append(publishers, natsPublisher)
		logger.InfoCtx(ctx, "Connected to NATS JetStream", zap.String("stream", cfg.NATS.StreamName))
	}
	if cfg.Webhook.Enabled {
		publishers = append(publishers, webhook.NewPublisher(
			webhook.Config{
				URL:            cfg.Webhook.URL,
				Secret:         cfg.Webhook.Secret,
				MaxElapsedTime: cfg.Webhook.MaxElapsedTime,
			},
			adapter.NewHTTPClient(cfg.Webhook.Timeout),
			clockAdapter,
			jsonAdapter,
			adapter.NewJCS(),
		))
		logger.InfoCtx(ctx, "Webhook delivery enabled", zap.String("url", cfg.Webhook.URL))
	}
	publisher := messaging.NewFanout(publishers...)
	defer publisher.Close()

	// Create one confirmator per contract
	targets := make([]emitter.Target, 0, len(cfg.Confirmator.ContractAddresses))
	for _, contractAddress := range cfg.Confirmator.ContractAddresses {
		tracker := blocktracker.New(dataStore, blocktracker.Namespace(config.ServiceName, contractAddress))

		c, err := confirmator.New(confirmator.Config{
			ContractAddress:                     contractAddress,
			DeleteTargetConfirmationsMultiplier: cfg.Confirmator.DeleteTargetConfirmationsMultiplier,
			EmissionPolicy:                      confirmator.EmissionPolicy(cfg.Confirmator.EmissionPolicy),
			ValidationConcurrency:               cfg.Confirmator.ValidationConcurrency,
			RevalidateEmitted:                   cfg.Confirmator.RevalidateEmitted,
		}, dataStore, receiptValidator, tracker, publisher, clockAdapter, m)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to create confirmator", zap.Error(err), zap.String("contract", contractAddress))
		}
		defer c.Close()

		targets = append(targets, emitter.Target{Confirmator: c, Tracker: tracker})
	}

	blockEmitter := emitter.NewEmitter(
		headProvider,
		targets,
		locker,
		emitter.Config{
			PollInterval:        cfg.Emitter.PollInterval,
			RunTimeout:          cfg.Emitter.RunTimeout,
			LockRefreshInterval: lockRefreshInterval,
		},
		clockAdapter,
		m,
	)
	defer blockEmitter.Close()

	// Channel for component errors
	errCh := make(chan error, 2)

	// Start the emitter
	go func() {
		if err := blockEmitter.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- fmt.Errorf("emitter stopped: %w", err)
		}
	}()

	// Start the status API
	var srv *server.Server
	if cfg.Server.Enabled {
		handler := rest.NewHandler(
			confirmator.NewService(dataStore, headProvider),
			dataStore,
			cfg.Confirmator.ContractAddresses,
		)
		srv = server.New(server.Config{
			Debug:        cfg.Debug,
			Host:         cfg.Server.Host,
			Port:         cfg.Server.Port,
			ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
			WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
			IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		}, handler, registry)

		go func() {
			if err := srv.Start(); err != nil {
				errCh <- err
			}
		}()
	}

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal or error
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.ErrorCtx(ctx, err)
	}
	cancel()

	// Create shutdown context with timeout (don't use canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if srv != nil {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.ErrorCtx(shutdownCtx, fmt.Errorf("failed to shutdown server: %w", err))
		}
	}

	// Use non-context logger for final shutdown message since context is already canceled
	logger.Info("Confirmator stopped")
}
