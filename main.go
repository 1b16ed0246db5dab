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

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/Ramsey-B/vine/config"
	"github.com/Ramsey-B/vine/internal/handlers"
	"github.com/Ramsey-B/vine/internal/repositories/relationshiptype"
	"github.com/Ramsey-B/vine/internal/repositories/session"
	editorservice "github.com/Ramsey-B/vine/internal/services/editor"
	"github.com/Ramsey-B/vine/pkg/database"
	"github.com/Ramsey-B/vine/pkg/health"
	"github.com/Ramsey-B/vine/pkg/httpclient"
	"github.com/Ramsey-B/vine/pkg/kafka"
	"github.com/Ramsey-B/vine/pkg/logging"
	"github.com/Ramsey-B/vine/pkg/metrics"
	"github.com/Ramsey-B/vine/pkg/middleware"
	"github.com/Ramsey-B/vine/pkg/redis"
	"github.com/Ramsey-B/vine/pkg/search"
	"github.com/Ramsey-B/vine/pkg/startup"
	"github.com/Ramsey-B/vine/pkg/tracing"
	"github.com/Ramsey-B/vine/pkg/transport"
)

const version = "0.1.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, flush, err := logging.New(logging.Config{
		AppName: cfg.AppName,
		Level:   cfg.LogLevel,
		Pretty:  cfg.PrettyLogs,
	})
	if err != nil {
		return err
	}
	defer func() { _ = flush() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, tracing.Config{
		ServiceName: cfg.AppName,
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    cfg.OTLPInsecure,
		Timeout:     10 * time.Second,
	})
	if err != nil {
		return err
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	checker := health.NewChecker(version)
	deps := startup.New(logger, cfg.StartupMaxAttempts)

	var (
		db          database.DB
		redisClient *redis.Client
		producer    *kafka.Producer
	)

	if cfg.DatabaseEnabled {
		deps.Add(startup.Func{
			Name: "database",
			OnStart: func(ctx context.Context) error {
				db, err = database.Open(ctx, database.Config{
					Driver:          cfg.DatabaseDriver,
					Host:            cfg.DatabaseHost,
					Port:            cfg.DatabasePort,
					User:            cfg.DatabaseUserName,
					Password:        cfg.DatabasePassword,
					Name:            cfg.DatabaseName,
					SSLMode:         cfg.DatabaseSSLMode,
					MaxOpenConns:    cfg.DatabaseMaxOpenConns,
					MaxIdleConns:    cfg.DatabaseMaxIdleConns,
					ConnMaxLifetime: cfg.DatabaseConnMaxLifetime,
				}, logger)
				return err
			},
			OnStop: func(context.Context) error { return db.Close() },
		})
	}

	if cfg.SessionStore == "redis" {
		deps.Add(startup.Func{
			Name: "redis",
			OnStart: func(ctx context.Context) error {
				redisClient, err = redis.NewClient(ctx, redis.Config{
					Host:     cfg.RedisHost,
					Port:     cfg.RedisPort,
					Password: cfg.RedisPassword,
					DB:       cfg.RedisDB,
				}, logger)
				return err
			},
			OnStop: func(context.Context) error { return redisClient.Close() },
		})
	}

	if cfg.KafkaEnabled {
		deps.Add(startup.Func{
			Name: "kafka",
			OnStart: func(context.Context) error {
				producer = kafka.NewProducer(kafka.ProducerConfig{
					Brokers:      cfg.KafkaBrokers,
					Topic:        cfg.KafkaTopic,
					BatchSize:    cfg.KafkaBatchSize,
					BatchTimeout: time.Duration(cfg.KafkaBatchTimeout) * time.Millisecond,
					RequiredAcks: cfg.KafkaRequiredAcks,
					Compression:  cfg.KafkaCompression,
				}, logger)
				return nil
			},
			OnStop: func(context.Context) error { return producer.Close() },
		})
	}

	if err := deps.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := deps.Stop(context.Background()); err != nil {
			logger.WithError(err).Error("failed to stop dependencies")
		}
	}()

	opts := editorservice.Options{
		SearchDebounce: cfg.SearchDebounce,
		SearchLimit:    cfg.SearchLimit,
		Logger:         logger,
	}

	client := httpclient.NewClient(httpclient.Config{
		Timeout:         cfg.HttpClientTimeout,
		MaxIdleConns:    50,
		IdleConnTimeout: 90 * time.Second,
	}, logger)
	opts.Transport = transport.NewHTTPTransport(cfg.SubmissionBaseURL, client, logger)
	opts.Search = search.NewHTTPProvider(cfg.SearchBaseURL, client, logger)

	if db != nil {
		opts.Types = relationshiptype.NewRepository(db, logger)
		checker.Register("database", health.PingFunc(db.PingContext))
	}
	if redisClient != nil {
		opts.Sessions = session.NewRedisRepository(redisClient, cfg.SessionTTL, logger)
		checker.Register("redis", redisClient)
	} else {
		memory := session.NewMemoryRepository(cfg.SessionTTL)
		go sweepSessions(ctx, memory, cfg.SessionTTL, logger)
		opts.Sessions = memory
	}
	if producer != nil {
		opts.Events = producer
	}

	svc := editorservice.NewService(opts)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.Error(logger)
	e.Use(otelecho.Middleware(cfg.AppName))
	e.Use(middleware.Context())
	e.Use(middleware.Logger(logger))
	e.Use(metrics.Middleware())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: cfg.AllowMethods,
	}))

	checker.RegisterRoutes(e)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	handlers.NewEditorHandler(svc, logger).RegisterRoutes(e.Group("/api/v1"))

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           e,
		ReadTimeout:       time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second,
		WriteTimeout:      time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second,
		IdleTimeout:       time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.ReadHeaderTimeoutSeconds) * time.Second,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithContext(ctx).Infof("%s listening on %s", cfg.AppName, server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	checker.SetReady(true)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	checker.SetReady(false)
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func sweepSessions(ctx context.Context, repo *session.MemoryRepository, ttl time.Duration, logger ectologger.Logger) {
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := repo.Sweep(); n > 0 {
				logger.WithField("sessions", n).Debug("swept expired editor sessions")
			}
		}
	}
}
