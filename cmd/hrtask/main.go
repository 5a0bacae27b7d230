// @title			hrtask API
// @version		1.0
// @description	Task time tracking and performance rating.
// @BasePath		/api/v1

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"

	"github.com/mtlprog/hrtask/internal/cache"
	"github.com/mtlprog/hrtask/internal/config"
	"github.com/mtlprog/hrtask/internal/database"
	"github.com/mtlprog/hrtask/internal/events"
	"github.com/mtlprog/hrtask/internal/handler"
	"github.com/mtlprog/hrtask/internal/logger"
	"github.com/mtlprog/hrtask/internal/metrics"
	"github.com/mtlprog/hrtask/internal/middleware"
	"github.com/mtlprog/hrtask/internal/repository"
	"github.com/mtlprog/hrtask/internal/service"
)

func main() {
	app := &cli.App{
		Name:  "hrtask",
		Usage: "Task time tracking and performance rating service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:     "database-url",
				Aliases:  []string{"d"},
				Value:    config.DefaultDatabaseURL,
				Usage:    "PostgreSQL database URL",
				EnvVars:  []string{"DATABASE_URL"},
				Required: true,
			},
			&cli.StringFlag{
				Name:    "redis-addr",
				Usage:   "Redis address for the task cache (disabled when empty)",
				EnvVars: []string{"REDIS_ADDR"},
			},
			&cli.DurationFlag{
				Name:    "cache-ttl",
				Value:   config.DefaultCacheTTL,
				Usage:   "TTL of cached completed tasks",
				EnvVars: []string{"CACHE_TTL"},
			},
			&cli.StringFlag{
				Name:    "kafka-brokers",
				Usage:   "Comma-separated Kafka brokers for lifecycle events (disabled when empty)",
				EnvVars: []string{"KAFKA_BROKERS"},
			},
			&cli.StringFlag{
				Name:    "kafka-topic",
				Value:   config.DefaultKafkaTopic,
				Usage:   "Kafka topic for lifecycle events",
				EnvVars: []string{"KAFKA_TOPIC"},
			},
			&cli.DurationFlag{
				Name:    "max-active",
				Value:   config.DefaultMaxActive,
				Usage:   "Running time after which a timer is auto-paused",
				EnvVars: []string{"MAX_ACTIVE"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.Setup(logger.ParseLevel(c.String("log-level")))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the web server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Value:   config.DefaultPort,
						Usage:   "HTTP server port",
						EnvVars: []string{"PORT"},
					},
					&cli.DurationFlag{
						Name:    "sweep-interval",
						Usage:   "Run the stale-timer sweep at this interval (disabled when 0)",
						EnvVars: []string{"SWEEP_INTERVAL"},
					},
				},
				Action: runServe,
			},
			{
				Name:   "migrate",
				Usage:  "Apply database migrations and exit",
				Action: runMigrate,
			},
			{
				Name:   "pause-stale",
				Usage:  "Pause timers running longer than --max-active",
				Action: runPauseStale,
			},
		},
		Action: runServe,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

// app bundles the resources shared by every command.
type app struct {
	db          *database.DB
	taskService *service.TaskService
	registry    *prometheus.Registry
	closers     []func() error
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			slog.Warn("failed to release resource", "error", err)
		}
	}
	a.db.Close()
}

// setup connects to Postgres, applies migrations and wires the optional
// cache, event publisher and metrics into the task service.
func setup(c *cli.Context) (*app, error) {
	ctx := c.Context

	db, err := database.New(ctx, c.String("database-url"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.RunMigrations(ctx, db.Pool()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	a := &app{db: db, registry: prometheus.NewRegistry()}
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	recorder, err := metrics.NewRecorder(config.MetricsNamespace, a.registry)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	opts := []service.Option{service.WithMetrics(recorder)}

	if addr := c.String("redis-addr"); addr != "" {
		redisCache, err := cache.Connect(ctx, addr)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.closers = append(a.closers, redisCache.Close)
		opts = append(opts, service.WithCache(redisCache, c.Duration("cache-ttl")))
		slog.Info("task cache enabled", "redis_addr", addr)
	}

	if brokers := config.ParseBrokers(c.String("kafka-brokers")); len(brokers) > 0 {
		publisher := events.NewKafkaPublisher(brokers, c.String("kafka-topic"))
		a.closers = append(a.closers, publisher.Close)
		opts = append(opts, service.WithPublisher(publisher))
		slog.Info("lifecycle events enabled", "brokers", brokers, "topic", c.String("kafka-topic"))
	}

	a.taskService = service.NewTaskService(
		db.Pool(),
		repository.NewTaskRepository(db.Pool()),
		repository.NewTaskEventRepository(db.Pool()),
		opts...,
	)

	return a, nil
}

func runServe(c *cli.Context) error {
	ctx := c.Context

	port := c.String("port")
	if port == "" {
		port = config.DefaultPort
	}

	a, err := setup(c)
	if err != nil {
		return err
	}
	defer a.Close()

	h := handler.New(a.db.Pool(), a.taskService)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	mux.Handle("GET /metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{Registry: a.registry}))

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           middleware.RequestLog(mux),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	if interval := c.Duration("sweep-interval"); interval > 0 {
		go sweepStaleTasks(sweepCtx, a.taskService, interval, c.Duration("max-active"))
	}

	serverErr := make(chan error, 1)
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "server_addr", "http://localhost:"+port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-done:
		slog.Info("shutting down server")
	}

	stopSweep()

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// sweepStaleTasks periodically pauses timers running longer than maxActive.
func sweepStaleTasks(ctx context.Context, svc *service.TaskService, interval, maxActive time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("stale timer sweep started", "interval", interval.String(), "max_active", maxActive.String())

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := svc.PauseStaleTasks(ctx, maxActive); err != nil {
				slog.Error("stale timer sweep failed", "error", err)
			}
		}
	}
}

func runMigrate(c *cli.Context) error {
	db, err := database.New(c.Context, c.String("database-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(c.Context, db.Pool()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

func runPauseStale(c *cli.Context) error {
	a, err := setup(c)
	if err != nil {
		return err
	}
	defer a.Close()

	count, err := a.taskService.PauseStaleTasks(c.Context, c.Duration("max-active"))
	slog.Info("stale timer sweep finished", "paused", count)

	return err
}
