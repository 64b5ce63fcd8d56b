// Package server implements the server subcommand: it wires the backends,
// the cache-refresh engine, and the HTTP facade, then runs until signalled.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	appHelpdesk "deskhub/internal/application/helpdesk"
	domain "deskhub/internal/domain/helpdesk"
	"deskhub/internal/infrastructure/backends"
	"deskhub/internal/infrastructure/cache"
	"deskhub/internal/infrastructure/config"
	"deskhub/internal/infrastructure/pubsub"
	"deskhub/internal/infrastructure/scheduler"
	httpRouter "deskhub/internal/interfaces/http"
	"deskhub/internal/shared/logger"
)

var env string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the helpdesk aggregation server",
		RunE:  run,
	}
	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	log.Infow("starting server", "environment", env, "addr", cfg.Server.GetAddr())

	gin.SetMode(mapEnvToGinMode(env))
	gin.DefaultWriter = io.Discard

	redisClient, err := initRedis(cfg)
	if err != nil {
		return err
	}
	defer redisClient.Close()
	log.Infow("redis connection established", "addr", cfg.Redis.GetAddr())

	registry := backends.BuildRegistry(&cfg.Helpdesk, log)
	if registry.Len() == 0 {
		log.Warnw("no ticket backends configured, every aggregate will be empty")
	}

	aggregator := appHelpdesk.NewAggregator(registry, log)
	bus := pubsub.NewSnapshotBus(redisClient, log)

	keepWarm, err := scheduler.NewKeepWarm(cfg.Helpdesk.RefreshInterval, log)
	if err != nil {
		return fmt.Errorf("failed to create keep-warm scheduler: %w", err)
	}

	refreshBudget := 2 * cfg.Helpdesk.BackendTimeout

	routesRefresher := appHelpdesk.NewRefresher(appHelpdesk.RefresherOptions[domain.Route]{
		Kind:             "routes",
		Topic:            pubsub.TopicRoutesUpdated,
		RefreshBudget:    refreshBudget,
		IdleRefreshLimit: cfg.Helpdesk.IdleRefreshLimit,
		Store:            cache.NewResultStore[domain.Route](redisClient, "deskhub:helpdesk:routes:", cfg.Helpdesk.CacheTTL),
		Bus:              bus,
		Scheduler:        keepWarm,
		Fetch:            aggregator.Routes,
		Logger:           log,
	})

	tasksRefresher := appHelpdesk.NewRefresher(appHelpdesk.RefresherOptions[domain.Task]{
		Kind:             "tasks",
		Topic:            pubsub.TopicTasksUpdated,
		RefreshBudget:    refreshBudget,
		IdleRefreshLimit: cfg.Helpdesk.IdleRefreshLimit,
		Store:            cache.NewResultStore[domain.Task](redisClient, "deskhub:helpdesk:tasks:", cfg.Helpdesk.CacheTTL),
		Bus:              bus,
		Scheduler:        keepWarm,
		Fetch: func(ctx context.Context, id domain.Identity) domain.AggregateResult[domain.Task] {
			return aggregator.Tasks(ctx, id, domain.TaskFilter{})
		},
		Logger: log,
	})

	keepWarm.Start()
	defer func() {
		if err := keepWarm.Shutdown(); err != nil {
			log.Warnw("keep-warm scheduler shutdown failed", "error", err)
		}
	}()

	service := appHelpdesk.NewService(aggregator, routesRefresher, tasksRefresher, log)
	router := httpRouter.NewRouter(service, bus, log)

	srv := &http.Server{
		Addr:              cfg.Server.GetAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		log.Infow("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	log.Infow("server stopped")
	return nil
}

func initRedis(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

func mapEnvToGinMode(env string) string {
	switch env {
	case "production":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}
