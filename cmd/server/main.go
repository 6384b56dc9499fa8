// Command server runs the almostcircle HTTP API: shapes and states over
// REST, live updates over Server-Sent Events, and an optional watch on the
// shape data directory.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"almostcircle/internal/config"
	"almostcircle/internal/domain"
	"almostcircle/internal/filestore"
	"almostcircle/internal/handler"
	"almostcircle/internal/hub"
	xlog "almostcircle/internal/log"
	"almostcircle/internal/repository/sqlite"
	"almostcircle/internal/service"
	"almostcircle/internal/watcher"
)

func main() {
	configPath := flag.String("config", "", "config file path (default: search standard locations)")
	addr := flag.String("addr", "", "HTTP listen address, overrides the config")
	dbPath := flag.String("db", "", "SQLite database path, overrides the config")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	xlog.Configure(xlog.Config{Level: cfg.Log.Level, Service: "almostcircle"})
	logger := xlog.WithComponent("main")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Error().Err(err).Msg("server failed")
		stop()
		os.Exit(1)
	}
	logger.Info().Msg("server stopped")
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		cfg, _, err := config.LoadFromPath(path)
		return cfg, err
	}
	cfg, _, err := config.Load()
	return cfg, err
}

func run(ctx context.Context, cfg *config.Config) error {
	logger := xlog.WithComponent("main")
	logger.Info().Msg(cfg.Summary())

	repo, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer repo.Close()
	logger.Info().Str("path", cfg.Database.Path).Msg("database opened")

	eventBus := service.NewEventBus()
	store := filestore.New(cfg.Data.Dir)
	shapeSvc := service.NewShapeService(repo, store, eventBus)
	stateSvc := service.NewStateService(repo, eventBus)

	if err := shapeSvc.ReserveStoredIDs(ctx); err != nil {
		return fmt.Errorf("reserve shape ids: %w", err)
	}

	// Seed the database from any shape files already on disk
	for _, kind := range domain.Kinds {
		if _, err := os.Stat(store.Path(kind, "json")); err != nil {
			continue
		}
		if _, err := shapeSvc.SyncFromStore(ctx, kind); err != nil {
			logger.Warn().Err(err).Str("kind", string(kind)).Msg("initial shape sync failed")
		}
	}

	sseHub := hub.New()
	router := handler.NewRouter(handler.RouterConfig{
		Shapes:         handler.NewShapeHandler(shapeSvc),
		States:         handler.NewStateHandler(stateSvc),
		Events:         sseHub,
		DB:             repo,
		RateLimit:      cfg.Server.RateLimit,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration(),
		WriteTimeout: cfg.Server.WriteTimeout.Duration(),
		IdleTimeout:  60 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sseHub.Run(ctx)
		return nil
	})

	// Connect event bus to SSE hub
	g.Go(func() error {
		events := make(chan service.Event, 100)
		eventBus.Subscribe(events)
		defer eventBus.Unsubscribe(events)
		for {
			select {
			case ev := <-events:
				sseHub.Broadcast(ev)
			case <-ctx.Done():
				return nil
			}
		}
	})

	if cfg.Data.Watch {
		w := watcher.New(cfg.Data.Dir, func(kind domain.Kind) {
			if _, _, err := shapeSvc.SyncIfChanged(ctx, kind); err != nil {
				logger.Warn().Err(err).Str("kind", string(kind)).Msg("shape sync failed")
			}
		})
		g.Go(func() error {
			if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("watch data dir: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		logger.Info().Str("addr", cfg.Server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info().Msg("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
