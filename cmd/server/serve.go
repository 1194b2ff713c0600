package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/config"
	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/database"
	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/queue"
	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/repository"
	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/repository/memory"
	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/router"
	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		store, db, err := openStore(ctx)
		if err != nil {
			return err
		}
		if db != nil {
			defer db.Close()
		}

		rdb := config.NewRedisClient()
		if rdb == nil {
			log.Warn("redis unavailable, report cache and rate limiting disabled")
		} else {
			defer rdb.Close()
		}

		var pub service.EventPublisher = queue.NopPublisher{}
		if cfg.Events.Enabled {
			pub = queue.NewPublisher(cfg.Events.URL, cfg.Events.Queue, log)
		}

		e := router.New(router.Deps{
			Cfg:       cfg,
			Cache:     config.LoadCacheConfig(),
			RateLimit: config.LoadRateLimitConfig(),
			Store:     store,
			Publisher: pub,
			Redis:     rdb,
			DB:        db,
			Log:       log,
		})

		errc := make(chan error, 1)
		go func() {
			log.Info("listening", zap.String("addr", ":"+cfg.Port), zap.String("store", cfg.StoreDriver))
			errc <- e.Start(":" + cfg.Port)
		}()

		select {
		case err := <-errc:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	},
}

// openStore returns the configured store. db is nil for the memory
// driver.
func openStore(ctx context.Context) (repository.Store, *sql.DB, error) {
	if cfg.StoreDriver == config.DriverMemory {
		log.Warn("using in-memory store, data is lost on exit")
		return memory.New(), nil, nil
	}
	db, err := database.Open(cfg.DB)
	if err != nil {
		return nil, nil, err
	}
	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		log.Info("schema migrated")
	}
	return repository.NewMySQLStore(db), db, nil
}
