package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/equine-practice/internal/audit"
	"github.com/BruksfildServices01/equine-practice/internal/config"
	dbpkg "github.com/BruksfildServices01/equine-practice/internal/db"
	"github.com/BruksfildServices01/equine-practice/internal/events"
	"github.com/BruksfildServices01/equine-practice/internal/locker"
	"github.com/BruksfildServices01/equine-practice/internal/logger"
	"github.com/BruksfildServices01/equine-practice/internal/routes"
	"github.com/BruksfildServices01/equine-practice/internal/storage"
	"github.com/BruksfildServices01/equine-practice/internal/validators"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	db, err := dbpkg.NewDB(cfg, log)
	if err != nil {
		return err
	}

	// --------------------------------------------------
	// Locks: Redis when configured, in-process otherwise
	// --------------------------------------------------
	var locks locker.Locker = locker.NewLocal()
	if cfg.RedisURL != "" {
		rl, err := locker.NewRedisFromURL(cfg.RedisURL, log)
		if err != nil {
			return err
		}
		defer func() { _ = rl.Close() }()
		locks = rl
		log.Info("using redis locker")
	}

	// --------------------------------------------------
	// Domain events
	// --------------------------------------------------
	var publisher events.Publisher = events.Nop{}
	if cfg.AMQPURL != "" {
		p, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return err
		}
		defer func() { _ = p.Close() }()
		publisher = p
		log.Info("publishing events", zap.String("exchange", cfg.AMQPExchange))
	}

	dispatcher := audit.NewDispatcher(audit.New(db), publisher, log)
	defer dispatcher.Close()

	// --------------------------------------------------
	// Object storage
	// --------------------------------------------------
	var store storage.ObjectStore
	s3Store, err := storage.NewS3Store(cfg)
	switch {
	case err == nil:
		store = s3Store
	case errors.Is(err, storage.ErrNotConfigured):
		log.Warn("object storage not configured; photo uploads disabled")
	default:
		return err
	}

	if err := validators.RegisterBindings(); err != nil {
		return err
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	routes.RegisterRoutes(r, routes.Deps{
		DB:     db,
		Config: cfg,
		Log:    log,
		Locks:  locks,
		Audit:  dispatcher,
		Store:  store,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server running", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
