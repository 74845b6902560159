// Command lineage-server runs the lineage HTTP API server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lineagehq/lineage/internal/api"
	"github.com/lineagehq/lineage/internal/config"
	"github.com/lineagehq/lineage/internal/db"
	"github.com/lineagehq/lineage/internal/db/migrations"
	"github.com/lineagehq/lineage/internal/dbpool"
	"github.com/lineagehq/lineage/internal/service"
	"github.com/lineagehq/lineage/internal/store"
	"github.com/lineagehq/lineage/internal/ws"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	if err := run(log); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}

func run(log *logrus.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := dbpool.NewPool(ctx, cfg.DatabaseURL.Value())
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, log, migrations.FS); err != nil {
		return err
	}

	base := store.Base{Pool: pool, Log: log}
	people := store.NewPersonStore(base)
	relationships := store.NewRelationshipStore(base)
	bulk := store.NewBulkStore(base)
	workspaces := store.NewWorkspaceStore(pool)

	hub := ws.NewHub(log)
	go hub.Run(ctx)

	bridge := db.NewNotifyBridge(log, pool, hub)
	if err := bridge.Start(ctx); err != nil {
		return err
	}

	deps := &api.RouterDeps{
		Log:             log,
		Pool:            pool,
		Hub:             hub,
		People:          service.NewPersonService(people, log),
		Relationships:   service.NewRelationshipService(relationships, log),
		Kinship:         service.NewKinshipService(people, relationships, log),
		Bulk:            service.NewBulkService(bulk, log),
		WorkspaceLookup: workspaces,
		CORSOrigins:     cfg.CORSOrigins,
		Version:         config.Version,
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.NewRouter(ctx, deps),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{"addr": cfg.Addr(), "version": config.Version}).Info("server listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")

	// Drain WebSocket clients before closing the listener so they get a
	// shutdown frame and reconnect cleanly.
	hub.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
