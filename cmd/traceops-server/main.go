// Command traceops-server runs the TraceOps HTTP API.
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
	"golang.org/x/sync/errgroup"

	"github.com/traceopshq/traceops/internal/api"
	"github.com/traceopshq/traceops/internal/config"
	"github.com/traceopshq/traceops/internal/db"
	"github.com/traceopshq/traceops/internal/db/migrations"
	"github.com/traceopshq/traceops/internal/dbpool"
	"github.com/traceopshq/traceops/internal/service"
	"github.com/traceopshq/traceops/internal/store"
	"github.com/traceopshq/traceops/internal/ws"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	if err := run(log); err != nil {
		log.WithError(err).Fatal("server exited with error")
	}
}

func run(log *logrus.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

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

	activityStore := store.NewActivityStore(base)
	taskStore := store.NewTaskStore(base)
	contactStore := store.NewContactStore(base)
	batchStore := store.NewBatchStore(base)
	attachmentStore := store.NewAttachmentStore(base, cfg.PublicBaseURL)
	labelSpecStore := store.NewLabelSpecStore(base)
	stabilityStore := store.NewStabilityStore(base)
	complaintStore := store.NewComplaintStore(base)

	activitySvc := service.NewActivityService(activityStore, log)
	worker := service.NewActivityWorker(activitySvc, log, cfg.ActivityQueueSize)

	taskSvc := service.NewTaskService(taskStore, worker, log)
	labelSpecSvc := service.NewLabelSpecService(labelSpecStore, worker, log)
	stabilitySvc := service.NewStabilityService(stabilityStore, worker, log)
	complaintSvc := service.NewComplaintService(complaintStore, worker, log)

	hub := ws.NewHub(log)
	bridge := db.NewNotifyBridge(log, pool, hub)

	router := api.NewRouter(ctx, &api.RouterDeps{
		Log:                log,
		Pool:               pool,
		Hub:                hub,
		Tasks:              taskSvc,
		Contacts:           contactStore,
		Batches:            batchStore,
		Attachments:        attachmentStore,
		LabelSpecs:         labelSpecSvc,
		Stability:          stabilitySvc,
		Complaints:         complaintSvc,
		Activity:           activitySvc,
		UserLookup:         &base,
		CORSOrigins:        cfg.CORSOrigins,
		Version:            config.Version,
		MaxAttachmentBytes: cfg.MaxAttachmentBytes,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	g.Go(func() error {
		worker.Run(gctx)
		return nil
	})

	if err := bridge.Start(gctx); err != nil {
		return err
	}

	g.Go(func() error {
		log.WithFields(logrus.Fields{"addr": cfg.Addr(), "version": config.Version}).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		// Drain websocket clients before tearing down HTTP.
		hub.Shutdown()

		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
