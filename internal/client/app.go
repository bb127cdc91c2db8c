// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-task-keeper/internal/adapter"
	"github.com/MKhiriev/go-task-keeper/internal/config"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/netwatch"
	"github.com/MKhiriev/go-task-keeper/internal/service"
	"github.com/MKhiriev/go-task-keeper/internal/store"
	"github.com/MKhiriev/go-task-keeper/internal/workers"
)

// App is the headless sync client: a local replica kept converged with the
// server by the background orchestrator, probe, and upload jobs.
type App struct {
	cfg           *config.ClientConfig
	db            *store.LocalDB
	serverAdapter adapter.ServerAdapter
	probe         netwatch.Probe
	services      *service.ClientServices
	logger        *logger.Logger
}

func NewApp(ctx context.Context, cfg *config.ClientConfig, log *logger.Logger) (*App, error) {
	db, err := store.NewConnectSQLite(ctx, cfg.Local, log)
	if err != nil {
		return nil, fmt.Errorf("connect local replica: %w", err)
	}

	serverAdapter, err := adapter.NewHTTPServerAdapter(cfg.Adapter, log)
	if err != nil {
		return nil, fmt.Errorf("create server adapter: %w", err)
	}

	localStore := store.NewLocalTaskStore(db, log)
	probe := netwatch.NewHTTPProbe(cfg.Adapter, cfg.Sync.ProbeInterval, log)
	services := service.NewClientServices(localStore, serverAdapter, probe, log)

	return &App{
		cfg:           cfg,
		db:            db,
		serverAdapter: serverAdapter,
		probe:         probe,
		services:      services,
		logger:        log,
	}, nil
}

// Run starts the background jobs and blocks until the context is cancelled or
// a stop signal arrives. It always tears the jobs down before returning.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	// the token endpoint is public, so a failure here just means the server
	// is unreachable; the sync jobs retry once the probe sees it come back
	if err := a.serverAdapter.Authenticate(ctx); err != nil {
		a.logger.Warn().Err(err).Str("func", "App.Run").Msg("authentication deferred, server unreachable")
	}

	// the listener must be registered before the first probe fires, so the
	// initial online announcement already triggers a sync
	workers.NewWorkers(
		workers.WorkerFunc(a.services.Orchestrator.StartNetworkListener),
		workers.WorkerFunc(func() { a.services.SyncJob.Start(ctx, a.cfg.Sync.Interval) }),
		workers.WorkerFunc(func() { a.probe.Start(ctx) }),
	).Run()

	a.logger.Info().Str("func", "App.Run").Msg("sync client started")
	<-ctx.Done()

	a.services.SyncJob.Stop()
	a.services.Orchestrator.StopNetworkListener()
	a.probe.Stop()

	if err := a.db.Close(); err != nil {
		return fmt.Errorf("close local replica: %w", err)
	}

	a.logger.Info().Str("func", "App.Run").Msg("sync client stopped")
	return nil
}
