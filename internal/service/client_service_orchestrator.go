// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/netwatch"
)

type syncOrchestrator struct {
	engine RecordSyncEngine
	oracle netwatch.Oracle
	logger *logger.Logger

	mu           sync.Mutex
	isSyncing    bool
	lastSyncedAt *time.Time
	unsubscribe  func()
}

// NewSyncOrchestrator wraps engine with single-flight semantics and network
// awareness. UI paths call TriggerSync freely; overlapping triggers and
// offline triggers are dropped.
func NewSyncOrchestrator(engine RecordSyncEngine, oracle netwatch.Oracle, logger *logger.Logger) SyncOrchestrator {
	return &syncOrchestrator{
		engine: engine,
		oracle: oracle,
		logger: logger,
	}
}

// TriggerSync implements [SyncOrchestrator].
func (o *syncOrchestrator) TriggerSync(ctx context.Context) {
	log := logger.FromContext(ctx)

	o.mu.Lock()
	if o.isSyncing {
		o.mu.Unlock()
		log.Debug().Str("func", "syncOrchestrator.TriggerSync").Msg("sync already in progress, skipping")
		return
	}
	o.isSyncing = true
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.isSyncing = false
		o.mu.Unlock()
	}()

	if !o.oracle.Online(ctx) {
		log.Debug().Str("func", "syncOrchestrator.TriggerSync").Msg("server unreachable, skipping")
		return
	}

	if err := o.engine.FullSync(ctx); err != nil {
		log.Warn().Err(err).Str("func", "syncOrchestrator.TriggerSync").Msg("sync cycle failed")
		return
	}

	now := time.Now()
	o.mu.Lock()
	o.lastSyncedAt = &now
	o.mu.Unlock()

	log.Info().Str("func", "syncOrchestrator.TriggerSync").Msg("sync cycle completed")
}

// TriggerSyncOne implements [SyncOrchestrator]. Single-record refreshes are
// cheap and conflict-free, so they bypass the cycle lock entirely.
func (o *syncOrchestrator) TriggerSyncOne(ctx context.Context, id string) error {
	if !o.oracle.Online(ctx) {
		return nil
	}
	return o.engine.SyncOne(ctx, id)
}

// StartNetworkListener implements [SyncOrchestrator].
func (o *syncOrchestrator) StartNetworkListener() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.unsubscribe != nil {
		return
	}
	o.unsubscribe = o.oracle.Subscribe(func(online bool) {
		if !online {
			return
		}
		o.logger.Info().Str("func", "syncOrchestrator").Msg("server reachable again, triggering sync")
		o.TriggerSync(context.Background())
	})
}

// StopNetworkListener implements [SyncOrchestrator].
func (o *syncOrchestrator) StopNetworkListener() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.unsubscribe == nil {
		return
	}
	o.unsubscribe()
	o.unsubscribe = nil
}

// IsSyncing implements [SyncOrchestrator].
func (o *syncOrchestrator) IsSyncing() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.isSyncing
}

// LastSyncedAt implements [SyncOrchestrator].
func (o *syncOrchestrator) LastSyncedAt() *time.Time {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastSyncedAt
}
