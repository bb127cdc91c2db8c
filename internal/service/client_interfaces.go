// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

//go:generate mockgen -source=client_interfaces.go -destination=../mock/mock_client_services.go -package=mock

import (
	"context"
	"time"

	"github.com/MKhiriev/go-task-keeper/models"
)

// SyncEngine drives one synchronization protocol between the local replica
// and the server. Two implementations exist: the per-record REST engine and
// the bulk cursor-diff engine. Both leave the local replica in a state where
// a repeated FullSync against an unchanged server is a no-op.
type SyncEngine interface {
	// Push sends local dirty records to the server.
	Push(ctx context.Context) error

	// Pull brings remote changes into the local replica.
	Pull(ctx context.Context) error

	// FullSync runs Push then Pull.
	FullSync(ctx context.Context) error
}

// RecordSyncEngine extends SyncEngine with the per-record operations only the
// REST protocol supports.
type RecordSyncEngine interface {
	SyncEngine

	// SyncOne refreshes a single record from the server, honouring local
	// dirty state.
	SyncOne(ctx context.Context, id string) error

	// Retry re-queues an errored record for push and pushes immediately.
	Retry(ctx context.Context, id string) error
}

// SyncOrchestrator serialises sync cycles. At most one full cycle runs at a
// time; a trigger arriving mid-cycle is dropped, not queued.
type SyncOrchestrator interface {
	// TriggerSync runs a full sync cycle unless one is already running or
	// the server is unreachable. Engine failures are logged, never returned.
	TriggerSync(ctx context.Context)

	// TriggerSyncOne refreshes a single record, bypassing the cycle lock.
	TriggerSyncOne(ctx context.Context, id string) error

	// StartNetworkListener subscribes to the connectivity oracle and triggers
	// a sync on every offline to online transition. Idempotent.
	StartNetworkListener()

	// StopNetworkListener removes the oracle subscription. Idempotent.
	StopNetworkListener()

	// IsSyncing reports whether a full cycle is currently running.
	IsSyncing() bool

	// LastSyncedAt returns the completion time of the last successful full
	// cycle, or nil if none has succeeded yet.
	LastSyncedAt() *time.Time
}

// ClientTaskService is the local-first task API. Every write lands in the
// local replica immediately and is propagated to the server opportunistically.
type ClientTaskService interface {
	Create(ctx context.Context, task models.Task) (models.Task, error)
	Get(ctx context.Context, id string) (models.Task, error)
	List(ctx context.Context) ([]models.Task, error)
	Update(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error)
	Delete(ctx context.Context, id string) error

	// Retry re-queues an errored task for synchronization.
	Retry(ctx context.Context, id string) error
}

// UploadService transfers pending image attachments to the server.
type UploadService interface {
	// ProcessPending uploads every task image still waiting for transfer.
	// Per-task failures are logged and retried on the next call.
	ProcessPending(ctx context.Context) error
}

// ClientSyncJob periodically runs a full sync cycle and the pending upload
// queue in the background.
type ClientSyncJob interface {
	Start(ctx context.Context, interval time.Duration)
	Stop()
}
