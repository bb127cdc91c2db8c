// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package store holds both sides of the persistence layer: the server's
// authoritative task repository (Postgres or in-memory) and the client's
// SQLite replica with its reconciliation bookkeeping.
package store

import (
	"context"

	"github.com/MKhiriev/go-task-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// TaskRepository is the authoritative server-side task set. Every write is an
// idempotent upsert keyed by id; deletes leave a tombstone so cursor-based
// pulls can report removals instead of mere absences.
type TaskRepository interface {
	// List returns every live task.
	List(ctx context.Context) ([]models.Task, error)

	// Get returns the task with the given id, or ErrTaskNotFound.
	Get(ctx context.Context, id string) (models.Task, error)

	// Create inserts a new task. Returns ErrTaskAlreadyExists if the id is
	// taken; re-applying the same create is a conflict, never a duplicate.
	Create(ctx context.Context, task models.Task) (models.Task, error)

	// Upsert inserts or fully overwrites the task with task.ID.
	// Re-applying the same upsert is always safe.
	Upsert(ctx context.Context, task models.Task) error

	// Delete removes the task and records a tombstone. Returns
	// ErrTaskNotFound, with no tombstone written, if the id does not
	// exist.
	Delete(ctx context.Context, id string) error

	// DeletedSince returns ids of tasks deleted strictly after the given
	// epoch-millisecond cutoff.
	DeletedSince(ctx context.Context, since int64) ([]string, error)
}

// LocalTaskStore is the client-side mutable replica with per-record
// reconciliation status. All mutations run inside a transaction so a
// concurrent reader never observes a half-applied sync.
type LocalTaskStore interface {
	// Create inserts a locally authored task with status created.
	Create(ctx context.Context, task models.Task) (models.Task, error)

	// Get returns the task with the given id, or ErrTaskNotFound.
	// Soft-deleted tasks remain addressable until their delete is confirmed.
	Get(ctx context.Context, id string) (models.Task, error)

	// List returns every task, including soft-deleted ones.
	List(ctx context.Context) ([]models.Task, error)

	// Dirty returns every task whose status is not synced, ordered
	// deleted → created → updated → error. This is the push queue.
	Dirty(ctx context.Context) ([]models.Task, error)

	// Mutate applies fn to the stored task inside a transaction, bumps
	// UpdatedAt, and advances the reconciliation status: a synced task
	// becomes updated; a created task stays created; an errored task
	// re-enters the queue as updated (or created if the server has never
	// seen it) with the error cleared.
	Mutate(ctx context.Context, id string, fn func(*models.Task)) (models.Task, error)

	// SoftDelete marks the task deleted so the next push propagates the
	// removal. A task the server has never seen is removed outright.
	SoftDelete(ctx context.Context, id string) error

	// MarkSynced records a successful push: status synced, error cleared,
	// the task counted as acknowledged by the server.
	MarkSynced(ctx context.Context, id string) error

	// MarkError persists a push failure message. Status becomes error,
	// except for deleted tasks, which keep status deleted so the delete is
	// retried automatically.
	MarkError(ctx context.Context, id string, msg string) error

	// HardDelete removes the row entirely. Only called once the server has
	// confirmed the deletion (200/404) or during an orphan sweep.
	HardDelete(ctx context.Context, id string) error

	// ApplyChanges applies a bulk pull diff and persists the new cursor in
	// the same transaction: created and updated become synced upserts,
	// deleted ids are hard-removed. Either everything commits, including the
	// cursor, or nothing does.
	ApplyChanges(ctx context.Context, changes models.TaskChanges, cursor models.Cursor) error

	// MergeRemote merges a fetched remote snapshot: tasks absent locally are
	// inserted as synced, tasks whose local status is synced are overwritten,
	// dirty or errored tasks win and are left untouched. When sweepOrphans
	// is true, local synced tasks missing from the snapshot are removed in
	// the same transaction.
	MergeRemote(ctx context.Context, remote []models.Task, sweepOrphans bool) error

	// PendingUploads returns tasks with a local image waiting to be uploaded.
	PendingUploads(ctx context.Context) ([]models.Task, error)

	// Cursor returns the persisted sync cursor, or ErrCursorNotFound before
	// the first successful pull.
	Cursor(ctx context.Context) (models.Cursor, error)

	// Subscribe registers fn to run after every committed mutation and
	// returns the matching unsubscribe. Intended for presentation layers.
	Subscribe(fn func()) (unsubscribe func())
}
