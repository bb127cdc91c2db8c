// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-task-keeper/internal/adapter"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/store"
	"github.com/MKhiriev/go-task-keeper/models"
)

type restSyncService struct {
	localStore    store.LocalTaskStore
	serverAdapter adapter.ServerAdapter
	logger        *logger.Logger
}

// NewRESTSyncService creates the per-record REST sync engine. Each dirty
// record is pushed with its own request, so one rejected record never blocks
// the rest of the queue.
func NewRESTSyncService(localStore store.LocalTaskStore, serverAdapter adapter.ServerAdapter, logger *logger.Logger) RecordSyncEngine {
	return &restSyncService{
		localStore:    localStore,
		serverAdapter: serverAdapter,
		logger:        logger,
	}
}

// Push implements [RecordSyncEngine]. Dirty records are processed in queue
// order (deletes, then creates, then updates). A failed record is marked with
// the error and skipped; Push returns an error only when the queue itself
// cannot be read.
func (s *restSyncService) Push(ctx context.Context) error {
	log := logger.FromContext(ctx)

	dirty, err := s.localStore.Dirty(ctx)
	if err != nil {
		return fmt.Errorf("load push queue: %w", err)
	}

	for _, task := range dirty {
		if err = s.pushOne(ctx, task); err != nil {
			log.Warn().Err(err).Str("func", "restSyncService.Push").Str("id", task.ID).Msg("record push failed")
			if markErr := s.localStore.MarkError(ctx, task.ID, err.Error()); markErr != nil {
				log.Err(markErr).Str("id", task.ID).Msg("failed to record push error")
			}
		}
	}

	return nil
}

func (s *restSyncService) pushOne(ctx context.Context, task models.Task) error {
	switch task.SyncStatus {
	case models.StatusDeleted:
		err := s.serverAdapter.DeleteTask(ctx, task.ID)
		if err != nil && !errors.Is(err, adapter.ErrNotFound) {
			return err
		}
		// gone on the server either way
		return s.localStore.HardDelete(ctx, task.ID)

	case models.StatusCreated:
		_, err := s.serverAdapter.CreateTask(ctx, task)
		if err != nil && !errors.Is(err, adapter.ErrAlreadyExists) {
			return err
		}
		// a conflict means an earlier push landed; converge, don't fight
		return s.localStore.MarkSynced(ctx, task.ID)

	case models.StatusUpdated:
		_, err := s.serverAdapter.UpdateTask(ctx, task)
		if errors.Is(err, adapter.ErrNotFound) {
			// deleted remotely while edited locally; the deletion wins
			return s.localStore.HardDelete(ctx, task.ID)
		}
		if err != nil {
			return err
		}
		return s.localStore.MarkSynced(ctx, task.ID)

	case models.StatusError:
		// stays parked until Retry or a local edit re-queues it
		return nil

	default:
		return nil
	}
}

// Pull implements [RecordSyncEngine]. It fetches the full server task set and
// merges it into the local replica: dirty records keep their local state,
// clean records adopt the remote one, and clean records absent from the fetch
// are removed as orphans. The merge and sweep commit in one transaction.
func (s *restSyncService) Pull(ctx context.Context) error {
	remote, err := s.serverAdapter.GetTasks(ctx)
	if err != nil {
		return fmt.Errorf("fetch server tasks: %w", err)
	}

	if err = s.localStore.MergeRemote(ctx, remote, true); err != nil {
		return fmt.Errorf("merge server tasks: %w", err)
	}

	return nil
}

// SyncOne implements [RecordSyncEngine]. It refreshes a single record from
// the server without sweeping, so unrelated local state is untouched.
func (s *restSyncService) SyncOne(ctx context.Context, id string) error {
	task, err := s.serverAdapter.GetTask(ctx, id)
	if errors.Is(err, adapter.ErrNotFound) {
		local, getErr := s.localStore.Get(ctx, id)
		if errors.Is(getErr, store.ErrTaskNotFound) {
			return nil
		}
		if getErr != nil {
			return getErr
		}
		if local.SyncStatus == models.StatusSynced {
			return s.localStore.HardDelete(ctx, id)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("fetch server task %s: %w", id, err)
	}

	return s.localStore.MergeRemote(ctx, []models.Task{task}, false)
}

// Retry implements [RecordSyncEngine]. It clears the record's error through a
// no-op mutation, which re-queues it as created or updated, then runs Push.
func (s *restSyncService) Retry(ctx context.Context, id string) error {
	task, err := s.localStore.Get(ctx, id)
	if err != nil {
		return err
	}
	if task.SyncStatus == models.StatusError {
		if _, err = s.localStore.Mutate(ctx, id, func(*models.Task) {}); err != nil {
			return fmt.Errorf("requeue task %s: %w", id, err)
		}
	}

	return s.Push(ctx)
}

// FullSync implements [RecordSyncEngine].
func (s *restSyncService) FullSync(ctx context.Context) error {
	if err := s.Push(ctx); err != nil {
		return err
	}
	return s.Pull(ctx)
}
