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

type bulkSyncService struct {
	localStore    store.LocalTaskStore
	serverAdapter adapter.ServerAdapter
	logger        *logger.Logger
}

// NewBulkSyncService creates the cursor-diff sync engine. Changes travel in
// batches: a push either lands entirely or not at all, and a pull advances
// the cursor only together with its writes.
func NewBulkSyncService(localStore store.LocalTaskStore, serverAdapter adapter.ServerAdapter, logger *logger.Logger) SyncEngine {
	return &bulkSyncService{
		localStore:    localStore,
		serverAdapter: serverAdapter,
		logger:        logger,
	}
}

// Push implements [SyncEngine]. All dirty records go out in a single batch;
// on success every submitted record is marked synced and deletions are purged.
// On failure nothing local changes, so the next cycle resubmits the same set.
func (s *bulkSyncService) Push(ctx context.Context) error {
	log := logger.FromContext(ctx)

	dirty, err := s.localStore.Dirty(ctx)
	if err != nil {
		return fmt.Errorf("load push queue: %w", err)
	}
	changes := bucketChanges(dirty)
	if changes.Empty() {
		return nil
	}

	cursor := s.loadCursor(ctx)

	if _, err = s.serverAdapter.Push(ctx, models.PushRequest{Changes: changes, LastPulledAt: cursor.LastPulledAt}); err != nil {
		return fmt.Errorf("push batch: %w", err)
	}

	for _, id := range changes.Deleted {
		if err = s.localStore.HardDelete(ctx, id); err != nil {
			log.Err(err).Str("func", "bulkSyncService.Push").Str("id", id).Msg("failed to purge pushed deletion")
		}
	}
	for _, task := range append(changes.Created, changes.Updated...) {
		if err = s.localStore.MarkSynced(ctx, task.ID); err != nil {
			log.Err(err).Str("func", "bulkSyncService.Push").Str("id", task.ID).Msg("failed to mark pushed record synced")
		}
	}

	return nil
}

// bucketChanges splits the dirty queue into the wire change set. Errored
// records re-enter the batch as creates or updates depending on whether the
// server has ever acknowledged them.
func bucketChanges(dirty []models.Task) models.TaskChanges {
	var changes models.TaskChanges

	for _, task := range dirty {
		switch task.SyncStatus {
		case models.StatusDeleted:
			changes.Deleted = append(changes.Deleted, task.ID)
		case models.StatusCreated:
			changes.Created = append(changes.Created, task)
		case models.StatusUpdated:
			changes.Updated = append(changes.Updated, task)
		case models.StatusError:
			if task.RemoteSeen {
				changes.Updated = append(changes.Updated, task)
			} else {
				changes.Created = append(changes.Created, task)
			}
		}
	}

	return changes
}

// Pull implements [SyncEngine]. It requests everything after the persisted
// cursor and applies the response in one transaction together with the new
// cursor value.
func (s *bulkSyncService) Pull(ctx context.Context) error {
	cursor := s.loadCursor(ctx)

	resp, err := s.serverAdapter.Pull(ctx, models.PullRequest{
		LastPulledAt:  cursor.LastPulledAt,
		SchemaVersion: cursor.SchemaVersion,
	})
	if err != nil {
		return fmt.Errorf("pull batch: %w", err)
	}

	next := models.Cursor{LastPulledAt: &resp.Timestamp, SchemaVersion: cursor.SchemaVersion}
	if err = s.localStore.ApplyChanges(ctx, resp.Changes, next); err != nil {
		return fmt.Errorf("apply pulled batch: %w", err)
	}

	return nil
}

// FullSync implements [SyncEngine]. Unlike the REST engine the whole cycle is
// all-or-nothing: a failed push aborts the pull.
func (s *bulkSyncService) FullSync(ctx context.Context) error {
	if err := s.Push(ctx); err != nil {
		return err
	}
	return s.Pull(ctx)
}

// loadCursor returns the persisted cursor, or the zero cursor on first sync.
func (s *bulkSyncService) loadCursor(ctx context.Context) models.Cursor {
	cursor, err := s.localStore.Cursor(ctx)
	if errors.Is(err, store.ErrCursorNotFound) {
		return models.Cursor{}
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "bulkSyncService.loadCursor").Msg("failed to load cursor, treating as first sync")
		return models.Cursor{}
	}
	return cursor
}
