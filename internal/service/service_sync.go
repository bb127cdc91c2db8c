// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/store"
	"github.com/MKhiriev/go-task-keeper/internal/utils"
	"github.com/MKhiriev/go-task-keeper/models"
)

// syncService is the server half of the bulk cursor-diff protocol, built on
// the same TaskRepository the REST handlers use.
type syncService struct {
	taskRepository store.TaskRepository
	logger         *logger.Logger
}

func NewSyncService(taskRepository store.TaskRepository, logger *logger.Logger) SyncService {
	return &syncService{
		taskRepository: taskRepository,
		logger:         logger,
	}
}

// Pull implements [SyncService]. Records created after the cursor are
// reported as created even when also updated since; a record can appear in
// exactly one bucket. A nil cursor reports the entire data set as created.
func (s *syncService) Pull(ctx context.Context, req models.PullRequest) (models.PullResponse, error) {
	log := logger.FromContext(ctx)

	// capture the cutoff before reading so changes racing the read land
	// after the reported timestamp and surface on the next pull
	now := utils.NowMillis()

	tasks, err := s.taskRepository.List(ctx)
	if err != nil {
		return models.PullResponse{}, fmt.Errorf("list tasks for pull: %w", err)
	}

	var changes models.TaskChanges
	if req.LastPulledAt == nil {
		changes.Created = tasks
	} else {
		cursor := *req.LastPulledAt
		for _, task := range tasks {
			switch {
			case task.CreatedAt > cursor:
				changes.Created = append(changes.Created, task)
			case task.UpdatedAt > cursor:
				changes.Updated = append(changes.Updated, task)
			}
		}

		changes.Deleted, err = s.taskRepository.DeletedSince(ctx, cursor)
		if err != nil {
			return models.PullResponse{}, fmt.Errorf("list tombstones for pull: %w", err)
		}
	}

	log.Debug().Str("func", "syncService.Pull").
		Int("created", len(changes.Created)).
		Int("updated", len(changes.Updated)).
		Int("deleted", len(changes.Deleted)).
		Msg("pull diff computed")

	return models.PullResponse{Changes: changes, Timestamp: now}, nil
}

// Push implements [SyncService]. Creates and updates are idempotent upserts,
// so a client resubmitting after a lost acknowledgement converges instead of
// conflicting.
func (s *syncService) Push(ctx context.Context, req models.PushRequest) (models.PushResponse, error) {
	log := logger.FromContext(ctx)

	for _, task := range append(req.Changes.Created, req.Changes.Updated...) {
		if task.ID == "" {
			return models.PushResponse{}, fmt.Errorf("%w: record without id", ErrInvalidDataProvided)
		}
		if err := s.taskRepository.Upsert(ctx, sanitizeForServer(task)); err != nil {
			return models.PushResponse{}, fmt.Errorf("upsert pushed task %s: %w", task.ID, err)
		}
	}

	for _, id := range req.Changes.Deleted {
		err := s.taskRepository.Delete(ctx, id)
		if err != nil && !errors.Is(err, store.ErrTaskNotFound) {
			return models.PushResponse{}, fmt.Errorf("delete pushed task %s: %w", id, err)
		}
	}

	log.Debug().Str("func", "syncService.Push").
		Int("created", len(req.Changes.Created)).
		Int("updated", len(req.Changes.Updated)).
		Int("deleted", len(req.Changes.Deleted)).
		Msg("push batch applied")

	return models.PushResponse{OK: true}, nil
}

// sanitizeForServer strips client-only reconciliation fields from a pushed
// record before it is stored.
func sanitizeForServer(task models.Task) models.Task {
	task.SyncStatus = ""
	task.SyncError = ""
	task.RemoteSeen = false
	if task.ImageUploadStatus == "" {
		task.ImageUploadStatus = models.UploadNone
	}
	if task.CreatedAt == 0 {
		task.CreatedAt = utils.NowMillis()
	}
	if task.UpdatedAt == 0 {
		task.UpdatedAt = task.CreatedAt
	}
	return task
}
