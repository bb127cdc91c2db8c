package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/netwatch"
	"github.com/MKhiriev/go-task-keeper/internal/store"
	"github.com/MKhiriev/go-task-keeper/models"
)

type clientTaskService struct {
	localStore store.LocalTaskStore
	engine     RecordSyncEngine
	oracle     netwatch.Oracle
	logger     *logger.Logger
}

// NewClientTaskService creates the local-first task API. Writes always land
// in the local replica; when the server is reachable the written record is
// additionally pushed in the same call, best effort.
func NewClientTaskService(localStore store.LocalTaskStore, engine RecordSyncEngine, oracle netwatch.Oracle, logger *logger.Logger) ClientTaskService {
	return &clientTaskService{
		localStore: localStore,
		engine:     engine,
		oracle:     oracle,
		logger:     logger,
	}
}

func (s *clientTaskService) Create(ctx context.Context, task models.Task) (models.Task, error) {
	if task.ImageLocalURI != "" && task.ImageUploadStatus == "" {
		task.ImageUploadStatus = models.UploadPending
	}

	created, err := s.localStore.Create(ctx, task)
	if err != nil {
		return models.Task{}, fmt.Errorf("create task: %w", err)
	}

	s.pushOpportunistically(ctx)
	// return the stored state, the push may already have marked it synced
	return s.localStore.Get(ctx, created.ID)
}

func (s *clientTaskService) Get(ctx context.Context, id string) (models.Task, error) {
	return s.localStore.Get(ctx, id)
}

func (s *clientTaskService) List(ctx context.Context) ([]models.Task, error) {
	return s.localStore.List(ctx)
}

func (s *clientTaskService) Update(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error) {
	updated, err := s.localStore.Mutate(ctx, id, func(t *models.Task) {
		patch.Apply(t)
		if t.ImageLocalURI != "" && t.ImageRemoteURL == "" {
			t.ImageUploadStatus = models.UploadPending
		}
	})
	if err != nil {
		return models.Task{}, err
	}

	s.pushOpportunistically(ctx)
	return s.localStore.Get(ctx, updated.ID)
}

func (s *clientTaskService) Delete(ctx context.Context, id string) error {
	if err := s.localStore.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.pushOpportunistically(ctx)
	return nil
}

// Retry implements [ClientTaskService].
func (s *clientTaskService) Retry(ctx context.Context, id string) error {
	if !s.oracle.Online(ctx) {
		// requeue without pushing; the reconnect listener will pick it up
		task, err := s.localStore.Get(ctx, id)
		if err != nil {
			return err
		}
		if task.SyncStatus == models.StatusError {
			_, err = s.localStore.Mutate(ctx, id, func(*models.Task) {})
		}
		return err
	}
	return s.engine.Retry(ctx, id)
}

// pushOpportunistically flushes the dirty queue when the server is reachable.
// Failures are recorded per record by the engine; offline is simply quiet.
func (s *clientTaskService) pushOpportunistically(ctx context.Context) {
	if !s.oracle.Online(ctx) {
		return
	}
	if err := s.engine.Push(ctx); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("func", "clientTaskService.pushOpportunistically").Msg("opportunistic push failed")
	}
}
