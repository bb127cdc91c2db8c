package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/store"
	"github.com/MKhiriev/go-task-keeper/internal/utils"
	"github.com/MKhiriev/go-task-keeper/models"
)

// taskService is the concrete implementation of TaskService backed by a
// TaskRepository. It owns server-side id assignment and timestamps so the
// repository can stay a dumb persistence layer.
type taskService struct {
	taskRepository store.TaskRepository
	ids            *utils.UUIDGenerator
	logger         *logger.Logger
}

func NewTaskService(taskRepository store.TaskRepository, logger *logger.Logger) TaskService {
	return &taskService{
		taskRepository: taskRepository,
		ids:            utils.NewUUIDGenerator(),
		logger:         logger,
	}
}

func (s *taskService) List(ctx context.Context) ([]models.Task, error) {
	return s.taskRepository.List(ctx)
}

func (s *taskService) Get(ctx context.Context, id string) (models.Task, error) {
	if strings.TrimSpace(id) == "" {
		return models.Task{}, ErrEmptyTaskID
	}
	return s.taskRepository.Get(ctx, id)
}

func (s *taskService) Create(ctx context.Context, task models.Task) (models.Task, error) {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(task.Title) == "" {
		return models.Task{}, fmt.Errorf("%w: empty title", ErrInvalidDataProvided)
	}
	if task.ID == "" {
		task.ID = s.ids.Generate()
	}
	if task.ImageUploadStatus == "" {
		task.ImageUploadStatus = models.UploadNone
	}

	// server time wins over whatever the client stamped; pull bucketing
	// compares these against cursors minted from the same clock
	now := utils.NowMillis()
	task.CreatedAt = now
	task.UpdatedAt = now

	created, err := s.taskRepository.Create(ctx, task)
	if err != nil {
		return models.Task{}, err
	}

	log.Debug().Str("func", "taskService.Create").Str("id", created.ID).Msg("task created")
	return created, nil
}

func (s *taskService) Update(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error) {
	if strings.TrimSpace(id) == "" {
		return models.Task{}, ErrEmptyTaskID
	}

	task, err := s.taskRepository.Get(ctx, id)
	if err != nil {
		return models.Task{}, err
	}

	patch.Apply(&task)
	task.UpdatedAt = utils.NowMillis()

	if err = s.taskRepository.Upsert(ctx, task); err != nil {
		return models.Task{}, err
	}

	return task, nil
}

func (s *taskService) Replace(ctx context.Context, task models.Task) (models.Task, error) {
	if strings.TrimSpace(task.ID) == "" {
		return models.Task{}, ErrEmptyTaskID
	}

	// a replace overwrites an existing task; it never creates one
	existing, err := s.taskRepository.Get(ctx, task.ID)
	if err != nil {
		return models.Task{}, err
	}

	task.CreatedAt = existing.CreatedAt
	task.UpdatedAt = utils.NowMillis()
	if task.ImageUploadStatus == "" {
		task.ImageUploadStatus = models.UploadNone
	}

	if err = s.taskRepository.Upsert(ctx, task); err != nil {
		return models.Task{}, err
	}

	return task, nil
}

func (s *taskService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrEmptyTaskID
	}
	return s.taskRepository.Delete(ctx, id)
}
