package store

import (
	"context"
	"sort"
	"sync"

	"github.com/MKhiriev/go-task-keeper/internal/utils"
	"github.com/MKhiriev/go-task-keeper/models"
)

type memoryTaskRepository struct {
	mu         sync.RWMutex
	tasks      map[string]models.Task
	tombstones []models.Tombstone
	ids        *utils.UUIDGenerator
}

// NewMemoryTaskRepository returns an in-memory TaskRepository used by the
// demo server mode and handler tests. State lives for the process lifetime.
func NewMemoryTaskRepository() TaskRepository {
	return &memoryTaskRepository{
		tasks: make(map[string]models.Task),
		ids:   utils.NewUUIDGenerator(),
	}
}

// NewSeededTaskRepository returns an in-memory repository pre-populated with
// a handful of demo tasks, mirroring a freshly provisioned server.
func NewSeededTaskRepository() TaskRepository {
	repo := &memoryTaskRepository{
		tasks: make(map[string]models.Task),
		ids:   utils.NewUUIDGenerator(),
	}
	repo.seed()
	return repo
}

func (m *memoryTaskRepository) seed() {
	seeds := []struct{ title, body string }{
		{"Buy groceries", "Milk, eggs, bread, and cheese"},
		{"Read the sync protocol notes", "Cursor diff, tombstones, conflict rules"},
		{"Build offline-first app", "Use this server as a base"},
		{"Go for a walk", "At least 30 minutes outside"},
		{"Write unit tests", "Cover sync and upload logic"},
	}

	now := utils.NowMillis()
	for _, s := range seeds {
		id := m.ids.Generate()
		m.tasks[id] = models.Task{
			ID:                id,
			Title:             s.title,
			Body:              s.body,
			ImageUploadStatus: models.UploadNone,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
	}
}

func (m *memoryTaskRepository) List(_ context.Context) ([]models.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tasks := make([]models.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		tasks = append(tasks, t)
	}
	// map iteration order is random; sort for stable listings
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })

	return tasks, nil
}

func (m *memoryTaskRepository) Get(_ context.Context, id string) (models.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	task, ok := m.tasks[id]
	if !ok {
		return models.Task{}, ErrTaskNotFound
	}
	return task, nil
}

func (m *memoryTaskRepository) Create(_ context.Context, task models.Task) (models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if task.ID == "" {
		task.ID = m.ids.Generate()
	}
	if _, exists := m.tasks[task.ID]; exists {
		return models.Task{}, ErrTaskAlreadyExists
	}

	if task.ImageUploadStatus == "" {
		task.ImageUploadStatus = models.UploadNone
	}
	m.tasks[task.ID] = task

	return task, nil
}

func (m *memoryTaskRepository) Upsert(_ context.Context, task models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if task.ImageUploadStatus == "" {
		task.ImageUploadStatus = models.UploadNone
	}
	m.tasks[task.ID] = task

	return nil
}

func (m *memoryTaskRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, existed := m.tasks[id]; !existed {
		return ErrTaskNotFound
	}
	delete(m.tasks, id)
	m.tombstones = append(m.tombstones, models.Tombstone{ID: id, DeletedAt: utils.NowMillis()})

	return nil
}

func (m *memoryTaskRepository) DeletedSince(_ context.Context, since int64) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for _, ts := range m.tombstones {
		if ts.DeletedAt <= since {
			continue
		}
		if _, dup := seen[ts.ID]; dup {
			continue
		}
		seen[ts.ID] = struct{}{}
		ids = append(ids, ts.ID)
	}

	return ids, nil
}
