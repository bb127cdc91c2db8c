package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/store"
	"github.com/MKhiriev/go-task-keeper/models"
)

func newTestTaskSvc(t *testing.T) TaskService {
	t.Helper()
	return NewTaskService(store.NewMemoryTaskRepository(), logger.Nop())
}

func TestTaskService_Create(t *testing.T) {
	svc := newTestTaskSvc(t)

	created, err := svc.Create(context.Background(), models.Task{Title: "buy milk"})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID, "server assigns missing ids")
	assert.NotZero(t, created.CreatedAt)
	assert.Equal(t, models.UploadNone, created.ImageUploadStatus)
}

func TestTaskService_Create_EmptyTitle(t *testing.T) {
	svc := newTestTaskSvc(t)

	_, err := svc.Create(context.Background(), models.Task{Title: "   "})
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestTaskService_Create_KeepsClientID(t *testing.T) {
	svc := newTestTaskSvc(t)

	created, err := svc.Create(context.Background(), models.Task{ID: "client-id", Title: "a"})
	require.NoError(t, err)
	assert.Equal(t, "client-id", created.ID)

	_, err = svc.Create(context.Background(), models.Task{ID: "client-id", Title: "b"})
	assert.ErrorIs(t, err, store.ErrTaskAlreadyExists)
}

func TestTaskService_Update(t *testing.T) {
	svc := newTestTaskSvc(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, models.Task{Title: "before", Body: "keep"})
	require.NoError(t, err)

	title := "after"
	updated, err := svc.Update(ctx, created.ID, models.TaskPatch{Title: &title})
	require.NoError(t, err)

	assert.Equal(t, "after", updated.Title)
	assert.Equal(t, "keep", updated.Body)
	assert.GreaterOrEqual(t, updated.UpdatedAt, created.UpdatedAt)
}

func TestTaskService_Update_NotFound(t *testing.T) {
	svc := newTestTaskSvc(t)

	title := "x"
	_, err := svc.Update(context.Background(), "missing", models.TaskPatch{Title: &title})
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestTaskService_Update_EmptyID(t *testing.T) {
	svc := newTestTaskSvc(t)

	_, err := svc.Update(context.Background(), "", models.TaskPatch{})
	assert.ErrorIs(t, err, ErrEmptyTaskID)
}

func TestTaskService_Replace(t *testing.T) {
	svc := newTestTaskSvc(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, models.Task{Title: "partial", Body: "old body"})
	require.NoError(t, err)

	replaced, err := svc.Replace(ctx, models.Task{ID: created.ID, Title: "full state"})
	require.NoError(t, err)
	assert.Equal(t, created.CreatedAt, replaced.CreatedAt)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "full state", got.Title)
	assert.Empty(t, got.Body)
}

func TestTaskService_Replace_MissingIsNotFound(t *testing.T) {
	svc := newTestTaskSvc(t)
	ctx := context.Background()

	_, err := svc.Replace(ctx, models.Task{ID: "up", Title: "full state"})
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	_, err = svc.Get(ctx, "up")
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestTaskService_Delete(t *testing.T) {
	svc := newTestTaskSvc(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, models.Task{Title: "doomed"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestTaskService_Get_EmptyID(t *testing.T) {
	svc := newTestTaskSvc(t)

	_, err := svc.Get(context.Background(), " ")
	assert.ErrorIs(t, err, ErrEmptyTaskID)
}
