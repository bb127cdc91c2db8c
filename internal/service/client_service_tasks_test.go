package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/mock"
	"github.com/MKhiriev/go-task-keeper/internal/store"
	"github.com/MKhiriev/go-task-keeper/models"
)

func newTestTaskService(t *testing.T, ctrl *gomock.Controller, online bool) (ClientTaskService, store.LocalTaskStore, *mock.MockServerAdapter) {
	t.Helper()

	localStore := newTestLocalStore(t)
	mockAdapter := mock.NewMockServerAdapter(ctrl)
	oracle := mock.NewMockOracle(ctrl)
	oracle.EXPECT().Online(gomock.Any()).Return(online).AnyTimes()

	engine := NewRESTSyncService(localStore, mockAdapter, logger.Nop())
	svc := NewClientTaskService(localStore, engine, oracle, logger.Nop())

	return svc, localStore, mockAdapter
}

func TestClientTaskService_Create_OfflineStaysLocal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, _, _ := newTestTaskService(t, ctrl, false)

	created, err := svc.Create(context.Background(), models.Task{Title: "offline note"})
	require.NoError(t, err)

	assert.Equal(t, models.StatusCreated, created.SyncStatus, "offline writes queue locally")
}

func TestClientTaskService_Create_OnlinePushesImmediately(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, _, mockAdapter := newTestTaskService(t, ctrl, true)
	ctx := context.Background()

	mockAdapter.EXPECT().CreateTask(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, task models.Task) (models.Task, error) {
			return task, nil
		})

	created, err := svc.Create(ctx, models.Task{Title: "online note"})
	require.NoError(t, err)

	assert.Equal(t, models.StatusSynced, created.SyncStatus, "online writes are pushed in the same call")
}

func TestClientTaskService_Create_ImageQueuesUpload(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, _, _ := newTestTaskService(t, ctrl, false)

	created, err := svc.Create(context.Background(), models.Task{
		Title:         "with photo",
		ImageLocalURI: "file:///tmp/photo.jpg",
	})
	require.NoError(t, err)

	assert.Equal(t, models.UploadPending, created.ImageUploadStatus)
}

func TestClientTaskService_Update_PatchesFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, localStore, _ := newTestTaskService(t, ctrl, false)
	ctx := context.Background()

	task, err := localStore.Create(ctx, models.Task{Title: "before", Body: "keep me"})
	require.NoError(t, err)

	title := "after"
	done := true
	updated, err := svc.Update(ctx, task.ID, models.TaskPatch{Title: &title, Done: &done})
	require.NoError(t, err)

	assert.Equal(t, "after", updated.Title)
	assert.True(t, updated.Done)
	assert.Equal(t, "keep me", updated.Body, "unpatched fields survive")
}

func TestClientTaskService_Delete_Offline(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, localStore, _ := newTestTaskService(t, ctrl, false)
	ctx := context.Background()

	task, err := localStore.Create(ctx, models.Task{Title: "doomed"})
	require.NoError(t, err)
	require.NoError(t, localStore.MarkSynced(ctx, task.ID))

	require.NoError(t, svc.Delete(ctx, task.ID))

	got, err := localStore.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDeleted, got.SyncStatus, "deletion waits in the queue while offline")
}

func TestClientTaskService_Retry_OfflineRequeuesOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, localStore, _ := newTestTaskService(t, ctrl, false)
	ctx := context.Background()

	task, err := localStore.Create(ctx, models.Task{Title: "failed"})
	require.NoError(t, err)
	require.NoError(t, localStore.MarkError(ctx, task.ID, "boom"))

	require.NoError(t, svc.Retry(ctx, task.ID))

	got, err := localStore.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCreated, got.SyncStatus, "requeued for the reconnect push")
	assert.Empty(t, got.SyncError)
}
