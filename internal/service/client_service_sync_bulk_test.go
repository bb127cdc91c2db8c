package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/mock"
	"github.com/MKhiriev/go-task-keeper/internal/store"
	"github.com/MKhiriev/go-task-keeper/models"
)

func newTestBulkEngine(t *testing.T, ctrl *gomock.Controller) (SyncEngine, store.LocalTaskStore, *mock.MockServerAdapter) {
	t.Helper()

	localStore := newTestLocalStore(t)
	mockAdapter := mock.NewMockServerAdapter(ctrl)

	return NewBulkSyncService(localStore, mockAdapter, logger.Nop()), localStore, mockAdapter
}

func TestBulkSync_Push_BucketsByStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	engine, localStore, mockAdapter := newTestBulkEngine(t, ctrl)
	ctx := context.Background()

	created, err := localStore.Create(ctx, models.Task{Title: "new"})
	require.NoError(t, err)

	updated, err := localStore.Create(ctx, models.Task{Title: "edited"})
	require.NoError(t, err)
	require.NoError(t, localStore.MarkSynced(ctx, updated.ID))
	_, err = localStore.Mutate(ctx, updated.ID, func(m *models.Task) { m.Title = "edited v2" })
	require.NoError(t, err)

	deleted, err := localStore.Create(ctx, models.Task{Title: "gone"})
	require.NoError(t, err)
	require.NoError(t, localStore.MarkSynced(ctx, deleted.ID))
	require.NoError(t, localStore.SoftDelete(ctx, deleted.ID))

	mockAdapter.EXPECT().Push(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, req models.PushRequest) (models.PushResponse, error) {
			require.Len(t, req.Changes.Created, 1)
			assert.Equal(t, created.ID, req.Changes.Created[0].ID)
			require.Len(t, req.Changes.Updated, 1)
			assert.Equal(t, updated.ID, req.Changes.Updated[0].ID)
			assert.Equal(t, []string{deleted.ID}, req.Changes.Deleted)
			return models.PushResponse{OK: true}, nil
		})

	require.NoError(t, engine.Push(ctx))

	gotCreated, err := localStore.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSynced, gotCreated.SyncStatus)

	gotUpdated, err := localStore.Get(ctx, updated.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSynced, gotUpdated.SyncStatus)

	_, err = localStore.Get(ctx, deleted.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestBulkSync_Push_EmptyQueueSkipsRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	engine, _, mockAdapter := newTestBulkEngine(t, ctrl)

	// no Push expectation: an empty change-set never hits the wire
	_ = mockAdapter

	require.NoError(t, engine.Push(context.Background()))
}

func TestBulkSync_Push_FailureLeavesQueueIntact(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	engine, localStore, mockAdapter := newTestBulkEngine(t, ctrl)
	ctx := context.Background()

	task, err := localStore.Create(ctx, models.Task{Title: "stuck"})
	require.NoError(t, err)

	mockAdapter.EXPECT().Push(ctx, gomock.Any()).
		Return(models.PushResponse{}, errors.New("server exploded"))

	require.Error(t, engine.Push(ctx))

	got, err := localStore.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCreated, got.SyncStatus, "a failed batch marks nothing synced")
}

func TestBulkSync_Push_ErroredRecordsRejoinBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	engine, localStore, mockAdapter := newTestBulkEngine(t, ctrl)
	ctx := context.Background()

	neverSeen, err := localStore.Create(ctx, models.Task{Title: "failed create"})
	require.NoError(t, err)
	require.NoError(t, localStore.MarkError(ctx, neverSeen.ID, "boom"))

	seen, err := localStore.Create(ctx, models.Task{Title: "failed update"})
	require.NoError(t, err)
	require.NoError(t, localStore.MarkSynced(ctx, seen.ID))
	_, err = localStore.Mutate(ctx, seen.ID, func(m *models.Task) { m.Title = "v2" })
	require.NoError(t, err)
	require.NoError(t, localStore.MarkError(ctx, seen.ID, "boom"))

	mockAdapter.EXPECT().Push(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, req models.PushRequest) (models.PushResponse, error) {
			require.Len(t, req.Changes.Created, 1)
			assert.Equal(t, neverSeen.ID, req.Changes.Created[0].ID)
			require.Len(t, req.Changes.Updated, 1)
			assert.Equal(t, seen.ID, req.Changes.Updated[0].ID)
			return models.PushResponse{OK: true}, nil
		})

	require.NoError(t, engine.Push(ctx))
}

func TestBulkSync_Pull_FirstSyncSendsNilCursor(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	engine, localStore, mockAdapter := newTestBulkEngine(t, ctrl)
	ctx := context.Background()

	mockAdapter.EXPECT().Pull(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, req models.PullRequest) (models.PullResponse, error) {
			assert.Nil(t, req.LastPulledAt, "first sync carries no cursor")
			return models.PullResponse{
				Changes: models.TaskChanges{
					Created: []models.Task{{ID: "a", Title: "seeded", CreatedAt: 1, UpdatedAt: 1}},
				},
				Timestamp: 5000,
			}, nil
		})

	require.NoError(t, engine.Pull(ctx))

	got, err := localStore.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSynced, got.SyncStatus)

	cursor, err := localStore.Cursor(ctx)
	require.NoError(t, err)
	require.NotNil(t, cursor.LastPulledAt)
	assert.Equal(t, int64(5000), *cursor.LastPulledAt)
}

func TestBulkSync_Pull_AdvancesCursorWithWrites(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	engine, localStore, mockAdapter := newTestBulkEngine(t, ctrl)
	ctx := context.Background()

	first := mockAdapter.EXPECT().Pull(ctx, gomock.Any()).Return(models.PullResponse{
		Changes:   models.TaskChanges{Created: []models.Task{{ID: "a", CreatedAt: 1, UpdatedAt: 1, Title: "v1"}}},
		Timestamp: 1000,
	}, nil)

	mockAdapter.EXPECT().Pull(ctx, gomock.Any()).After(first).DoAndReturn(
		func(_ context.Context, req models.PullRequest) (models.PullResponse, error) {
			require.NotNil(t, req.LastPulledAt)
			assert.Equal(t, int64(1000), *req.LastPulledAt)
			return models.PullResponse{
				Changes: models.TaskChanges{
					Updated: []models.Task{{ID: "a", CreatedAt: 1, UpdatedAt: 2, Title: "v2"}},
					Deleted: []string{"b"},
				},
				Timestamp: 2000,
			}, nil
		})

	require.NoError(t, engine.Pull(ctx))
	require.NoError(t, engine.Pull(ctx))

	got, err := localStore.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Title)

	cursor, err := localStore.Cursor(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), *cursor.LastPulledAt)
}

func TestBulkSync_Pull_FailureKeepsCursor(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	engine, localStore, mockAdapter := newTestBulkEngine(t, ctrl)
	ctx := context.Background()

	mockAdapter.EXPECT().Pull(ctx, gomock.Any()).
		Return(models.PullResponse{}, errors.New("timeout"))

	require.Error(t, engine.Pull(ctx))

	_, err := localStore.Cursor(ctx)
	assert.ErrorIs(t, err, store.ErrCursorNotFound, "a failed pull never advances the cursor")
}

func TestBulkSync_FullSync_PushFailureAbortsPull(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	engine, localStore, mockAdapter := newTestBulkEngine(t, ctrl)
	ctx := context.Background()

	_, err := localStore.Create(ctx, models.Task{Title: "blocks the cycle"})
	require.NoError(t, err)

	mockAdapter.EXPECT().Push(ctx, gomock.Any()).
		Return(models.PushResponse{}, errors.New("rejected"))
	// no Pull expectation: the cycle aborts on push failure

	require.Error(t, engine.FullSync(ctx))
}
