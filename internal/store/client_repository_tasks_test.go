// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-task-keeper/internal/config"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/models"
)

func newTestLocalStore(t *testing.T) LocalTaskStore {
	t.Helper()

	db, err := NewConnectSQLite(context.Background(), config.Local{DSN: ":memory:"}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewLocalTaskStore(db, logger.Nop())
}

func TestLocalTaskStore_Create(t *testing.T) {
	store := newTestLocalStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, models.Task{Title: "buy milk", Body: "2l"})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.StatusCreated, created.SyncStatus)
	assert.False(t, created.RemoteSeen)
	assert.NotZero(t, created.CreatedAt)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestLocalTaskStore_GetNotFound(t *testing.T) {
	store := newTestLocalStore(t)

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestLocalTaskStore_MutateTransitions(t *testing.T) {
	tests := []struct {
		name       string
		prepare    func(t *testing.T, ctx context.Context, store LocalTaskStore) models.Task
		wantStatus models.SyncStatus
	}{
		{
			name: "created task stays created",
			prepare: func(t *testing.T, ctx context.Context, store LocalTaskStore) models.Task {
				task, err := store.Create(ctx, models.Task{Title: "a"})
				require.NoError(t, err)
				return task
			},
			wantStatus: models.StatusCreated,
		},
		{
			name: "synced task becomes updated",
			prepare: func(t *testing.T, ctx context.Context, store LocalTaskStore) models.Task {
				task, err := store.Create(ctx, models.Task{Title: "a"})
				require.NoError(t, err)
				require.NoError(t, store.MarkSynced(ctx, task.ID))
				return task
			},
			wantStatus: models.StatusUpdated,
		},
		{
			name: "errored unseen task becomes created again",
			prepare: func(t *testing.T, ctx context.Context, store LocalTaskStore) models.Task {
				task, err := store.Create(ctx, models.Task{Title: "a"})
				require.NoError(t, err)
				require.NoError(t, store.MarkError(ctx, task.ID, "boom"))
				return task
			},
			wantStatus: models.StatusCreated,
		},
		{
			name: "errored seen task becomes updated",
			prepare: func(t *testing.T, ctx context.Context, store LocalTaskStore) models.Task {
				task, err := store.Create(ctx, models.Task{Title: "a"})
				require.NoError(t, err)
				require.NoError(t, store.MarkSynced(ctx, task.ID))
				_, err = store.Mutate(ctx, task.ID, func(m *models.Task) { m.Title = "b" })
				require.NoError(t, err)
				require.NoError(t, store.MarkError(ctx, task.ID, "boom"))
				return task
			},
			wantStatus: models.StatusUpdated,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestLocalStore(t)
			ctx := context.Background()

			task := tt.prepare(t, ctx, store)

			mutated, err := store.Mutate(ctx, task.ID, func(m *models.Task) {
				m.Title = "edited"
			})
			require.NoError(t, err)

			assert.Equal(t, "edited", mutated.Title)
			assert.Equal(t, tt.wantStatus, mutated.SyncStatus)
			assert.Empty(t, mutated.SyncError)
		})
	}
}

func TestLocalTaskStore_MutateProtectsIdentity(t *testing.T) {
	store := newTestLocalStore(t)
	ctx := context.Background()

	task, err := store.Create(ctx, models.Task{Title: "a"})
	require.NoError(t, err)

	mutated, err := store.Mutate(ctx, task.ID, func(m *models.Task) {
		m.ID = "hijacked"
		m.CreatedAt = 1
		m.SyncStatus = models.StatusSynced
		m.RemoteSeen = true
	})
	require.NoError(t, err)

	assert.Equal(t, task.ID, mutated.ID)
	assert.Equal(t, task.CreatedAt, mutated.CreatedAt)
	assert.Equal(t, models.StatusCreated, mutated.SyncStatus)
	assert.False(t, mutated.RemoteSeen)
	assert.GreaterOrEqual(t, mutated.UpdatedAt, task.UpdatedAt)
}

func TestLocalTaskStore_SoftDelete(t *testing.T) {
	t.Run("unseen task is removed outright", func(t *testing.T) {
		store := newTestLocalStore(t)
		ctx := context.Background()

		task, err := store.Create(ctx, models.Task{Title: "local only"})
		require.NoError(t, err)

		require.NoError(t, store.SoftDelete(ctx, task.ID))

		_, err = store.Get(ctx, task.ID)
		assert.ErrorIs(t, err, ErrTaskNotFound)
	})

	t.Run("seen task is marked deleted", func(t *testing.T) {
		store := newTestLocalStore(t)
		ctx := context.Background()

		task, err := store.Create(ctx, models.Task{Title: "pushed"})
		require.NoError(t, err)
		require.NoError(t, store.MarkSynced(ctx, task.ID))

		require.NoError(t, store.SoftDelete(ctx, task.ID))

		got, err := store.Get(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusDeleted, got.SyncStatus)
	})

	t.Run("missing task", func(t *testing.T) {
		store := newTestLocalStore(t)
		err := store.SoftDelete(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrTaskNotFound)
	})
}

func TestLocalTaskStore_MarkError(t *testing.T) {
	store := newTestLocalStore(t)
	ctx := context.Background()

	task, err := store.Create(ctx, models.Task{Title: "a"})
	require.NoError(t, err)

	require.NoError(t, store.MarkError(ctx, task.ID, "connection refused"))

	got, err := store.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusError, got.SyncStatus)
	assert.Equal(t, "connection refused", got.SyncError)
}

func TestLocalTaskStore_MarkErrorKeepsDeleteIntent(t *testing.T) {
	store := newTestLocalStore(t)
	ctx := context.Background()

	task, err := store.Create(ctx, models.Task{Title: "a"})
	require.NoError(t, err)
	require.NoError(t, store.MarkSynced(ctx, task.ID))
	require.NoError(t, store.SoftDelete(ctx, task.ID))

	require.NoError(t, store.MarkError(ctx, task.ID, "timeout"))

	got, err := store.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDeleted, got.SyncStatus)
	assert.Equal(t, "timeout", got.SyncError)
}

func TestLocalTaskStore_DirtyOrder(t *testing.T) {
	store := newTestLocalStore(t)
	ctx := context.Background()

	updated, err := store.Create(ctx, models.Task{Title: "to update"})
	require.NoError(t, err)
	require.NoError(t, store.MarkSynced(ctx, updated.ID))
	_, err = store.Mutate(ctx, updated.ID, func(m *models.Task) { m.Title = "updated" })
	require.NoError(t, err)

	created, err := store.Create(ctx, models.Task{Title: "to create"})
	require.NoError(t, err)

	deleted, err := store.Create(ctx, models.Task{Title: "to delete"})
	require.NoError(t, err)
	require.NoError(t, store.MarkSynced(ctx, deleted.ID))
	require.NoError(t, store.SoftDelete(ctx, deleted.ID))

	clean, err := store.Create(ctx, models.Task{Title: "clean"})
	require.NoError(t, err)
	require.NoError(t, store.MarkSynced(ctx, clean.ID))

	dirty, err := store.Dirty(ctx)
	require.NoError(t, err)
	require.Len(t, dirty, 3)

	assert.Equal(t, deleted.ID, dirty[0].ID)
	assert.Equal(t, created.ID, dirty[1].ID)
	assert.Equal(t, updated.ID, dirty[2].ID)
}

func TestLocalTaskStore_ApplyChanges(t *testing.T) {
	store := newTestLocalStore(t)
	ctx := context.Background()

	stale, err := store.Create(ctx, models.Task{ID: "stale", Title: "old"})
	require.NoError(t, err)
	require.NoError(t, store.MarkSynced(ctx, stale.ID))

	gone, err := store.Create(ctx, models.Task{ID: "gone", Title: "gone"})
	require.NoError(t, err)
	require.NoError(t, store.MarkSynced(ctx, gone.ID))

	pulledAt := int64(1700000000000)
	changes := models.TaskChanges{
		Created: []models.Task{{ID: "fresh", Title: "fresh", CreatedAt: 1, UpdatedAt: 1}},
		Updated: []models.Task{{ID: "stale", Title: "new", CreatedAt: stale.CreatedAt, UpdatedAt: 2}},
		Deleted: []string{"gone"},
	}
	require.NoError(t, store.ApplyChanges(ctx, changes, models.Cursor{LastPulledAt: &pulledAt}))

	fresh, err := store.Get(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSynced, fresh.SyncStatus)
	assert.True(t, fresh.RemoteSeen)

	updated, err := store.Get(ctx, "stale")
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Title)

	_, err = store.Get(ctx, "gone")
	assert.ErrorIs(t, err, ErrTaskNotFound)

	cursor, err := store.Cursor(ctx)
	require.NoError(t, err)
	require.NotNil(t, cursor.LastPulledAt)
	assert.Equal(t, pulledAt, *cursor.LastPulledAt)
}

func TestLocalTaskStore_CursorNotFound(t *testing.T) {
	store := newTestLocalStore(t)

	_, err := store.Cursor(context.Background())
	assert.ErrorIs(t, err, ErrCursorNotFound)
}

func TestLocalTaskStore_MergeRemote(t *testing.T) {
	store := newTestLocalStore(t)
	ctx := context.Background()

	syncedLocal, err := store.Create(ctx, models.Task{ID: "shared", Title: "old"})
	require.NoError(t, err)
	require.NoError(t, store.MarkSynced(ctx, syncedLocal.ID))

	_, err = store.Create(ctx, models.Task{ID: "dirty", Title: "mine"})
	require.NoError(t, err)

	orphan, err := store.Create(ctx, models.Task{ID: "orphan", Title: "stale"})
	require.NoError(t, err)
	require.NoError(t, store.MarkSynced(ctx, orphan.ID))

	remote := []models.Task{
		{ID: "shared", Title: "theirs", CreatedAt: 1, UpdatedAt: 9},
		{ID: "dirty", Title: "theirs too", CreatedAt: 1, UpdatedAt: 9},
		{ID: "new", Title: "brand new", CreatedAt: 2, UpdatedAt: 2},
	}
	require.NoError(t, store.MergeRemote(ctx, remote, true))

	shared, err := store.Get(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, "theirs", shared.Title, "synced record adopts the remote state")

	dirty, err := store.Get(ctx, "dirty")
	require.NoError(t, err)
	assert.Equal(t, "mine", dirty.Title, "dirty record keeps local edits")
	assert.Equal(t, models.StatusCreated, dirty.SyncStatus)

	fresh, err := store.Get(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSynced, fresh.SyncStatus)

	_, err = store.Get(ctx, "orphan")
	assert.ErrorIs(t, err, ErrTaskNotFound, "synced record absent remotely is swept")
}

func TestLocalTaskStore_MergeRemoteWithoutSweep(t *testing.T) {
	store := newTestLocalStore(t)
	ctx := context.Background()

	orphan, err := store.Create(ctx, models.Task{ID: "orphan", Title: "stale"})
	require.NoError(t, err)
	require.NoError(t, store.MarkSynced(ctx, orphan.ID))

	require.NoError(t, store.MergeRemote(ctx, nil, false))

	_, err = store.Get(ctx, "orphan")
	assert.NoError(t, err)
}

func TestLocalTaskStore_PendingUploads(t *testing.T) {
	store := newTestLocalStore(t)
	ctx := context.Background()

	pending, err := store.Create(ctx, models.Task{Title: "with image", ImageLocalURI: "file:///a.jpg", ImageUploadStatus: models.UploadPending})
	require.NoError(t, err)

	_, err = store.Create(ctx, models.Task{Title: "no image"})
	require.NoError(t, err)

	doomed, err := store.Create(ctx, models.Task{Title: "deleted", ImageLocalURI: "file:///b.jpg", ImageUploadStatus: models.UploadPending})
	require.NoError(t, err)
	require.NoError(t, store.MarkSynced(ctx, doomed.ID))
	require.NoError(t, store.SoftDelete(ctx, doomed.ID))

	got, err := store.PendingUploads(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, pending.ID, got[0].ID)
}

func TestLocalTaskStore_Subscribe(t *testing.T) {
	store := newTestLocalStore(t)
	ctx := context.Background()

	var calls int
	unsubscribe := store.Subscribe(func() { calls++ })

	task, err := store.Create(ctx, models.Task{Title: "a"})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	unsubscribe()

	require.NoError(t, store.MarkSynced(ctx, task.ID))
	assert.Equal(t, 1, calls)
}
