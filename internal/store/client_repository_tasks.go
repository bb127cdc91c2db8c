// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/utils"
	"github.com/MKhiriev/go-task-keeper/models"
)

type localTaskRepository struct {
	db     *LocalDB
	ids    *utils.UUIDGenerator
	logger *logger.Logger

	mu      sync.Mutex
	subs    map[int]func()
	nextSub int
}

// NewLocalTaskStore returns the SQLite-backed LocalTaskStore.
func NewLocalTaskStore(db *LocalDB, logger *logger.Logger) LocalTaskStore {
	return &localTaskRepository{
		db:     db,
		ids:    utils.NewUUIDGenerator(),
		logger: logger,
		subs:   make(map[int]func()),
	}
}

func (l *localTaskRepository) Create(ctx context.Context, task models.Task) (models.Task, error) {
	log := logger.FromContext(ctx)

	if task.ID == "" {
		task.ID = l.ids.Generate()
	}
	now := utils.NowMillis()
	task.CreatedAt = now
	task.UpdatedAt = now
	task.SyncStatus = models.StatusCreated
	task.SyncError = ""
	task.RemoteSeen = false
	if task.ImageUploadStatus == "" {
		task.ImageUploadStatus = models.UploadNone
	}

	if _, err := l.db.ExecContext(ctx, insertLocalTask, localTaskValues(task)...); err != nil {
		log.Err(err).Str("func", "localTaskRepository.Create").Str("id", task.ID).Msg("failed to insert task")
		return models.Task{}, fmt.Errorf("failed to insert local task %s: %w", task.ID, err)
	}

	l.notify()
	return task, nil
}

func (l *localTaskRepository) Get(ctx context.Context, id string) (models.Task, error) {
	row := l.db.QueryRowContext(ctx, selectLocalTask, id)
	task, err := scanLocalTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, ErrTaskNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to scan local task %s: %w", id, err)
	}
	return task, nil
}

func (l *localTaskRepository) List(ctx context.Context) ([]models.Task, error) {
	return l.queryTasks(ctx, selectAllLocalTasks)
}

func (l *localTaskRepository) Dirty(ctx context.Context) ([]models.Task, error) {
	return l.queryTasks(ctx, selectDirtyLocalTasks)
}

func (l *localTaskRepository) PendingUploads(ctx context.Context) ([]models.Task, error) {
	return l.queryTasks(ctx, selectPendingUploadTasks)
}

func (l *localTaskRepository) queryTasks(ctx context.Context, query string) ([]models.Task, error) {
	rows, err := l.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query local tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]models.Task, 0)
	for rows.Next() {
		task, err := scanLocalTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan local tasks: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate local tasks: %w", err)
	}

	return tasks, nil
}

func (l *localTaskRepository) Mutate(ctx context.Context, id string, fn func(*models.Task)) (models.Task, error) {
	log := logger.FromContext(ctx)

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Task{}, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, selectLocalTask, id)
	task, err := scanLocalTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, ErrTaskNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to load local task %s: %w", id, err)
	}

	orig := task
	fn(&task)

	// identity and reconciliation bookkeeping are not the caller's to change
	task.ID = orig.ID
	task.CreatedAt = orig.CreatedAt
	task.SyncStatus = orig.SyncStatus
	task.SyncError = orig.SyncError
	task.RemoteSeen = orig.RemoteSeen
	task.UpdatedAt = utils.NowMillis()

	switch task.SyncStatus {
	case models.StatusSynced:
		task.SyncStatus = models.StatusUpdated
	case models.StatusError:
		// an edit re-enters the push queue and clears the stale failure
		if task.RemoteSeen {
			task.SyncStatus = models.StatusUpdated
		} else {
			task.SyncStatus = models.StatusCreated
		}
		task.SyncError = ""
	case models.StatusCreated, models.StatusUpdated, models.StatusDeleted:
		// already dirty, status stands
	}

	_, err = tx.ExecContext(ctx, updateLocalTask,
		task.Title,
		task.Body,
		task.Done,
		task.ImageLocalURI,
		task.ImageRemoteURL,
		task.ImageUploadStatus,
		task.UpdatedAt,
		task.SyncStatus,
		task.SyncError,
		task.RemoteSeen,
		task.ID,
	)
	if err != nil {
		log.Err(err).Str("func", "localTaskRepository.Mutate").Str("id", id).Msg("failed to update task")
		return models.Task{}, fmt.Errorf("failed to update local task %s: %w", id, err)
	}

	if err = tx.Commit(); err != nil {
		return models.Task{}, fmt.Errorf("%w: %w", ErrCommittingTransaction, err)
	}

	l.notify()
	return task, nil
}

func (l *localTaskRepository) SoftDelete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, selectLocalTask, id)
	task, err := scanLocalTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrTaskNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load local task %s: %w", id, err)
	}

	if !task.RemoteSeen {
		// the server never saw this task; nothing to propagate
		if _, err = tx.ExecContext(ctx, deleteLocalTask, id); err != nil {
			return fmt.Errorf("failed to remove local task %s: %w", id, err)
		}
	} else {
		_, err = tx.ExecContext(ctx, updateLocalTaskError, models.StatusDeleted, "", id)
		if err != nil {
			log.Err(err).Str("func", "localTaskRepository.SoftDelete").Str("id", id).Msg("failed to mark task deleted")
			return fmt.Errorf("failed to mark local task %s deleted: %w", id, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommittingTransaction, err)
	}

	l.notify()
	return nil
}

func (l *localTaskRepository) MarkSynced(ctx context.Context, id string) error {
	res, err := l.db.ExecContext(ctx, updateLocalTaskStatus, models.StatusSynced, "", true, id)
	if err != nil {
		return fmt.Errorf("failed to mark local task %s synced: %w", id, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrTaskNotFound
	}

	l.notify()
	return nil
}

func (l *localTaskRepository) MarkError(ctx context.Context, id string, msg string) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, selectLocalTask, id)
	task, err := scanLocalTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrTaskNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load local task %s: %w", id, err)
	}

	status := models.StatusError
	if task.SyncStatus == models.StatusDeleted {
		// keep the delete intent so the next push retries it
		status = models.StatusDeleted
	}
	if _, err = tx.ExecContext(ctx, updateLocalTaskError, status, msg, id); err != nil {
		return fmt.Errorf("failed to record error on local task %s: %w", id, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommittingTransaction, err)
	}

	l.notify()
	return nil
}

func (l *localTaskRepository) HardDelete(ctx context.Context, id string) error {
	if _, err := l.db.ExecContext(ctx, deleteLocalTask, id); err != nil {
		return fmt.Errorf("failed to remove local task %s: %w", id, err)
	}

	l.notify()
	return nil
}

func (l *localTaskRepository) ApplyChanges(ctx context.Context, changes models.TaskChanges, cursor models.Cursor) error {
	log := logger.FromContext(ctx)

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	upsert := func(task models.Task) error {
		task.SyncStatus = models.StatusSynced
		task.SyncError = ""
		task.RemoteSeen = true
		_, err := tx.ExecContext(ctx, upsertLocalTask, localTaskValues(task)...)
		return err
	}

	for _, task := range changes.Created {
		if err = upsert(task); err != nil {
			log.Err(err).Str("func", "localTaskRepository.ApplyChanges").Str("id", task.ID).Msg("failed to apply created task")
			return fmt.Errorf("failed to apply created task %s: %w", task.ID, err)
		}
	}
	for _, task := range changes.Updated {
		if err = upsert(task); err != nil {
			return fmt.Errorf("failed to apply updated task %s: %w", task.ID, err)
		}
	}
	for _, id := range changes.Deleted {
		if _, err = tx.ExecContext(ctx, deleteLocalTask, id); err != nil {
			return fmt.Errorf("failed to apply deleted task %s: %w", id, err)
		}
	}

	// the cursor commits with the writes or not at all
	payload, err := json.Marshal(cursor)
	if err != nil {
		return fmt.Errorf("failed to encode sync cursor: %w", err)
	}
	if _, err = tx.ExecContext(ctx, upsertSyncStateValue, syncStateCursorKey, string(payload)); err != nil {
		return fmt.Errorf("failed to persist sync cursor: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommittingTransaction, err)
	}

	l.notify()
	return nil
}

func (l *localTaskRepository) MergeRemote(ctx context.Context, remote []models.Task, sweepOrphans bool) error {
	log := logger.FromContext(ctx)

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	remoteIDs := make(map[string]struct{}, len(remote))
	for _, task := range remote {
		remoteIDs[task.ID] = struct{}{}

		row := tx.QueryRowContext(ctx, selectLocalTask, task.ID)
		local, err := scanLocalTask(row)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// new on the server, adopt as synced
		case err != nil:
			return fmt.Errorf("failed to load local task %s: %w", task.ID, err)
		case local.SyncStatus != models.StatusSynced:
			// local wins until pushed or explicitly retried
			continue
		}

		task.SyncStatus = models.StatusSynced
		task.SyncError = ""
		task.RemoteSeen = true
		if _, err = tx.ExecContext(ctx, upsertLocalTask, localTaskValues(task)...); err != nil {
			log.Err(err).Str("func", "localTaskRepository.MergeRemote").Str("id", task.ID).Msg("failed to merge remote task")
			return fmt.Errorf("failed to merge remote task %s: %w", task.ID, err)
		}
	}

	if sweepOrphans {
		rows, err := tx.QueryContext(ctx, selectSyncedLocalTaskIDs)
		if err != nil {
			return fmt.Errorf("failed to query synced ids: %w", err)
		}
		orphans := make([]string, 0)
		for rows.Next() {
			var id string
			if err = rows.Scan(&id); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan synced id: %w", err)
			}
			if _, ok := remoteIDs[id]; !ok {
				orphans = append(orphans, id)
			}
		}
		if err = rows.Err(); err != nil {
			rows.Close()
			return fmt.Errorf("failed to iterate synced ids: %w", err)
		}
		rows.Close()

		for _, id := range orphans {
			if _, err = tx.ExecContext(ctx, deleteLocalTask, id); err != nil {
				return fmt.Errorf("failed to sweep orphan %s: %w", id, err)
			}
		}
		if len(orphans) > 0 {
			log.Debug().Str("func", "localTaskRepository.MergeRemote").Int("count", len(orphans)).Msg("removed orphaned records")
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommittingTransaction, err)
	}

	l.notify()
	return nil
}

func (l *localTaskRepository) Cursor(ctx context.Context) (models.Cursor, error) {
	var raw string
	err := l.db.QueryRowContext(ctx, selectSyncStateValue, syncStateCursorKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Cursor{}, ErrCursorNotFound
	}
	if err != nil {
		return models.Cursor{}, fmt.Errorf("failed to read sync cursor: %w", err)
	}

	var cursor models.Cursor
	if err = json.Unmarshal([]byte(raw), &cursor); err != nil {
		return models.Cursor{}, fmt.Errorf("failed to decode sync cursor: %w", err)
	}
	return cursor, nil
}

func (l *localTaskRepository) Subscribe(fn func()) func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.nextSub
	l.nextSub++
	l.subs[id] = fn

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.subs, id)
	}
}

func (l *localTaskRepository) notify() {
	l.mu.Lock()
	subs := make([]func(), 0, len(l.subs))
	for _, fn := range l.subs {
		subs = append(subs, fn)
	}
	l.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

func scanLocalTask(row rowScanner) (models.Task, error) {
	var task models.Task
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Body,
		&task.Done,
		&task.ImageLocalURI,
		&task.ImageRemoteURL,
		&task.ImageUploadStatus,
		&task.CreatedAt,
		&task.UpdatedAt,
		&task.SyncStatus,
		&task.SyncError,
		&task.RemoteSeen,
	)
	return task, err
}

func localTaskValues(task models.Task) []any {
	return []any{
		task.ID,
		task.Title,
		task.Body,
		task.Done,
		task.ImageLocalURI,
		task.ImageRemoteURL,
		task.ImageUploadStatus,
		task.CreatedAt,
		task.UpdatedAt,
		task.SyncStatus,
		task.SyncError,
		task.RemoteSeen,
	}
}
