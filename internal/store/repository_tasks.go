// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/utils"
	"github.com/MKhiriev/go-task-keeper/models"
)

// psql builds queries with $N placeholders for the pgx driver.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var taskColumns = []string{
	"id",
	"title",
	"body",
	"is_done",
	"image_local_uri",
	"image_remote_url",
	"image_upload_status",
	"created_at",
	"updated_at",
}

type taskRepository struct {
	*DB
	logger *logger.Logger
}

// NewTaskRepository returns the Postgres-backed TaskRepository.
func NewTaskRepository(db *DB, logger *logger.Logger) TaskRepository {
	return &taskRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *taskRepository) List(ctx context.Context) ([]models.Task, error) {
	log := logger.FromContext(ctx)

	query, args, err := psql.Select(taskColumns...).From("tasks").OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "taskRepository.List").Msg("failed to query tasks")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	tasks := make([]models.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		tasks = append(tasks, task)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return tasks, nil
}

func (r *taskRepository) Get(ctx context.Context, id string) (models.Task, error) {
	query, args, err := psql.Select(taskColumns...).
		From("tasks").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.Task{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	row := r.DB.QueryRowContext(ctx, query, args...)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, ErrTaskNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return task, nil
}

func (r *taskRepository) Create(ctx context.Context, task models.Task) (models.Task, error) {
	log := logger.FromContext(ctx)

	query, args, err := psql.Insert("tasks").
		Columns(taskColumns...).
		Values(taskValues(task)...).
		ToSql()
	if err != nil {
		return models.Task{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.DB.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return models.Task{}, ErrTaskAlreadyExists
		}
		log.Err(err).Str("func", "taskRepository.Create").Str("id", task.ID).Msg("failed to insert task")
		return models.Task{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return task, nil
}

func (r *taskRepository) Upsert(ctx context.Context, task models.Task) error {
	log := logger.FromContext(ctx)

	query, args, err := psql.Insert("tasks").
		Columns(taskColumns...).
		Values(taskValues(task)...).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			body = EXCLUDED.body,
			is_done = EXCLUDED.is_done,
			image_local_uri = EXCLUDED.image_local_uri,
			image_remote_url = EXCLUDED.image_remote_url,
			image_upload_status = EXCLUDED.image_upload_status,
			created_at = EXCLUDED.created_at,
			updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "taskRepository.Upsert").Str("id", task.ID).Msg("failed to upsert task")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	delQuery, delArgs, err := psql.Delete("tasks").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := tx.ExecContext(ctx, delQuery, delArgs...)
	if err != nil {
		log.Err(err).Str("func", "taskRepository.Delete").Str("id", id).Msg("failed to delete task")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		// no row, no tombstone: ids that never lived here must not show
		// up in anyone's pull
		return ErrTaskNotFound
	}

	tsQuery, tsArgs, err := psql.Insert("task_tombstones").
		Columns("id", "deleted_at").
		Values(id, utils.NowMillis()).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	if _, err = tx.ExecContext(ctx, tsQuery, tsArgs...); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommittingTransaction, err)
	}
	return nil
}

func (r *taskRepository) DeletedSince(ctx context.Context, since int64) ([]string, error) {
	query, args, err := psql.Select("DISTINCT id").
		From("task_tombstones").
		Where(squirrel.Gt{"deleted_at": since}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return ids, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (models.Task, error) {
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
	)
	return task, err
}

func taskValues(task models.Task) []any {
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
	}
}
