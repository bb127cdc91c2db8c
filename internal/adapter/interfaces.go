// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the client-side transport to the task server.
// Implementations translate transport failures into sentinel errors so the
// sync engine can branch on them with errors.Is (e.g. [ErrNotFound] for 404,
// [ErrAlreadyExists] for 409, [ErrUnauthorized] for 401).
package adapter

//go:generate mockgen -source=interfaces.go -destination=../mock/mock_adapter.go -package=mock

import (
	"context"
	"io"

	"github.com/MKhiriev/go-task-keeper/models"
)

// ServerAdapter is the client's view of the remote task store. All methods
// honour ctx cancellation and attach the bearer token previously stored with
// SetToken.
type ServerAdapter interface {
	// Authenticate requests a bearer token from the server and stores it on
	// the adapter for subsequent calls.
	Authenticate(ctx context.Context) error

	// SetToken stores token for use in the Authorization header of all
	// subsequent requests.
	SetToken(token string)

	// Token returns the bearer token currently held by the adapter, or an
	// empty string if none has been set.
	Token() string

	// GetTasks fetches the complete server task set.
	GetTasks(ctx context.Context) ([]models.Task, error)

	// GetTask fetches a single task by id. Returns [ErrNotFound] (wrapped)
	// if the server does not know the id.
	GetTask(ctx context.Context, id string) (models.Task, error)

	// CreateTask submits a locally created task. Returns [ErrAlreadyExists]
	// (wrapped) if the server already holds the id.
	CreateTask(ctx context.Context, task models.Task) (models.Task, error)

	// UpdateTask submits local edits to an existing task. Returns
	// [ErrNotFound] (wrapped) if the task was deleted remotely.
	UpdateTask(ctx context.Context, task models.Task) (models.Task, error)

	// DeleteTask removes a task by id. Returns [ErrNotFound] (wrapped) if
	// the server does not hold the id.
	DeleteTask(ctx context.Context, id string) error

	// Pull asks the server for every change since the request cursor.
	Pull(ctx context.Context, req models.PullRequest) (models.PullResponse, error)

	// Push submits a batch of local changes. The server applies the batch
	// atomically; a non-nil error means nothing was applied.
	Push(ctx context.Context, req models.PushRequest) (models.PushResponse, error)

	// UploadFile streams an image attachment and returns its remote URL.
	UploadFile(ctx context.Context, name string, file io.Reader) (string, error)
}
