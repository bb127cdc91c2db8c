// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package service holds the business logic of both sides of the system: the
// server-side task, sync and auth services consumed by the HTTP handlers, and
// the client-side sync engines, orchestrator and background jobs.
package service

//go:generate mockgen -source=interfaces.go -destination=../mock/mock_services.go -package=mock

import (
	"context"

	"github.com/MKhiriev/go-task-keeper/models"
)

// TaskService is the server-side CRUD surface behind the REST handlers. The
// service owns id assignment and timestamps; handlers only decode and encode.
type TaskService interface {
	// List returns every task currently held by the server.
	List(ctx context.Context) ([]models.Task, error)

	// Get returns a single task. Missing ids map to store.ErrTaskNotFound.
	Get(ctx context.Context, id string) (models.Task, error)

	// Create stores a new task. A missing id is assigned; an existing id maps
	// to store.ErrTaskAlreadyExists.
	Create(ctx context.Context, task models.Task) (models.Task, error)

	// Update applies the provided fields to an existing task and bumps
	// UpdatedAt. Missing ids map to store.ErrTaskNotFound.
	Update(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error)

	// Replace stores the full task state under its id, creating it if absent.
	Replace(ctx context.Context, task models.Task) (models.Task, error)

	// Delete removes a task and records its tombstone. Missing ids map to
	// store.ErrTaskNotFound; the tombstone is recorded regardless.
	Delete(ctx context.Context, id string) error
}

// SyncService is the server half of the bulk cursor-diff protocol.
type SyncService interface {
	// Pull returns everything that changed after req.LastPulledAt, bucketed
	// into created, updated and deleted, plus the next cursor value. A nil
	// cursor returns the full data set as created.
	Pull(ctx context.Context, req models.PullRequest) (models.PullResponse, error)

	// Push applies a client change batch: idempotent upserts for created and
	// updated, delete plus tombstone for deleted. All or nothing.
	Push(ctx context.Context, req models.PushRequest) (models.PushResponse, error)
}

// AuthService issues and validates the stub bearer tokens.
type AuthService interface {
	// IssueToken returns a signed token with no identity semantics.
	IssueToken(ctx context.Context) (models.TokenResponse, error)

	// ValidateToken checks the token signature, issuer and expiry.
	ValidateToken(ctx context.Context, token string) error

	// Enabled reports whether token enforcement is configured.
	Enabled() bool
}

// UploadHandlerService turns an uploaded attachment into a remote URL. The
// demo server stores nothing; the contract is local content in, URL out.
type UploadHandlerService interface {
	StoreFile(ctx context.Context, name string) (models.UploadResponse, error)
}
