// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-task-keeper/internal/config"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/utils"
	"github.com/MKhiriev/go-task-keeper/models"
)

type httpServerAdapter struct {
	client *utils.HTTPClient

	token string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of
// [ServerAdapter]. It normalises and validates the base URL from
// adapterCfg.HTTPAddress and configures the underlying HTTP client with the
// resolved base URL and request timeout.
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed as
// a valid URL.
func NewHTTPServerAdapter(adapterCfg config.Adapter, logger *logger.Logger) (ServerAdapter, error) {
	client := utils.NewHTTPClient()
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client.
		SetBaseURL(baseURL).
		SetTimeout(adapterCfg.RequestTimeout)

	return &httpServerAdapter{client: client, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [ServerAdapter]. It stores token (whitespace-trimmed)
// for use in the Authorization header of all subsequent requests.
func (h *httpServerAdapter) SetToken(token string) {
	h.token = strings.TrimSpace(token)
}

// Token implements [ServerAdapter].
func (h *httpServerAdapter) Token() string {
	return h.token
}

func (h *httpServerAdapter) authorized(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if h.token != "" {
		req.SetHeader("Authorization", "Bearer "+h.token)
	}
	return req
}

// Authenticate implements [ServerAdapter]. It POSTs to /api/auth/token and
// stores the returned access token on the adapter.
func (h *httpServerAdapter) Authenticate(ctx context.Context) error {
	var tokenResp models.TokenResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetResult(&tokenResp).
		Post("/api/auth/token")
	if err != nil {
		return fmt.Errorf("token request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}

	h.SetToken(tokenResp.AccessToken)
	return nil
}

// GetTasks implements [ServerAdapter]. It GETs /api/tasks and returns the
// full server task set.
func (h *httpServerAdapter) GetTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task

	resp, err := h.authorized(ctx).
		SetResult(&tasks).
		Get("/api/tasks")
	if err != nil {
		return nil, fmt.Errorf("get tasks request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return tasks, nil
}

// GetTask implements [ServerAdapter]. A GET /api/tasks with an id query
// parameter returns the single matching task.
func (h *httpServerAdapter) GetTask(ctx context.Context, id string) (models.Task, error) {
	var task models.Task

	resp, err := h.authorized(ctx).
		SetQueryParam("id", id).
		SetResult(&task).
		Get("/api/tasks")
	if err != nil {
		return models.Task{}, fmt.Errorf("get task request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Task{}, err
	}

	return task, nil
}

// CreateTask implements [ServerAdapter].
func (h *httpServerAdapter) CreateTask(ctx context.Context, task models.Task) (models.Task, error) {
	var created models.Task

	resp, err := h.authorized(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(task).
		SetResult(&created).
		Post("/api/tasks")
	if err != nil {
		return models.Task{}, fmt.Errorf("create task request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Task{}, err
	}

	return created, nil
}

// UpdateTask implements [ServerAdapter].
func (h *httpServerAdapter) UpdateTask(ctx context.Context, task models.Task) (models.Task, error) {
	var updated models.Task

	resp, err := h.authorized(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(task).
		SetResult(&updated).
		Patch("/api/tasks")
	if err != nil {
		return models.Task{}, fmt.Errorf("update task request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Task{}, err
	}

	return updated, nil
}

// DeleteTask implements [ServerAdapter].
func (h *httpServerAdapter) DeleteTask(ctx context.Context, id string) error {
	resp, err := h.authorized(ctx).
		SetQueryParam("id", id).
		Delete("/api/tasks")
	if err != nil {
		return fmt.Errorf("delete task request: %w", err)
	}

	return mapHTTPError(resp)
}

// Pull implements [ServerAdapter].
func (h *httpServerAdapter) Pull(ctx context.Context, req models.PullRequest) (models.PullResponse, error) {
	var pullResp models.PullResponse

	resp, err := h.authorized(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&pullResp).
		Post("/api/sync/pull")
	if err != nil {
		return models.PullResponse{}, fmt.Errorf("pull request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.PullResponse{}, err
	}

	return pullResp, nil
}

// Push implements [ServerAdapter].
func (h *httpServerAdapter) Push(ctx context.Context, req models.PushRequest) (models.PushResponse, error) {
	var pushResp models.PushResponse

	resp, err := h.authorized(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&pushResp).
		Post("/api/sync/push")
	if err != nil {
		return models.PushResponse{}, fmt.Errorf("push request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.PushResponse{}, err
	}

	return pushResp, nil
}

// UploadFile implements [ServerAdapter]. It streams file as a multipart form
// field and returns the remote URL the server assigned to it.
func (h *httpServerAdapter) UploadFile(ctx context.Context, name string, file io.Reader) (string, error) {
	var uploadResp models.UploadResponse

	resp, err := h.authorized(ctx).
		SetFileReader("file", name, file).
		SetResult(&uploadResp).
		Post("/api/uploads")
	if err != nil {
		return "", fmt.Errorf("upload request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}

	return uploadResp.URL, nil
}
