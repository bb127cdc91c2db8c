package adapter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-task-keeper/internal/config"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/models"
)

func newTestAdapter(t *testing.T, serverURL string) *httpServerAdapter {
	t.Helper()

	a, err := NewHTTPServerAdapter(config.Adapter{HTTPAddress: serverURL}, logger.Nop())
	require.NoError(t, err)
	return a.(*httpServerAdapter)
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "plain host gets http scheme", raw: "localhost:8080", want: "http://localhost:8080"},
		{name: "trailing slash trimmed", raw: "http://localhost:8080/", want: "http://localhost:8080"},
		{name: "https preserved", raw: "https://tasks.example.com", want: "https://tasks.example.com"},
		{name: "empty", raw: "   ", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeBaseURL(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAuthenticate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/token", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.TokenResponse{AccessToken: "token-123"})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	require.NoError(t, a.Authenticate(context.Background()))
	assert.Equal(t, "token-123", a.Token())
}

func TestGetTasks_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/tasks", r.URL.Path)
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]models.Task{
			{ID: "a", Title: "first"},
			{ID: "b", Title: "second"},
		})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	a.SetToken("token-123")

	tasks, err := a.GetTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "first", tasks[0].Title)
}

func TestGetTask_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "missing", r.URL.Query().Get("id"))
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("task not found"))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	_, err := a.GetTask(context.Background(), "missing")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateTask_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/tasks", r.URL.Path)

		var task models.Task
		require.NoError(t, json.NewDecoder(r.Body).Decode(&task))
		assert.Equal(t, "buy milk", task.Title)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(task)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	created, err := a.CreateTask(context.Background(), models.Task{ID: "a", Title: "buy milk"})

	require.NoError(t, err)
	assert.Equal(t, "a", created.ID)
}

func TestCreateTask_Conflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte("task already exists"))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	_, err := a.CreateTask(context.Background(), models.Task{ID: "a"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestUpdateTask_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	_, err := a.UpdateTask(context.Background(), models.Task{ID: "gone"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteTask_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "a", r.URL.Query().Get("id"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	require.NoError(t, a.DeleteTask(context.Background(), "a"))
}

func TestPull_Success(t *testing.T) {
	cursor := int64(1700000000000)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/sync/pull", r.URL.Path)

		var req models.PullRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.LastPulledAt)
		assert.Equal(t, cursor, *req.LastPulledAt)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.PullResponse{
			Changes: models.TaskChanges{
				Created: []models.Task{{ID: "fresh"}},
				Deleted: []string{"gone"},
			},
			Timestamp: cursor + 1000,
		})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	resp, err := a.Pull(context.Background(), models.PullRequest{LastPulledAt: &cursor})

	require.NoError(t, err)
	assert.Equal(t, cursor+1000, resp.Timestamp)
	require.Len(t, resp.Changes.Created, 1)
	assert.Equal(t, []string{"gone"}, resp.Changes.Deleted)
}

func TestPush_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/sync/push", r.URL.Path)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("push failed"))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	_, err := a.Push(context.Background(), models.PushRequest{})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInternalServerError)
}

func TestUploadFile_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/uploads", r.URL.Path)

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		assert.Equal(t, "photo.jpg", header.Filename)
		content, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "image-bytes", string(content))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.UploadResponse{URL: "http://cdn.example.com/photo.jpg"})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	url, err := a.UploadFile(context.Background(), "photo.jpg", strings.NewReader("image-bytes"))

	require.NoError(t, err)
	assert.Equal(t, "http://cdn.example.com/photo.jpg", url)
}

func TestUploadFile_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	_, err := a.UploadFile(context.Background(), "photo.jpg", strings.NewReader("x"))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
