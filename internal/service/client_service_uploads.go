package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MKhiriev/go-task-keeper/internal/adapter"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/netwatch"
	"github.com/MKhiriev/go-task-keeper/internal/store"
	"github.com/MKhiriev/go-task-keeper/models"
)

type uploadService struct {
	localStore    store.LocalTaskStore
	serverAdapter adapter.ServerAdapter
	oracle        netwatch.Oracle
	logger        *logger.Logger
}

// NewUploadService creates the image attachment uploader. It drains the
// pending queue one task at a time; a failed upload stays pending and is
// retried on the next ProcessPending call.
func NewUploadService(localStore store.LocalTaskStore, serverAdapter adapter.ServerAdapter, oracle netwatch.Oracle, logger *logger.Logger) UploadService {
	return &uploadService{
		localStore:    localStore,
		serverAdapter: serverAdapter,
		oracle:        oracle,
		logger:        logger,
	}
}

// ProcessPending implements [UploadService].
func (u *uploadService) ProcessPending(ctx context.Context) error {
	log := logger.FromContext(ctx)

	if !u.oracle.Online(ctx) {
		return nil
	}

	pending, err := u.localStore.PendingUploads(ctx)
	if err != nil {
		return fmt.Errorf("load upload queue: %w", err)
	}

	for _, task := range pending {
		if err = u.uploadOne(ctx, task); err != nil {
			log.Warn().Err(err).Str("func", "uploadService.ProcessPending").Str("id", task.ID).Msg("image upload failed, will retry")
		}
	}

	return nil
}

func (u *uploadService) uploadOne(ctx context.Context, task models.Task) error {
	path := localFilePath(task.ImageLocalURI)

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open image %s: %w", path, err)
	}
	defer file.Close()

	url, err := u.serverAdapter.UploadFile(ctx, filepath.Base(path), file)
	if err != nil {
		return fmt.Errorf("upload image %s: %w", path, err)
	}

	_, err = u.localStore.Mutate(ctx, task.ID, func(t *models.Task) {
		t.ImageRemoteURL = url
		t.ImageUploadStatus = models.UploadDone
	})
	if err != nil {
		return fmt.Errorf("record uploaded image url: %w", err)
	}

	return nil
}

// localFilePath strips the file:// scheme mobile image pickers produce.
func localFilePath(uri string) string {
	return strings.TrimPrefix(uri, "file://")
}
