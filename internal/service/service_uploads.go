package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/utils"
	"github.com/MKhiriev/go-task-keeper/models"
)

// uploadHandlerService backs POST /api/uploads. The demo server keeps no
// blob storage: it mints a stable URL for the uploaded name and discards the
// content, which is all the client contract needs (local content in, remote
// URL out).
type uploadHandlerService struct {
	baseURL string
	ids     *utils.UUIDGenerator
	logger  *logger.Logger
}

func NewUploadHandlerService(baseURL string, logger *logger.Logger) UploadHandlerService {
	return &uploadHandlerService{
		baseURL: strings.TrimRight(baseURL, "/"),
		ids:     utils.NewUUIDGenerator(),
		logger:  logger,
	}
}

// StoreFile implements [UploadHandlerService].
func (s *uploadHandlerService) StoreFile(ctx context.Context, name string) (models.UploadResponse, error) {
	base := filepath.Base(name)
	if base == "" || base == "." || base == string(filepath.Separator) {
		return models.UploadResponse{}, fmt.Errorf("%w: empty file name", ErrInvalidDataProvided)
	}

	url := fmt.Sprintf("%s/uploads/%s-%s", s.baseURL, s.ids.Generate(), base)
	logger.FromContext(ctx).Debug().Str("func", "uploadHandlerService.StoreFile").Str("url", url).Msg("upload registered")

	return models.UploadResponse{URL: url}, nil
}
