package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-task-keeper/internal/service"
	"github.com/MKhiriev/go-task-keeper/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided: http.StatusBadRequest,
	service.ErrEmptyTaskID:         http.StatusBadRequest,
	service.ErrInvalidToken:        http.StatusUnauthorized,
	service.ErrTokenNotConfigured:  http.StatusNotImplemented,

	store.ErrTaskNotFound:      http.StatusNotFound,
	store.ErrTaskAlreadyExists: http.StatusConflict,
	store.ErrCursorNotFound:    http.StatusNotFound,

	store.ErrBuildingSQLQuery:      http.StatusInternalServerError,
	store.ErrExecutingQuery:        http.StatusInternalServerError,
	store.ErrBeginningTransaction:  http.StatusInternalServerError,
	store.ErrCommittingTransaction: http.StatusInternalServerError,
	store.ErrScanningRow:           http.StatusInternalServerError,
	store.ErrScanningRows:          http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
