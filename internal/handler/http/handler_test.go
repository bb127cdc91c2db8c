package http

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/go-task-keeper/internal/config"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/service"
	"github.com/MKhiriev/go-task-keeper/internal/store"
)

// newTestServer spins up the full router over an empty in-memory repository.
func newTestServer(t *testing.T, cfg config.StructuredConfig) *httptest.Server {
	t.Helper()

	services := service.NewServices(store.NewMemoryTaskRepository(), cfg, logger.Nop())
	handler := NewHandler(services, logger.Nop())

	server := httptest.NewServer(handler.Init())
	t.Cleanup(server.Close)

	return server
}

func TestNewHandler(t *testing.T) {
	services := service.NewServices(store.NewMemoryTaskRepository(), config.StructuredConfig{}, logger.Nop())

	handler := NewHandler(services, logger.Nop())

	assert.NotNil(t, handler)
	assert.Equal(t, services, handler.services)
}
