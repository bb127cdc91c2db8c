package http

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-task-keeper/internal/config"
)

func TestTraceID_GeneratedWhenAbsent(t *testing.T) {
	server := newTestServer(t, config.StructuredConfig{})

	resp, err := http.Get(server.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	traceID := resp.Header.Get(traceIDHeader)
	require.NotEmpty(t, traceID)
	_, err = uuid.Parse(traceID)
	assert.NoError(t, err, "generated trace id must be a valid uuid")
}

func TestTraceID_PropagatedFromRequest(t *testing.T) {
	server := newTestServer(t, config.StructuredConfig{})

	req, err := http.NewRequest(http.MethodGet, server.URL+"/api/health", nil)
	require.NoError(t, err)
	req.Header.Set(traceIDHeader, "trace-from-client")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "trace-from-client", resp.Header.Get(traceIDHeader))
}
