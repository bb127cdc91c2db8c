package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureEntry redirects the logger into a buffer, emits one message and
// decodes the resulting JSON line.
func captureEntry(t *testing.T, l *Logger, msg string) map[string]any {
	t.Helper()

	var buf bytes.Buffer
	l.Logger = l.Output(&buf)
	l.Info().Msg(msg)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNewLogger_EntryShape(t *testing.T) {
	entry := captureEntry(t, NewLogger("sync-server"), "listening")

	assert.Equal(t, "sync-server", entry["role"])
	assert.Equal(t, "listening", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestNewLogger_CallerUsesFunctionName(t *testing.T) {
	entry := captureEntry(t, NewLogger("sync-server"), "who called")

	// CallerMarshalFunc swaps file:line for the qualified function name
	assert.Equal(t, "func", zerolog.CallerFieldName)
	assert.Contains(t, entry["func"], "logger.captureEntry")
}

func TestNop_IsSilent(t *testing.T) {
	var buf bytes.Buffer
	l := Nop()
	l.Logger = l.Output(&buf)

	l.Error().Msg("dropped")

	assert.Zero(t, buf.Len())
}

func TestGetChildLogger_KeepsParentFields(t *testing.T) {
	entry := captureEntry(t, NewLogger("sync-client").GetChildLogger(), "inherited")
	assert.Equal(t, "sync-client", entry["role"])
}

func TestFromContext_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	attached := zerolog.New(&buf).With().Str("request_id", "r-42").Logger()
	ctx := attached.WithContext(context.Background())

	got := FromContext(ctx)
	require.NotNil(t, got)
	got.Info().Msg("scoped")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "r-42", entry["request_id"])
}

func TestFromRequest_UsesRequestContext(t *testing.T) {
	var buf bytes.Buffer
	attached := zerolog.New(&buf).With().Str("request_id", "r-7").Logger()

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req = req.WithContext(attached.WithContext(req.Context()))

	FromRequest(req).Info().Msg("scoped")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "r-7", entry["request_id"])
}
