package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/eksdesign/stand-platform/internal/intake"
	"github.com/eksdesign/stand-platform/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecovererWritesGenericError(t *testing.T) {
	var buf bytes.Buffer
	handler := Recoverer(logging.NewWithWriter(&buf, "info"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("database exploded")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/quote-request", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body intake.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, intake.MsgServerFailed, body.Error)
	assert.NotContains(t, rec.Body.String(), "database exploded")
	assert.Contains(t, buf.String(), "database exploded")
}

func TestRecovererPassesThrough(t *testing.T) {
	rec := httptest.NewRecorder()
	Recoverer(nil)(okHandler(nil)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
