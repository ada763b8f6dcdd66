package handler_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/cafe-recs/backend/internal/handler"
)

// TestGetHealth_returns200WithOKStatus verifies that GET /healthz returns
// HTTP 200 and a JSON body of {"status":"ok"}.
func TestGetHealth_returns200WithOKStatus(t *testing.T) {
	h := handler.NewHealthHandler(&mockPinger{})

	rec := do(h, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct{ Status string }
	decode(t, rec, &body)
	assert.Equal(t, "ok", body.Status)
}

func TestGetHealth_DBDown_503(t *testing.T) {
	h := handler.NewHealthHandler(&mockPinger{err: errors.New("connection refused")})

	rec := do(h, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body struct{ Status string }
	decode(t, rec, &body)
	assert.Equal(t, "unavailable", body.Status)
}

func TestGetRoot(t *testing.T) {
	h := handler.NewServer(nil, nil, nil, nil, handler.WithVersion("1.2.3"))

	rec := do(h, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Name    string   `json:"name"`
		Version string   `json:"version"`
		Vibes   []string `json:"vibes"`
	}
	decode(t, rec, &body)
	assert.Equal(t, handler.ServiceName, body.Name)
	assert.Equal(t, "1.2.3", body.Version)
	assert.Equal(t, []string{"QUIET", "SOCIAL", "ETHNIC", "TASTY", "AESTHETIC"}, body.Vibes)
}

func TestGetOpenAPI(t *testing.T) {
	h := handler.NewHealthHandler(nil)

	rec := do(h, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "openapi:"))
}
