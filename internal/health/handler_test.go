package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	name string
	err  error
}

type fakeRecorder struct {
	calls []recorded
}

func (f *fakeRecorder) RecordDependencyCheck(_ context.Context, dependency string, _ time.Duration, err error) {
	f.calls = append(f.calls, recorded{name: dependency, err: err})
}

func serve(h *Handler, path string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h.RegisterRoutes(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealth(t *testing.T) {
	w := serve(NewHandler(&fakeRecorder{}), "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestReady_AllChecksPass(t *testing.T) {
	rec := &fakeRecorder{}
	h := NewHandler(rec, Check{Name: "postgres", Ping: func(context.Context) error { return nil }})

	w := serve(h, "/ready")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ready","checks":{"postgres":"ok"}}`, w.Body.String())
	require.Len(t, rec.calls, 1)
	assert.NoError(t, rec.calls[0].err)
}

func TestReady_FailingCheck(t *testing.T) {
	rec := &fakeRecorder{}
	h := NewHandler(rec,
		Check{Name: "postgres", Ping: func(context.Context) error { return nil }},
		Check{Name: "redis", Ping: func(context.Context) error { return errors.New("connection refused") }},
	)

	w := serve(h, "/ready")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "unavailable", resp.Status)
	assert.Equal(t, "ok", resp.Checks["postgres"])
	assert.Equal(t, "connection refused", resp.Checks["redis"])
	assert.Len(t, rec.calls, 2)
}

func TestReady_NoChecks(t *testing.T) {
	w := serve(NewHandler(&fakeRecorder{}), "/ready")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ready"}`, w.Body.String())
}
