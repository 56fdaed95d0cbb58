package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-service/internal/config"
	"todo-service/internal/logger"
	"todo-service/internal/model"
	"todo-service/internal/repository"
	"todo-service/internal/repository/memory"
)

// closeTrackingRepo запоминает, был ли закрыт репозиторий
type closeTrackingRepo struct {
	repository.TodoRepository
	closed bool
}

func (r *closeTrackingRepo) Close() error {
	r.closed = true
	return r.TodoRepository.Close()
}

func testConfig() *config.Config {
	return &config.Config{
		Logger: &config.ConfigLogger{Level: "error"},
		Server: &config.ConfigServer{Port: 0, GracefulShutdownTimeout: 1},
		HTTP: &config.ConfigHTTP{
			APIPrefix:          "/api",
			CORSAllowedOrigins: "http://localhost:5173",
			RateLimitRPS:       1000,
			RateLimitBurst:     1000,
			MetricsEnabled:     true,
			SwaggerEnabled:     true,
		},
		Database: &config.ConfigDatabase{Driver: "memory"},
	}
}

func TestServer_RoutesUnderPrefix(t *testing.T) {
	s := NewServer(testConfig(), memory.NewRepository(), logger.Discard())
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/todos", "application/json", strings.NewReader(`{"title":"Write report"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp2, err := http.Get(ts.URL + "/todos")
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp2.StatusCode)
}

func TestServer_CORSPreflight(t *testing.T) {
	s := NewServer(testConfig(), memory.NewRepository(), logger.Discard())
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/todos/1", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), http.MethodPatch)

	req.Header.Set("Origin", "http://evil.example")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestServer_HealthAndMetrics(t *testing.T) {
	s := NewServer(testConfig(), memory.NewRepository(), logger.Discard())
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	var health map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	resp.Body.Close()
	assert.Equal(t, "connected", health["database"])

	resp, err = http.Get(ts.URL + "/api/todos")
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), `route="GET /api/todos"`)
}

func TestServer_MetricsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.HTTP.MetricsEnabled = false
	s := NewServer(cfg, memory.NewRepository(), logger.Discard())

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_StartAndShutdownClosesStorage(t *testing.T) {
	cfg := testConfig()
	cfg.Server.Port = 0
	repo := &closeTrackingRepo{TodoRepository: memory.NewRepository()}
	s := NewServer(cfg, repo, logger.Discard())

	errChan := s.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))
	assert.True(t, repo.closed)

	select {
	case err := <-errChan:
		t.Fatalf("unexpected server error: %v", err)
	default:
	}
}

func TestServer_UpdateUnknownIDIs404(t *testing.T) {
	s := NewServer(testConfig(), memory.NewRepository(), logger.Discard())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/todos/999999", strings.NewReader(`{"completed":true}`))
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"`+model.ErrTodoNotFound.Error()+`"}`, rec.Body.String())
}

func TestServer_UnmatchedRoutesUseEnvelope(t *testing.T) {
	s := NewServer(testConfig(), memory.NewRepository(), logger.Discard())
	h := s.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"not found"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/todos", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, POST", rec.Header().Get("Allow"))
	assert.JSONEq(t, `{"success":false,"error":"method not allowed"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/todos/1", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "PATCH, DELETE", rec.Header().Get("Allow"))
}

func TestServer_RateLimitedRequestsAreCounted(t *testing.T) {
	cfg := testConfig()
	cfg.HTTP.RateLimitRPS = 1
	cfg.HTTP.RateLimitBurst = 1
	s := NewServer(cfg, memory.NewRepository(), logger.Discard())
	h := s.Handler()

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/todos", nil))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/todos", nil))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = httptest.NewRecorder()
	s.metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `route="GET /api/todos",status="429"`)
}
