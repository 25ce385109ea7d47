package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"cometstats/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lgcfg "gitlab.com/nevasik7/alerting/config"
	"gitlab.com/nevasik7/alerting/logger"
)

// ========== Test helpers ==========

func createTestLogger() logger.Logger {
	return logger.New(lgcfg.LoggerCfg{Level: "error", Format: "console"})
}

type stubStats struct {
	body      json.RawMessage
	err       error
	depsErr   error
	gotParams map[string]string
}

func (s *stubStats) answer(_ context.Context, params map[string]string) (json.RawMessage, error) {
	s.gotParams = params
	return s.body, s.err
}

func (s *stubStats) SwapHistory(ctx context.Context, p map[string]string) (json.RawMessage, error) {
	return s.answer(ctx, p)
}

func (s *stubStats) Ohlcv(ctx context.Context, p map[string]string) (json.RawMessage, error) {
	return s.answer(ctx, p)
}

func (s *stubStats) PoolStats(ctx context.Context, p map[string]string) (json.RawMessage, error) {
	return s.answer(ctx, p)
}

func (s *stubStats) BorrowStats(ctx context.Context, p map[string]string) (json.RawMessage, error) {
	return s.answer(ctx, p)
}

func (s *stubStats) CheckDependency(context.Context) error { return s.depsErr }

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func doRequest(t *testing.T, h http.HandlerFunc, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, target, nil))

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

// ========== Tests ==========

func TestNewHandler_NilProviderPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewHandler(createTestLogger(), nil)
	})
}

func TestHandler_SuccessWrapsPayload(t *testing.T) {
	stub := &stubStats{body: json.RawMessage(`[{"pool":1,"trading_volume":42}]`)}
	h := NewHandler(createTestLogger(), stub)

	rec, env := doRequest(t, h.PoolStats, "/api/stats/pools?interval=day&pool=1")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", env.Status)
	assert.JSONEq(t, `[{"pool":1,"trading_volume":42}]`, string(env.Data))
	assert.Equal(t, map[string]string{"interval": "day", "pool": "1"}, stub.gotParams)
}

func TestHandler_InvalidInputIs400WithField(t *testing.T) {
	stub := &stubStats{err: &domain.InvalidInputError{Field: "interval", Value: "century", Allowed: "one of day, hour"}}
	h := NewHandler(createTestLogger(), stub)

	rec, env := doRequest(t, h.BorrowStats, "/api/stats/borrow?interval=century")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error", env.Status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "invalid_input", env.Error.Code)
	assert.Contains(t, env.Error.Message, "interval")
	assert.Contains(t, env.Error.Message, "century")
}

func TestHandler_CollaboratorFailureStaysGeneric(t *testing.T) {
	stub := &stubStats{err: &domain.CollaboratorError{
		Collaborator: "clickhouse",
		Op:           "query",
		Err:          errors.New("dial tcp 10.0.0.5:9000: connection refused"),
	}}
	h := NewHandler(createTestLogger(), stub)

	rec, env := doRequest(t, h.Ohlcv, "/api/stats/ohlcv?pool=1&interval=day&filter=week")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "internal_error", env.Error.Code)
	// infra detail never leaks to the caller
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
	assert.NotContains(t, rec.Body.String(), "clickhouse")
}

func TestHandler_EmptyQueryValuesAreAbsent(t *testing.T) {
	stub := &stubStats{body: json.RawMessage(`[]`)}
	h := NewHandler(createTestLogger(), stub)

	doRequest(t, h.PoolStats, "/api/stats/pools?interval=day&pool=")

	_, hasPool := stub.gotParams["pool"]
	assert.False(t, hasPool)
}

func TestHandler_Readiness(t *testing.T) {
	stub := &stubStats{}
	h := NewHandler(createTestLogger(), stub)

	rec, env := doRequest(t, h.Readiness, "/readiness")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", env.Status)

	stub.depsErr = errors.New("redis ping: connection refused")
	rec, env = doRequest(t, h.Readiness, "/readiness")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "dependencies_unhealthy", env.Error.Code)
}

func TestHandler_Healthz(t *testing.T) {
	h := NewHandler(createTestLogger(), &stubStats{})

	rec, env := doRequest(t, h.Healthz, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", env.Status)
}
