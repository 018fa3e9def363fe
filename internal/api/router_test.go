package api

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

	"github.com/wonny/dahai/internal/api/handlers"
	"github.com/wonny/dahai/internal/contracts"
	"github.com/wonny/dahai/internal/ledger"
	"github.com/wonny/dahai/internal/metrics"
	"github.com/wonny/dahai/internal/report"
	"github.com/wonny/dahai/internal/s2_signals"
	"github.com/wonny/dahai/internal/strategyconfig"
	"github.com/wonny/dahai/pkg/config"
	"github.com/wonny/dahai/pkg/logger"
	"github.com/wonny/dahai/pkg/redis"
)

type testServer struct {
	handler  http.Handler
	outDir   string
	recorder *metrics.Recorder
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	client, err := redis.New(context.Background(), &config.Config{})
	require.NoError(t, err)

	cfg, err := strategyconfig.Default()
	require.NoError(t, err)
	registry, err := s2_signals.NewRegistry(cfg)
	require.NoError(t, err)

	log := logger.Nop()
	outDir := t.TempDir()
	led := ledger.New(ledger.NewFileStore(t.TempDir()), 2, log)
	h := handlers.NewReportHandler(redis.NewCache(client, "dahai"), outDir, led, registry, log)
	recorder := metrics.New()

	return &testServer{
		handler:  NewRouter(h, recorder, redis.NewRateLimiter(client, "dahai"), log),
		outDir:   outDir,
		recorder: recorder,
	}
}

func (s *testServer) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) writeReport(t *testing.T) {
	t.Helper()
	w := report.NewWriter(s.outDir, time.Date(2024, 3, 8, 15, 35, 0, 0, time.Local), logger.Nop())
	_, err := w.WriteConfluence([]contracts.ResonanceRecord{
		{Code: "600000", Name: "浦发银行", Strategies: []string{"duck_hunter", "one_sun", "yin_line"}, ResonanceCount: 3, ActionGuide: "[duck_hunter]: x", Price: 12},
		{Code: "000001", Name: "平安银行", Strategies: []string{"one_sun", "golden_pit"}, ResonanceCount: 2, Price: 10.5},
		{Code: "600010", Name: "unknown", Strategies: []string{"one_sun"}, ResonanceCount: 1, Price: 8},
	})
	require.NoError(t, err)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dest))
}

func TestRouter_Health(t *testing.T) {
	rec := newTestServer(t).get(t, "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	decode(t, rec, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestRouter_LatestConfluence(t *testing.T) {
	s := newTestServer(t)

	rec := s.get(t, "/api/confluence/latest")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	s.writeReport(t)

	tests := []struct {
		name   string
		query  string
		status int
		codes  []string
	}{
		{name: "all", query: "", status: http.StatusOK, codes: []string{"600000", "000001", "600010"}},
		{name: "core", query: "?tier=core", status: http.StatusOK, codes: []string{"600000"}},
		{name: "watch", query: "?tier=watch", status: http.StatusOK, codes: []string{"000001"}},
		{name: "bad tier", query: "?tier=gold", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.get(t, "/api/confluence/latest"+tt.query)
			require.Equal(t, tt.status, rec.Code)
			if tt.status != http.StatusOK {
				return
			}

			var snap contracts.ConfluenceSnapshot
			decode(t, rec, &snap)
			assert.Equal(t, 1, snap.Core)
			assert.Equal(t, 1, snap.Watch)
			var codes []string
			for _, r := range snap.Records {
				codes = append(codes, r.Code)
			}
			assert.Equal(t, tt.codes, codes)
		})
	}
}

func TestRouter_ConfluenceByDate(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusBadRequest, s.get(t, "/api/confluence/2024-03-08").Code)
	// nothing is published while redis is disabled
	assert.Equal(t, http.StatusNotFound, s.get(t, "/api/confluence/20240308").Code)
}

func TestRouter_LedgerState(t *testing.T) {
	rec := newTestServer(t).get(t, "/api/ledger/state")
	require.Equal(t, http.StatusOK, rec.Code)

	var state contracts.LedgerState
	decode(t, rec, &state)
	assert.Equal(t, contracts.LedgerStateVersion, state.Version)
	assert.Zero(t, state.TotalReturn)
}

func TestRouter_Strategies(t *testing.T) {
	rec := newTestServer(t).get(t, "/api/strategies")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Count      int                     `json:"count"`
		Strategies []handlers.StrategyItem `json:"strategies"`
	}
	decode(t, rec, &body)
	assert.Equal(t, 27, body.Count)
	require.Len(t, body.Strategies, 27)
	for _, s := range body.Strategies {
		assert.NotEmpty(t, s.ID)
		assert.NotEmpty(t, s.Guide, s.ID)
	}
}

func TestRouter_Metrics(t *testing.T) {
	s := newTestServer(t)
	s.get(t, "/api/strategies")
	s.get(t, "/api/confluence/latest")

	rec := s.get(t, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	text := string(body)
	assert.Contains(t, text, `dahai_http_requests_total{method="GET",route="/api/strategies",status="2xx"} 1`)
	assert.Contains(t, text, `dahai_http_requests_total{method="GET",route="/api/confluence/latest",status="4xx"} 1`)
}

func TestRateLimitMiddleware(t *testing.T) {
	client, err := redis.New(context.Background(), &config.Config{})
	require.NoError(t, err)
	limiter := redis.NewRateLimiter(client, "dahai")

	limit := redis.RateLimitConfig{Key: "api", Limit: 2, Window: time.Hour}
	h := rateLimitMiddleware(limiter, limit, logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	call := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/strategies", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1:5000").Code)
	assert.Equal(t, http.StatusOK, call("10.0.0.1:5001").Code)

	rec := call("10.0.0.1:5002")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "3600", rec.Header().Get("Retry-After"))
	assert.True(t, strings.Contains(rec.Body.String(), "Too many requests"))

	// budgets are per client
	assert.Equal(t, http.StatusOK, call("10.0.0.2:5000").Code)
}
