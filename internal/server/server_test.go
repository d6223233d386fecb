package server_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/analytics"
	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/changefeed"
	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/handler"
	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/leaderboard"
	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/repository/sqlite"
	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/server"
	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/service"
	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/signup"
)

func newTestServer(t *testing.T, checks map[string]handler.Checker) *server.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	feed := changefeed.New()
	db, err := sqlite.New(":memory:", feed)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	reg := prometheus.NewRegistry()
	recorder, err := analytics.NewRecorder(analytics.Options{Registerer: reg}, logger)
	require.NoError(t, err)
	pipeline := signup.NewPipeline(db, recorder, logger)
	live, err := leaderboard.NewLive(db, feed, logger, reg)
	require.NoError(t, err)

	if checks == nil {
		checks = map[string]handler.Checker{
			"sqlite": handler.CheckFunc(func(context.Context) error { return db.Ping() }),
		}
	}

	return server.New(server.Config{Addr: "127.0.0.1:0", CORSOrigins: []string{"*"}}, server.Deps{
		Signups:     pipeline,
		Hackathons:  service.NewHackathonService(db, pipeline, logger),
		Leaderboard: live,
		Analytics:   recorder,
		Checks:      checks,
		Metrics:     reg,
	}, logger)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServer_Routes(t *testing.T) {
	h := newTestServer(t, nil).Handler()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"signup", http.MethodPost, "/api/signups/newsletter", `{"email":"kid@example.com"}`, http.StatusCreated},
		{"unknown variant", http.MethodPost, "/api/signups/bogus", `{}`, http.StatusNotFound},
		{"list hackathons", http.MethodGet, "/api/hackathons", "", http.StatusOK},
		{"bad status filter", http.MethodGet, "/api/hackathons?status=soon", "", http.StatusBadRequest},
		{"unknown hackathon", http.MethodGet, "/api/hackathons/missing", "", http.StatusNotFound},
		{"leaderboard before first compute", http.MethodGet, "/api/leaderboard", "", http.StatusServiceUnavailable},
		{"analytics", http.MethodGet, "/api/analytics/recent", "", http.StatusOK},
		{"health", http.MethodGet, "/healthz", "", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", "", http.StatusOK},
		{"no route", http.MethodGet, "/api/nothing", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestServer_MetricsExposeAnalytics(t *testing.T) {
	h := newTestServer(t, nil).Handler()

	rec := do(t, h, http.MethodPost, "/api/signups/newsletter", `{"email":"kid@example.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `spark_analytics_events_total{action="success",category="signup"} 1`)
}

func TestServer_HealthDegraded(t *testing.T) {
	h := newTestServer(t, map[string]handler.Checker{
		"sqlite": handler.CheckFunc(func(context.Context) error { return errors.New("database is locked") }),
	}).Handler()

	rec := do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "degraded")
}

func TestServer_CORS(t *testing.T) {
	h := newTestServer(t, nil).Handler()

	req := httptest.NewRequest(http.MethodOptions, "/api/signups/newsletter", nil)
	req.Header.Set("Origin", "https://spark.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "content-type")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
}

func TestServer_RunAndShutdown(t *testing.T) {
	srv := newTestServer(t, nil)

	done := make(chan error, 1)
	go func() { done <- srv.Run(context.Background()) }()

	require.NoError(t, srv.Shutdown(context.Background()))
	assert.NoError(t, <-done)
}
