package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/mentorship-engine/internal/infrastructure/metrics"
)

func TestHealthChecker_Check(t *testing.T) {
	hc := NewHealthChecker("test")
	hc.AddCheck("postgres", func(ctx context.Context) error { return nil })
	hc.AddCheck("redis", func(ctx context.Context) error { return errors.New("connection refused") })

	status := hc.Check(context.Background())

	assert.False(t, status.Healthy)
	assert.Equal(t, "Some checks failed: redis", status.Message)
	assert.True(t, status.Checks["postgres"].Healthy)
	assert.Equal(t, "connection refused", status.Checks["redis"].Message)
}

func TestHealthChecker_Timeout(t *testing.T) {
	hc := NewHealthChecker("")
	hc.SetTimeout(10 * time.Millisecond)
	hc.SetTimeout(0)
	hc.AddCheck("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	status := hc.Check(context.Background())
	assert.False(t, status.Healthy)
	assert.Contains(t, status.Checks["slow"].Message, "deadline exceeded")
}

func TestRoutes(t *testing.T) {
	hc := NewHealthChecker("v1")
	healthy := true
	hc.AddCheck("postgres", func(ctx context.Context) error {
		if healthy {
			return nil
		}
		return errors.New("down")
	})
	srv := NewServer(DefaultConfig(), hc, nil)
	h := srv.Routes()

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	t.Run("live", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, get("/livez").Code)
	})

	t.Run("healthy", func(t *testing.T) {
		rec := get("/healthz")
		require.Equal(t, http.StatusOK, rec.Code)

		var status HealthStatus
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
		assert.True(t, status.Healthy)
		assert.Equal(t, "v1", status.Version)
	})

	t.Run("unhealthy", func(t *testing.T) {
		healthy = false
		defer func() { healthy = true }()
		assert.Equal(t, http.StatusServiceUnavailable, get("/readyz").Code)
	})

	t.Run("metrics", func(t *testing.T) {
		metrics.SetWaitlistSize(4)
		rec := get("/metrics")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, strings.Contains(rec.Body.String(), "mentorship_waitlist_size 4"))
	})
}

func TestRun_StopsOnCancel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Addr = "127.0.0.1:0"
	srv := NewServer(cfg, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
