package heartbeat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"lightwatch/internals/modules/liveness"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

type fakeMonitor struct {
	mu    sync.Mutex
	pings []time.Time
}

func (f *fakeMonitor) RecordPing(_ context.Context, now time.Time) liveness.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pings = append(f.pings, now)
	return liveness.State{LastSeenAt: now, IsOnline: true, OnlineSince: now}
}

func (f *fakeMonitor) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pings)
}

type staticVerifier string

func (s staticVerifier) Verify(candidate string) bool {
	return candidate != "" && candidate == string(s)
}

type envelope struct {
	Success bool `json:"success"`
	Data    struct {
		LastSeen string `json:"last_seen"`
	} `json:"data"`
	Error struct {
		Kind string `json:"kind"`
	} `json:"error"`
}

func newRouter(mon *fakeMonitor, fixed time.Time) http.Handler {
	h := NewHandler(mon)
	h.now = func() time.Time { return fixed }

	r := chi.NewRouter()
	r.Mount("/heartbeat", Routes(h, staticVerifier("s3cret")))
	return r
}

func TestPingAccepted(t *testing.T) {
	fixed := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	mon := &fakeMonitor{}
	router := newRouter(mon, fixed)

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		req := httptest.NewRequest(method, "/heartbeat?token=s3cret", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, method)

		var body envelope
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		require.True(t, body.Success)
		require.Equal(t, fixed.Format(time.RFC3339Nano), body.Data.LastSeen)
	}
	require.Equal(t, 2, mon.count())
}

func TestPingAcceptsHeaderToken(t *testing.T) {
	mon := &fakeMonitor{}
	router := newRouter(mon, time.Now())

	req := httptest.NewRequest(http.MethodGet, "/heartbeat", nil)
	req.Header.Set("X-Heartbeat-Token", "s3cret")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, mon.count())
}

func TestPingRejectsBadToken(t *testing.T) {
	mon := &fakeMonitor{}
	router := newRouter(mon, time.Now())

	for _, target := range []string{"/heartbeat", "/heartbeat?token=", "/heartbeat?token=wrong"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusForbidden, rec.Code, target)

		var body envelope
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		require.False(t, body.Success)
		require.Equal(t, "forbidden", body.Error.Kind)
	}
	require.Zero(t, mon.count())
}
