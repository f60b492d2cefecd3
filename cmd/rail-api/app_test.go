package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/BearBump/RailStatus/config"
	"github.com/BearBump/RailStatus/internal/integrations/railapi/fake"
	"github.com/BearBump/RailStatus/internal/integrations/railapi/statushttp"
	"github.com/BearBump/RailStatus/internal/services/lookups"
	"github.com/BearBump/RailStatus/internal/storage/redisviews"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func writeSwagger(t *testing.T) string {
	t.Helper()
	sw := filepath.Join(t.TempDir(), "swagger.json")
	require.NoError(t, os.WriteFile(sw, []byte(`{"swagger":"2.0"}`), 0o600))
	return sw
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestRunRailAPI_ServesRoutes(t *testing.T) {
	mr := miniredis.RunT(t)
	views := redisviews.NewPageViews(mr.Addr(), "")
	limiter := redisviews.NewRateLimiter(mr.Addr())

	reg := prometheus.NewRegistry()
	svc := lookups.New(fake.New(), nil, views, lookups.NewMetrics(reg))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addrCh := make(chan string, 1)
	opts := railAPIOpts{
		httpAddr:           "127.0.0.1:0",
		swaggerPath:        writeSwagger(t),
		rateLimitPerMinute: 100,
		onListen:           func(httpAddr string) { addrCh <- httpAddr },
	}
	deps := railAPIDeps{svc: svc, limiter: limiter, gatherer: reg, ready: views.Ping}

	errCh := make(chan error, 1)
	go func() { errCh <- runRailAPI(ctx, opts, deps) }()
	base := "http://" + <-addrCh

	code, body := get(t, base+"/healthz")
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, body, "ok")

	code, _ = get(t, base+"/readyz")
	require.Equal(t, http.StatusOK, code)

	code, body = get(t, base+"/swagger.json")
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, body, `"swagger"`)

	code, body = get(t, base+"/api/trains/12951/status")
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, body, `"RUNNING_STATUS"`)

	code, _ = get(t, base+"/api/pnr/")
	require.NotEqual(t, http.StatusOK, code)

	code, body = get(t, base+"/metrics")
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, body, `railstatus_lookups_total{kind="RUNNING_STATUS",outcome="ok"} 1`)

	mr.Close()
	code, _ = get(t, base+"/readyz")
	require.Equal(t, http.StatusServiceUnavailable, code)

	cancel()
	select {
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting server to stop")
	case err := <-errCh:
		require.ErrorIs(t, err, http.ErrServerClosed)
	}
}

func TestRunRailAPI_SwaggerRequired(t *testing.T) {
	err := runRailAPI(context.Background(), railAPIOpts{httpAddr: "127.0.0.1:0"}, railAPIDeps{})
	require.Error(t, err)

	err = runRailAPI(context.Background(), railAPIOpts{httpAddr: "127.0.0.1:0", swaggerPath: "/nope/swagger.json"}, railAPIDeps{})
	require.Error(t, err)
}

func TestNewStatusClient(t *testing.T) {
	_, isFake := newStatusClient(config.RailStatusConfig{}).(*fake.FakeClient)
	require.True(t, isFake)

	_, isHTTP := newStatusClient(config.RailStatusConfig{
		PNRStatusURL:          statushttp.DefaultPNRStatusURL,
		RequestTimeoutSeconds: 5,
	}).(*statushttp.Client)
	require.True(t, isHTTP)
}

func TestNewRouter_ForwardedHeadersTrustedOnlyWhenEnabled(t *testing.T) {
	mr := miniredis.RunT(t)
	limiter := redisviews.NewRateLimiter(mr.Addr())
	svc := lookups.New(fake.New(), nil, nil, nil)

	statuses := func(trust bool) []int {
		mr.FlushAll()
		h := newRouter(railAPIOpts{
			swaggerPath:        writeSwagger(t),
			rateLimitPerMinute: 1,
			trustProxyHeaders:  trust,
		}, railAPIDeps{svc: svc, limiter: limiter})

		var got []int
		for _, ip := range []string{"203.0.113.7", "203.0.113.8"} {
			req := httptest.NewRequest(http.MethodGet, "/api/trains/12951/status", nil)
			req.RemoteAddr = "198.51.100.1:4000"
			req.Header.Set("X-Forwarded-For", ip)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			got = append(got, rec.Code)
		}
		return got
	}

	require.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, statuses(false))
	require.Equal(t, []int{http.StatusOK, http.StatusOK}, statuses(true))
}
