package lookups_api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/BearBump/RailStatus/internal/models"
	"github.com/BearBump/RailStatus/internal/storage/redisviews"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	results map[string]models.StatusResult
	views   int64
	viewErr error
	queries []string
}

func (s *stubService) Lookup(ctx context.Context, query string, kind models.LookupKind) models.StatusResult {
	s.queries = append(s.queries, query)
	if query == "" {
		return models.Failed(kind, "", models.LookupError{Kind: models.ErrKindEmptyQuery, Message: "identifier required"})
	}
	return s.results[query]
}

func (s *stubService) RecordPageView(ctx context.Context) (int64, error) {
	if s.viewErr != nil {
		return 0, s.viewErr
	}
	s.views++
	return s.views, nil
}

func (s *stubService) PageViews(ctx context.Context) (int64, error) {
	return s.views, s.viewErr
}

func newServer(t *testing.T, svc LookupService, mw ...func(http.Handler) http.Handler) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Use(mw...)
	New(svc).Register(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, method, url string, out any) int {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func fixtureService() *stubService {
	dur := 150
	return &stubService{results: map[string]models.StatusResult{
		"4521678903": models.OkPNR("4521678903", models.PNRStatus{
			PNRNo:           "4521678903",
			TrainNumber:     "12951",
			SrcName:         "MUMBAI CENTRAL",
			SrcCode:         "MMCT",
			OverallStatus:   models.OverallStatusConfirmed,
			DurationMinutes: &dur,
			Passengers:      []models.Passenger{{Name: "Passenger 1", CurrentStatus: "CNF"}},
		}),
		"12951": models.OkRunning("12951", models.RunningStatus{TrainNumber: "12951", TrainName: "MUMBAI RAJDHANI"}),
		"123": models.Failed(models.LookupKindPNR, "123", models.LookupError{
			Kind:    models.ErrKindUpstreamError,
			Code:    models.UpstreamCode712,
			Message: "PNR No. is not valid",
		}),
		"99999": models.Failed(models.LookupKindRunningStatus, "99999", models.LookupError{
			Kind:    models.ErrKindTransportFailure,
			Message: "Failed to fetch data. Please check the train number and try again.",
		}),
	}}
}

func TestLookupsAPI_PNR_OK(t *testing.T) {
	svc := fixtureService()
	srv := newServer(t, svc)

	var body struct {
		Kind      string           `json:"kind"`
		PNR       models.PNRStatus `json:"pnr"`
		Running   json.RawMessage  `json:"running"`
		Formatted map[string]any   `json:"formatted"`
	}
	code := getJSON(t, http.MethodGet, srv.URL+"/api/pnr/4521678903", &body)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "PNR", body.Kind)
	require.Equal(t, "12951", body.PNR.TrainNumber)
	require.Len(t, body.PNR.Passengers, 1)
	require.Nil(t, body.Running)
	require.Equal(t, "2 hrs 30 mins", body.Formatted["duration"])
	require.Equal(t, "success", body.Formatted["tone"])

	code = getJSON(t, http.MethodGet, srv.URL+"/api/pnr?pnrno=4521678903", nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, []string{"4521678903", "4521678903"}, svc.queries)
}

func TestLookupsAPI_Running_OK(t *testing.T) {
	srv := newServer(t, fixtureService())

	var body struct {
		Kind      string               `json:"kind"`
		Running   models.RunningStatus `json:"running"`
		Formatted map[string]any       `json:"formatted"`
	}
	code := getJSON(t, http.MethodGet, srv.URL+"/api/trains/12951/status", &body)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "RUNNING_STATUS", body.Kind)
	require.Equal(t, "MUMBAI RAJDHANI (12951)", body.Formatted["title"])

	code = getJSON(t, http.MethodGet, srv.URL+"/api/status?trainNumber=12951", nil)
	require.Equal(t, http.StatusOK, code)
}

func TestLookupsAPI_ErrorMapping(t *testing.T) {
	srv := newServer(t, fixtureService())

	tests := []struct {
		name  string
		path  string
		code  int
		kind  string
		ecode string
	}{
		{name: "empty pnr", path: "/api/pnr", code: http.StatusBadRequest, kind: "EmptyQuery"},
		{name: "empty train", path: "/api/status?trainNumber=", code: http.StatusBadRequest, kind: "EmptyQuery"},
		{name: "upstream", path: "/api/pnr/123", code: http.StatusUnprocessableEntity, kind: "UpstreamError", ecode: "712"},
		{name: "transport", path: "/api/trains/99999/status", code: http.StatusBadGateway, kind: "TransportFailure"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body struct {
				Error models.LookupError `json:"error"`
			}
			code := getJSON(t, http.MethodGet, srv.URL+tt.path, &body)
			require.Equal(t, tt.code, code)
			require.Equal(t, tt.kind, string(body.Error.Kind))
			require.Equal(t, tt.ecode, string(body.Error.Code))
			require.NotEmpty(t, body.Error.Message)
		})
	}
}

func TestLookupsAPI_Views(t *testing.T) {
	srv := newServer(t, fixtureService())

	var v viewsResponse
	require.Equal(t, http.StatusOK, getJSON(t, http.MethodGet, srv.URL+"/api/views", &v))
	require.Equal(t, int64(0), v.PageViews)

	require.Equal(t, http.StatusOK, getJSON(t, http.MethodPost, srv.URL+"/api/views", &v))
	require.Equal(t, int64(1), v.PageViews)
	require.Equal(t, http.StatusOK, getJSON(t, http.MethodPost, srv.URL+"/api/views", &v))
	require.Equal(t, int64(2), v.PageViews)
}

func TestLookupsAPI_ViewsUnavailable(t *testing.T) {
	svc := fixtureService()
	svc.viewErr = errors.New("redis down")
	srv := newServer(t, svc)

	require.Equal(t, http.StatusServiceUnavailable, getJSON(t, http.MethodPost, srv.URL+"/api/views", nil))
}

func TestRateLimit_BlocksAfterLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	rl := redisviews.NewRateLimiter(mr.Addr())
	t.Cleanup(func() { _ = rl.Close() })

	var now atomic.Int64
	now.Store(time.Date(2026, 3, 1, 10, 15, 0, 0, time.UTC).Unix())
	clock := func() time.Time { return time.Unix(now.Load(), 0) }
	srv := newServer(t, fixtureService(), RateLimit(rl, 2, clock))

	require.Equal(t, http.StatusOK, getJSON(t, http.MethodGet, srv.URL+"/api/trains/12951/status", nil))
	require.Equal(t, http.StatusOK, getJSON(t, http.MethodGet, srv.URL+"/api/trains/12951/status", nil))
	require.Equal(t, http.StatusTooManyRequests, getJSON(t, http.MethodGet, srv.URL+"/api/trains/12951/status", nil))

	require.True(t, mr.Exists("rl:client:127.0.0.1:202603011015"))

	now.Add(60)
	require.Equal(t, http.StatusOK, getJSON(t, http.MethodGet, srv.URL+"/api/trains/12951/status", nil))
}

func TestRateLimit_LimiterDownLetsRequestsThrough(t *testing.T) {
	mr := miniredis.RunT(t)
	rl := redisviews.NewRateLimiter(mr.Addr())
	mr.Close()

	srv := newServer(t, fixtureService(), RateLimit(rl, 1, nil))
	require.Equal(t, http.StatusOK, getJSON(t, http.MethodGet, srv.URL+"/api/trains/12951/status", nil))
	require.Equal(t, http.StatusOK, getJSON(t, http.MethodGet, srv.URL+"/api/trains/12951/status", nil))
}
