package lookups_api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/BearBump/RailStatus/internal/format"
	"github.com/BearBump/RailStatus/internal/models"
	"github.com/go-chi/chi/v5"
)

type LookupService interface {
	Lookup(ctx context.Context, query string, kind models.LookupKind) models.StatusResult
	RecordPageView(ctx context.Context) (int64, error)
	PageViews(ctx context.Context) (int64, error)
}

type LookupsAPI struct {
	svc LookupService
}

func New(svc LookupService) *LookupsAPI {
	return &LookupsAPI{svc: svc}
}

// Register mounts the lookup and page-view routes on r.
func (a *LookupsAPI) Register(r chi.Router) {
	r.Get("/api/pnr", a.pnrByQuery)
	r.Get("/api/pnr/{pnr}", a.pnrByPath)
	r.Get("/api/status", a.runningByQuery)
	r.Get("/api/trains/{number}/status", a.runningByPath)

	r.Get("/api/views", a.getViews)
	r.Post("/api/views", a.recordView)
}

func (a *LookupsAPI) pnrByQuery(w http.ResponseWriter, r *http.Request) {
	a.lookup(w, r, r.URL.Query().Get("pnrno"), models.LookupKindPNR)
}

func (a *LookupsAPI) pnrByPath(w http.ResponseWriter, r *http.Request) {
	a.lookup(w, r, chi.URLParam(r, "pnr"), models.LookupKindPNR)
}

func (a *LookupsAPI) runningByQuery(w http.ResponseWriter, r *http.Request) {
	a.lookup(w, r, r.URL.Query().Get("trainNumber"), models.LookupKindRunningStatus)
}

func (a *LookupsAPI) runningByPath(w http.ResponseWriter, r *http.Request) {
	a.lookup(w, r, chi.URLParam(r, "number"), models.LookupKindRunningStatus)
}

type lookupResponse struct {
	Kind      models.LookupKind     `json:"kind"`
	PNR       *models.PNRStatus     `json:"pnr,omitempty"`
	Running   *models.RunningStatus `json:"running,omitempty"`
	Formatted any                   `json:"formatted"`
}

type errorResponse struct {
	Error *models.LookupError `json:"error"`
}

func (a *LookupsAPI) lookup(w http.ResponseWriter, r *http.Request, query string, kind models.LookupKind) {
	res := a.svc.Lookup(r.Context(), query, kind)

	if e := res.Err(); e != nil {
		respondJSON(w, statusFor(e.Kind), errorResponse{Error: e})
		return
	}

	out := lookupResponse{Kind: res.Kind()}
	if p, ok := res.PNR(); ok {
		out.PNR = &p
		out.Formatted = format.PNR(p)
	}
	if s, ok := res.Running(); ok {
		out.Running = &s
		out.Formatted = format.Running(s)
	}
	respondJSON(w, http.StatusOK, out)
}

func statusFor(k models.ErrKind) int {
	switch k {
	case models.ErrKindEmptyQuery:
		return http.StatusBadRequest
	case models.ErrKindUpstreamError:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

type viewsResponse struct {
	PageViews int64 `json:"pageViews"`
}

func (a *LookupsAPI) recordView(w http.ResponseWriter, r *http.Request) {
	n, err := a.svc.RecordPageView(r.Context())
	if err != nil {
		slog.Error("record page view", "err", err)
		respondError(w, http.StatusServiceUnavailable, "page view counter unavailable")
		return
	}
	respondJSON(w, http.StatusOK, viewsResponse{PageViews: n})
}

func (a *LookupsAPI) getViews(w http.ResponseWriter, r *http.Request) {
	n, err := a.svc.PageViews(r.Context())
	if err != nil {
		slog.Error("read page views", "err", err)
		respondError(w, http.StatusServiceUnavailable, "page view counter unavailable")
		return
	}
	respondJSON(w, http.StatusOK, viewsResponse{PageViews: n})
}

func respondJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, code int, msg string) {
	respondJSON(w, code, map[string]map[string]string{"error": {"message": msg}})
}
