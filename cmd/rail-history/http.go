package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/BearBump/RailStatus/internal/models"
	"github.com/BearBump/RailStatus/internal/services/history"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
)

type historyHTTPOpts struct {
	httpAddr    string
	swaggerPath string
	onListen    func(httpAddr string)

	svc   *history.Service
	ready func(ctx context.Context) error
}

func runHistoryHTTPServer(ctx context.Context, opts historyHTTPOpts) error {
	if opts.httpAddr == "" {
		opts.httpAddr = ":8082"
	}
	if opts.swaggerPath == "" {
		return fmt.Errorf("historySwaggerPath env var is required")
	}
	if _, err := os.Stat(opts.swaggerPath); os.IsNotExist(err) {
		return fmt.Errorf("history swagger file not found: %s", opts.swaggerPath)
	}

	lis, err := net.Listen("tcp", opts.httpAddr)
	if err != nil {
		return err
	}
	if opts.onListen != nil {
		opts.onListen(lis.Addr().String())
	}

	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if opts.ready != nil {
			if err := opts.ready(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"status":"unavailable"}`))
				return
			}
		}
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	})

	r.Get("/history", func(w http.ResponseWriter, r *http.Request) {
		limit, offset, ok := pageParams(w, r)
		if !ok {
			return
		}
		kind := models.LookupKind(r.URL.Query().Get("kind"))
		out, err := opts.svc.List(r.Context(), kind, limit, offset)
		if err != nil {
			respondError(w, http.StatusBadRequest, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"entries": out})
	})

	r.Get("/history/{query}", func(w http.ResponseWriter, r *http.Request) {
		limit, offset, ok := pageParams(w, r)
		if !ok {
			return
		}
		out, err := opts.svc.ByQuery(r.Context(), chi.URLParam(r, "query"), limit, offset)
		if err != nil {
			respondError(w, http.StatusBadRequest, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"entries": out})
	})

	r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
		counts, err := opts.svc.Stats(r.Context())
		if err != nil {
			slog.Error("history stats", "err", err)
			respondError(w, http.StatusInternalServerError, err)
			return
		}
		var total int64
		for _, c := range counts {
			total += c.Count
		}
		respondJSON(w, http.StatusOK, map[string]any{"total": total, "outcomes": counts})
	})

	r.Get("/swagger.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		http.ServeFile(w, r, opts.swaggerPath)
	})

	swaggerURL := "/swagger.json"
	if fi, err := os.Stat(opts.swaggerPath); err == nil {
		swaggerURL = fmt.Sprintf("/swagger.json?v=%d", fi.ModTime().Unix())
	}
	r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL(swaggerURL)))

	srv := &http.Server{Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		_ = lis.Close()
	}()

	slog.Info("rail-history listening", "addr", lis.Addr().String())
	return srv.Serve(lis)
}

// pageParams reads limit and offset. Out-of-range limits are clamped by storage.
func pageParams(w http.ResponseWriter, r *http.Request) (limit, offset int, ok bool) {
	q := r.URL.Query()
	var err error
	if v := q.Get("limit"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil {
			respondError(w, http.StatusBadRequest, fmt.Errorf("invalid limit %q", v))
			return 0, 0, false
		}
	}
	if v := q.Get("offset"); v != "" {
		if offset, err = strconv.Atoi(v); err != nil {
			respondError(w, http.StatusBadRequest, fmt.Errorf("invalid offset %q", v))
			return 0, 0, false
		}
	}
	return limit, offset, true
}

func respondJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, code int, err error) {
	respondJSON(w, code, map[string]string{"error": err.Error()})
}
