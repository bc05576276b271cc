// Package api exposes the HTTP interface for the insights service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/shopsight/insights/internal/insights"
	"github.com/shopsight/insights/internal/metrics"
	"github.com/shopsight/insights/internal/pipeline"
)

// InsightsRunner is the slice of the pipeline the server depends on.
type InsightsRunner interface {
	Run(ctx context.Context, rawURL string) (*insights.BrandContext, error)
	Competitors(ctx context.Context, rawURL string, limit int) (*insights.CompetitorReport, error)
}

// BrandStore persists extracted profiles when the caller requests it.
type BrandStore interface {
	UpsertBrand(ctx context.Context, brand *insights.BrandContext) error
}

// Server wires HTTP handlers to the pipeline and the brand store.
type Server struct {
	router chi.Router
	runner InsightsRunner
	store  BrandStore
	logger *zap.Logger
}

const (
	requestTimeout = 120 * time.Second
	maxFanOutLimit = 10
)

// NewServer constructs a Server with middleware and routes.
func NewServer(runner InsightsRunner, store BrandStore, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics.Init()
	s := &Server{runner: runner, store: store, logger: logger}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(recoverMiddleware(logger))
	r.Use(timeoutMiddleware(requestTimeout))

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/insights", s.postInsights)
		r.Post("/competitors", s.postCompetitors)
	})

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

type insightsRequest struct {
	WebsiteURL string `json:"website_url"`
}

func (s *Server) postInsights(w http.ResponseWriter, r *http.Request) {
	var req insightsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.WebsiteURL == "" {
		writeError(w, http.StatusBadRequest, "website_url is required")
		return
	}

	result, err := s.runner.Run(r.Context(), req.WebsiteURL)
	if err != nil {
		if errors.Is(err, pipeline.ErrNotShopify) {
			writeError(w, http.StatusNotFound, pipeline.ErrNotShopify.Error())
			return
		}
		s.logger.Error("insights run failed",
			zap.String("request_id", requestID(r.Context())),
			zap.String("website", req.WebsiteURL),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if r.URL.Query().Get("persist") == "true" {
		if err := s.store.UpsertBrand(r.Context(), result); err != nil {
			s.logger.Error("brand persist failed",
				zap.String("website", result.Website), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "persist failed")
			return
		}
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) postCompetitors(w http.ResponseWriter, r *http.Request) {
	var req insightsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.WebsiteURL == "" {
		writeError(w, http.StatusBadRequest, "website_url is required")
		return
	}

	limit := 3
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxFanOutLimit {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 10")
			return
		}
		limit = parsed
	}

	report, err := s.runner.Competitors(r.Context(), req.WebsiteURL, limit)
	if err != nil {
		if errors.Is(err, pipeline.ErrNotShopify) {
			writeError(w, http.StatusNotFound, pipeline.ErrNotShopify.Error())
			return
		}
		s.logger.Error("competitor fan-out failed",
			zap.String("website", req.WebsiteURL), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
