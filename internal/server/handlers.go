package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/abdulachik/trendcast/internal/llm"
	"github.com/abdulachik/trendcast/internal/scheduler"
	"github.com/abdulachik/trendcast/internal/trends"
)

// Headers carrying the browser's model credential.
const (
	headerProvider = "X-AI-Provider"
	headerAPIKey   = "X-AI-Key"
)

type trendHandler struct {
	service     TrendService
	defaultLang trends.Language
}

func newTrendHandler(service TrendService, defaultLang trends.Language) *trendHandler {
	if defaultLang == "" {
		defaultLang = trends.LanguageTR
	}
	return &trendHandler{service: service, defaultLang: defaultLang}
}

// GetTrends returns the current snapshot, fetching on a cache miss.
func (h *trendHandler) GetTrends(w http.ResponseWriter, r *http.Request) {
	req, err := h.parseRequest(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, h.service.FetchTrends(r.Context(), req))
}

// Refresh drops the cache and runs a new cycle.
func (h *trendHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	req, err := h.parseRequest(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.service.ClearCache()
	respondWithJSON(w, http.StatusOK, h.service.FetchTrends(r.Context(), req))
}

type promptResponse struct {
	Prompt string        `json:"prompt"`
	Source trends.Source `json:"source"`
}

// GetPrompt returns the current snapshot rendered as a prompt fragment.
func (h *trendHandler) GetPrompt(w http.ResponseWriter, r *http.Request) {
	req, err := h.parseRequest(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	data := h.service.FetchTrends(r.Context(), req)
	respondWithJSON(w, http.StatusOK, promptResponse{
		Prompt: trends.FormatForPrompt(data, req.Language),
		Source: data.Source,
	})
}

func (h *trendHandler) parseRequest(r *http.Request) (trends.Request, error) {
	req := trends.Request{Language: h.defaultLang}
	if lang := r.URL.Query().Get("lang"); lang != "" {
		req.Language = trends.ParseLanguage(lang)
	}

	if name := r.Header.Get(headerProvider); name != "" {
		p, err := llm.ParseProvider(name)
		if err != nil {
			return trends.Request{}, fmt.Errorf("invalid %s header: %w", headerProvider, err)
		}
		req.Provider = p
	}
	req.APIKey = r.Header.Get(headerAPIKey)

	return req, nil
}

type healthResponse struct {
	Status     string                            `json:"status"`
	Components map[string]scheduler.HealthStatus `json:"components"`
}

// healthHandler always answers 200 so an upstream outage does not fail liveness probes.
func healthHandler(health *scheduler.Health) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		if !health.IsOverallHealthy() {
			status = "degraded"
		}
		respondWithJSON(w, http.StatusOK, healthResponse{
			Status:     status,
			Components: health.GetAllStatuses(),
		})
	}
}

// requestLogger logs each request through slog.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		slog.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Error("failed to marshal response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"failed to marshal response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
