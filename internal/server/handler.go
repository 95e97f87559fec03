// Package server exposes the audio pipeline and the custom dictionary over HTTP.
package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/wuta/vocabaudio/internal/audiocache"
	"github.com/wuta/vocabaudio/internal/dictionary"
	"github.com/wuta/vocabaudio/internal/metrics"
	"github.com/wuta/vocabaudio/internal/synth"
	"github.com/wuta/vocabaudio/internal/vocabulary"
)

// AudioFetcher returns the clip for a term id.
type AudioFetcher interface {
	FetchAudio(ctx context.Context, termID string, mode synth.Mode) (audiocache.Result, error)
}

// DictionaryEditor mutates the custom dictionary.
type DictionaryEditor interface {
	Upsert(ctx context.Context, entry dictionary.DictionaryEntry) (*dictionary.DictionaryEntry, error)
	Delete(ctx context.Context, english string) (bool, error)
}

// Options configures a Handler.
type Options struct {
	AdminToken     string
	AllowedOrigins []string
	// Gatherer backs /metrics. Defaults to prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
	Metrics  *metrics.Metrics
}

// Handler serves the HTTP API.
type Handler struct {
	audio      AudioFetcher
	dictionary DictionaryEditor
	options    Options
}

// NewHandler creates a new Handler.
func NewHandler(audio AudioFetcher, dict DictionaryEditor, options Options) *Handler {
	if options.Gatherer == nil {
		options.Gatherer = prometheus.DefaultGatherer
	}
	return &Handler{
		audio:      audio,
		dictionary: dict,
		options:    options,
	}
}

// Routes returns the mux with every route registered.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	h.handle(mux, "GET /audio/{term_id}", h.handleAudio)
	h.handle(mux, "PUT /admin/dictionary/{english}", h.requireAdmin(h.handlePutDictionary))
	h.handle(mux, "DELETE /admin/dictionary/{english}", h.requireAdmin(h.handleDeleteDictionary))
	h.handle(mux, "GET /healthz", h.handleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(h.options.Gatherer, promhttp.HandlerOpts{}))
	return mux
}

// HTTPHandler wraps Routes with request ids and CORS, served over h2c.
func (h *Handler) HTTPHandler() http.Handler {
	return h2c.NewHandler(corsMiddleware(requestIDMiddleware(h.Routes()), h.options.AllowedOrigins), &http2.Server{})
}

func (h *Handler) handle(mux *http.ServeMux, pattern string, handler http.HandlerFunc) {
	route := pattern[strings.Index(pattern, " ")+1:]
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		handler(rec, r)
		h.options.Metrics.RecordHTTPRequest(r.Method, route, rec.status, time.Since(start))
	})
}

func (h *Handler) handleAudio(w http.ResponseWriter, r *http.Request) {
	termID := r.PathValue("term_id")
	mode, err := synth.ParseMode(r.URL.Query().Get("mode"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.audio.FetchAudio(r.Context(), termID, mode)
	if err != nil {
		if errors.Is(err, vocabulary.ErrTermNotFound) {
			writeError(w, http.StatusNotFound, "term not found")
			return
		}
		loggerFrom(r.Context()).Error("failed to fetch audio", "term_id", termID, "mode", mode, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to generate audio")
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Audio)))
	w.Header().Set("X-Audio-Outcome", string(result.Outcome))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Audio); err != nil {
		loggerFrom(r.Context()).Warn("failed to write audio response", "term_id", termID, "error", err)
	}
}

type dictionaryRequest struct {
	Hangul       string `json:"hangul"`
	Romanization string `json:"romanization"`
	Category     string `json:"category"`
}

func (h *Handler) handlePutDictionary(w http.ResponseWriter, r *http.Request) {
	var req dictionaryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	entry, err := h.dictionary.Upsert(r.Context(), dictionary.DictionaryEntry{
		English:      r.PathValue("english"),
		Hangul:       req.Hangul,
		Romanization: req.Romanization,
		Category:     req.Category,
	})
	if err != nil {
		if errors.Is(err, dictionary.ErrInvalidEntry) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		loggerFrom(r.Context()).Error("failed to save dictionary entry", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save dictionary entry")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *Handler) handleDeleteDictionary(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.dictionary.Delete(r.Context(), r.PathValue("english"))
	if err != nil {
		if errors.Is(err, dictionary.ErrInvalidEntry) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		loggerFrom(r.Context()).Error("failed to delete dictionary entry", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete dictionary entry")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "dictionary entry not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requireAdmin rejects requests without the configured bearer token. Admin
// routes are closed entirely when no token is configured.
func (h *Handler) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.options.AdminToken == "" {
			writeError(w, http.StatusForbidden, "admin API is disabled")
			return
		}
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(h.options.AdminToken)) != 1 {
			w.Header().Set("WWW-Authenticate", `Bearer realm="admin"`)
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
