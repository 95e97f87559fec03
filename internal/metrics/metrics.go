package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of the audio pipeline.
// All methods are safe to call on a nil *Metrics.
type Metrics struct {
	AudioRequests          *prometheus.CounterVec
	CacheDecisions         *prometheus.CounterVec
	Syntheses              *prometheus.CounterVec
	SynthesisDuration      *prometheus.HistogramVec
	TranslationResolutions *prometheus.CounterVec
	HTTPRequests           *prometheus.CounterVec
	HTTPRequestDuration    *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		AudioRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vocabaudio_audio_requests_total",
			Help: "Audio requests by mode and outcome",
		}, []string{"mode", "outcome"}),
		CacheDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vocabaudio_cache_decisions_total",
			Help: "Cache lookups by mode and decision (reuse, regenerate)",
		}, []string{"mode", "decision"}),
		Syntheses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vocabaudio_syntheses_total",
			Help: "Synthesis attempts by mode and result",
		}, []string{"mode", "result"}),
		SynthesisDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vocabaudio_synthesis_duration_seconds",
			Help:    "Time spent synthesizing a clip",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 8), // 100ms to ~13s
		}, []string{"mode"}),
		TranslationResolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vocabaudio_translation_resolutions_total",
			Help: "Korean text resolutions by the source that answered",
		}, []string{"source"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vocabaudio_http_requests_total",
			Help: "HTTP requests by method, route, and status code",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vocabaudio_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// RecordAudioRequest counts a finished audio request.
func (m *Metrics) RecordAudioRequest(mode, outcome string) {
	if m == nil {
		return
	}
	m.AudioRequests.WithLabelValues(mode, outcome).Inc()
}

// RecordCacheDecision counts whether a cached artifact was reused or regenerated.
func (m *Metrics) RecordCacheDecision(mode string, regenerate bool) {
	if m == nil {
		return
	}
	decision := "reuse"
	if regenerate {
		decision = "regenerate"
	}
	m.CacheDecisions.WithLabelValues(mode, decision).Inc()
}

// RecordSynthesis counts one synthesis attempt and its duration.
func (m *Metrics) RecordSynthesis(mode string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Syntheses.WithLabelValues(mode, result).Inc()
	m.SynthesisDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// RecordTranslation counts which source resolved a Korean text lookup.
func (m *Metrics) RecordTranslation(source string) {
	if m == nil {
		return
	}
	m.TranslationResolutions.WithLabelValues(source).Inc()
}

// RecordHTTPRequest records a served HTTP request.
func (m *Metrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, statusLabel(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
