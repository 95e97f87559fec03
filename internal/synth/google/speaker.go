package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/avast/retry-go"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/wuta/vocabaudio/internal/synth"
)

const (
	DefaultBaseURL = "https://translate.google.com"
	// maxChunkRunes is the longest text the endpoint accepts per request.
	maxChunkRunes = 200
	slowSpeed     = "0.24"
	normalSpeed   = "1"
)

// Config configures a Speaker.
type Config struct {
	BaseURL string
	// RequestsPerMinute limits calls to avoid being blocked. Defaults to 50.
	RequestsPerMinute int
	Timeout           time.Duration
	RetryAttempts     uint
}

// Speaker implements synth.Speaker with the Google Translate TTS endpoint.
type Speaker struct {
	httpClient    *resty.Client
	rateLimiter   *rate.Limiter
	retryAttempts uint
	retryDelay    time.Duration
}

// NewSpeaker creates a Speaker.
func NewSpeaker(config Config) *Speaker {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = 50
	}
	if config.Timeout <= 0 {
		config.Timeout = 8 * time.Second
	}

	client := resty.New().
		SetBaseURL(config.BaseURL).
		SetTimeout(config.Timeout).
		SetHeader("User-Agent", "Mozilla/5.0 (compatible; vocabaudio)")

	return &Speaker{
		httpClient:    client,
		rateLimiter:   rate.NewLimiter(rate.Every(time.Minute/time.Duration(config.RequestsPerMinute)), 1),
		retryAttempts: config.RetryAttempts,
		retryDelay:    200 * time.Millisecond,
	}
}

// Speak implements synth.Speaker. Long texts are split at word boundaries
// and the MP3 responses are concatenated.
func (s *Speaker) Speak(ctx context.Context, text string, voice synth.Voice) ([]byte, error) {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return nil, errors.New("text cannot be empty")
	}
	if voice.Language == "" {
		voice.Language = synth.LanguageEnglish
	}

	chunks := splitText(text, maxChunkRunes)
	var audio []byte
	for i, chunk := range chunks {
		if err := s.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rateLimiter.Wait > %w", err)
		}
		var body []byte
		err := retry.Do(
			func() error {
				b, err := s.fetch(ctx, chunk, voice, i, len(chunks))
				if err != nil {
					if !isRetryableError(err) {
						return retry.Unrecoverable(err)
					}
					slog.Default().Debug("retrying speech request", "language", voice.Language, "error", err)
					return err
				}
				body = b
				return nil
			},
			retry.Context(ctx),
			retry.Attempts(s.retryAttempts+1),
			retry.Delay(s.retryDelay),
			retry.LastErrorOnly(true),
			retry.DelayType(retry.BackOffDelay),
		)
		if err != nil {
			return nil, fmt.Errorf("fetch(chunk %d/%d) > %w", i+1, len(chunks), err)
		}
		audio = append(audio, body...)
	}
	return audio, nil
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("status code: %d, body: %s", e.code, e.body)
}

func isRetryableError(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code == http.StatusTooManyRequests || se.code >= 500
	}
	return true
}

func (s *Speaker) fetch(ctx context.Context, text string, voice synth.Voice, idx, total int) ([]byte, error) {
	speed := normalSpeed
	if voice.Slow {
		speed = slowSpeed
	}
	res, err := s.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"ie":       "UTF-8",
			"client":   "tw-ob",
			"q":        text,
			"tl":       voice.Language,
			"ttsspeed": speed,
			"total":    strconv.Itoa(total),
			"idx":      strconv.Itoa(idx),
			"textlen":  strconv.Itoa(utf8.RuneCountInString(text)),
		}).
		Get("/translate_tts")
	if err != nil {
		return nil, fmt.Errorf("client.R.Get > %w", err)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, &statusError{code: res.StatusCode(), body: truncate(res.String(), 200)}
	}
	if len(res.Body()) == 0 {
		return nil, errors.New("empty audio response")
	}
	return res.Body(), nil
}

// splitText breaks text into pieces of at most limit runes, preferring
// whitespace boundaries.
func splitText(text string, limit int) []string {
	var chunks []string
	var current []rune
	for _, word := range strings.Fields(text) {
		runes := []rune(word)
		for len(runes) > limit {
			if len(current) > 0 {
				chunks = append(chunks, string(current))
				current = nil
			}
			chunks = append(chunks, string(runes[:limit]))
			runes = runes[limit:]
		}
		switch {
		case len(current) == 0:
			current = runes
		case len(current)+1+len(runes) <= limit:
			current = append(append(current, ' '), runes...)
		default:
			chunks = append(chunks, string(current))
			current = runes
		}
	}
	if len(current) > 0 {
		chunks = append(chunks, string(current))
	}
	return chunks
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
