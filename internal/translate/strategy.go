package translate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/wuta/vocabaudio/internal/dictionary"
)

// Source names the strategy that produced a Resolution.
type Source string

const (
	SourceNone      Source = "none"
	SourceCustom    Source = "custom"
	SourceCanonical Source = "canonical"
	SourceOnline    Source = "online"
)

// Resolution is the outcome of a Korean text lookup. Text is empty when no
// strategy produced usable Hangul.
type Resolution struct {
	Text   string
	Source Source
}

// Found reports whether the resolution carries Korean text.
func (r Resolution) Found() bool {
	return r.Text != ""
}

// Strategy resolves a normalized English key to Korean text. A strategy
// reports a miss for anything it cannot answer, including its own failures.
type Strategy interface {
	Source() Source
	TryResolve(ctx context.Context, key string) (string, bool)
}

// CustomDictionaryStrategy answers from the admin-managed custom dictionary.
type CustomDictionaryStrategy struct {
	index *IndexCache
}

func NewCustomDictionaryStrategy(index *IndexCache) *CustomDictionaryStrategy {
	return &CustomDictionaryStrategy{index: index}
}

func (s *CustomDictionaryStrategy) Source() Source { return SourceCustom }

func (s *CustomDictionaryStrategy) TryResolve(ctx context.Context, key string) (string, bool) {
	hangul, ok, err := s.index.Custom(ctx, key)
	if err != nil {
		slog.Default().Warn("custom dictionary unavailable", "key", key, "error", err)
		return "", false
	}
	if !ok || !dictionary.IsNativeText(hangul) {
		return "", false
	}
	return strings.TrimSpace(hangul), true
}

// CanonicalStrategy answers from the English to Hangul index of the canonical
// vocabulary.
type CanonicalStrategy struct {
	index *IndexCache
}

func NewCanonicalStrategy(index *IndexCache) *CanonicalStrategy {
	return &CanonicalStrategy{index: index}
}

func (s *CanonicalStrategy) Source() Source { return SourceCanonical }

func (s *CanonicalStrategy) TryResolve(_ context.Context, key string) (string, bool) {
	return s.index.Canonical(key)
}

//go:generate mockgen -source=strategy.go -destination=../mocks/translate/mock_strategy.go -package=mock_translate

// Provider translates text with an external service.
type Provider interface {
	Translate(ctx context.Context, text, from, to string) (string, error)
}

// OnlineStrategy asks an external Provider as a last resort. Each call is
// bounded by timeout and only Hangul that differs from the input is accepted.
type OnlineStrategy struct {
	provider Provider
	timeout  time.Duration
}

func NewOnlineStrategy(provider Provider, timeout time.Duration) *OnlineStrategy {
	return &OnlineStrategy{provider: provider, timeout: timeout}
}

func (s *OnlineStrategy) Source() Source { return SourceOnline }

func (s *OnlineStrategy) TryResolve(ctx context.Context, key string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	translated, err := s.provider.Translate(ctx, key, "en", "ko")
	if err != nil {
		slog.Default().Warn("online translation failed", "key", key, "error", err)
		return "", false
	}
	translated = strings.TrimSpace(translated)
	if strings.EqualFold(translated, key) || !dictionary.IsNativeText(translated) {
		slog.Default().Debug("online translation rejected", "key", key, "result", translated)
		return "", false
	}
	return translated, true
}

// ProviderMode selects which strategies a chain runs.
type ProviderMode string

const (
	ProviderDisabled ProviderMode = "disabled"
	ProviderOffline  ProviderMode = "offline"
	ProviderOnline   ProviderMode = "online"
)

// ParseProviderMode converts a configuration value into a ProviderMode.
func ParseProviderMode(s string) (ProviderMode, error) {
	switch mode := ProviderMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case ProviderDisabled, ProviderOffline, ProviderOnline:
		return mode, nil
	case "":
		return ProviderOffline, nil
	default:
		return "", fmt.Errorf("unknown translation provider %q", s)
	}
}
