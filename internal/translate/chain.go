package translate

import (
	"context"
	"log/slog"
	"time"

	"github.com/wuta/vocabaudio/internal/dictionary"
	"github.com/wuta/vocabaudio/internal/metrics"
)

// Chain resolves Korean text for an English expression by trying its
// strategies in order.
type Chain struct {
	index      *IndexCache
	strategies []Strategy
	metrics    *metrics.Metrics
}

// NewChain creates a chain over the given strategies. index may be nil when
// no strategy uses it.
func NewChain(index *IndexCache, m *metrics.Metrics, strategies ...Strategy) *Chain {
	return &Chain{index: index, strategies: strategies, metrics: m}
}

// Build assembles the chain for a provider mode. provider is only used in
// ProviderOnline mode and must then be non-nil.
func Build(mode ProviderMode, index *IndexCache, provider Provider, timeout time.Duration, m *metrics.Metrics) *Chain {
	var strategies []Strategy
	switch mode {
	case ProviderOffline:
		strategies = []Strategy{NewCustomDictionaryStrategy(index), NewCanonicalStrategy(index)}
	case ProviderOnline:
		strategies = []Strategy{NewCustomDictionaryStrategy(index), NewCanonicalStrategy(index)}
		if provider != nil {
			strategies = append(strategies, NewOnlineStrategy(provider, timeout))
		} else {
			slog.Default().Warn("online translation requested without a provider, running offline")
		}
	}
	return NewChain(index, m, strategies...)
}

// HangulFor returns the first usable Korean text for english. It never fails:
// an empty Resolution means no strategy could answer.
func (c *Chain) HangulFor(ctx context.Context, english string) Resolution {
	key := dictionary.Normalize(english)
	if key == "" {
		return Resolution{Source: SourceNone}
	}
	for _, strategy := range c.strategies {
		if text, ok := strategy.TryResolve(ctx, key); ok {
			c.metrics.RecordTranslation(string(strategy.Source()))
			slog.Default().Debug("resolved korean text", "key", key, "source", strategy.Source())
			return Resolution{Text: text, Source: strategy.Source()}
		}
	}
	c.metrics.RecordTranslation(string(SourceNone))
	return Resolution{Source: SourceNone}
}

// Invalidate drops cached lookup tables.
func (c *Chain) Invalidate() {
	if c.index != nil {
		c.index.Invalidate()
	}
}
