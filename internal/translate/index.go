package translate

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/wuta/vocabaudio/internal/dictionary"
	"github.com/wuta/vocabaudio/internal/vocabulary"
)

// CanonicalSource supplies the current canonical vocabulary.
type CanonicalSource interface {
	Snapshot() *vocabulary.Snapshot
}

// DictionarySource lists the custom dictionary.
type DictionarySource interface {
	List(ctx context.Context) ([]dictionary.DictionaryEntry, error)
}

// IndexCache holds the lookup tables derived from the canonical vocabulary
// and the custom dictionary. The canonical index is rebuilt whenever the
// snapshot version changes; both tables are dropped by Invalidate.
type IndexCache struct {
	canonical  CanonicalSource
	dictionary DictionarySource

	mu             sync.Mutex
	version        string
	canonicalIndex map[string]string
	custom         map[string]string
}

// NewIndexCache creates an empty cache. Either source may be nil.
func NewIndexCache(canonical CanonicalSource, dictionary DictionarySource) *IndexCache {
	return &IndexCache{canonical: canonical, dictionary: dictionary}
}

// Canonical returns the first valid Hangul recorded for a normalized English key.
func (c *IndexCache) Canonical(key string) (string, bool) {
	if c.canonical == nil {
		return "", false
	}
	snapshot := c.canonical.Snapshot()
	if snapshot == nil {
		return "", false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.canonicalIndex == nil || c.version != snapshot.Version {
		c.canonicalIndex = buildCanonicalIndex(snapshot.Terms)
		c.version = snapshot.Version
	}
	hangul, ok := c.canonicalIndex[key]
	return hangul, ok
}

func buildCanonicalIndex(terms []vocabulary.Term) map[string]string {
	index := make(map[string]string, len(terms))
	for _, term := range terms {
		key := dictionary.Normalize(term.English)
		if key == "" || !dictionary.IsNativeText(term.Hangul) {
			continue
		}
		if _, exists := index[key]; exists {
			continue
		}
		index[key] = strings.TrimSpace(term.Hangul)
	}
	return index
}

// Custom returns the Hangul stored in the custom dictionary for a normalized key.
func (c *IndexCache) Custom(ctx context.Context, key string) (string, bool, error) {
	if c.dictionary == nil {
		return "", false, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.custom == nil {
		entries, err := c.dictionary.List(ctx)
		if err != nil {
			return "", false, fmt.Errorf("dictionary.List > %w", err)
		}
		custom := make(map[string]string, len(entries))
		for _, entry := range entries {
			custom[dictionary.Normalize(entry.English)] = entry.Hangul
		}
		c.custom = custom
	}
	hangul, ok := c.custom[key]
	return hangul, ok, nil
}

// Invalidate drops both tables so the next lookup rebuilds them.
func (c *IndexCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.canonicalIndex = nil
	c.version = ""
	c.custom = nil
}
