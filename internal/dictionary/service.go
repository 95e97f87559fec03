package dictionary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// ErrInvalidEntry is returned when an entry has no usable key or Hangul.
var ErrInvalidEntry = errors.New("invalid dictionary entry")

// Service manages custom dictionary entries and notifies listeners after
// every successful mutation so derived indexes can be dropped.
type Service struct {
	repo Repository
	now  func() time.Time

	mu        sync.RWMutex
	listeners []func()
}

// NewService creates a new Service.
func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// OnChange registers fn to run after each add, update, or removal.
func (s *Service) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Service) notify() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, fn := range s.listeners {
		fn()
	}
}

// Lookup returns the entry for an English expression, or nil if absent.
func (s *Service) Lookup(ctx context.Context, english string) (*DictionaryEntry, error) {
	key := Normalize(english)
	if key == "" {
		return nil, nil
	}
	entry, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("repo.FindByKey(%s) > %w", key, err)
	}
	return entry, nil
}

// List returns all entries.
func (s *Service) List(ctx context.Context) ([]DictionaryEntry, error) {
	entries, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("repo.FindAll > %w", err)
	}
	return entries, nil
}

// Upsert adds or replaces the entry for entry.English. CreatedAt is kept
// from the stored entry when one exists.
func (s *Service) Upsert(ctx context.Context, entry DictionaryEntry) (*DictionaryEntry, error) {
	entry.English = strings.TrimSpace(entry.English)
	entry.Hangul = strings.TrimSpace(entry.Hangul)
	entry.Key = Normalize(entry.English)
	if entry.Key == "" {
		return nil, fmt.Errorf("%w: english %q normalizes to an empty key", ErrInvalidEntry, entry.English)
	}
	if entry.Hangul == "" {
		return nil, fmt.Errorf("%w: hangul is required for %q", ErrInvalidEntry, entry.English)
	}

	existing, err := s.repo.FindByKey(ctx, entry.Key)
	if err != nil {
		return nil, fmt.Errorf("repo.FindByKey(%s) > %w", entry.Key, err)
	}
	now := s.now()
	entry.CreatedAt = now
	if existing != nil {
		entry.CreatedAt = existing.CreatedAt
	}
	entry.UpdatedAt = now

	if err := s.repo.Upsert(ctx, &entry); err != nil {
		return nil, fmt.Errorf("repo.Upsert(%s) > %w", entry.Key, err)
	}
	slog.Default().Info("custom dictionary entry saved", "key", entry.Key, "hangul", entry.Hangul)
	s.notify()
	return &entry, nil
}

// Delete removes the entry for an English expression and reports whether it
// existed.
func (s *Service) Delete(ctx context.Context, english string) (bool, error) {
	key := Normalize(english)
	if key == "" {
		return false, fmt.Errorf("%w: english %q normalizes to an empty key", ErrInvalidEntry, english)
	}
	deleted, err := s.repo.Delete(ctx, key)
	if err != nil {
		return false, fmt.Errorf("repo.Delete(%s) > %w", key, err)
	}
	if deleted {
		slog.Default().Info("custom dictionary entry removed", "key", key)
		s.notify()
	}
	return deleted, nil
}
