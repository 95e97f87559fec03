package vocabulary

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

// Snapshot is an immutable view of the canonical vocabulary.
type Snapshot struct {
	Terms []Term
	// Version is the sha256 of the file contents the terms were read from.
	Version string

	byID       map[string]int
	byLegacyID map[string]int
}

// FindByID looks a term up by id, then by legacy id.
func (s *Snapshot) FindByID(id string) (Term, bool) {
	if i, ok := s.byID[id]; ok {
		return s.Terms[i], true
	}
	if i, ok := s.byLegacyID[id]; ok {
		return s.Terms[i], true
	}
	return Term{}, false
}

func newSnapshot(terms []Term, version string) *Snapshot {
	s := &Snapshot{
		Terms:      terms,
		Version:    version,
		byID:       make(map[string]int, len(terms)),
		byLegacyID: make(map[string]int),
	}
	for i, term := range terms {
		// First occurrence wins for duplicated ids.
		if _, ok := s.byID[term.ID]; !ok {
			s.byID[term.ID] = i
		}
		if term.LegacyID == "" {
			continue
		}
		if _, ok := s.byLegacyID[term.LegacyID]; !ok {
			s.byLegacyID[term.LegacyID] = i
		}
	}
	return s
}

// CanonicalStore serves the canonical vocabulary from a JSON file and reloads
// it when the file's modification time or size changes.
type CanonicalStore struct {
	path string

	mu       sync.RWMutex
	snapshot *Snapshot
	modTime  time.Time
	size     int64
}

// NewCanonicalStore loads the dataset at path.
func NewCanonicalStore(path string) (*CanonicalStore, error) {
	store := &CanonicalStore{path: path}
	if err := store.Reload(); err != nil {
		return nil, err
	}
	return store, nil
}

// Path returns the backing file path.
func (s *CanonicalStore) Path() string {
	return s.path
}

// Snapshot returns the current terms, reloading first if the backing file
// changed. A failed reload keeps serving the previous snapshot.
func (s *CanonicalStore) Snapshot() *Snapshot {
	info, err := os.Stat(s.path)
	if err == nil && s.changed(info) {
		if err := s.Reload(); err != nil {
			slog.Default().Warn("failed to reload canonical vocabulary", "path", s.path, "error", err)
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

func (s *CanonicalStore) changed(info os.FileInfo) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !info.ModTime().Equal(s.modTime) || info.Size() != s.size
}

// Reload re-reads the backing file unconditionally.
func (s *CanonicalStore) Reload() error {
	info, err := os.Stat(s.path)
	if err != nil {
		return fmt.Errorf("os.Stat(%s) > %w", s.path, err)
	}
	contents, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("os.ReadFile(%s) > %w", s.path, err)
	}

	var dataset Dataset
	if err := json.Unmarshal(contents, &dataset); err != nil {
		return fmt.Errorf("json.Unmarshal(%s) > %w", s.path, err)
	}
	sum := sha256.Sum256(contents)
	snapshot := newSnapshot(dataset.Flatten(), hex.EncodeToString(sum[:]))

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot == nil || s.snapshot.Version != snapshot.Version {
		slog.Default().Info("canonical vocabulary loaded", "path", s.path, "terms", len(snapshot.Terms), "version", snapshot.Version[:12])
	}
	s.snapshot = snapshot
	s.modTime = info.ModTime()
	s.size = info.Size()
	return nil
}
