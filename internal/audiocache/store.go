package audiocache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// Storage operations reported in StorageError.
const (
	OpInspect       = "inspect"
	OpRead          = "read"
	OpWriteAudio    = "write audio"
	OpCommit        = "commit"
	OpWriteMetadata = "write metadata"
)

// StorageError reports a failed filesystem operation on the cache.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("audio cache %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// State is what the cache holds for a key.
type State struct {
	Key            Key
	Path           string
	ArtifactExists bool
	// Metadata is nil when the record is absent or unreadable.
	Metadata *Metadata
}

// Store keeps clips and their metadata in a single directory. Artifacts are
// only ever replaced by an atomic rename, so readers see either the previous
// clip or the new one.
type Store struct {
	dir    string
	rename func(oldpath, newpath string) error
}

// NewStore creates a Store rooted at dir, creating the directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &StorageError{Op: "mkdir", Path: dir, Err: err}
	}
	return &Store{dir: dir, rename: os.Rename}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Path returns the artifact path of key.
func (s *Store) Path(key Key) string {
	return filepath.Join(s.dir, key.FileName())
}

func metadataPath(artifact string) string {
	return artifact + MetadataSuffix
}

// Inspect reports the artifact and metadata held for key.
func (s *Store) Inspect(key Key) (State, error) {
	path := s.Path(key)
	state := State{Key: key, Path: path}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return state, nil
	}
	if err != nil {
		return state, &StorageError{Op: OpInspect, Path: path, Err: err}
	}
	if info.IsDir() {
		return state, &StorageError{Op: OpInspect, Path: path, Err: errors.New("artifact path is a directory")}
	}
	state.ArtifactExists = true
	state.Metadata = s.readMetadata(path)
	return state, nil
}

// readMetadata returns nil for missing or unreadable records.
func (s *Store) readMetadata(artifact string) *Metadata {
	path := metadataPath(artifact)
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Default().Warn("unreadable audio metadata", "path", path, "error", err)
		}
		return nil
	}
	meta, err := DecodeMetadata(data)
	if err != nil {
		slog.Default().Warn("corrupt audio metadata, treating as absent", "path", path, "error", err)
		return nil
	}
	return meta
}

// Read returns the artifact bytes of key.
func (s *Store) Read(key Key) ([]byte, error) {
	path := s.Path(key)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &StorageError{Op: OpRead, Path: path, Err: err}
	}
	return data, nil
}

// Commit replaces the artifact of key with audio and records meta for it.
// On failure before the rename the previous artifact is left untouched. A
// StorageError with Op OpWriteMetadata means the new artifact is in place
// without metadata.
func (s *Store) Commit(key Key, audio []byte, meta Metadata) error {
	path := s.Path(key)

	tmp, err := s.writeTemp(path, audio)
	if err != nil {
		return &StorageError{Op: OpWriteAudio, Path: path, Err: err}
	}

	// Metadata of the old clip must not outlive it.
	if err := os.Remove(metadataPath(path)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		_ = os.Remove(tmp)
		return &StorageError{Op: OpCommit, Path: path, Err: err}
	}
	if err := s.rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return &StorageError{Op: OpCommit, Path: path, Err: err}
	}

	return s.WriteMetadata(key, meta)
}

// WriteMetadata atomically replaces the metadata record of key.
func (s *Store) WriteMetadata(key Key, meta Metadata) error {
	path := metadataPath(s.Path(key))
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return &StorageError{Op: OpWriteMetadata, Path: path, Err: err}
	}
	tmp, err := s.writeTemp(path, data)
	if err != nil {
		return &StorageError{Op: OpWriteMetadata, Path: path, Err: err}
	}
	if err := s.rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return &StorageError{Op: OpWriteMetadata, Path: path, Err: err}
	}
	return nil
}

// writeTemp writes data to a unique temporary file next to target and
// returns its path once the contents are flushed to disk.
func (s *Store) writeTemp(target string, data []byte) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(target), filepath.Base(target)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("os.CreateTemp > %w", err)
	}
	name := f.Name()
	if err := f.Chmod(0644); err != nil {
		f.Close()
		os.Remove(name)
		return "", fmt.Errorf("f.Chmod > %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(name)
		return "", fmt.Errorf("f.Write > %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(name)
		return "", fmt.Errorf("f.Sync > %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(name)
		return "", fmt.Errorf("f.Close > %w", err)
	}
	return name, nil
}
