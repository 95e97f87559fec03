// Package datasync provides import/export of the custom dictionary between YAML files and the database.
package datasync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wuta/vocabaudio/internal/dictionary"
)

// DictionaryFile is the YAML layout used by import and export.
type DictionaryFile struct {
	Entries []dictionary.DictionaryEntry `yaml:"entries"`
}

// ReadDictionaryFile decodes a dictionary file. Unknown keys are rejected.
func ReadDictionaryFile(r io.Reader) ([]dictionary.DictionaryEntry, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var file DictionaryFile
	if err := decoder.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decoder.Decode() > %w", err)
	}
	return file.Entries, nil
}

// WriteDictionaryFile encodes entries as a dictionary file.
func WriteDictionaryFile(w io.Writer, entries []dictionary.DictionaryEntry) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(DictionaryFile{Entries: entries}); err != nil {
		return fmt.Errorf("encoder.Encode() > %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("encoder.Close() > %w", err)
	}
	return nil
}

// DictionaryStore is the subset of dictionary.Service used for syncing.
type DictionaryStore interface {
	Lookup(ctx context.Context, english string) (*dictionary.DictionaryEntry, error)
	List(ctx context.Context) ([]dictionary.DictionaryEntry, error)
	Upsert(ctx context.Context, entry dictionary.DictionaryEntry) (*dictionary.DictionaryEntry, error)
}

// ImportResult tracks counts for each import operation.
type ImportResult struct {
	DictionaryNew     int
	DictionarySkipped int
	DictionaryUpdated int
	DictionaryInvalid int
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun         bool
	UpdateExisting bool
}

// Importer writes dictionary file entries through the dictionary service.
type Importer struct {
	store  DictionaryStore
	writer io.Writer
}

// NewImporter creates a new Importer.
func NewImporter(store DictionaryStore, writer io.Writer) *Importer {
	return &Importer{
		store:  store,
		writer: writer,
	}
}

// ImportDictionary imports entries. Entries identical to the stored ones
// are skipped; entries without a usable key or Hangul are reported and skipped.
func (imp *Importer) ImportDictionary(ctx context.Context, entries []dictionary.DictionaryEntry, opts ImportOptions) (*ImportResult, error) {
	var result ImportResult

	for _, entry := range entries {
		key := dictionary.Normalize(entry.English)
		if key == "" || strings.TrimSpace(entry.Hangul) == "" {
			fmt.Fprintf(imp.writer, "  [WARN]  invalid entry %q\n", entry.English)
			result.DictionaryInvalid++
			continue
		}

		existing, err := imp.store.Lookup(ctx, entry.English)
		if err != nil {
			return nil, fmt.Errorf("Lookup(%s) > %w", key, err)
		}

		if existing != nil {
			if !opts.UpdateExisting || sameContent(*existing, entry) {
				fmt.Fprintf(imp.writer, "  [SKIP]  %q\n", entry.English)
				result.DictionarySkipped++
				continue
			}
			if !opts.DryRun {
				if _, err := imp.store.Upsert(ctx, entry); err != nil {
					return nil, fmt.Errorf("Upsert(%s) > %w", key, err)
				}
			}
			fmt.Fprintf(imp.writer, "  [UPDATE]  %q (%s)\n", entry.English, entry.Hangul)
			result.DictionaryUpdated++
			continue
		}

		if !opts.DryRun {
			if _, err := imp.store.Upsert(ctx, entry); err != nil {
				return nil, fmt.Errorf("Upsert(%s) > %w", key, err)
			}
		}
		fmt.Fprintf(imp.writer, "  [NEW]  %q (%s)\n", entry.English, entry.Hangul)
		result.DictionaryNew++
	}

	return &result, nil
}

func sameContent(a, b dictionary.DictionaryEntry) bool {
	return strings.TrimSpace(a.English) == strings.TrimSpace(b.English) &&
		strings.TrimSpace(a.Hangul) == strings.TrimSpace(b.Hangul) &&
		a.Romanization == b.Romanization &&
		a.Category == b.Category
}

// Exporter reads the custom dictionary.
type Exporter struct {
	store DictionaryStore
}

// NewExporter creates a new Exporter.
func NewExporter(store DictionaryStore) *Exporter {
	return &Exporter{store: store}
}

// Export writes every entry to w as a dictionary file and returns the count.
func (e *Exporter) Export(ctx context.Context, w io.Writer) (int, error) {
	entries, err := e.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("store.List() > %w", err)
	}
	if err := WriteDictionaryFile(w, entries); err != nil {
		return 0, fmt.Errorf("WriteDictionaryFile() > %w", err)
	}
	return len(entries), nil
}
