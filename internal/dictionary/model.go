package dictionary

import (
	"time"
)

// DictionaryEntry is an admin-managed override mapping an English expression
// to its Korean text. Entries are stored under Normalize(English).
type DictionaryEntry struct {
	Key          string    `db:"english_key" yaml:"-" json:"-"`
	English      string    `db:"english" yaml:"english" json:"english"`
	Hangul       string    `db:"hangul" yaml:"hangul" json:"hangul"`
	Romanization string    `db:"romanization" yaml:"romanization,omitempty" json:"romanization,omitempty"`
	Category     string    `db:"category" yaml:"category,omitempty" json:"category,omitempty"`
	CreatedAt    time.Time `db:"created_at" yaml:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" yaml:"updated_at" json:"updated_at"`
}

// HasNativeText reports whether the entry carries usable Hangul.
func (e DictionaryEntry) HasNativeText() bool {
	return IsNativeText(e.Hangul)
}
