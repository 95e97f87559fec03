package vocabulary

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"
)

// ErrTermNotFound is returned when a term id is neither canonical nor user-added.
var ErrTermNotFound = errors.New("term not found")

// Term is a vocabulary entry as used by the audio pipeline.
type Term struct {
	ID           string    `db:"id" json:"id"`
	LegacyID     string    `db:"legacy_id" json:"legacy_id,omitempty"`
	English      string    `db:"english" json:"english"`
	Hangul       string    `db:"hangul" json:"hangul"`
	Romanization string    `db:"romanization" json:"romanization,omitempty"`
	Category     string    `db:"category" json:"category,omitempty"`
	Belt         string    `db:"-" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"-"`
}

// ContentHash identifies the spoken content of a term. It changes whenever
// the English, Hangul, or romanization text changes.
func (t Term) ContentHash() string {
	h := sha256.New()
	for _, s := range []string{t.English, t.Hangul, t.Romanization} {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// Dataset is the on-disk layout of the canonical vocabulary file.
type Dataset struct {
	Belts []Belt `json:"belts"`
}

// Belt groups canonical terms by rank.
type Belt struct {
	ID    string `json:"belt_id"`
	Name  string `json:"belt_name"`
	Terms []Term `json:"terms"`
}

// Flatten returns all terms in file order, tagged with their belt id.
func (d Dataset) Flatten() []Term {
	var terms []Term
	for _, belt := range d.Belts {
		for _, term := range belt.Terms {
			term.Belt = belt.ID
			terms = append(terms, term)
		}
	}
	return terms
}
