package audiocache

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Metadata describes the artifact stored next to it.
type Metadata struct {
	SchemaVersion int    `json:"schema_version"`
	Mode          string `json:"mode"`
	TermID        string `json:"term_id"`
	GeneratedAt   int64  `json:"generated_at"`
	VoiceOrder    string `json:"voice_order,omitempty"`
	Prefix        string `json:"prefix,omitempty"`
	Error         string `json:"error,omitempty"`
	UpgradeFailed bool   `json:"upgrade_failed,omitempty"`
	ContentHash   string `json:"content_hash,omitempty"`
}

// rawMetadata accepts every layout written so far. Early records had no
// schema_version, kept it under "version", or stored generated_at as text.
type rawMetadata struct {
	SchemaVersion json.RawMessage `json:"schema_version"`
	Version       json.RawMessage `json:"version"`
	Mode          string          `json:"mode"`
	TermID        string          `json:"term_id"`
	GeneratedAt   json.RawMessage `json:"generated_at"`
	VoiceOrder    string          `json:"voice_order"`
	Prefix        string          `json:"prefix"`
	Error         string          `json:"error"`
	UpgradeFailed bool            `json:"upgrade_failed"`
	ContentHash   string          `json:"content_hash"`
}

// DecodeMetadata parses a metadata record and migrates it to the current
// layout. Records without a version decode as version 0.
func DecodeMetadata(data []byte) (*Metadata, error) {
	var raw rawMetadata
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("json.Unmarshal > %w", err)
	}

	version := raw.SchemaVersion
	if len(version) == 0 {
		version = raw.Version
	}
	schemaVersion, err := decodeInt(version)
	if err != nil {
		return nil, fmt.Errorf("schema_version > %w", err)
	}
	generatedAt, err := decodeTimestamp(raw.GeneratedAt)
	if err != nil {
		return nil, fmt.Errorf("generated_at > %w", err)
	}

	return &Metadata{
		SchemaVersion: int(schemaVersion),
		Mode:          raw.Mode,
		TermID:        raw.TermID,
		GeneratedAt:   generatedAt,
		VoiceOrder:    raw.VoiceOrder,
		Prefix:        raw.Prefix,
		Error:         raw.Error,
		UpgradeFailed: raw.UpgradeFailed,
		ContentHash:   raw.ContentHash,
	}, nil
}

func decodeInt(data json.RawMessage) (int64, error) {
	if len(data) == 0 || string(data) == "null" {
		return 0, nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return 0, err
	}
	switch v := v.(type) {
	case float64:
		return int64(v), nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	default:
		return 0, fmt.Errorf("unexpected value %s", string(data))
	}
}

func decodeTimestamp(data json.RawMessage) (int64, error) {
	if n, err := decodeInt(data); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return 0, err
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, err
	}
	return t.Unix(), nil
}
