// Package testutil provides shared test helpers for creating config files and vocabulary fixtures.
package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wuta/vocabaudio/internal/vocabulary"
)

// ConfigOption configures optional fields when creating a config file.
type ConfigOption func(*testConfig)

type testConfig struct {
	speechBaseURL       string
	translationProvider string
	adminToken          string
}

// WithSpeechBaseURL points the speech client at a test server.
func WithSpeechBaseURL(url string) ConfigOption {
	return func(cfg *testConfig) {
		cfg.speechBaseURL = url
	}
}

// WithTranslationProvider overrides the translation provider mode.
func WithTranslationProvider(provider string) ConfigOption {
	return func(cfg *testConfig) {
		cfg.translationProvider = provider
	}
}

// WithAdminToken sets server.admin_token.
func WithAdminToken(token string) ConfigOption {
	return func(cfg *testConfig) {
		cfg.adminToken = token
	}
}

// SetupTestConfig writes the sample dataset and a config file that keeps every
// path inside tmpDir. Returns the path to the generated config file.
// By default speech requests go to an unroutable address and translation is
// disabled, so nothing reaches the network.
func SetupTestConfig(t *testing.T, tmpDir string, opts ...ConfigOption) string {
	t.Helper()

	cfg := testConfig{
		speechBaseURL:       "http://127.0.0.1:1",
		translationProvider: "disabled",
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	termsPath := filepath.Join(tmpDir, "data", "terms.json")
	WriteDataset(t, termsPath, SampleDataset())
	audioDir := filepath.Join(tmpDir, "audio")
	require.NoError(t, os.MkdirAll(audioDir, 0755))

	configContent := fmt.Sprintf(`server:
  admin_token: %q
vocabulary:
  canonical_file: %s
  watch: false
database:
  driver: sqlite3
  path: %s
audio:
  cache_directory: %s
speech:
  base_url: %s
  timeout_seconds: 1
  retry_attempts: 0
translation:
  provider: %s
`,
		cfg.adminToken,
		termsPath,
		filepath.Join(tmpDir, "vocabaudio.db"),
		audioDir,
		cfg.speechBaseURL,
		cfg.translationProvider,
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// SampleDataset returns a small canonical dataset with two belts.
func SampleDataset() vocabulary.Dataset {
	return vocabulary.Dataset{
		Belts: []vocabulary.Belt{
			{
				ID:   "white",
				Name: "White Belt",
				Terms: []vocabulary.Term{
					{ID: "ap_chagi", LegacyID: "front_kick", English: "Front Kick", Hangul: "앞차기", Romanization: "ap chagi", Category: "Kick"},
					{ID: "kyungrye", English: "Bow", Hangul: "경례", Romanization: "kyung rye", Category: "Etiquette"},
				},
			},
			{
				ID:   "yellow",
				Name: "Yellow Belt",
				Terms: []vocabulary.Term{
					{ID: "yop_chagi", English: "Side Kick", Romanization: "yop chagi", Category: "Kick"},
				},
			},
		},
	}
}

// WriteDataset writes dataset as the canonical vocabulary file at path.
func WriteDataset(t *testing.T, path string, dataset vocabulary.Dataset) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	content, err := json.MarshalIndent(dataset, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, content, 0644))
}

// CreateFiles creates each relative path under dir with placeholder content.
func CreateFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	}
}
