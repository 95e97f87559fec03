package audiocache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClear(t *testing.T) {
	dir := t.TempDir()
	files := map[string]bool{
		"ap_chagi.mp3":                  false,
		"ap_chagi.mp3.meta.json":        false,
		"ap_chagi__ko.mp3":              false,
		"ap_chagi.mp3.123.tmp":          false,
		"download.part":                 false,
		"nested/arae_makgi__en.mp3":     false,
		"sfx/bell.mp3":                  true,
		"nested/sfx/whistle.mp3":        true,
		"README.txt":                    true,
		"ap_chagi.mp3.meta.json.99.tmp": false,
	}
	for name := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	}

	removed, err := Clear(dir)
	require.NoError(t, err)
	assert.Equal(t, 7, removed)

	for name, kept := range files {
		path := filepath.Join(dir, name)
		if kept {
			assert.FileExists(t, path)
		} else {
			assert.NoFileExists(t, path)
		}
	}
}

func TestClear_MissingDirectory(t *testing.T) {
	removed, err := Clear(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Zero(t, removed)
}
