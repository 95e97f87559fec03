package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wuta/vocabaudio/internal/config"
	"github.com/wuta/vocabaudio/internal/vocabulary"
)

func TestSetupTestConfig(t *testing.T) {
	tmpDir := t.TempDir()
	got := SetupTestConfig(t, tmpDir, WithAdminToken("tok"), WithTranslationProvider("offline"))

	assert.Equal(t, filepath.Join(tmpDir, "config.yml"), got)

	loader, err := config.NewConfigLoader(got)
	require.NoError(t, err)
	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(tmpDir, "data", "terms.json"), cfg.Vocabulary.CanonicalFile)
	assert.False(t, cfg.Vocabulary.Watch)
	assert.Equal(t, filepath.Join(tmpDir, "audio"), cfg.Audio.CacheDirectory)
	assert.Equal(t, "offline", cfg.Translation.Provider)
	assert.Equal(t, "tok", cfg.Server.AdminToken)
	assert.Equal(t, uint(0), cfg.Speech.RetryAttempts)
}

func TestWriteDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "terms.json")
	WriteDataset(t, path, SampleDataset())

	store, err := vocabulary.NewCanonicalStore(path)
	require.NoError(t, err)
	snapshot := store.Snapshot()
	require.Len(t, snapshot.Terms, 3)

	term, ok := snapshot.FindByID("front_kick")
	require.True(t, ok)
	assert.Equal(t, "ap_chagi", term.ID)
	assert.Equal(t, "white", term.Belt)
}

func TestCreateFiles(t *testing.T) {
	dir := t.TempDir()
	CreateFiles(t, dir, "a.mp3", filepath.Join("sfx", "ding.mp3"))

	for _, name := range []string{"a.mp3", filepath.Join("sfx", "ding.mp3")} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err)
	}
}
