package bootstrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wuta/vocabaudio/internal/audiocache"
	"github.com/wuta/vocabaudio/internal/config"
	"github.com/wuta/vocabaudio/internal/dictionary"
	"github.com/wuta/vocabaudio/internal/synth"
	"github.com/wuta/vocabaudio/internal/testutil"
	"github.com/wuta/vocabaudio/internal/translate"
)

func loadTestConfig(t *testing.T, opts ...testutil.ConfigOption) *config.Config {
	t.Helper()
	loader, err := config.NewConfigLoader(testutil.SetupTestConfig(t, t.TempDir(), opts...))
	require.NoError(t, err)
	cfg, err := loader.Load()
	require.NoError(t, err)
	return cfg
}

func TestBuild(t *testing.T) {
	ctx := context.Background()
	c, err := Build(ctx, loadTestConfig(t, testutil.WithTranslationProvider("offline")), nil)
	require.NoError(t, err)
	defer func() { assert.NoError(t, c.Close()) }()

	t.Run("resolves canonical terms by legacy id", func(t *testing.T) {
		term, err := c.Resolver.Resolve(ctx, "front_kick")
		require.NoError(t, err)
		assert.Equal(t, "ap_chagi", term.ID)
	})

	t.Run("dictionary changes reach the chain", func(t *testing.T) {
		before := c.Chain.HangulFor(ctx, "Side Kick")
		assert.False(t, before.Found())

		_, err := c.Dictionary.Upsert(ctx, dictionary.DictionaryEntry{English: "Side Kick", Hangul: "옆차기"})
		require.NoError(t, err)

		after := c.Chain.HangulFor(ctx, "side kick")
		assert.Equal(t, "옆차기", after.Text)
		assert.Equal(t, translate.SourceCustom, after.Source)
	})

	t.Run("current cached clip is served without synthesis", func(t *testing.T) {
		key := audiocache.Key{TermID: "kyungrye", Mode: synth.ModeBilingual}
		require.NoError(t, c.Store.Commit(key, []byte("ID3-cached"), audiocache.Metadata{
			SchemaVersion: audiocache.TargetVersion(synth.ModeBilingual),
			Mode:          string(synth.ModeBilingual),
			TermID:        "kyungrye",
		}))

		result, err := c.Pipeline.FetchAudio(ctx, "kyungrye", synth.ModeBilingual)
		require.NoError(t, err)
		assert.Equal(t, []byte("ID3-cached"), result.Audio)
		assert.Equal(t, audiocache.OutcomeReused, result.Outcome)
	})
}

func TestBuild_InvalidDatabaseDriver(t *testing.T) {
	cfg := loadTestConfig(t)
	cfg.Database.Driver = "postgres"

	_, err := Build(context.Background(), cfg, nil)
	assert.ErrorContains(t, err, "database.Open()")
}

func TestComponents_NewProvider(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.TranslationConfig
		wantNil bool
	}{
		{
			name: "mymemory by default",
			cfg:  config.TranslationConfig{OnlineBackend: "mymemory", TimeoutSeconds: 1},
		},
		{
			name: "openai with key",
			cfg:  config.TranslationConfig{OnlineBackend: "openai", TimeoutSeconds: 1, OpenAI: config.OpenAIConfig{APIKey: "sk-test"}},
		},
		{
			name:    "openai without key",
			cfg:     config.TranslationConfig{OnlineBackend: "openai", TimeoutSeconds: 1},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Components{}
			got := c.newProvider(tt.cfg)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			assert.NotNil(t, got)
			assert.NoError(t, c.Close())
		})
	}
}
