package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/wuta/vocabaudio/internal/audiocache"
	"github.com/wuta/vocabaudio/internal/config"
	"github.com/wuta/vocabaudio/internal/database"
	"github.com/wuta/vocabaudio/internal/dictionary"
	"github.com/wuta/vocabaudio/internal/metrics"
	"github.com/wuta/vocabaudio/internal/synth"
	"github.com/wuta/vocabaudio/internal/synth/google"
	"github.com/wuta/vocabaudio/internal/translate"
	"github.com/wuta/vocabaudio/internal/translate/mymemory"
	"github.com/wuta/vocabaudio/internal/translate/openai"
	"github.com/wuta/vocabaudio/internal/vocabulary"
)

// Components is the wired audio pipeline shared by the CLI and the server.
type Components struct {
	Config     *config.Config
	DB         *sqlx.DB
	Canonical  *vocabulary.CanonicalStore
	UserTerms  *vocabulary.DBUserTermRepository
	Resolver   *vocabulary.Resolver
	Dictionary *dictionary.Service
	Chain      *translate.Chain
	Engine     *synth.Engine
	Store      *audiocache.Store
	Pipeline   *audiocache.Pipeline

	closers []func() error
}

// Build opens the database, loads the canonical vocabulary, and assembles
// the translation chain and audio pipeline. m may be nil.
func Build(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (*Components, error) {
	c := &Components{Config: cfg}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database.Open() > %w", err)
	}
	c.DB = db
	c.closers = append(c.closers, db.Close)
	if err := database.Migrate(ctx, db); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("database.Migrate() > %w", err)
	}

	canonical, err := vocabulary.NewCanonicalStore(cfg.Vocabulary.CanonicalFile)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("vocabulary.NewCanonicalStore() > %w", err)
	}
	c.Canonical = canonical
	c.UserTerms = vocabulary.NewDBUserTermRepository(db)
	c.Resolver = vocabulary.NewResolver(canonical, c.UserTerms)
	c.Dictionary = dictionary.NewService(dictionary.NewDBRepository(db))

	providerMode, err := translate.ParseProviderMode(cfg.Translation.Provider)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("translate.ParseProviderMode() > %w", err)
	}
	var provider translate.Provider
	if providerMode == translate.ProviderOnline {
		provider = c.newProvider(cfg.Translation)
	}
	c.Chain = translate.Build(providerMode, translate.NewIndexCache(canonical, c.Dictionary), provider, cfg.Translation.Timeout(), m)
	c.Dictionary.OnChange(c.Chain.Invalidate)

	store, err := audiocache.NewStore(cfg.Audio.CacheDirectory)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("audiocache.NewStore() > %w", err)
	}
	c.Store = store

	speaker := google.NewSpeaker(google.Config{
		BaseURL:           cfg.Speech.BaseURL,
		RequestsPerMinute: cfg.Speech.RequestsPerMinute,
		Timeout:           cfg.Speech.Timeout(),
		RetryAttempts:     cfg.Speech.RetryAttempts,
	})
	mixer := synth.NewFFmpegMixer(cfg.Audio.FFmpegPath, "")
	c.Engine = synth.NewEngine(speaker, mixer, c.Chain, cfg.Audio.Pause())
	c.Pipeline = audiocache.NewPipeline(store, c.Engine, c.Resolver, audiocache.Policy{
		CheckContent: cfg.Audio.InvalidateOnContentChange,
	}, m)

	slog.Default().Debug("components built",
		"database", cfg.Database.Driver,
		"translation", providerMode,
		"cache_directory", store.Dir(),
	)
	return c, nil
}

func (c *Components) newProvider(cfg config.TranslationConfig) translate.Provider {
	switch cfg.OnlineBackend {
	case "openai":
		if cfg.OpenAI.APIKey == "" {
			slog.Default().Warn("openai backend selected without an API key, online translation disabled")
			return nil
		}
		client := openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.RetryAttempts, cfg.Timeout())
		c.closers = append(c.closers, client.Close)
		return client
	default:
		return mymemory.NewClient(cfg.MyMemory.BaseURL, cfg.ContactEmail, cfg.Timeout())
	}
}

// WatchCanonical reloads the canonical vocabulary on file changes and drops
// the translation index when it changed. It blocks until ctx is done.
func (c *Components) WatchCanonical(ctx context.Context) error {
	return c.Canonical.Watch(ctx, func(version string) {
		slog.Default().Info("canonical vocabulary changed", "version", version)
		c.Chain.Invalidate()
	})
}

// Close releases resources in reverse order of acquisition.
func (c *Components) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
