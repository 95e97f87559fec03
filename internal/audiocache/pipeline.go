package audiocache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wuta/vocabaudio/internal/metrics"
	"github.com/wuta/vocabaudio/internal/synth"
	"github.com/wuta/vocabaudio/internal/vocabulary"
)

// Synthesizer renders a term into a clip.
type Synthesizer interface {
	Synthesize(ctx context.Context, term vocabulary.Term, mode synth.Mode) (synth.Clip, error)
}

// TermResolver finds a term by id.
type TermResolver interface {
	Resolve(ctx context.Context, termID string) (vocabulary.Term, error)
}

// Outcome describes how a request was served.
type Outcome string

const (
	OutcomeReused    Outcome = "reused"
	OutcomeGenerated Outcome = "generated"
	// OutcomeDegraded means a substitute or a stale clip was served after
	// bilingual synthesis failed.
	OutcomeDegraded Outcome = "degraded"
)

// Result is a clip ready to be served.
type Result struct {
	Key      Key
	Path     string
	Audio    []byte
	Metadata *Metadata
	Outcome  Outcome
}

// Pipeline serves clips from the cache, generating them when the policy
// asks for it.
type Pipeline struct {
	store       *Store
	synthesizer Synthesizer
	resolver    TermResolver
	policy      Policy
	metrics     *metrics.Metrics
	now         func() time.Time
}

// NewPipeline creates a Pipeline. resolver is only needed by FetchAudio.
func NewPipeline(store *Store, synthesizer Synthesizer, resolver TermResolver, policy Policy, m *metrics.Metrics) *Pipeline {
	return &Pipeline{
		store:       store,
		synthesizer: synthesizer,
		resolver:    resolver,
		policy:      policy,
		metrics:     m,
		now:         time.Now,
	}
}

// FetchAudio resolves termID and returns its clip in mode.
func (p *Pipeline) FetchAudio(ctx context.Context, termID string, mode synth.Mode) (Result, error) {
	term, err := p.resolver.Resolve(ctx, termID)
	if err != nil {
		p.metrics.RecordAudioRequest(string(mode), "not_found")
		return Result{}, fmt.Errorf("resolver.Resolve(%s) > %w", termID, err)
	}
	result, err := p.GetOrCreate(ctx, term, mode)
	if err != nil {
		p.metrics.RecordAudioRequest(string(mode), "error")
		return Result{}, err
	}
	p.metrics.RecordAudioRequest(string(mode), string(result.Outcome))
	return result, nil
}

// GetOrCreate returns the cached clip of term in mode, generating it first
// when it is missing or stale.
func (p *Pipeline) GetOrCreate(ctx context.Context, term vocabulary.Term, mode synth.Mode) (Result, error) {
	key := Key{TermID: term.ID, Mode: mode}
	state, err := p.store.Inspect(key)
	if err != nil {
		return Result{}, fmt.Errorf("store.Inspect(%s) > %w", key, err)
	}

	target := TargetVersion(mode)
	regenerate := p.policy.NeedsRegenerate(state, target, mode, term.ContentHash())
	p.metrics.RecordCacheDecision(string(mode), regenerate)
	if !regenerate {
		return p.serve(state, OutcomeReused)
	}

	clip, synthErr := p.synthesize(ctx, term, mode)
	if synthErr != nil {
		if mode != synth.ModeBilingual {
			return Result{}, fmt.Errorf("synthesize(%s) > %w", key, synthErr)
		}
		return p.degrade(ctx, term, state, synthErr)
	}

	meta := Metadata{
		SchemaVersion: target,
		Mode:          string(mode),
		TermID:        term.ID,
		GeneratedAt:   p.now().Unix(),
		VoiceOrder:    clip.VoiceOrder,
		Prefix:        clip.Prefix,
		ContentHash:   term.ContentHash(),
	}
	if err := p.commit(key, clip.Audio, meta); err != nil {
		return Result{}, err
	}
	slog.Default().Info("audio generated", "key", key.String(), "voice_order", clip.VoiceOrder)
	return Result{Key: key, Path: state.Path, Audio: clip.Audio, Metadata: &meta, Outcome: OutcomeGenerated}, nil
}

// degrade handles a failed bilingual synthesis. An existing clip is kept
// and flagged; otherwise a Korean-only clip is stored under the bilingual
// key and labelled as such so the next request tries again.
func (p *Pipeline) degrade(ctx context.Context, term vocabulary.Term, state State, cause error) (Result, error) {
	key := state.Key
	if state.ArtifactExists {
		meta := Metadata{Mode: string(synth.ModeBilingual), TermID: term.ID}
		if state.Metadata != nil {
			meta = *state.Metadata
		}
		meta.UpgradeFailed = true
		meta.Error = cause.Error()
		if err := p.store.WriteMetadata(key, meta); err != nil {
			slog.Default().Warn("could not flag failed upgrade", "key", key.String(), "error", err)
		}
		slog.Default().Warn("bilingual upgrade failed, serving previous clip", "key", key.String(), "error", cause)
		state.Metadata = &meta
		return p.serve(state, OutcomeDegraded)
	}

	clip, err := p.synthesize(ctx, term, synth.ModeKoreanOnly)
	if err != nil {
		return Result{}, fmt.Errorf("synthesize(%s) > %w", key, errors.Join(cause, err))
	}
	meta := Metadata{
		SchemaVersion: TargetVersion(synth.ModeKoreanOnly),
		Mode:          string(synth.ModeKoreanOnly),
		TermID:        term.ID,
		GeneratedAt:   p.now().Unix(),
		VoiceOrder:    clip.VoiceOrder,
		Error:         cause.Error(),
		ContentHash:   term.ContentHash(),
	}
	if err := p.commit(key, clip.Audio, meta); err != nil {
		return Result{}, err
	}
	slog.Default().Warn("bilingual synthesis failed, stored korean-only substitute", "key", key.String(), "error", cause)
	return Result{Key: key, Path: state.Path, Audio: clip.Audio, Metadata: &meta, Outcome: OutcomeDegraded}, nil
}

func (p *Pipeline) synthesize(ctx context.Context, term vocabulary.Term, mode synth.Mode) (synth.Clip, error) {
	start := time.Now()
	clip, err := p.synthesizer.Synthesize(ctx, term, mode)
	p.metrics.RecordSynthesis(string(mode), err, time.Since(start))
	return clip, err
}

// commit stores a clip. A clip whose metadata could not be written is still
// in place and will be regenerated on a later request.
func (p *Pipeline) commit(key Key, audio []byte, meta Metadata) error {
	err := p.store.Commit(key, audio, meta)
	var storageErr *StorageError
	if errors.As(err, &storageErr) && storageErr.Op == OpWriteMetadata {
		slog.Default().Warn("audio stored without metadata", "key", key.String(), "error", err)
		return nil
	}
	if err != nil {
		return fmt.Errorf("store.Commit(%s) > %w", key, err)
	}
	return nil
}

func (p *Pipeline) serve(state State, outcome Outcome) (Result, error) {
	audio, err := p.store.Read(state.Key)
	if err != nil {
		return Result{}, fmt.Errorf("store.Read(%s) > %w", state.Key, err)
	}
	return Result{Key: state.Key, Path: state.Path, Audio: audio, Metadata: state.Metadata, Outcome: outcome}, nil
}

// GenerateReport summarizes a GenerateAll run.
type GenerateReport struct {
	Generated int
	Reused    int
	Degraded  int
	Failed    map[string]error
}

// GenerateAll produces the clip of every term in mode ahead of time.
// Failures are collected per term and do not stop the run.
func (p *Pipeline) GenerateAll(ctx context.Context, terms []vocabulary.Term, mode synth.Mode) (GenerateReport, error) {
	report := GenerateReport{Failed: make(map[string]error)}
	for _, term := range terms {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		result, err := p.GetOrCreate(ctx, term, mode)
		if err != nil {
			report.Failed[term.ID] = err
			continue
		}
		switch result.Outcome {
		case OutcomeGenerated:
			report.Generated++
		case OutcomeReused:
			report.Reused++
		case OutcomeDegraded:
			report.Degraded++
		}
	}
	return report, nil
}
