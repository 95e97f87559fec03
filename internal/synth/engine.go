package synth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/wuta/vocabaudio/internal/dictionary"
	"github.com/wuta/vocabaudio/internal/translate"
	"github.com/wuta/vocabaudio/internal/vocabulary"
)

var (
	// ErrNoText is returned when a term has nothing to speak in the requested mode.
	ErrNoText = errors.New("no text to synthesize")
	// ErrNoNativeText is returned when no Korean text could be found for a term.
	ErrNoNativeText = errors.New("no korean text available")
)

const (
	// PromptPrefix starts every English prompt.
	PromptPrefix = "The word is"
	// DefaultPause separates the English and Korean parts of a bilingual clip.
	DefaultPause = 650 * time.Millisecond
)

// Voice orders recorded in cache metadata.
const (
	VoiceOrderKorean              = "ko"
	VoiceOrderEnglish             = "en"
	VoiceOrderEnglishKorean       = "en_then_ko"
	VoiceOrderEnglishRomanization = "en_then_romanization"
	VoiceOrderEnglishOnly         = "en_only"
	VoiceOrderRomanization        = "romanization"
)

// KoreanSourceTerm marks Korean text taken from the term itself.
const KoreanSourceTerm translate.Source = "term"

// Translator resolves Korean text for an English expression.
type Translator interface {
	HangulFor(ctx context.Context, english string) translate.Resolution
}

// Clip is a synthesized audio clip and a description of how it was built.
type Clip struct {
	Audio      []byte
	Mode       Mode
	VoiceOrder string
	Prefix     string
	// KoreanText is the Korean text spoken, if any.
	KoreanText   string
	KoreanSource translate.Source
}

// Engine renders terms into audio clips.
type Engine struct {
	speaker    Speaker
	mixer      Mixer
	translator Translator
	pause      time.Duration
}

// NewEngine creates an Engine. translator may be nil, in which case only the
// term's own Hangul is used.
func NewEngine(speaker Speaker, mixer Mixer, translator Translator, pause time.Duration) *Engine {
	if pause <= 0 {
		pause = DefaultPause
	}
	return &Engine{
		speaker:    speaker,
		mixer:      mixer,
		translator: translator,
		pause:      pause,
	}
}

// Synthesize renders term in the given mode.
func (e *Engine) Synthesize(ctx context.Context, term vocabulary.Term, mode Mode) (Clip, error) {
	switch mode {
	case ModeKoreanOnly:
		return e.synthesizeKorean(ctx, term)
	case ModeEnglishOnly:
		return e.synthesizeEnglish(ctx, term)
	case ModeBilingual:
		return e.synthesizeBilingual(ctx, term)
	default:
		return Clip{}, fmt.Errorf("unknown audio mode %q", mode)
	}
}

// EnglishPrompt returns the sentence spoken for an English expression, or ""
// when there is none.
func EnglishPrompt(english string) string {
	english = strings.TrimSpace(english)
	if english == "" {
		return ""
	}
	return fmt.Sprintf("%s %s.", PromptPrefix, strings.TrimRight(english, "."))
}

func (e *Engine) koreanText(ctx context.Context, term vocabulary.Term) (string, translate.Source) {
	if dictionary.IsNativeText(term.Hangul) {
		return strings.TrimSpace(term.Hangul), KoreanSourceTerm
	}
	if e.translator == nil || strings.TrimSpace(term.English) == "" {
		return "", translate.SourceNone
	}
	resolution := e.translator.HangulFor(ctx, term.English)
	if !resolution.Found() {
		return "", translate.SourceNone
	}
	return resolution.Text, resolution.Source
}

func (e *Engine) synthesizeKorean(ctx context.Context, term vocabulary.Term) (Clip, error) {
	text, source := e.koreanText(ctx, term)
	if text == "" {
		return Clip{}, fmt.Errorf("term %s: %w", term.ID, ErrNoNativeText)
	}
	audio, err := e.speaker.Speak(ctx, text, Voice{Language: LanguageKorean, Slow: true})
	if err != nil {
		return Clip{}, fmt.Errorf("speaker.Speak(ko) > %w", err)
	}
	return Clip{
		Audio:        audio,
		Mode:         ModeKoreanOnly,
		VoiceOrder:   VoiceOrderKorean,
		KoreanText:   text,
		KoreanSource: source,
	}, nil
}

func (e *Engine) synthesizeEnglish(ctx context.Context, term vocabulary.Term) (Clip, error) {
	if prompt := EnglishPrompt(term.English); prompt != "" {
		audio, err := e.speaker.Speak(ctx, prompt, Voice{Language: LanguageEnglish})
		if err != nil {
			return Clip{}, fmt.Errorf("speaker.Speak(en) > %w", err)
		}
		return Clip{Audio: audio, Mode: ModeEnglishOnly, VoiceOrder: VoiceOrderEnglish, Prefix: PromptPrefix}, nil
	}

	// Without English, fall back to whatever the term carries.
	raw := strings.TrimSpace(term.Hangul)
	if raw == "" {
		return Clip{}, fmt.Errorf("term %s: %w", term.ID, ErrNoText)
	}
	voice, order := Voice{Language: LanguageEnglish}, VoiceOrderEnglish
	if dictionary.IsNativeText(raw) {
		voice, order = Voice{Language: LanguageKorean}, VoiceOrderKorean
	}
	audio, err := e.speaker.Speak(ctx, raw, voice)
	if err != nil {
		return Clip{}, fmt.Errorf("speaker.Speak(%s) > %w", voice.Language, err)
	}
	return Clip{Audio: audio, Mode: ModeEnglishOnly, VoiceOrder: order}, nil
}

func (e *Engine) synthesizeBilingual(ctx context.Context, term vocabulary.Term) (Clip, error) {
	clip := Clip{Mode: ModeBilingual}

	var english []byte
	if prompt := EnglishPrompt(term.English); prompt != "" {
		audio, err := e.speaker.Speak(ctx, prompt, Voice{Language: LanguageEnglish})
		if err != nil {
			return Clip{}, fmt.Errorf("speaker.Speak(en) > %w", err)
		}
		english = audio
		clip.Prefix = PromptPrefix
	}

	var korean []byte
	romanized := false
	if text, source := e.koreanText(ctx, term); text != "" {
		audio, err := e.speaker.Speak(ctx, text, Voice{Language: LanguageKorean, Slow: true})
		if err != nil {
			return Clip{}, fmt.Errorf("speaker.Speak(ko) > %w", err)
		}
		korean = audio
		clip.KoreanText, clip.KoreanSource = text, source
	} else if romanization := strings.TrimSpace(term.Romanization); romanization != "" {
		// Romanized text is never sent to the Korean voice.
		audio, err := e.speaker.Speak(ctx, romanization, Voice{Language: LanguageEnglish, Slow: true})
		if err != nil {
			return Clip{}, fmt.Errorf("speaker.Speak(romanization) > %w", err)
		}
		korean = audio
		romanized = true
	}

	switch {
	case english != nil && korean != nil:
		mixed, err := e.mixer.Mix(ctx, []Segment{{Audio: english}, {Silence: e.pause}, {Audio: korean}})
		if err != nil {
			return Clip{}, fmt.Errorf("mixer.Mix > %w", err)
		}
		clip.Audio = mixed
		clip.VoiceOrder = VoiceOrderEnglishKorean
		if romanized {
			clip.VoiceOrder = VoiceOrderEnglishRomanization
		}
	case english != nil:
		slog.Default().Info("bilingual clip without korean segment", "term_id", term.ID)
		clip.Audio = english
		clip.VoiceOrder = VoiceOrderEnglishOnly
	case korean != nil:
		clip.Audio = korean
		clip.VoiceOrder = VoiceOrderKorean
		if romanized {
			clip.VoiceOrder = VoiceOrderRomanization
		}
	default:
		return Clip{}, fmt.Errorf("term %s: %w", term.ID, ErrNoText)
	}
	return clip, nil
}
