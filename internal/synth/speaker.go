package synth

import (
	"context"
	"time"
)

//go:generate mockgen -source=speaker.go -destination=../mocks/synth/mock_speaker.go -package=mock_synth

const (
	LanguageKorean  = "ko"
	LanguageEnglish = "en"
)

// Voice selects the synthesizer language and pace.
type Voice struct {
	Language string
	Slow     bool
}

// Speaker turns text into MP3 audio.
type Speaker interface {
	Speak(ctx context.Context, text string, voice Voice) ([]byte, error)
}

// Segment is one piece of a mixed clip: either MP3 audio or a silence gap.
type Segment struct {
	Audio   []byte
	Silence time.Duration
}

// Mixer concatenates segments into a single MP3 clip.
type Mixer interface {
	Mix(ctx context.Context, segments []Segment) ([]byte, error)
}
