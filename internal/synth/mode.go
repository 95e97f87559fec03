package synth

import (
	"fmt"
	"strings"
)

// Mode selects how a term is rendered into audio.
type Mode string

const (
	ModeBilingual   Mode = "bilingual"
	ModeKoreanOnly  Mode = "korean_only"
	ModeEnglishOnly Mode = "english_only"
)

// Modes lists every supported mode.
var Modes = []Mode{ModeBilingual, ModeKoreanOnly, ModeEnglishOnly}

// ParseMode converts a request value into a Mode. An empty value selects
// ModeBilingual.
func ParseMode(s string) (Mode, error) {
	switch mode := Mode(strings.TrimSpace(s)); mode {
	case "":
		return ModeBilingual, nil
	case ModeBilingual, ModeKoreanOnly, ModeEnglishOnly:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown audio mode %q", s)
	}
}

func (m Mode) String() string {
	return string(m)
}

// Set implements pflag.Value.
func (m *Mode) Set(value string) error {
	parsed, err := ParseMode(value)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Type implements pflag.Value.
func (m *Mode) Type() string {
	return "mode"
}
