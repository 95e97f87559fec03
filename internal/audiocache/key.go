package audiocache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/wuta/vocabaudio/internal/synth"
)

const (
	audioExt       = ".mp3"
	koreanSuffix   = "__ko"
	englishSuffix  = "__en"
	MetadataSuffix = ".meta.json"
)

// Key identifies one cached clip.
type Key struct {
	TermID string
	Mode   synth.Mode
}

func (k Key) String() string {
	return k.TermID + "/" + string(k.Mode)
}

// FileName returns the artifact file name. Each mode has its own name so
// switching modes never overwrites another mode's clip.
func (k Key) FileName() string {
	name := safeName(k.TermID)
	switch k.Mode {
	case synth.ModeKoreanOnly:
		name += koreanSuffix
	case synth.ModeEnglishOnly:
		name += englishSuffix
	}
	return name + audioExt
}

// safeName maps a term id onto a file name. Ids that need rewriting get a
// short hash suffix so distinct ids never share a file.
func safeName(id string) string {
	var b strings.Builder
	var prev byte
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-':
		case c == '_' && prev != '_':
		case c == '.' && b.Len() > 0:
		default:
			c = '-'
		}
		b.WriteByte(c)
		prev = c
	}
	name := b.String()
	if name == id && name != "" {
		return name
	}
	sum := sha256.Sum256([]byte(id))
	return name + "-" + hex.EncodeToString(sum[:4])
}
