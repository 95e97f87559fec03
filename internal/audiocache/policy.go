package audiocache

import "github.com/wuta/vocabaudio/internal/synth"

// Current metadata schema version per mode. Bumping a version regenerates
// every clip of that mode on its next request.
const (
	BilingualSchemaVersion   = 3
	KoreanOnlySchemaVersion  = 1
	EnglishOnlySchemaVersion = 1
)

// TargetVersion returns the schema version new clips of mode are stamped with.
func TargetVersion(mode synth.Mode) int {
	switch mode {
	case synth.ModeKoreanOnly:
		return KoreanOnlySchemaVersion
	case synth.ModeEnglishOnly:
		return EnglishOnlySchemaVersion
	default:
		return BilingualSchemaVersion
	}
}

// Policy decides whether a cached clip must be regenerated.
type Policy struct {
	// CheckContent regenerates clips whose recorded content hash differs
	// from the term's current one.
	CheckContent bool
}

// NeedsRegenerate reports whether the clip described by state has to be
// produced again. Single-language modes are kept once generated; bilingual
// clips are regenerated until stamped with targetVersion for the same mode.
func (p Policy) NeedsRegenerate(state State, targetVersion int, mode synth.Mode, contentHash string) bool {
	if !state.ArtifactExists {
		return true
	}
	if p.CheckContent && contentChanged(state.Metadata, contentHash) {
		return true
	}
	if mode != synth.ModeBilingual {
		return false
	}
	meta := state.Metadata
	if meta == nil {
		return true
	}
	return meta.SchemaVersion != targetVersion || meta.Mode != string(mode)
}

func contentChanged(meta *Metadata, contentHash string) bool {
	return meta != nil && meta.ContentHash != "" && contentHash != "" && meta.ContentHash != contentHash
}
