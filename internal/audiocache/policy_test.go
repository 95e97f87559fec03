package audiocache

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wuta/vocabaudio/internal/synth"
)

func TestPolicy_NeedsRegenerate(t *testing.T) {
	current := &Metadata{SchemaVersion: BilingualSchemaVersion, Mode: "bilingual", ContentHash: "h1"}

	tests := []struct {
		name   string
		policy Policy
		state  State
		mode   synth.Mode
		hash   string
		want   bool
	}{
		{name: "no artifact", state: State{}, mode: synth.ModeBilingual, want: true},
		{name: "no artifact korean only", state: State{}, mode: synth.ModeKoreanOnly, want: true},
		{name: "current bilingual", state: State{ArtifactExists: true, Metadata: current}, mode: synth.ModeBilingual, want: false},
		{
			name:  "old schema version",
			state: State{ArtifactExists: true, Metadata: &Metadata{SchemaVersion: 2, Mode: "bilingual"}},
			mode:  synth.ModeBilingual, want: true,
		},
		{
			name:  "substitute stored under bilingual key",
			state: State{ArtifactExists: true, Metadata: &Metadata{SchemaVersion: BilingualSchemaVersion, Mode: "korean_only"}},
			mode:  synth.ModeBilingual, want: true,
		},
		{name: "legacy bilingual artifact", state: State{ArtifactExists: true}, mode: synth.ModeBilingual, want: true},
		{name: "legacy korean only artifact is kept", state: State{ArtifactExists: true}, mode: synth.ModeKoreanOnly, want: false},
		{
			name:  "english only ignores schema version",
			state: State{ArtifactExists: true, Metadata: &Metadata{SchemaVersion: 0, Mode: "english_only"}},
			mode:  synth.ModeEnglishOnly, want: false,
		},
		{
			name:  "content change ignored by default",
			state: State{ArtifactExists: true, Metadata: current},
			mode:  synth.ModeBilingual, hash: "h2", want: false,
		},
		{
			name:   "content change with check enabled",
			policy: Policy{CheckContent: true},
			state:  State{ArtifactExists: true, Metadata: &Metadata{SchemaVersion: 1, Mode: "korean_only", ContentHash: "h1"}},
			mode:   synth.ModeKoreanOnly, hash: "h2", want: true,
		},
		{
			name:   "unchanged content with check enabled",
			policy: Policy{CheckContent: true},
			state:  State{ArtifactExists: true, Metadata: current},
			mode:   synth.ModeBilingual, hash: "h1", want: false,
		},
		{
			name:   "record without hash with check enabled",
			policy: Policy{CheckContent: true},
			state:  State{ArtifactExists: true, Metadata: &Metadata{SchemaVersion: 1, Mode: "korean_only"}},
			mode:   synth.ModeKoreanOnly, hash: "h2", want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.policy.NeedsRegenerate(tt.state, TargetVersion(tt.mode), tt.mode, tt.hash)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTargetVersion(t *testing.T) {
	assert.Equal(t, 3, TargetVersion(synth.ModeBilingual))
	assert.Equal(t, 1, TargetVersion(synth.ModeKoreanOnly))
	assert.Equal(t, 1, TargetVersion(synth.ModeEnglishOnly))
}
