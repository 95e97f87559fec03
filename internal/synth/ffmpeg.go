package synth

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	mixSampleRate = 24000
	mixTimeout    = 15 * time.Second
)

// FFmpegMixer concatenates MP3 segments and silence with the ffmpeg binary.
type FFmpegMixer struct {
	binary  string
	tempDir string
}

// NewFFmpegMixer creates a mixer. An empty binary defaults to "ffmpeg" on PATH.
func NewFFmpegMixer(binary, tempDir string) *FFmpegMixer {
	if binary == "" {
		binary = "ffmpeg"
	}
	return &FFmpegMixer{binary: binary, tempDir: tempDir}
}

// Mix implements Mixer. A single audio segment is returned unchanged.
func (m *FFmpegMixer) Mix(ctx context.Context, segments []Segment) ([]byte, error) {
	if len(segments) == 0 {
		return nil, errors.New("no segments to mix")
	}
	if len(segments) == 1 && segments[0].Audio != nil {
		return segments[0].Audio, nil
	}

	dir, err := os.MkdirTemp(m.tempDir, "vocabaudio-mix-*")
	if err != nil {
		return nil, fmt.Errorf("os.MkdirTemp > %w", err)
	}
	defer os.RemoveAll(dir)

	inputs := make([]string, len(segments))
	for i, segment := range segments {
		if segment.Audio == nil {
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("segment-%d.mp3", i))
		if err := os.WriteFile(path, segment.Audio, 0600); err != nil {
			return nil, fmt.Errorf("os.WriteFile(%s) > %w", path, err)
		}
		inputs[i] = path
	}

	ctx, cancel := context.WithTimeout(ctx, mixTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, m.binary, mixArgs(segments, inputs)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("ffmpeg timeout: %w", ctx.Err())
		}
		return nil, fmt.Errorf("ffmpeg failed: %w, stderr: %s", err, stderr.String())
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg produced no output, stderr: %s", stderr.String())
	}
	return stdout.Bytes(), nil
}

// mixArgs builds the ffmpeg command line. inputs[i] is the file holding
// segments[i] audio; silence segments are generated with anullsrc.
func mixArgs(segments []Segment, inputs []string) []string {
	args := []string{"-hide_banner", "-loglevel", "error"}
	for i, segment := range segments {
		if segment.Audio != nil {
			args = append(args, "-i", inputs[i])
			continue
		}
		args = append(args,
			"-f", "lavfi",
			"-t", strconv.FormatFloat(segment.Silence.Seconds(), 'f', 3, 64),
			"-i", fmt.Sprintf("anullsrc=r=%d:cl=mono", mixSampleRate),
		)
	}

	var filter strings.Builder
	for i := range segments {
		fmt.Fprintf(&filter, "[%d:a]aresample=%d,aformat=sample_fmts=s16:channel_layouts=mono[a%d];", i, mixSampleRate, i)
	}
	for i := range segments {
		fmt.Fprintf(&filter, "[a%d]", i)
	}
	fmt.Fprintf(&filter, "concat=n=%d:v=0:a=1[out]", len(segments))

	return append(args,
		"-filter_complex", filter.String(),
		"-map", "[out]",
		"-c:a", "libmp3lame",
		"-q:a", "4",
		"-f", "mp3",
		"pipe:1",
	)
}
