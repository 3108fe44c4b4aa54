package compose

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
)

// execResult captures one tool invocation so failures can be classified
// structurally instead of by scraping log text.
type execResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// runTool executes a media tool and always returns the captured output,
// even when the process fails.
func runTool(ctx context.Context, name string, args []string) (execResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := -1
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	}
	res := execResult{
		ExitCode: exitCode,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}
	return res, err
}

// probeReport mirrors the ffprobe -show_format JSON; duration arrives as a string
type probeReport struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// probeDuration asks ffprobe for the exact duration of a media file in seconds
func probeDuration(ctx context.Context, path string) (float64, error) {
	res, err := runTool(ctx, "ffprobe", []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		path,
	})
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	var report probeReport
	if err := json.Unmarshal([]byte(res.Stdout), &report); err != nil {
		return 0, fmt.Errorf("parse ffprobe output for %s: %w", path, err)
	}
	dur, err := strconv.ParseFloat(strings.TrimSpace(report.Format.Duration), 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q for %s: %w", report.Format.Duration, path, err)
	}
	return dur, nil
}

// encodeJob describes one composition invocation: the looped background, the
// narration track, the burned-in subtitle file and the hard output duration cap.
type encodeJob struct {
	Background  string
	Audio       string
	Subtitles   string // already escaped for the filter expression
	Style       string
	Output      string
	LoopCount   int
	DurationSec float64
	Preset      string
	CRF         int
	Bitrate     string
	SampleRate  int
}

// validate rejects jobs that would produce a broken invocation
func (j encodeJob) validate() error {
	if j.LoopCount < 1 {
		return fmt.Errorf("loop count %d must be at least 1", j.LoopCount)
	}
	if j.DurationSec <= 0 {
		return fmt.Errorf("output duration %f must be positive", j.DurationSec)
	}
	if j.Background == "" || j.Audio == "" || j.Output == "" {
		return fmt.Errorf("background, audio and output paths are all required")
	}
	return nil
}

// args assembles the ffmpeg argument vector. The video stream comes from the
// looped background with subtitles burned in, the audio stream exclusively
// from the narration, and -t caps the output at the exact audio duration.
func (j encodeJob) args() []string {
	filter := fmt.Sprintf("[0:v]subtitles='%s':force_style='%s'[v]", j.Subtitles, j.Style)
	return []string{
		"-y",
		"-stream_loop", strconv.Itoa(j.LoopCount),
		"-i", j.Background,
		"-i", j.Audio,
		"-filter_complex", filter,
		"-map", "[v]",
		"-map", "1:a",
		"-c:v", "libx264",
		"-preset", j.Preset,
		"-crf", strconv.Itoa(j.CRF),
		"-c:a", "aac",
		"-b:a", j.Bitrate,
		"-ar", strconv.Itoa(j.SampleRate),
		"-t", strconv.FormatFloat(j.DurationSec, 'f', -1, 64),
		"-movflags", "+faststart",
		j.Output,
	}
}

// escapeFilterPath makes a file path safe for interpolation into an ffmpeg
// filter expression. Colons separate filter options, so literal colons in the
// path must be escaped; Windows paths additionally swap backslashes first.
func escapeFilterPath(path string) string {
	return escapeFilterPathFor(path, runtime.GOOS)
}

func escapeFilterPathFor(path, goos string) string {
	if goos == "windows" {
		path = strings.ReplaceAll(path, "\\", "/")
	}
	return strings.ReplaceAll(path, ":", "\\:")
}
