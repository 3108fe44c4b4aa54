package types

import "strings"

// Story is the narrative text produced by the script stage.
// Immutable once produced; the speech stage and the caption timer both read it.
type Story struct {
	Text   string `json:"text"`
	SeedID string `json:"seed_id,omitempty"`
}

// Words returns the whitespace-separated word count of the story
func (s Story) Words() int {
	return len(strings.Fields(s.Text))
}

// Chars returns the character count of the story
func (s Story) Chars() int {
	return len(s.Text)
}

// AudioArtifact is the synthesized narration file.
// Duration comes from probing the file, never from the generator.
type AudioArtifact struct {
	Path        string  `json:"path"`
	SizeBytes   int64   `json:"size_bytes"`
	DurationSec float64 `json:"duration_sec"`
}

// VideoArtifact is the composed output file, trimmed to the audio duration
type VideoArtifact struct {
	Path        string  `json:"path"`
	SizeBytes   int64   `json:"size_bytes"`
	DurationSec float64 `json:"duration_sec"`
}

// SizeMB reports the artifact size in megabytes for display
func (v VideoArtifact) SizeMB() float64 {
	return float64(v.SizeBytes) / 1024 / 1024
}

// Outcome of one publish attempt
type Outcome string

const (
	OutcomePending Outcome = "pending"
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
)

// PublishResult records one upload attempt against one account record.
// Results are appended in discovery order and never mutated afterwards.
type PublishResult struct {
	Account  string  `json:"account"`
	Outcome  Outcome `json:"outcome"`
	VideoURL string  `json:"video_url,omitempty"`
	Error    string  `json:"error,omitempty"`
}

// RunLog is the per-run publish summary persisted to the logs directory
type RunLog struct {
	RunID      string          `json:"run_id"`
	StartedAt  string          `json:"started_at"`
	FinishedAt string          `json:"finished_at"`
	VideoFile  string          `json:"video_file"`
	Title      string          `json:"title"`
	Results    []PublishResult `json:"results"`
}
