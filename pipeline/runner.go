package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/asthiranalyticsyt/Asthir-story/config"
	"github.com/asthiranalyticsyt/Asthir-story/publish"
	"github.com/asthiranalyticsyt/Asthir-story/status"
	"github.com/asthiranalyticsyt/Asthir-story/types"
)

// Stage labels shown on the status page
const (
	StageIdle             = "Idle"
	StageGeneratingScript = "Generating script..."
	StageGeneratingSpeech = "Generating speech..."
	StageComposing        = "Composing video..."
	StagePublishing       = "Publishing..."
	StageComplete         = "Complete"
)

// ScriptGenerator writes the narrative for one run
type ScriptGenerator interface {
	Run(ctx context.Context, seed string) (types.Story, error)
}

// SpeechSynthesizer renders narration text to an audio file
type SpeechSynthesizer interface {
	Run(ctx context.Context, text, outFile string) (types.AudioArtifact, error)
}

// Composer merges audio, captions and background into the output video
type Composer interface {
	Run(ctx context.Context, storyText, audioPath, outputPath string) (types.VideoArtifact, error)
}

// Publisher fans the video out to all accounts
type Publisher interface {
	PublishAll(ctx context.Context, videoPath string) ([]types.PublishResult, error)
}

// Seeder optionally supplies prompt inspiration; nil disables the stage
type Seeder interface {
	Run(ctx context.Context) (string, error)
}

// Runner sequences one pipeline pass: script, speech, compose, publish.
// The first hard failure stops the run; no later stage executes.
type Runner struct {
	RunID string

	cfg       *config.Config
	tracker   *status.Tracker
	log       *logrus.Entry
	script    ScriptGenerator
	speech    SpeechSynthesizer
	composer  Composer
	publisher Publisher
	seeder    Seeder
}

// New wires a Runner from its collaborators. seeder may be nil.
func New(runID string, cfg *config.Config, tracker *status.Tracker, log *logrus.Logger,
	script ScriptGenerator, speech SpeechSynthesizer, composer Composer, publisher Publisher, seeder Seeder) *Runner {
	return &Runner{
		RunID:     runID,
		cfg:       cfg,
		tracker:   tracker,
		log:       log.WithField("stage", "pipeline"),
		script:    script,
		speech:    speech,
		composer:  composer,
		publisher: publisher,
		seeder:    seeder,
	}
}

// Run executes the whole pipeline once. The returned error is the failure
// that stopped the run, already recorded in the shared status.
func (r *Runner) Run(ctx context.Context) error {
	startedAt := time.Now()
	r.log.Infof("Starting run %s", r.RunID)

	r.cleanup()

	seed := ""
	if r.seeder != nil {
		s, err := r.seeder.Run(ctx)
		if err != nil {
			r.log.Warnf("Prompt seed unavailable: %v", err)
		} else {
			seed = s
		}
	}

	r.tracker.SetStage(StageGeneratingScript)
	story, err := r.script.Run(ctx, seed)
	if err != nil {
		return r.fail(StageGeneratingScript, err)
	}

	r.tracker.SetStage(StageGeneratingSpeech)
	audio, err := r.speech.Run(ctx, story.Text, r.cfg.Paths.AudioFile)
	if err != nil {
		return r.fail(StageGeneratingSpeech, err)
	}

	r.tracker.SetStage(StageComposing)
	video, err := r.composer.Run(ctx, story.Text, audio.Path, r.cfg.Paths.VideoFile)
	if err != nil {
		return r.fail(StageComposing, err)
	}
	r.tracker.SetVideo(video)

	r.tracker.SetStage(StagePublishing)
	results, err := r.publisher.PublishAll(ctx, video.Path)
	if err != nil {
		return r.fail(StagePublishing, err)
	}

	r.tracker.SetStage(StageComplete)
	r.log.Info("All operations complete!")

	runLog := types.RunLog{
		RunID:      r.RunID,
		StartedAt:  startedAt.UTC().Format(time.RFC3339),
		FinishedAt: time.Now().UTC().Format(time.RFC3339),
		VideoFile:  video.Path,
		Title:      r.cfg.Publish.Title,
		Results:    results,
	}
	if err := publish.WriteRunLog(r.cfg.Paths.Logs, runLog); err != nil {
		r.log.Warnf("Could not save run log: %v", err)
	}
	return nil
}

// cleanup removes artifacts left by a previous run. Absence is not an error.
func (r *Runner) cleanup() {
	r.log.Info("Cleaning old files...")
	for _, f := range []string{r.cfg.Paths.AudioFile, r.cfg.Paths.VideoFile} {
		if err := os.Remove(f); err == nil {
			r.log.Infof("Removed %s", f)
		}
	}
}

// fail records the absorbing failure state and halts the run
func (r *Runner) fail(stage string, err error) error {
	r.log.Errorf("Pipeline failed at %q: %v", stage, err)
	r.tracker.SetStage(fmt.Sprintf("Failed (%s): %v", stage, err))
	return err
}
