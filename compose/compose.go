package compose

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/asthiranalyticsyt/Asthir-story/captions"
	"github.com/asthiranalyticsyt/Asthir-story/config"
	"github.com/asthiranalyticsyt/Asthir-story/errs"
	"github.com/asthiranalyticsyt/Asthir-story/types"
)

// Composer merges the looped background clip, the narration audio and the
// burned-in captions into the final output file.
type Composer struct {
	cfg *config.Config
	log *logrus.Entry
}

// New creates a Composer
func New(cfg *config.Config, log *logrus.Logger) *Composer {
	return &Composer{
		cfg: cfg,
		log: log.WithField("stage", "compose"),
	}
}

// Run builds outputPath from the narration audio and the configured
// background clip. The probed audio duration is authoritative: the output is
// trimmed to it no matter how much looped footage the background supplies.
func (c *Composer) Run(ctx context.Context, storyText, audioPath, outputPath string) (types.VideoArtifact, error) {
	c.log.Info("Creating video...")

	background := c.cfg.Compose.BackgroundFile
	if _, err := os.Stat(audioPath); err != nil {
		return types.VideoArtifact{}, errs.MissingInput("compose.Run", fmt.Sprintf("audio file %s not found", audioPath))
	}
	if _, err := os.Stat(background); err != nil {
		return types.VideoArtifact{}, errs.MissingInput("compose.Run", fmt.Sprintf("background video %s not found", background))
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Compose.Timeout.Std())
	defer cancel()

	audioDur, err := probeDuration(ctx, audioPath)
	if err != nil {
		return types.VideoArtifact{}, errs.Probe("compose.Run", err, "audio duration probe failed")
	}
	backgroundDur, err := probeDuration(ctx, background)
	if err != nil {
		return types.VideoArtifact{}, errs.Probe("compose.Run", err, "background duration probe failed")
	}

	loops := loopCount(audioDur, backgroundDur)
	c.log.Infof("Audio %.2fs, background %.2fs, looping %d times", audioDur, backgroundDur, loops)

	cues := captions.Build(storyText, audioDur, captions.Options{
		CharBudget:     c.cfg.Captions.CharsPerLine,
		WordsPerSecond: c.cfg.Captions.WordsPerSecond,
		MinLineSeconds: c.cfg.Captions.MinLineSeconds,
	})
	if len(cues) == 0 {
		return types.VideoArtifact{}, errs.MissingInput("compose.Run", "no caption cues produced from narration text")
	}

	srtPath, err := writeTempSRT(captions.SRT(cues))
	if err != nil {
		return types.VideoArtifact{}, errs.Encode("compose.Run", err, "write caption file")
	}
	defer func() {
		// Best effort; a stale temp file is a warning, not a failure.
		if err := os.Remove(srtPath); err != nil {
			c.log.Warnf("Could not remove caption file %s: %v", srtPath, err)
		}
	}()

	job := encodeJob{
		Background:  background,
		Audio:       audioPath,
		Subtitles:   escapeFilterPath(srtPath),
		Style:       c.styleString(),
		Output:      outputPath,
		LoopCount:   loops,
		DurationSec: audioDur,
		Preset:      c.cfg.Compose.Preset,
		CRF:         c.cfg.Compose.CRF,
		Bitrate:     c.cfg.Compose.AudioBitrate,
		SampleRate:  c.cfg.Compose.SampleRate,
	}
	if err := job.validate(); err != nil {
		return types.VideoArtifact{}, errs.Encode("compose.Run", err, "invalid encode job")
	}

	c.log.Info("Running FFmpeg...")
	res, err := runTool(ctx, "ffmpeg", job.args())
	if err != nil {
		return types.VideoArtifact{}, errs.Encode("compose.Run", err,
			fmt.Sprintf("ffmpeg exited %d: %s", res.ExitCode, tail(res.Stderr, 500)))
	}

	fi, err := os.Stat(outputPath)
	if err != nil || fi.Size() == 0 {
		return types.VideoArtifact{}, errs.Encode("compose.Run", err, "video file not created or empty")
	}

	artifact := types.VideoArtifact{
		Path:        outputPath,
		SizeBytes:   fi.Size(),
		DurationSec: audioDur,
	}
	c.log.Infof("Video created: %.2f MB", artifact.SizeMB())
	return artifact, nil
}

// loopCount returns how many extra times the background must loop to cover
// the audio. Always at least one extra pass so rounding can never leave the
// video short of footage.
func loopCount(audioDur, backgroundDur float64) int {
	return int(math.Floor(audioDur/backgroundDur)) + 1
}

// styleString renders the libass force_style value from caption config
func (c *Composer) styleString() string {
	cc := c.cfg.Captions
	return fmt.Sprintf(
		"FontName=%s,FontSize=%d,Bold=1,PrimaryColour=&HFFFFFF&,OutlineColour=&H000000&,BorderStyle=1,Outline=%d,Shadow=%d,Alignment=5,MarginV=%d",
		cc.FontName, cc.FontSize, cc.Outline, cc.Shadow, cc.MarginV,
	)
}

// writeTempSRT persists the cue sequence to a scoped temp file
func writeTempSRT(content string) (string, error) {
	f, err := os.CreateTemp("", "captions-*.srt")
	if err != nil {
		return "", err
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
