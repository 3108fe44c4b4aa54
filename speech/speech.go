package speech

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/sirupsen/logrus"

	"github.com/asthiranalyticsyt/Asthir-story/config"
	"github.com/asthiranalyticsyt/Asthir-story/errs"
	"github.com/asthiranalyticsyt/Asthir-story/types"
)

// Synthesizer renders narration text to an audio file via the edge-tts CLI
type Synthesizer struct {
	cfg *config.Config
	log *logrus.Entry
}

// New creates a Synthesizer
func New(cfg *config.Config, log *logrus.Logger) *Synthesizer {
	return &Synthesizer{
		cfg: cfg,
		log: log.WithField("stage", "speech"),
	}
}

// Run synthesizes text into outFile. Success means the file exists and is
// non-zero; the reported duration stays zero until the composer probes it.
func (s *Synthesizer) Run(ctx context.Context, text, outFile string) (types.AudioArtifact, error) {
	s.log.Info("Generating voice audio...")

	if text == "" {
		return types.AudioArtifact{}, errs.Generation("speech.Run", nil, "no narration text to synthesize")
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Speech.Timeout.Std())
	defer cancel()

	cmd := exec.CommandContext(ctx, "edge-tts", buildArgs(s.cfg.Speech, text, outFile)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return types.AudioArtifact{}, errs.Generation("speech.Run", err,
			fmt.Sprintf("edge-tts failed: %s", string(out)))
	}

	fi, err := os.Stat(outFile)
	if err != nil || fi.Size() == 0 {
		return types.AudioArtifact{}, errs.Generation("speech.Run", err, "audio file not created or empty")
	}

	s.log.Infof("Voice generated: %.2f KB", float64(fi.Size())/1024)
	return types.AudioArtifact{Path: outFile, SizeBytes: fi.Size()}, nil
}

// buildArgs assembles the edge-tts argument vector
func buildArgs(cfg config.SpeechConfig, text, outFile string) []string {
	args := []string{"--voice", cfg.Voice}
	if cfg.Rate != "" {
		args = append(args, "--rate", cfg.Rate)
	}
	if cfg.Pitch != "" {
		args = append(args, "--pitch", cfg.Pitch)
	}
	return append(args, "--text", text, "--write-media", outFile)
}
