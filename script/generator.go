package script

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/asthiranalyticsyt/Asthir-story/config"
	"github.com/asthiranalyticsyt/Asthir-story/errs"
	"github.com/asthiranalyticsyt/Asthir-story/types"
)

// LLM is the chat-completion backend used to write the story
type LLM interface {
	Complete(ctx context.Context, system, user string, temperature float64) (string, error)
}

// Generator produces the narrative script for one run
type Generator struct {
	cfg *config.Config
	llm LLM
	log *logrus.Entry
}

// New creates a Generator backed by the given LLM
func New(cfg *config.Config, llm LLM, log *logrus.Logger) *Generator {
	return &Generator{
		cfg: cfg,
		llm: llm,
		log: log.WithField("stage", "script"),
	}
}

// Run asks the backend for the story. seed, when non-empty, is folded into
// the prompt as extra inspiration. An empty story is a hard failure.
func (g *Generator) Run(ctx context.Context, seed string) (types.Story, error) {
	g.log.Info("Generating story...")

	ctx, cancel := context.WithTimeout(ctx, g.cfg.Script.Timeout.Std())
	defer cancel()

	prompt := userPrompt
	if seed != "" {
		prompt = fmt.Sprintf("%s\n\nDraw loose inspiration from this post, without copying it:\n%s", userPrompt, seed)
	}

	content, err := g.llm.Complete(ctx, systemPersona, prompt, g.cfg.Script.Temperature)
	if err != nil {
		return types.Story{}, errs.Generation("script.Run", err, "story generation failed")
	}

	story := types.Story{Text: strings.TrimSpace(content)}
	if story.Text == "" {
		return types.Story{}, errs.Generation("script.Run", nil, "backend returned an empty story")
	}

	g.log.Infof("Story generated: %d characters, %d words", story.Chars(), story.Words())
	return story, nil
}
