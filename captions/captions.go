package captions

import (
	"fmt"
	"math"
	"strings"
)

// Cue is one timed caption line
type Cue struct {
	Index int
	Start float64
	End   float64
	Text  string
}

// Options control line breaking and timing
type Options struct {
	CharBudget     int
	WordsPerSecond float64
	MinLineSeconds float64
}

// Build converts narration text plus the probed audio duration into timed
// cues. Words accumulate greedily into a line; a word that would push a
// non-empty line past the character budget closes the line and starts the
// next one. A single word longer than the budget still forms its own line,
// so multi-word lines never exceed the budget but single-word lines may.
//
// Line duration is max(wordCount/wordsPerSecond, minLineSeconds). Each cue
// starts where the previous one ended and its end is clamped to totalDuration,
// which keeps the final cue inside the audio even when accumulated line
// durations overshoot it. Pure and deterministic.
func Build(text string, totalDuration float64, opts Options) []Cue {
	if opts.MinLineSeconds == 0 {
		opts.MinLineSeconds = 1.5
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	var current []string
	for _, word := range words {
		if len(current) > 0 {
			joined := strings.Join(current, " ") + " " + word
			if len(joined) > opts.CharBudget {
				lines = append(lines, strings.Join(current, " "))
				current = current[:0]
			}
		}
		current = append(current, word)
	}
	lines = append(lines, strings.Join(current, " "))

	cues := make([]Cue, 0, len(lines))
	start := 0.0
	for i, line := range lines {
		wordCount := len(strings.Fields(line))
		dur := math.Max(float64(wordCount)/opts.WordsPerSecond, opts.MinLineSeconds)
		end := math.Min(start+dur, totalDuration)
		cues = append(cues, Cue{
			Index: i + 1,
			Start: start,
			End:   end,
			Text:  line,
		})
		start = end
	}
	return cues
}

// FormatTimestamp renders seconds as the SRT HH:MM:SS,mmm form.
// Milliseconds are truncated, not rounded.
func FormatTimestamp(seconds float64) string {
	total := math.Abs(seconds)
	hours := int(total / 3600)
	minutes := int(math.Mod(total, 3600) / 60)
	secs := math.Mod(total, 60)
	millis := int(math.Mod(secs, 1) * 1000)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, int(secs), millis)
}

// SRT serializes cues into SubRip form: index line, timestamp line, text,
// then the required blank separator after every record.
func SRT(cues []Cue) string {
	var sb strings.Builder
	for _, c := range cues {
		sb.WriteString(fmt.Sprintf("%d\n%s --> %s\n%s\n\n",
			c.Index,
			FormatTimestamp(c.Start),
			FormatTimestamp(c.End),
			c.Text,
		))
	}
	return sb.String()
}
