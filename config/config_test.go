package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
script:
  model: "x-ai/grok-4.1-fast:free"
publish:
  title: "A knight's tale"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Speech.Voice != "en-GB-RyanNeural" {
		t.Errorf("voice = %q, want default en-GB-RyanNeural", cfg.Speech.Voice)
	}
	if cfg.Captions.CharsPerLine != 36 {
		t.Errorf("chars_per_line = %d, want 36", cfg.Captions.CharsPerLine)
	}
	if cfg.Captions.WordsPerSecond != 2.8 {
		t.Errorf("words_per_second = %v, want 2.8", cfg.Captions.WordsPerSecond)
	}
	if cfg.Compose.CRF != 23 || cfg.Compose.Preset != "fast" {
		t.Errorf("compose defaults = crf %d preset %q", cfg.Compose.CRF, cfg.Compose.Preset)
	}
	if cfg.Publish.TokensDir != "tokens" {
		t.Errorf("tokens_dir = %q, want tokens", cfg.Publish.TokensDir)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Script.Timeout.Std() != 30*time.Second {
		t.Errorf("script timeout = %v, want 30s", cfg.Script.Timeout.Std())
	}
}

func TestLoadParsesDurations(t *testing.T) {
	path := writeConfig(t, `
script:
  model: "m"
  timeout: "45s"
compose:
  timeout: "3m"
publish:
  title: "t"
  timeout: "1h"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.Script.Timeout.Std(); got != 45*time.Second {
		t.Errorf("script timeout = %v, want 45s", got)
	}
	if got := cfg.Compose.Timeout.Std(); got != 3*time.Minute {
		t.Errorf("compose timeout = %v, want 3m", got)
	}
	if got := cfg.Publish.Timeout.Std(); got != time.Hour {
		t.Errorf("publish timeout = %v, want 1h", got)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := writeConfig(t, `
script:
  model: "m"
  timeout: "soon"
publish:
  title: "t"
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"missing model", "publish:\n  title: \"t\"\n", true},
		{"missing title", "script:\n  model: \"m\"\n", true},
		{"negative chars per line", "script:\n  model: \"m\"\npublish:\n  title: \"t\"\ncaptions:\n  chars_per_line: -3\n", true},
		{"minimal valid", "script:\n  model: \"m\"\npublish:\n  title: \"t\"\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if (err != nil) != tt.wantErr {
				t.Errorf("Load err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
