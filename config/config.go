package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Script   ScriptConfig   `yaml:"script"`
	Research ResearchConfig `yaml:"research"`
	Speech   SpeechConfig   `yaml:"speech"`
	Captions CaptionsConfig `yaml:"captions"`
	Compose  ComposeConfig  `yaml:"compose"`
	Publish  PublishConfig  `yaml:"publish"`
	Server   ServerConfig   `yaml:"server"`
	Paths    PathsConfig    `yaml:"paths"`
}

// Duration wraps time.Duration so YAML values like "30s" parse directly
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

type ScriptConfig struct {
	BaseURL     string   `yaml:"base_url"`
	Model       string   `yaml:"model"`
	Temperature float64  `yaml:"temperature"`
	Timeout     Duration `yaml:"timeout"`
}

type ResearchConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Subreddit string `yaml:"subreddit"`
	MaxPosts  int    `yaml:"max_posts"`
}

type SpeechConfig struct {
	Voice   string   `yaml:"voice"`
	Rate    string   `yaml:"rate"`
	Pitch   string   `yaml:"pitch"`
	Timeout Duration `yaml:"timeout"`
}

type CaptionsConfig struct {
	CharsPerLine   int     `yaml:"chars_per_line"`
	WordsPerSecond float64 `yaml:"words_per_second"`
	MinLineSeconds float64 `yaml:"min_line_seconds"`
	FontName       string  `yaml:"font_name"`
	FontSize       int     `yaml:"font_size"`
	Outline        int     `yaml:"outline"`
	Shadow         int     `yaml:"shadow"`
	MarginV        int     `yaml:"margin_v"`
}

type ComposeConfig struct {
	BackgroundFile string   `yaml:"background_file"`
	Preset         string   `yaml:"preset"`
	CRF            int      `yaml:"crf"`
	AudioBitrate   string   `yaml:"audio_bitrate"`
	SampleRate     int      `yaml:"sample_rate"`
	Timeout        Duration `yaml:"timeout"`
}

type PublishConfig struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
	CategoryID  string   `yaml:"category_id"`
	Visibility  string   `yaml:"visibility"`
	MadeForKids bool     `yaml:"made_for_kids"`
	TokensDir   string   `yaml:"tokens_dir"`
	Timeout     Duration `yaml:"timeout"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type PathsConfig struct {
	AudioFile string `yaml:"audio_file"`
	VideoFile string `yaml:"video_file"`
	Logs      string `yaml:"logs"`
}

// Load reads config.yaml and returns a Config struct with defaults applied
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Script.BaseURL == "" {
		c.Script.BaseURL = "https://openrouter.ai/api/v1"
	}
	if c.Script.Temperature == 0 {
		c.Script.Temperature = 0.75
	}
	if c.Script.Timeout == 0 {
		c.Script.Timeout = Duration(30 * time.Second)
	}
	if c.Speech.Voice == "" {
		c.Speech.Voice = "en-GB-RyanNeural"
	}
	if c.Speech.Timeout == 0 {
		c.Speech.Timeout = Duration(2 * time.Minute)
	}
	if c.Captions.CharsPerLine == 0 {
		c.Captions.CharsPerLine = 36
	}
	if c.Captions.WordsPerSecond == 0 {
		c.Captions.WordsPerSecond = 2.8
	}
	if c.Captions.MinLineSeconds == 0 {
		c.Captions.MinLineSeconds = 1.5
	}
	if c.Captions.FontName == "" {
		c.Captions.FontName = "Arial Bold"
	}
	if c.Captions.FontSize == 0 {
		c.Captions.FontSize = 10
	}
	if c.Captions.Outline == 0 {
		c.Captions.Outline = 3
	}
	if c.Captions.Shadow == 0 {
		c.Captions.Shadow = 2
	}
	if c.Captions.MarginV == 0 {
		c.Captions.MarginV = 125
	}
	if c.Compose.BackgroundFile == "" {
		c.Compose.BackgroundFile = "background.mp4"
	}
	if c.Compose.Preset == "" {
		c.Compose.Preset = "fast"
	}
	if c.Compose.CRF == 0 {
		c.Compose.CRF = 23
	}
	if c.Compose.AudioBitrate == "" {
		c.Compose.AudioBitrate = "192k"
	}
	if c.Compose.SampleRate == 0 {
		c.Compose.SampleRate = 44100
	}
	if c.Compose.Timeout == 0 {
		c.Compose.Timeout = Duration(10 * time.Minute)
	}
	if c.Publish.CategoryID == "" {
		c.Publish.CategoryID = "22"
	}
	if c.Publish.Visibility == "" {
		c.Publish.Visibility = "public"
	}
	if c.Publish.TokensDir == "" {
		c.Publish.TokensDir = "tokens"
	}
	if c.Publish.Timeout == 0 {
		c.Publish.Timeout = Duration(15 * time.Minute)
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Paths.AudioFile == "" {
		c.Paths.AudioFile = "voice.mp3"
	}
	if c.Paths.VideoFile == "" {
		c.Paths.VideoFile = "final_video.mp4"
	}
	if c.Paths.Logs == "" {
		c.Paths.Logs = "logs"
	}
	if c.Research.MaxPosts == 0 {
		c.Research.MaxPosts = 5
	}
}

// Validate rejects configurations the pipeline cannot run with
func (c *Config) Validate() error {
	if c.Script.Model == "" {
		return fmt.Errorf("config: script.model is required")
	}
	if c.Publish.Title == "" {
		return fmt.Errorf("config: publish.title is required")
	}
	if c.Captions.CharsPerLine < 1 {
		return fmt.Errorf("config: captions.chars_per_line must be positive")
	}
	if c.Captions.WordsPerSecond <= 0 {
		return fmt.Errorf("config: captions.words_per_second must be positive")
	}
	return nil
}
