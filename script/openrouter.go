package script

import (
	"context"
	"errors"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/asthiranalyticsyt/Asthir-story/config"
)

// OpenRouterLLM implements LLM over the OpenRouter chat-completions API
// using the openai-go SDK with a custom base URL.
type OpenRouterLLM struct {
	model  string
	apiKey string
	opts   []option.RequestOption
}

// NewOpenRouterLLM builds the backend from config; apiKey comes from the env.
// A missing key is not checked here so the status server still comes up; the
// first Complete call reports it as a script-stage failure instead.
func NewOpenRouterLLM(cfg *config.Config, apiKey string) *OpenRouterLLM {
	return &OpenRouterLLM{
		model:  cfg.Script.Model,
		apiKey: apiKey,
		opts: []option.RequestOption{
			option.WithAPIKey(apiKey),
			option.WithBaseURL(cfg.Script.BaseURL),
		},
	}
}

// Complete runs one chat completion. A response with no choices or an empty
// message content is an error, never an empty-story fallback.
func (o *OpenRouterLLM) Complete(ctx context.Context, system, user string, temperature float64) (string, error) {
	if o.apiKey == "" {
		return "", errors.New("OPENROUTER_API_KEY not set")
	}
	client := openai.NewClient(o.opts...)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(temperature),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("completion response contained no choices")
	}
	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", errors.New("completion choice had no message content")
	}
	return content, nil
}
