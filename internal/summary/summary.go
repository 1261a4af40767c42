// Package summary turns a weather reading into a short natural-language
// blurb via the OpenAI chat API. The feature is optional: without an OpenAI
// key the Summarizer reports itself disabled.
package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/weathercap/weathercap/internal/weather"
)

// ErrDisabled is returned when no OpenAI key was configured.
var ErrDisabled = errors.New("summary generation is disabled: no OpenAI API key configured")

// chatCompleter is the slice of the OpenAI client we use; tests fake it.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Summarizer produces plain-English weather summaries.
type Summarizer struct {
	client chatCompleter
	model  string
}

// New returns a Summarizer, disabled when apiKey is empty.
func New(apiKey string) *Summarizer {
	s := &Summarizer{model: openai.GPT3Dot5Turbo}
	if strings.TrimSpace(apiKey) != "" {
		s.client = openai.NewClient(apiKey)
	}
	return s
}

// Enabled reports whether summaries can be generated.
func (s *Summarizer) Enabled() bool {
	return s.client != nil
}

// Summarize produces a one-paragraph summary for the conditions at loc.
func (s *Summarizer) Summarize(ctx context.Context, loc weather.Location, reading weather.Reading) (string, error) {
	if s.client == nil {
		return "", ErrDisabled
	}

	prompt := fmt.Sprintf(
		"Write one short, friendly paragraph describing the current weather in %s: %.1f°F, %s, %d%% humidity. "+
			"Mention what it feels like and whether any precautions are sensible. No preamble.",
		loc.Query(), reading.TemperatureF, reading.Description, reading.Humidity,
	)

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens: 150,
	})
	if err != nil {
		return "", fmt.Errorf("generate summary: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("generate summary: empty completion")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
