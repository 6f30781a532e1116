package adaptivequiz

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// TextGenerator is the abstract text-generation capability the pipeline
// depends on. Any large-language-model completion API satisfies it; tests
// use deterministic stubs. Implementations must be safe for concurrent use.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// OpenAIGenerator implements TextGenerator with the OpenAI chat completion
// API. API key and model are constructor parameters, never process globals.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

// NewOpenAIGenerator creates a generator backed by the given API key and
// model. An empty model defaults to GPT-4o.
func NewOpenAIGenerator(apiKey, model string) *OpenAIGenerator {
	if model == "" {
		model = openai.GPT4o
	}
	return &OpenAIGenerator{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// GenerateText sends the prompt as a single chat completion and returns the
// model's text.
func (g *OpenAIGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: g.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: "You are an expert educational content assistant. Always respond with valid JSON when asked for JSON.",
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
		},
	)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in completion response")
	}
	return resp.Choices[0].Message.Content, nil
}
