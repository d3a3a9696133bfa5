package factcheck

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stake-plus/capapp/src/webclient"
)

const (
	DefaultPerplexityEndpoint = "https://api.perplexity.ai"
	DefaultPerplexityModel    = "sonar"
)

// SystemInstruction constrains the model to the Verdict/Reason/Sources layout ParseGenerated reads.
const SystemInstruction = "Classify the following statement as one of: 'True', 'False', 'Misleading', or 'Other'. " +
	"Always provide a short reasoning and sources. Format:\n" +
	"Verdict: True/False/Misleading/Other\n" +
	"Reason: <text>\n" +
	"Sources: <list>"

// PerplexityClient classifies statements through Perplexity's OpenAI-compatible chat API.
type PerplexityClient struct {
	client *openai.Client
	model  string
}

// NewPerplexityClient builds a client. An empty key yields a client whose Classify
// always fails with ErrMissingPerplexityKey.
func NewPerplexityClient(apiKey, endpoint, model string, timeout time.Duration) *PerplexityClient {
	if model == "" {
		model = DefaultPerplexityModel
	}
	if apiKey == "" {
		return &PerplexityClient{model: model}
	}
	if endpoint == "" {
		endpoint = DefaultPerplexityEndpoint
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = strings.TrimRight(endpoint, "/")
	cfg.HTTPClient = webclient.NewDefault(timeout)
	return &PerplexityClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Classify asks the model for a verdict on statement and parses its answer.
func (c *PerplexityClient) Classify(ctx context.Context, statement string) (*GeneratedVerdict, error) {
	if c.client == nil {
		return nil, ErrMissingPerplexityKey
	}
	if strings.TrimSpace(statement) == "" {
		return nil, ErrEmptyStatement
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: statement},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, &StatusError{Upstream: "perplexity", Code: apiErr.HTTPStatusCode}
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) {
			return nil, &StatusError{Upstream: "perplexity", Code: reqErr.HTTPStatusCode}
		}
		return nil, fmt.Errorf("perplexity: %w", err)
	}

	content := ""
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
	}
	verdict := ParseGenerated(content)
	return &verdict, nil
}
