package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/blaisecz/puppy-tracker/internal/domain"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

var (
	// ErrOpenAIUnavailable indicates the OpenAI service is not configured.
	ErrOpenAIUnavailable = errors.New("OpenAI service unavailable")
	// ErrOpenAIRequest indicates an error during the OpenAI API request.
	ErrOpenAIRequest = errors.New("OpenAI request failed")
	// ErrOpenAIResponse indicates an error parsing the OpenAI response.
	ErrOpenAIResponse = errors.New("failed to parse OpenAI response")
)

const defaultModel = "gpt-4o-mini"

const systemPrompt = `You are a friendly puppy house-training and routine assistant.

You receive aggregated numbers about one puppy's recent potty, sleep and walk history. Base every statement only on the provided data.

Goals:
- Summarize how house-training and routine are going.
- Point out which triggers (waking, meals, walks, drinking, play) most often lead to indoor accidents.
- Suggest practical routine changes: timing of potty breaks, walk spacing, nap length.

Rules:
- Do NOT give veterinary or medical advice.
- If the data is thin, say so.
- Be concise and concrete.

Respond as strict JSON with exactly this shape:

{
  "summary": "2-3 sentences.",
  "observations": ["3-5 short items"],
  "suggestions": ["2-4 short, actionable items"]
}

No extra fields. No backticks.`

const userPromptTemplate = `Here is JSON describing the puppy's recent care data.

- "median_gap_minutes" is the typical time between potty events during the day.
- "outdoor_rate_percent" is the share of potty events that happened outside.
- "trigger_success" gives, per trigger, the percentage of follow-up potties that happened outside.

JSON:

%s

Respond in the required JSON format.`

// DigestLLM generates a care digest from aggregated numbers.
type DigestLLM interface {
	GenerateDigest(ctx context.Context, digestCtx *domain.DigestContext) (*domain.DigestOutput, error)
}

// OpenAIClient implements DigestLLM with the chat completions API.
type OpenAIClient struct {
	client openai.Client
	model  string
}

// NewOpenAIClient returns nil if apiKey is empty. A nil client answers
// every call with ErrOpenAIUnavailable.
func NewOpenAIClient(apiKey, model string, opts ...option.RequestOption) *OpenAIClient {
	if apiKey == "" {
		return nil
	}
	if model == "" {
		model = defaultModel
	}

	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &OpenAIClient{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

func (c *OpenAIClient) GenerateDigest(ctx context.Context, digestCtx *domain.DigestContext) (*domain.DigestOutput, error) {
	if c == nil {
		return nil, ErrOpenAIUnavailable
	}

	contextJSON, err := json.MarshalIndent(digestCtx, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to serialize context: %v", ErrOpenAIRequest, err)
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(fmt.Sprintf(userPromptTemplate, contextJSON)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenAIRequest, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices in response", ErrOpenAIResponse)
	}

	var output domain.DigestOutput
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &output); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenAIResponse, err)
	}
	return &output, nil
}
