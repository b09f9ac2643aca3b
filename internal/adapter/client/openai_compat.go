package client

import (
	"context"
	"errors"
	"fmt"

	"miseai/internal/domain/entity"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const DefaultGroqBaseURL = "https://api.groq.com/openai/v1"

// OpenAICompatClient talks to any OpenAI-compatible chat endpoint (Groq by default).
type OpenAICompatClient struct {
	client openai.Client
	model  string
}

func NewOpenAICompatClient(apiKey, baseURL, model string, opts ...option.RequestOption) *OpenAICompatClient {
	if baseURL == "" {
		baseURL = DefaultGroqBaseURL
	}
	options := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		// Upstream failures are terminal for the request; no SDK-level retries.
		option.WithMaxRetries(0),
	}, opts...)

	return &OpenAICompatClient{
		client: openai.NewClient(options...),
		model:  model,
	}
}

func (c *OpenAICompatClient) Complete(ctx context.Context, req entity.ChatRequest) (*entity.ChatCompletion, error) {
	params, err := c.toParams(req)
	if err != nil {
		return nil, err
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, errors.New("no choices in response")
	}

	return &entity.ChatCompletion{
		Content:    completion.Choices[0].Message.Content,
		Model:      completion.Model,
		TokenCount: int(completion.Usage.TotalTokens),
	}, nil
}

func (c *OpenAICompatClient) toParams(req entity.ChatRequest) (openai.ChatCompletionNewParams, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, m := range req.Messages {
		switch m.Role {
		case entity.RoleSystem:
			messages = append(messages, openai.SystemMessage(m.Content))
		case entity.RoleUser:
			messages = append(messages, openai.UserMessage(m.Content))
		case entity.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(m.Content))
		default:
			return openai.ChatCompletionNewParams{}, fmt.Errorf("unsupported role: %s", m.Role)
		}
	}

	model := req.Model
	if model == "" {
		model = c.model
	}

	s := req.Sampling
	params := openai.ChatCompletionNewParams{
		Model:       model,
		Messages:    messages,
		Temperature: openai.Float(s.Temperature),
		TopP:        openai.Float(s.TopP),
	}
	if s.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(s.MaxTokens))
	}
	if s.FrequencyPenalty != 0 {
		params.FrequencyPenalty = openai.Float(s.FrequencyPenalty)
	}
	if s.PresencePenalty != 0 {
		params.PresencePenalty = openai.Float(s.PresencePenalty)
	}
	if req.JSONMode {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}
	return params, nil
}
