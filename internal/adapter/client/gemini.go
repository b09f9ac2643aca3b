package client

import (
	"context"
	"errors"
	"fmt"

	"miseai/internal/domain/entity"

	"google.golang.org/genai"
)

type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGenAIClient uses the Gemini API when apiKey is set and Vertex AI otherwise.
func NewGenAIClient(ctx context.Context, apiKey, projectID, location string) (*genai.Client, error) {
	cfg := &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	}
	if apiKey != "" {
		cfg = &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI}
	}
	return genai.NewClient(ctx, cfg)
}

func NewGeminiClientFromClient(c *genai.Client, model string) *GeminiClient {
	return &GeminiClient{
		client: c,
		model:  model,
	}
}

func (g *GeminiClient) Complete(ctx context.Context, req entity.ChatRequest) (*entity.ChatCompletion, error) {
	model := req.Model
	if model == "" {
		model = g.model
	}

	contents, config := toGenAIRequest(req)
	result, err := g.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}
	if len(result.Candidates) == 0 {
		return nil, errors.New("gemini returned no candidates")
	}

	resp := &entity.ChatCompletion{
		Content: result.Text(),
		Model:   model,
	}
	if result.ModelVersion != "" {
		resp.Model = result.ModelVersion
	}
	if result.UsageMetadata != nil {
		resp.TokenCount = int(result.UsageMetadata.TotalTokenCount)
	}
	return resp, nil
}

func toGenAIRequest(req entity.ChatRequest) ([]*genai.Content, *genai.GenerateContentConfig) {
	s := req.Sampling
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(s.Temperature)),
		TopP:            genai.Ptr(float32(s.TopP)),
		MaxOutputTokens: int32(s.MaxTokens),
	}
	if s.FrequencyPenalty != 0 {
		config.FrequencyPenalty = genai.Ptr(float32(s.FrequencyPenalty))
	}
	if s.PresencePenalty != 0 {
		config.PresencePenalty = genai.Ptr(float32(s.PresencePenalty))
	}
	if req.JSONMode {
		config.ResponseMIMEType = "application/json"
	}

	var contents []*genai.Content
	for _, m := range req.Messages {
		switch m.Role {
		case entity.RoleSystem:
			config.SystemInstruction = genai.NewContentFromText(m.Content, genai.RoleUser)
		case entity.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	return contents, config
}
