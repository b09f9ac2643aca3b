package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"miseai/internal/domain/entity"
	"miseai/internal/domain/repository"
	"miseai/internal/metrics"

	"go.uber.org/zap"
)

const structureTokenBudget = 2000

var structureSampling = entity.Sampling{Temperature: 0.2, TopP: 0.9}

// RecipeStructurer turns free recipe text (usually OCR output) into
// ingredients and steps.
type RecipeStructurer struct {
	provider repository.ChatCompleter
	model    string
	logger   *zap.Logger
}

func NewRecipeStructurer(provider repository.ChatCompleter, model string, logger *zap.Logger) *RecipeStructurer {
	return &RecipeStructurer{provider: provider, model: model, logger: logger}
}

func (s *RecipeStructurer) Structure(ctx context.Context, text string) (*entity.StructureResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text is required", entity.ErrInvalidRequest)
	}

	sampling := structureSampling
	sampling.MaxTokens = structureTokenBudget
	resp, err := s.provider.Complete(ctx, entity.ChatRequest{
		Model: s.model,
		Messages: []entity.Message{
			{Role: entity.RoleSystem, Content: structureSystemInstruction},
			{Role: entity.RoleUser, Content: structurePrompt(text)},
		},
		Sampling: sampling,
		JSONMode: true,
	})
	if err != nil {
		metrics.IncError("structurer", "complete")
		return nil, fmt.Errorf("%w: %v", entity.ErrGenerationFailed, err)
	}

	recipe, ok := parseStructuredRecipe(resp.Content)
	// Empty lists, never null, on the wire.
	if recipe.Ingredients == nil {
		recipe.Ingredients = []entity.Ingredient{}
	}
	if recipe.Steps == nil {
		recipe.Steps = []string{}
	}
	result := &entity.StructureResult{Recipe: recipe, Parsed: ok, Raw: resp.Content}
	if !ok {
		s.logger.Warn("structured reply was not valid JSON", zap.Int("chars", len(resp.Content)))
	}
	return result, nil
}

// parseStructuredRecipe tolerates prose or code fences around the JSON object.
func parseStructuredRecipe(content string) (entity.StructuredRecipe, bool) {
	var recipe entity.StructuredRecipe
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return recipe, false
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), &recipe); err != nil {
		return entity.StructuredRecipe{}, false
	}
	return recipe, true
}
