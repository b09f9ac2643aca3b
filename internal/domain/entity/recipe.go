package entity

import "time"

const DefaultRecipeType = "recipe"

type GenerationRequest struct {
	Prompt     string `json:"prompt"`
	RecipeType string `json:"recipe_type"`

	// ClientKey identifies the caller for quota accounting (request IP).
	ClientKey string `json:"-"`
}

type GenerationResult struct {
	ID               string    `json:"id"`
	Recipe           string    `json:"recipe"`
	Timestamp        time.Time `json:"timestamp"`
	ExpectedCount    *int      `json:"expected_count"` // nil when the prompt names no count
	ValidationPassed bool      `json:"validation_passed"`
	Retried          bool      `json:"retried"`
	Model            string    `json:"model,omitempty"`
	TokenCount       int       `json:"token_count"`
}
