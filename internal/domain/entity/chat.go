package entity

import "time"

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Sampling carries every generation parameter; providers never apply their own defaults.
// Zero penalties are omitted from the upstream request.
type Sampling struct {
	MaxTokens        int     `json:"max_tokens"`
	Temperature      float64 `json:"temperature"`
	TopP             float64 `json:"top_p"`
	FrequencyPenalty float64 `json:"frequency_penalty,omitempty"`
	PresencePenalty  float64 `json:"presence_penalty,omitempty"`
}

type ChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Sampling Sampling  `json:"sampling"`
	JSONMode bool      `json:"json_mode"`
}

type ChatCompletion struct {
	Content    string        `json:"content"`
	Model      string        `json:"model"` // Which model actually answered?
	TokenCount int           `json:"token_count"`
	Latency    time.Duration `json:"latency"`
}
