package entity

import (
	"bytes"
	"encoding/json"
	"strings"
)

type StructureRequest struct {
	Text string `json:"text"`
}

type StructuredRecipe struct {
	Ingredients []Ingredient `json:"ingredients"`
	Steps       []string     `json:"steps"`
}

type StructureResult struct {
	Recipe StructuredRecipe `json:"structured_recipe"`
	Parsed bool             `json:"parsed"`
	Raw    string           `json:"raw"`
}

type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
}

// UnmarshalJSON accepts either a bare string ("2 eggs") or an object whose
// quantity may be a number or a string.
func (i *Ingredient) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*i = Ingredient{Name: name}
		return nil
	}

	var raw struct {
		Name       string          `json:"name"`
		Ingredient string          `json:"ingredient"`
		Quantity   json.RawMessage `json:"quantity"`
		Unit       string          `json:"unit"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	name := raw.Name
	if name == "" {
		name = raw.Ingredient
	}
	*i = Ingredient{Name: name, Quantity: rawScalar(raw.Quantity), Unit: raw.Unit}
	return nil
}

func rawScalar(msg json.RawMessage) string {
	if len(msg) == 0 || string(msg) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(msg, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(msg))
}
