package agi

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"dollardash/models"

	"google.golang.org/genai"
)

// Analysis is the product metadata guessed from a photo. Category is empty
// when the model picked something outside the fixed list.
type Analysis struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    models.Category `json:"category"`
}

type Vision struct {
	gen generator
}

func NewVision(gen *Gemini) *Vision {
	if gen == nil {
		return &Vision{}
	}
	return &Vision{gen: gen}
}

func categoryNames() []string {
	out := make([]string, len(models.Categories))
	for i, c := range models.Categories {
		out[i] = string(c)
	}
	return out
}

var analysisSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"name":        {Type: genai.TypeString, Description: "Short catchy product name."},
		"description": {Type: genai.TypeString, Description: "One sentence sales description."},
		"category":    {Type: genai.TypeString, Enum: categoryNames()},
	},
	Required: []string{"name", "description", "category"},
}

const visionPrompt = "Identify the product in this photo for a budget store listing. " +
	"Return a short name, a one sentence description and the best matching category."

// Analyze describes the product shown in image.
func (v *Vision) Analyze(ctx context.Context, image []byte, mimeType string) (*Analysis, error) {
	if v.gen == nil {
		return nil, ErrUnavailable
	}

	parts := []*genai.Part{
		genai.NewPartFromBytes(image, mimeType),
		genai.NewPartFromText(visionPrompt),
	}
	raw, err := v.gen.GenerateJSON(ctx, parts, analysisSchema)
	if err != nil {
		log.Printf("[Vision] generate: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var a Analysis
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		log.Printf("[Vision] bad reply %q: %v", raw, err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	a.Name = strings.TrimSpace(a.Name)
	a.Description = strings.TrimSpace(a.Description)
	if !a.Category.Valid() {
		a.Category = ""
	}
	return &a, nil
}
