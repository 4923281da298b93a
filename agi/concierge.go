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

// Suggestion is a curated bundle. Products holds the recommended catalog
// entries in the order the model gave them; unknown ids are dropped.
type Suggestion struct {
	RecommendedIDs []string         `json:"recommendedIds"`
	Explanation    string           `json:"explanation"`
	Products       []models.Product `json:"products"`
}

// FailureMessage is shown to shoppers when no suggestion could be made.
const FailureMessage = "I couldn't whip up a bundle right now. Please try again or pick items yourself!"

type Concierge struct {
	gen generator
}

// NewConcierge accepts a nil generator; every call then fails with
// ErrUnavailable.
func NewConcierge(gen *Gemini) *Concierge {
	if gen == nil {
		return &Concierge{}
	}
	return &Concierge{gen: gen}
}

var suggestionSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"recommendedIds": {
			Type:        genai.TypeArray,
			Items:       &genai.Schema{Type: genai.TypeString},
			Description: "Product ids chosen for the bundle.",
		},
		"explanation": {
			Type:        genai.TypeString,
			Description: "One or two friendly sentences on why these items fit.",
		},
	},
	Required: []string{"recommendedIds", "explanation"},
}

type catalogEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
}

func conciergePrompt(intent string, products []models.Product, count, price int) (string, error) {
	entries := make([]catalogEntry, len(products))
	for i, p := range products {
		entries[i] = catalogEntry{ID: p.ID, Name: p.Name, Category: string(p.Category), Description: p.Description}
	}
	inventory, err := json.Marshal(entries)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`You are the shopping concierge of DollarDash, a store where everything costs the same.
The shopper wants: %q.
Pick exactly %d products from the inventory below for a Super Saver Bundle priced at %d.
Only use ids that appear in the inventory.

Inventory:
%s`, intent, count, price, inventory), nil
}

// SuggestBundle asks the model to curate count items for intent.
func (c *Concierge) SuggestBundle(ctx context.Context, intent string, products []models.Product, count, price int) (*Suggestion, error) {
	if c.gen == nil {
		return nil, ErrUnavailable
	}
	intent = strings.TrimSpace(intent)
	if intent == "" {
		return nil, fmt.Errorf("%w: empty request", ErrUnavailable)
	}

	prompt, err := conciergePrompt(intent, products, count, price)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	raw, err := c.gen.GenerateJSON(ctx, []*genai.Part{genai.NewPartFromText(prompt)}, suggestionSchema)
	if err != nil {
		log.Printf("[Concierge] generate: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var s Suggestion
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		log.Printf("[Concierge] bad reply %q: %v", raw, err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	s.Products = []models.Product{}
	for _, id := range s.RecommendedIDs {
		if p, ok := byID[id]; ok {
			s.Products = append(s.Products, p)
		}
	}
	if len(s.Products) == 0 {
		log.Printf("[Concierge] reply matched no products: %v", s.RecommendedIDs)
		return nil, fmt.Errorf("%w: no known products suggested", ErrUnavailable)
	}
	return &s, nil
}
