package agi

import (
	"context"
	"errors"
	"strings"
	"testing"

	"dollardash/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeGen struct {
	reply  string
	err    error
	parts  []*genai.Part
	schema *genai.Schema
}

func (f *fakeGen) GenerateJSON(_ context.Context, parts []*genai.Part, schema *genai.Schema) (string, error) {
	f.parts, f.schema = parts, schema
	return f.reply, f.err
}

func TestSuggestBundleResolvesKnownIDs(t *testing.T) {
	gen := &fakeGen{reply: `{"recommendedIds":["3","99","1"],"explanation":"Movie night!"}`}
	c := &Concierge{gen: gen}

	s, err := c.SuggestBundle(context.Background(), "movie night", models.SeedProducts(), 6, 540)
	require.NoError(t, err)
	require.Len(t, s.Products, 2)
	assert.Equal(t, "3", s.Products[0].ID)
	assert.Equal(t, "1", s.Products[1].ID)
	assert.Equal(t, "Movie night!", s.Explanation)

	prompt := gen.parts[0].Text
	assert.True(t, strings.Contains(prompt, `"movie night"`))
	assert.True(t, strings.Contains(prompt, "exactly 6 products"))
	assert.Same(t, suggestionSchema, gen.schema)
}

func TestSuggestBundleFailuresAreNil(t *testing.T) {
	cases := map[string]*fakeGen{
		"transport": {err: errors.New("quota")},
		"garbage":   {reply: "not json"},
		"unknown":   {reply: `{"recommendedIds":["x"],"explanation":""}`},
	}
	for name, gen := range cases {
		t.Run(name, func(t *testing.T) {
			s, err := (&Concierge{gen: gen}).SuggestBundle(context.Background(), "snacks", models.SeedProducts(), 6, 540)
			assert.Nil(t, s)
			assert.ErrorIs(t, err, ErrUnavailable)
		})
	}

	s, err := NewConcierge(nil).SuggestBundle(context.Background(), "snacks", nil, 6, 540)
	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestAnalyze(t *testing.T) {
	gen := &fakeGen{reply: `{"name":" Steel Bottle ","description":"Keeps water cold.","category":"Houseware"}`}
	a, err := (&Vision{gen: gen}).Analyze(context.Background(), []byte{0xff, 0xd8}, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "Steel Bottle", a.Name)
	assert.Equal(t, models.CategoryHouseware, a.Category)
	require.Len(t, gen.parts, 2)
	require.NotNil(t, gen.parts[0].InlineData)
	assert.Equal(t, "image/jpeg", gen.parts[0].InlineData.MIMEType)
}

func TestAnalyzeDropsUnknownCategory(t *testing.T) {
	gen := &fakeGen{reply: `{"name":"Kite","description":"Flies.","category":"Toys"}`}
	a, err := (&Vision{gen: gen}).Analyze(context.Background(), []byte{1}, "image/png")
	require.NoError(t, err)
	assert.Empty(t, a.Category)
}
