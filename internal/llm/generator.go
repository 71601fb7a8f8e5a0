package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/Hammadullah2/StyleSync/internal/catalog"
)

// Result is a generated styling response plus the token usage the metrics
// layer needs for cost accounting.
type Result struct {
	Text         string
	InputTokens  int
	OutputTokens int
}

// Generator produces styling advice from a validated query and the retrieved
// catalog items. Implementations must respect context cancellation.
type Generator interface {
	Generate(ctx context.Context, query string, products []catalog.Product) (*Result, error)
}

// StaticGenerator is an offline Generator for local development and tests.
// It templates a response around the top retrieved product and approximates
// token usage by whitespace word count.
type StaticGenerator struct{}

func NewStaticGenerator() *StaticGenerator {
	return &StaticGenerator{}
}

func (g *StaticGenerator) Generate(ctx context.Context, query string, products []catalog.Product) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var text string
	if len(products) > 0 {
		text = fmt.Sprintf("Based on your request, the %s would be a great pick. Pair it with neutral basics for a balanced outfit.", products[0].DisplayName)
	} else {
		text = "I could not find a matching item in the catalog, but a classic, well-fitted outfit in neutral colours works for almost any occasion."
	}

	return &Result{
		Text:         text,
		InputTokens:  len(strings.Fields(query)),
		OutputTokens: len(strings.Fields(text)),
	}, nil
}
