package llm

import (
	"context"
	"strings"
	"testing"

	"github.com/Hammadullah2/StyleSync/internal/catalog"
)

func TestStaticGenerator(t *testing.T) {
	g := NewStaticGenerator()

	products := []catalog.Product{{DisplayName: "Blue Denim Jacket"}}
	result, err := g.Generate(context.Background(), "what should I wear", products)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(result.Text, "Blue Denim Jacket") {
		t.Errorf("response does not mention the top product: %q", result.Text)
	}
	if result.InputTokens == 0 || result.OutputTokens == 0 {
		t.Errorf("token counts not set: %+v", result)
	}
}

func TestStaticGenerator_NoProducts(t *testing.T) {
	g := NewStaticGenerator()

	result, err := g.Generate(context.Background(), "what should I wear", nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.Text == "" {
		t.Error("empty fallback response")
	}
}

func TestStaticGenerator_CancelledContext(t *testing.T) {
	g := NewStaticGenerator()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := g.Generate(ctx, "q", nil); err == nil {
		t.Fatal("expected context error")
	}
}
