package catalog

import (
	"context"
	"sort"
	"strings"
)

// KeywordRetriever is an in-memory stand-in for the production vector index.
// It scores products by lowercase token overlap between the query and the
// product metadata. Good enough to exercise the pipeline end to end; the
// similarity search itself is an interchangeable collaborator.
type KeywordRetriever struct {
	products []Product
}

// NewKeywordRetriever creates a retriever over the given products.
func NewKeywordRetriever(products []Product) *KeywordRetriever {
	return &KeywordRetriever{products: products}
}

// Retrieve returns up to k products ranked by token overlap with the query.
func (r *KeywordRetriever) Retrieve(ctx context.Context, query string, k int) ([]Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	terms := strings.Fields(strings.ToLower(query))

	type scored struct {
		product Product
		score   int
	}
	var candidates []scored
	for _, p := range r.products {
		haystack := strings.ToLower(strings.Join([]string{
			p.DisplayName, p.ArticleType, p.BaseColour, p.Usage, p.Gender,
		}, " "))
		score := 0
		for _, t := range terms {
			if len(t) < 3 {
				continue
			}
			if strings.Contains(haystack, t) {
				score++
			}
		}
		if score > 0 {
			candidates = append(candidates, scored{product: p, score: score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}
	results := make([]Product, len(candidates))
	for i, c := range candidates {
		results[i] = c.product
	}
	return results, nil
}
