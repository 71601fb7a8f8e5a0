package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "styles.csv")
	content := `id,gender,masterCategory,subCategory,articleType,baseColour,season,year,usage,productDisplayName
15970,Men,Apparel,Topwear,Shirts,Navy Blue,Fall,2011,Casual,Turtle Check Men Navy Blue Shirt
39386,Men,Apparel,Bottomwear,Jeans,Blue,Summer,2012,Casual,Peter England Men Party Blue Jeans
59263,Women,Accessories,Watches,Watches,Silver,Winter,2016,Casual,Titan Women Silver Watch,extra,fields,from,unescaped,commas
12345,Men,Apparel,Topwear
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	products, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if len(products) != 3 {
		t.Fatalf("got %d products, want 3 (row without display name skipped)", len(products))
	}
	first := products[0]
	if first.ID != "15970" || first.DisplayName != "Turtle Check Men Navy Blue Shirt" {
		t.Errorf("first product = %+v", first)
	}
	if first.ArticleType != "Shirts" || first.BaseColour != "Navy Blue" {
		t.Errorf("metadata columns mislocated: %+v", first)
	}
	if products[2].DisplayName != "Titan Women Silver Watch" {
		t.Errorf("ragged row display name = %q", products[2].DisplayName)
	}
}

func TestLoadCSV_MissingDisplayNameColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "styles.csv")
	if err := os.WriteFile(path, []byte("id,gender\n1,Men\n"), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	if _, err := LoadCSV(path); err == nil {
		t.Fatal("expected error for catalog without productDisplayName")
	}
}

func TestKeywordRetriever(t *testing.T) {
	products := []Product{
		{ID: "1", DisplayName: "Red Running Shoes", ArticleType: "Shoes", BaseColour: "Red", Usage: "Sports"},
		{ID: "2", DisplayName: "Blue Denim Jacket", ArticleType: "Jackets", BaseColour: "Blue", Usage: "Casual"},
		{ID: "3", DisplayName: "Red Party Dress", ArticleType: "Dresses", BaseColour: "Red", Usage: "Party"},
	}
	r := NewKeywordRetriever(products)

	results, err := r.Retrieve(context.Background(), "red shoes for running", 3)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("no results")
	}
	if results[0].ID != "1" {
		t.Errorf("top result = %s, want the running shoes", results[0].ID)
	}
}

func TestKeywordRetriever_TopK(t *testing.T) {
	products := []Product{
		{ID: "1", DisplayName: "Red Shirt", BaseColour: "Red"},
		{ID: "2", DisplayName: "Red Shoes", BaseColour: "Red"},
		{ID: "3", DisplayName: "Red Dress", BaseColour: "Red"},
	}
	r := NewKeywordRetriever(products)

	results, err := r.Retrieve(context.Background(), "something red", 2)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("got %d results, want 2", len(results))
	}
}

func TestKeywordRetriever_NoMatches(t *testing.T) {
	r := NewKeywordRetriever([]Product{{ID: "1", DisplayName: "Blue Jeans"}})

	results, err := r.Retrieve(context.Background(), "quantum mechanics", 3)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results for unrelated query, want 0", len(results))
	}
}

func TestKeywordRetriever_CancelledContext(t *testing.T) {
	r := NewKeywordRetriever([]Product{{ID: "1", DisplayName: "Blue Jeans"}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Retrieve(ctx, "jeans", 3); err == nil {
		t.Fatal("expected context error")
	}
}
