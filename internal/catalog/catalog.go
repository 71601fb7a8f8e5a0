package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// Product is the catalog metadata attached to retrieval results. The JSON
// field names follow the upstream catalog dump.
type Product struct {
	ID          string `json:"id"`
	Gender      string `json:"gender,omitempty"`
	Category    string `json:"masterCategory,omitempty"`
	SubCategory string `json:"subCategory,omitempty"`
	ArticleType string `json:"articleType,omitempty"`
	BaseColour  string `json:"baseColour,omitempty"`
	Season      string `json:"season,omitempty"`
	Usage       string `json:"usage,omitempty"`
	DisplayName string `json:"productDisplayName"`
}

// LoadCSV reads products from a catalog CSV dump (styles.csv layout).
// Columns are located by header name; rows with a ragged column count are
// skipped rather than failing the whole load — the upstream dump contains
// display names with unescaped commas.
func LoadCSV(path string) ([]Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close() //nolint:errcheck

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read catalog header: %w", err)
	}
	col := map[string]int{}
	for i, name := range header {
		col[name] = i
	}
	idx, ok := col["productDisplayName"]
	if !ok {
		return nil, fmt.Errorf("catalog %s: missing productDisplayName column", path)
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var products []Product
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		if idx >= len(row) || row[idx] == "" {
			continue
		}
		products = append(products, Product{
			ID:          field(row, "id"),
			Gender:      field(row, "gender"),
			Category:    field(row, "masterCategory"),
			SubCategory: field(row, "subCategory"),
			ArticleType: field(row, "articleType"),
			BaseColour:  field(row, "baseColour"),
			Season:      field(row, "season"),
			Usage:       field(row, "usage"),
			DisplayName: row[idx],
		})
	}

	return products, nil
}
