package actionable

import (
	"strings"
	"testing"

	"moving-quotes-go/internal/aggregator"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name    string
		ins     aggregator.Insight
		contain string
	}{
		{"empty", aggregator.Insight{}, "empty"},
		{
			"fallback gap",
			aggregator.Insight{TotalQuotes: 4, FillRate: map[string]float64{"company_name": 0.25, "insurance_coverage": 0.75, "price": 1}},
			"Company filled in 25%",
		},
		{
			"missing prices",
			aggregator.Insight{TotalQuotes: 4, FillRate: map[string]float64{"company_name": 1, "insurance_coverage": 1, "price": 0.25}},
			"Price found in only 25%",
		},
		{
			"covered",
			aggregator.Insight{TotalQuotes: 4, FillRate: map[string]float64{"company_name": 1, "insurance_coverage": 1, "price": 1}},
			"well covered",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := Generate(tt.ins)
			if !strings.Contains(card.Insight, tt.contain) {
				t.Errorf("expected insight to contain %q, got %q", tt.contain, card.Insight)
			}
		})
	}
}
