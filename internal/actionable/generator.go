package actionable

import (
	"fmt"

	"moving-quotes-go/internal/aggregator"
)

type ReviewCard struct {
	Insight string `json:"insight"`
	Action  string `json:"action"`
	Impact  string `json:"impact"`
}

// reviewThreshold is the fill rate under which a column needs a manual pass.
const reviewThreshold = 0.5

// Generate turns an aggregate into a manual review recommendation. The
// pattern fallback never fills company or insurance, so low fill rates there
// usually mean the language model was unavailable for part of the batch.
func Generate(ins aggregator.Insight) ReviewCard {
	if ins.TotalQuotes == 0 {
		return ReviewCard{
			Insight: "Dataset is empty",
			Action:  "Check that transcripts exist in the input directory",
			Impact:  "Nothing to review",
		}
	}
	company := ins.FillRate["company_name"]
	insurance := ins.FillRate["insurance_coverage"]
	if company < reviewThreshold || insurance < reviewThreshold {
		return ReviewCard{
			Insight: fmt.Sprintf("Company filled in %.0f%% and insurance in %.0f%% of quotes", company*100, insurance*100),
			Action:  "Review raw transcripts for company and insurance; re-run extraction with the language model available",
			Impact:  "Complete quote comparison across providers",
		}
	}
	if price := ins.FillRate["price"]; price < reviewThreshold {
		return ReviewCard{
			Insight: fmt.Sprintf("Price found in only %.0f%% of quotes", price*100),
			Action:  "Read the transcripts without a price and fill it in by hand",
			Impact:  "Price comparison covers the whole batch",
		}
	}
	return ReviewCard{
		Insight: "Extracted fields are well covered",
		Action:  "Spot-check a few rows",
		Impact:  "Low immediate intervention",
	}
}
