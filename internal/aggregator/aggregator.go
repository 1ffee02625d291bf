package aggregator

import (
	"sort"

	"moving-quotes-go/internal/types"
)

type RouteCount struct {
	Route string `json:"route"`
	Count int    `json:"count"`
}

type Insight struct {
	TotalQuotes    int                        `json:"total_quotes"`
	ByServiceLevel map[types.ServiceLevel]int `json:"by_service_level"`
	TopRoutes      []RouteCount               `json:"top_routes"`
	FillRate       map[string]float64         `json:"fill_rate"`
}

const topRoutes = 5

// Aggregate summarizes a batch of records: service level mix, most quoted
// routes and how often each extracted column was filled.
func Aggregate(records []types.ExtractionRecord) Insight {
	levels := map[types.ServiceLevel]int{}
	routes := map[string]int{}
	filled := map[string]int{}
	for _, r := range records {
		levels[types.ParseServiceLevel(string(r.ServiceLevel))]++
		if r.OriginLocation != "" && r.DestinationLocation != "" {
			routes[r.OriginLocation+" -> "+r.DestinationLocation]++
		}
		for col, v := range map[string]string{
			"company_name":         r.CompanyName,
			"origin_location":      r.OriginLocation,
			"destination_location": r.DestinationLocation,
			"price":                r.Price,
			"lead_time":            r.LeadTime,
			"insurance_coverage":   r.InsuranceCoverage,
		} {
			if v != "" {
				filled[col]++
			}
		}
	}

	var arr []RouteCount
	for k, v := range routes {
		arr = append(arr, RouteCount{Route: k, Count: v})
	}
	sort.Slice(arr, func(i, j int) bool {
		if arr[i].Count != arr[j].Count {
			return arr[i].Count > arr[j].Count
		}
		return arr[i].Route < arr[j].Route
	})
	if len(arr) > topRoutes {
		arr = arr[:topRoutes]
	}

	rate := map[string]float64{}
	for _, col := range []string{"company_name", "origin_location", "destination_location", "price", "lead_time", "insurance_coverage"} {
		if len(records) == 0 {
			rate[col] = 0
		} else {
			rate[col] = float64(filled[col]) / float64(len(records))
		}
	}

	return Insight{
		TotalQuotes:    len(records),
		ByServiceLevel: levels,
		TopRoutes:      arr,
		FillRate:       rate,
	}
}
