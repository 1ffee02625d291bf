package aggregator

import (
	"testing"

	"moving-quotes-go/internal/types"
)

func rec(origin, dest, price string, lvl types.ServiceLevel) types.ExtractionRecord {
	return types.ExtractionRecord{
		FileName:      "f.txt",
		RawTranscript: "t",
		Fields: types.Fields{
			OriginLocation:      origin,
			DestinationLocation: dest,
			Price:               price,
			ServiceLevel:        lvl,
		},
	}
}

func TestAggregate(t *testing.T) {
	ins := Aggregate([]types.ExtractionRecord{
		rec("Austin", "Chicago", "$2,000", types.ServicePackingOnly),
		rec("Austin", "Chicago", "", types.ServiceBoth),
		rec("Seattle", "Denver", "$900", types.ServiceBoth),
		rec("", "", "", ""),
	})

	if ins.TotalQuotes != 4 {
		t.Errorf("expected 4 quotes, got %d", ins.TotalQuotes)
	}
	if ins.ByServiceLevel[types.ServiceBoth] != 2 || ins.ByServiceLevel[types.ServiceNone] != 1 {
		t.Errorf("unexpected service levels %v", ins.ByServiceLevel)
	}
	if len(ins.TopRoutes) != 2 || ins.TopRoutes[0] != (RouteCount{Route: "Austin -> Chicago", Count: 2}) {
		t.Errorf("unexpected routes %v", ins.TopRoutes)
	}
	if ins.FillRate["price"] != 0.5 {
		t.Errorf("expected price fill rate 0.5, got %v", ins.FillRate["price"])
	}
	if ins.FillRate["company_name"] != 0 {
		t.Errorf("expected company fill rate 0, got %v", ins.FillRate["company_name"])
	}
}

func TestAggregate_Empty(t *testing.T) {
	ins := Aggregate(nil)
	if ins.TotalQuotes != 0 || len(ins.TopRoutes) != 0 {
		t.Errorf("unexpected insight %+v", ins)
	}
	if ins.FillRate["price"] != 0 {
		t.Errorf("expected zero fill rate")
	}
}
