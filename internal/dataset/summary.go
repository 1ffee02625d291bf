package dataset

import (
	"fmt"

	"moving-quotes-go/internal/aggregator"
	"moving-quotes-go/internal/logger"
)

// LoadAndSummarize reads a dataset file and aggregates it.
func LoadAndSummarize(path string, log *logger.Logger) (aggregator.Insight, error) {
	l := log.WithComponent("dataset.summary").WithField("path", path)
	l.Info("opening dataset for summarization")

	records, err := Load(path)
	if err != nil {
		l.WithField("error", err.Error()).Error("load failed")
		return aggregator.Insight{}, fmt.Errorf("load: %w", err)
	}

	ins := aggregator.Aggregate(records)
	l.WithField("total_quotes", ins.TotalQuotes).Info("dataset summarization complete")
	return ins, nil
}
