// Command summarize prints an aggregate and a review recommendation for a
// dataset written by extract (.csv or .xlsx).
package main

import (
	"encoding/json"
	"flag"
	"os"
	"path/filepath"

	"moving-quotes-go/internal/actionable"
	"moving-quotes-go/internal/aggregator"
	"moving-quotes-go/internal/config"
	"moving-quotes-go/internal/dataset"
	"moving-quotes-go/internal/logger"
)

func main() {
	configFile := flag.String("config", "", "path to config file (default ./quotes.yaml if present)")
	path := flag.String("dataset", "", "dataset file (default <dir>/<output_file>)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.New("", "info").WithError(err).Fatal("failed to load configuration")
	}
	log := logger.New(cfg.Log.Environment, cfg.Log.Level).WithRun("summarize")

	dataPath := *path
	if dataPath == "" {
		dataPath = filepath.Join(cfg.Dir, cfg.OutputFile)
	}

	ins, err := dataset.LoadAndSummarize(dataPath, log)
	if err != nil {
		log.WithError(err).Fatal("failed to summarize dataset")
	}

	out := struct {
		Insight aggregator.Insight    `json:"insight"`
		Review  actionable.ReviewCard `json:"review"`
	}{ins, actionable.Generate(ins)}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.WithError(err).Fatal("failed to write summary")
	}
}
