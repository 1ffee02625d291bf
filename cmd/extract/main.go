// Command extract builds the moving quote dataset from the transcripts in a
// directory, using the language model when available and regular expressions
// otherwise.
package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"moving-quotes-go/internal/aggregator"
	"moving-quotes-go/internal/config"
	"moving-quotes-go/internal/extractor"
	"moving-quotes-go/internal/logger"
	"moving-quotes-go/internal/pipeline"
	"moving-quotes-go/internal/processor"
)

func main() {
	configFile := flag.String("config", "", "path to config file (default ./quotes.yaml if present)")
	dir := flag.String("dir", "", "directory with transcripts (overrides QUOTES_DIR)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.New("", "info").WithError(err).Fatal("failed to load configuration")
	}
	if *dir != "" {
		cfg.Dir = *dir
	}

	log := logger.New(cfg.Log.Environment, cfg.Log.Level).WithRun("extract")
	log.WithField("dir", cfg.Dir).WithField("model", cfg.OpenAI.ChatModel).Info("starting extraction")
	if cfg.OpenAI.APIKey == "" {
		log.Warn("OPENAI_API_KEY not set, every transcript will use pattern extraction")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	structured := extractor.NewStructuredExtractor(cfg.OpenAI, config.NewOpenAIClient(cfg.OpenAI), log)
	orch := processor.New(structured, extractor.NewPatternExtractor(), log)

	sum, err := pipeline.New(cfg, orch, log).Run(ctx)
	if err != nil {
		log.WithError(err).Fatal("extraction run failed")
	}

	ins := aggregator.Aggregate(sum.Records)
	log.WithField("by_service_level", ins.ByServiceLevel).
		WithField("fill_rate", ins.FillRate).
		Info("batch summary")
}
