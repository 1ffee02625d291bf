// Command transcribe turns every audio recording in a directory into a
// .txt transcript next to it.
package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"moving-quotes-go/internal/config"
	"moving-quotes-go/internal/logger"
	"moving-quotes-go/internal/transcription"
)

func main() {
	configFile := flag.String("config", "", "path to config file (default ./quotes.yaml if present)")
	dir := flag.String("dir", "", "directory with audio recordings (overrides QUOTES_DIR)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.New("", "info").WithError(err).Fatal("failed to load configuration")
	}
	if *dir != "" {
		cfg.Dir = *dir
	}

	log := logger.New(cfg.Log.Environment, cfg.Log.Level).WithRun("transcribe")
	log.WithField("dir", cfg.Dir).Info("starting transcription")
	if cfg.OpenAI.APIKey == "" {
		log.Fatal("OPENAI_API_KEY not set")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	tr := transcription.NewOpenAITranscriber(cfg.OpenAI, config.NewOpenAIClient(cfg.OpenAI), log)
	rep, err := transcription.ProcessRecordings(ctx, cfg.Dir, tr, log)
	if err != nil {
		log.WithError(err).Fatal("transcription run failed")
	}
	log.WithField("written", len(rep.Written)).WithField("failed", len(rep.Failures)).Info("transcription finished")
}
