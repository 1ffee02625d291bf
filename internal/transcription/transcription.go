package transcription

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	openai "github.com/sashabaranov/go-openai"
	"moving-quotes-go/internal/config"
	"moving-quotes-go/internal/logger"
)

// Transcriber converts one audio file to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// AudioClient is the slice of the OpenAI client used for speech to text.
type AudioClient interface {
	CreateTranscription(ctx context.Context, req openai.AudioRequest) (openai.AudioResponse, error)
}

var ErrNotConfigured = errors.New("transcription service not configured")

type OpenAITranscriber struct {
	client     AudioClient
	apiKey     string
	model      string
	maxRetries uint64
	timeout    time.Duration
	log        *logger.Logger
}

func NewOpenAITranscriber(cfg config.OpenAI, client AudioClient, log *logger.Logger) *OpenAITranscriber {
	model := cfg.TranscriptionModel
	if model == "" {
		model = config.DefaultTranscriptionModel
	}
	return &OpenAITranscriber{
		client:     client,
		apiKey:     cfg.APIKey,
		model:      model,
		maxRetries: cfg.MaxRetries,
		timeout:    cfg.RequestTimeout,
		log:        log.WithComponent("transcription"),
	}
}

// Transcribe uploads the file and returns the plain transcript text.
func (t *OpenAITranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if t.client == nil || t.apiKey == "" {
		return "", ErrNotConfigured
	}

	var text string
	op := func() error {
		callCtx := ctx
		if t.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, t.timeout)
			defer cancel()
		}
		resp, err := t.client.CreateTranscription(callCtx, openai.AudioRequest{
			Model:    t.model,
			FilePath: audioPath,
			Format:   openai.AudioResponseFormatJSON,
		})
		if err != nil {
			t.log.WithError(err).WithField("audio_path", audioPath).Warn("transcription request failed")
			if isClientError(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		text = resp.Text
		return nil
	}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), t.maxRetries), ctx)
	if err := backoff.Retry(op, b); err != nil {
		return "", fmt.Errorf("transcribe %s: %w", audioPath, err)
	}
	return text, nil
}

func isClientError(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode >= http.StatusBadRequest && apiErr.HTTPStatusCode < http.StatusInternalServerError
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode >= http.StatusBadRequest && reqErr.HTTPStatusCode < http.StatusInternalServerError
	}
	return false
}
