package extractor

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
	"moving-quotes-go/internal/types"
)

const systemPrompt = "Extract moving-related information from this transcript. " +
	"If information is not present, leave the field empty. " +
	"For service_level, return: 'none', 'packing_only', 'unpacking_only', or 'both'. " +
	"For lead_time, return the number of days."

const userPrompt = `Extract the following information from this moving-related transcript (return JSON format with these keys):

company_name: Moving company mentioned
origin_location: Where the person is moving from
destination_location: Where the person is moving to
price: Any quoted price or cost estimate
lead_time: Number of days from pickup to delivery
service_level: Whether packing/unpacking is offered ('none', 'packing_only', 'unpacking_only', 'both')
insurance_coverage: Insurance options or coverage mentioned

Respond with a single JSON object only.

Transcript: %s`

// ChatClient is the slice of the OpenAI client the structured extractor needs.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// StructuredExtractor asks a language model for the quote fields as a JSON object.
type StructuredExtractor struct {
	client     ChatClient
	apiKey     string
	model      string
	maxRetries uint64
	timeout    time.Duration
	log        *logger.Logger
}

func NewStructuredExtractor(cfg config.OpenAI, client ChatClient, log *logger.Logger) *StructuredExtractor {
	model := cfg.ChatModel
	if model == "" {
		model = config.DefaultChatModel
	}
	return &StructuredExtractor{
		client:     client,
		apiKey:     cfg.APIKey,
		model:      model,
		maxRetries: cfg.MaxRetries,
		timeout:    cfg.RequestTimeout,
		log:        log.WithComponent("extractor-structured"),
	}
}

// BuildRequest renders the chat request for one transcript.
func (e *StructuredExtractor) BuildRequest(transcript string) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(userPrompt, transcript)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}
}

func (e *StructuredExtractor) Extract(ctx context.Context, transcript string) (types.Fields, error) {
	if e.client == nil || e.apiKey == "" {
		return types.Fields{}, fmt.Errorf("%w: language model not configured", ErrRemoteCall)
	}

	req := e.BuildRequest(transcript)
	var out types.Fields

	op := func() error {
		callCtx := ctx
		if e.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, e.timeout)
			defer cancel()
		}

		resp, err := e.client.CreateChatCompletion(callCtx, req)
		if err != nil {
			e.log.WithError(err).Warn("llm request failed")
			err = fmt.Errorf("%w: %w", ErrRemoteCall, err)
			if isClientError(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		if len(resp.Choices) == 0 {
			return backoff.Permanent(fmt.Errorf("%w: no choices returned", ErrResponseParse))
		}

		content := resp.Choices[0].Message.Content
		e.log.WithField("content_len", len(content)).Debug("llm raw content:\n" + content)

		fields, err := decodeFields(content)
		if err != nil {
			return backoff.Permanent(err)
		}
		out = fields
		return nil
	}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), e.maxRetries), ctx)
	if err := backoff.Retry(op, b); err != nil {
		if !errors.Is(err, ErrExtractionFailure) {
			err = fmt.Errorf("%w: %w", ErrRemoteCall, err)
		}
		return types.Fields{}, err
	}
	return out, nil
}

// isClientError reports 4xx answers, which are not worth retrying.
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
