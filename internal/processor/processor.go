package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"moving-quotes-go/internal/extractor"
	"moving-quotes-go/internal/logger"
	"moving-quotes-go/internal/types"
)

// Fallback reasons reported alongside a record.
const (
	ReasonRemoteCall    = "remote_call"
	ReasonResponseParse = "response_parse"
	ReasonUnknown       = "unknown"
)

var ErrInvalidInput = errors.New("file name and transcript are required")

// Result is one processed transcript.
type Result struct {
	Record         types.ExtractionRecord `json:"record"`
	FallbackUsed   bool                   `json:"fallback_used"`
	FallbackReason string                 `json:"fallback_reason,omitempty"`
	DurationMs     int64                  `json:"duration_ms"`
}

// Orchestrator tries the primary extractor and falls back to the secondary one
// on any failure. Fields are never merged across the two.
type Orchestrator struct {
	primary  extractor.Extractor
	fallback extractor.Extractor
	log      *logger.Logger
}

func New(primary, fallback extractor.Extractor, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		primary:  primary,
		fallback: fallback,
		log:      log.WithComponent("processor"),
	}
}

// Process builds the record for one transcript.
func (o *Orchestrator) Process(ctx context.Context, fileName, transcript string) (Result, error) {
	if fileName == "" || transcript == "" {
		return Result{}, ErrInvalidInput
	}
	start := time.Now()
	log := o.log.WithField("file_name", fileName)
	log.Info("processing transcript")

	res := Result{}
	fields, err := o.primary.Extract(ctx, transcript)
	if err != nil {
		res.FallbackUsed = true
		res.FallbackReason = reason(err)
		log.WithFields(logrus.Fields{
			"error":  err.Error(),
			"reason": res.FallbackReason,
		}).Warn("structured extraction failed, falling back to patterns")

		fields, err = o.fallback.Extract(ctx, transcript)
		if err != nil {
			return Result{}, fmt.Errorf("fallback extraction for %s: %w", fileName, err)
		}
	}
	if fields.ServiceLevel == "" {
		fields.ServiceLevel = types.ServiceNone
	}

	res.Record = types.ExtractionRecord{
		FileName:      fileName,
		Fields:        fields,
		RawTranscript: transcript,
	}
	res.DurationMs = time.Since(start).Milliseconds()
	log.WithFields(logrus.Fields{
		"fallback":      res.FallbackUsed,
		"service_level": fields.ServiceLevel,
		"duration_ms":   res.DurationMs,
	}).Info("transcript processed")
	return res, nil
}

func reason(err error) string {
	switch {
	case errors.Is(err, extractor.ErrResponseParse):
		return ReasonResponseParse
	case errors.Is(err, extractor.ErrRemoteCall):
		return ReasonRemoteCall
	default:
		return ReasonUnknown
	}
}
