package extractor

import (
	"context"
	"errors"
	"fmt"

	"moving-quotes-go/internal/types"
)

// Extractor pulls quote fields out of one transcript.
type Extractor interface {
	Extract(ctx context.Context, transcript string) (types.Fields, error)
}

var (
	// ErrExtractionFailure is wrapped by every structured extraction error.
	ErrExtractionFailure = errors.New("extraction failed")
	ErrRemoteCall        = fmt.Errorf("%w: remote call", ErrExtractionFailure)
	ErrResponseParse     = fmt.Errorf("%w: response parse", ErrExtractionFailure)
)
