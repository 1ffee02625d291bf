package extractor

import (
	"context"
	"regexp"
	"strings"

	"moving-quotes-go/internal/types"
)

var (
	locationRe = regexp.MustCompile(`from\s+([A-Za-z\s]+)\s+to\s+([A-Za-z\s]+)`)
	priceRe    = regexp.MustCompile(`\$\d+(?:,\d+)?(?:\.\d+)?`)

	// tried in order against the lower-cased transcript
	leadTimeRes = []*regexp.Regexp{
		regexp.MustCompile(`(\d+)\s*(?:day|days|business\s*days?)`),
		regexp.MustCompile(`take(?:s)?\s*(?:about|around|approximately)?\s*(\d+)\s*(?:day|days|business\s*days?)`),
		regexp.MustCompile(`delivery\s*(?:in|within|takes?)?\s*(\d+)\s*(?:day|days|business\s*days?)`),
	}

	// \b keeps "unpacking service" from also counting as a packing mention.
	packingRe   = regexp.MustCompile(`\bpack(?:ing|ed)?\s+(?:service|included|available)`)
	unpackingRe = regexp.MustCompile(`unpack(?:ing|ed)?\s+(?:service|included|available)`)
)

// PatternExtractor is the offline fallback. It never fails and never fills
// company name or insurance coverage.
type PatternExtractor struct{}

func NewPatternExtractor() PatternExtractor {
	return PatternExtractor{}
}

func (PatternExtractor) Extract(_ context.Context, transcript string) (types.Fields, error) {
	return ExtractPatterns(transcript), nil
}

// ExtractPatterns runs the fixed regular expressions over transcript.
func ExtractPatterns(transcript string) types.Fields {
	out := types.EmptyFields()

	if m := locationRe.FindStringSubmatch(transcript); m != nil {
		out.OriginLocation = strings.TrimSpace(m[1])
		out.DestinationLocation = strings.TrimSpace(m[2])
	}

	out.Price = priceRe.FindString(transcript)

	lower := strings.ToLower(transcript)
	for _, re := range leadTimeRes {
		if m := re.FindStringSubmatch(lower); m != nil {
			out.LeadTime = m[1]
			break
		}
	}

	out.ServiceLevel = serviceLevel(packingRe.MatchString(lower), unpackingRe.MatchString(lower))
	return out
}

func serviceLevel(packing, unpacking bool) types.ServiceLevel {
	switch {
	case packing && unpacking:
		return types.ServiceBoth
	case packing:
		return types.ServicePackingOnly
	case unpacking:
		return types.ServiceUnpackingOnly
	default:
		return types.ServiceNone
	}
}
