package extractor

import (
	"encoding/json"
	"fmt"
	"strings"

	"moving-quotes-go/internal/types"
)

// extractJSON finds the first balanced JSON object in a string and returns it.
// It strips common markdown fences first.
func extractJSON(s string) string {
	if s == "" {
		return ""
	}

	s = strings.ReplaceAll(s, "\r\n", "\n")

	// Remove markdown fences (commonly output by LLMs)
	for _, r := range []string{"```json", "```", "`json"} {
		s = strings.ReplaceAll(s, r, "")
	}

	start := strings.Index(s, "{")
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return strings.TrimSpace(s[start : i+1])
			}
		}
	}

	// no balanced found
	return ""
}

// decodeFields reads the model's JSON object into Fields. Missing or null keys
// stay empty, numbers keep their literal text and unknown keys are ignored.
func decodeFields(content string) (types.Fields, error) {
	raw := extractJSON(content)
	if raw == "" {
		return types.Fields{}, fmt.Errorf("%w: no JSON object in response", ErrResponseParse)
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return types.Fields{}, fmt.Errorf("%w: %v", ErrResponseParse, err)
	}

	return types.Fields{
		CompanyName:         stringify(obj["company_name"]),
		OriginLocation:      stringify(obj["origin_location"]),
		DestinationLocation: stringify(obj["destination_location"]),
		Price:               stringify(obj["price"]),
		LeadTime:            stringify(obj["lead_time"]),
		ServiceLevel:        types.ParseServiceLevel(stringify(obj["service_level"])),
		InsuranceCoverage:   stringify(obj["insurance_coverage"]),
	}, nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}
