package types

import "strings"

type ServiceLevel string

const (
	ServiceNone          ServiceLevel = "none"
	ServicePackingOnly   ServiceLevel = "packing_only"
	ServiceUnpackingOnly ServiceLevel = "unpacking_only"
	ServiceBoth          ServiceLevel = "both"
)

// ParseServiceLevel maps free text onto the four known levels; anything else is none.
func ParseServiceLevel(s string) ServiceLevel {
	switch lvl := ServiceLevel(strings.ToLower(strings.TrimSpace(s))); lvl {
	case ServicePackingOnly, ServiceUnpackingOnly, ServiceBoth:
		return lvl
	default:
		return ServiceNone
	}
}

// Fields is what an extractor pulls out of one transcript.
type Fields struct {
	CompanyName         string       `json:"company_name"`
	OriginLocation      string       `json:"origin_location"`
	DestinationLocation string       `json:"destination_location"`
	Price               string       `json:"price"`
	LeadTime            string       `json:"lead_time"`
	ServiceLevel        ServiceLevel `json:"service_level"`
	InsuranceCoverage   string       `json:"insurance_coverage"`
}

// EmptyFields is the "nothing found" result.
func EmptyFields() Fields {
	return Fields{ServiceLevel: ServiceNone}
}

type ExtractionRecord struct {
	FileName string `json:"file_name"`
	Fields
	RawTranscript string `json:"raw_transcript"`
}

// Columns is the dataset header, in output order.
var Columns = []string{
	"file_name",
	"company_name",
	"origin_location",
	"destination_location",
	"price",
	"lead_time",
	"service_level",
	"insurance_coverage",
	"raw_transcript",
}

func (r ExtractionRecord) Row() []string {
	lvl := r.ServiceLevel
	if lvl == "" {
		lvl = ServiceNone
	}
	return []string{
		r.FileName,
		r.CompanyName,
		r.OriginLocation,
		r.DestinationLocation,
		r.Price,
		r.LeadTime,
		string(lvl),
		r.InsuranceCoverage,
		r.RawTranscript,
	}
}

// RecordFromRow builds a record from a row laid out by header. Unknown columns
// are ignored and missing ones stay empty.
func RecordFromRow(header, row []string) ExtractionRecord {
	rec := ExtractionRecord{Fields: EmptyFields()}
	for i, h := range header {
		if i >= len(row) {
			break
		}
		v := row[i]
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "file_name":
			rec.FileName = v
		case "company_name":
			rec.CompanyName = v
		case "origin_location":
			rec.OriginLocation = v
		case "destination_location":
			rec.DestinationLocation = v
		case "price":
			rec.Price = v
		case "lead_time":
			rec.LeadTime = v
		case "service_level":
			rec.ServiceLevel = ParseServiceLevel(v)
		case "insurance_coverage":
			rec.InsuranceCoverage = v
		case "raw_transcript":
			rec.RawTranscript = v
		}
	}
	return rec
}
