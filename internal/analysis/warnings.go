package analysis

// WarningCode classifies a recorded data-quality issue
type WarningCode string

const (
	// WarnMalformedRecord - a raw entry missing required fields was dropped
	WarnMalformedRecord WarningCode = "malformed_record"
	// WarnAmbiguousAuthor - records sharing a fingerprint disagree on author
	WarnAmbiguousAuthor WarningCode = "ambiguous_fingerprint_author"
)

// Warning is a non-fatal data-quality issue attached to the report scope it
// was observed in. The pipeline never aborts on these.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}
