package assets

import "strings"

// Violation is a single validation failure for an incoming file. Validation
// never errors; callers aggregate violations across a batch.
type Violation string

const (
	UnsupportedMediaType Violation = "unsupported_media_type"
	PayloadTooLarge      Violation = "payload_too_large"
)

func (v Violation) Message() string {
	switch v {
	case UnsupportedMediaType:
		return "unsupported media type"
	case PayloadTooLarge:
		return "file exceeds the maximum allowed size"
	default:
		return string(v)
	}
}

// Policy holds the upload acceptance rules. MIME comparison is
// case-insensitive.
type Policy struct {
	AllowedTypes []string
	MaxBytes     int64
}

func (p Policy) Validate(mimeType string, byteSize int64) []Violation {
	var violations []Violation

	allowed := false
	for _, t := range p.AllowedTypes {
		if strings.EqualFold(t, mimeType) {
			allowed = true
			break
		}
	}
	if !allowed {
		violations = append(violations, UnsupportedMediaType)
	}

	if byteSize > p.MaxBytes {
		violations = append(violations, PayloadTooLarge)
	}

	return violations
}
