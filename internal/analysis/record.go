package analysis

import "time"

// Record is a stored string together with the properties computed when it
// was created. Properties are persisted as-is and never recomputed on read.
type Record struct {
	// ID is the SHA-256 hex digest of Value
	ID string `json:"id" yaml:"id"`

	// Value is the raw string as submitted
	Value string `json:"value" yaml:"value"`

	Properties Properties `json:"properties" yaml:"properties"`

	// CreatedAt is the UTC creation time, serialized as RFC 3339
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// NewRecord builds a record for value stamped with now.
func NewRecord(value string, now time.Time) *Record {
	props := Compute(value)
	return &Record{
		ID:         props.SHA256Hash,
		Value:      value,
		Properties: props,
		CreatedAt:  now.UTC(),
	}
}
