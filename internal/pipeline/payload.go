// Package pipeline implements the normalization, masking, and
// content-addressing transforms that turn raw log text into a
// deterministic, privacy-scrubbed unit of analysis.
package pipeline

// Kind tags a Payload as structured JSON or line-oriented text.
type Kind string

const (
	KindJSON Kind = "json"
	KindText Kind = "text"
)

// Payload is the tagged union produced by Normalize and consumed by Mask.
// Exactly one of JSON or Text is meaningful, selected by Kind.
// For KindJSON, JSON holds the decoded value (maps, slices, json.Number,
// string, bool, nil). For KindText, Text holds deduplicated
// newline-joined lines.
type Payload struct {
	Kind Kind
	JSON any
	Text string
}

// Preview returns the value suitable for returning to a client:
// the decoded JSON structure, or the text itself.
func (p Payload) Preview() any {
	if p.Kind == KindJSON {
		return p.JSON
	}
	return p.Text
}

// Lines splits a text payload into its trimmed non-empty lines.
// Deduplication already happened in Normalize, so none is applied here.
func (p Payload) Lines() []string {
	if p.Kind != KindText {
		return nil
	}
	return splitLines(p.Text)
}
