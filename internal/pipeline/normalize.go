package pipeline

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
)

// Normalize parses text as a whole JSON document when possible, otherwise
// treats it as a line-oriented log. Both modes deduplicate redundant
// entries with a first-occurrence-wins rule, so normalizing already
// normalized output is a fixed point.
func Normalize(text string) Payload {
	if v, ok := tryParseJSON(text); ok {
		return Payload{Kind: KindJSON, JSON: dedupJSON(v)}
	}
	return Payload{Kind: KindText, Text: strings.Join(dedupLines(text), "\n")}
}

// NormalizeJSON wraps an already-decoded JSON value (as produced by a
// json.Decoder with UseNumber) into a recursively deduplicated payload.
func NormalizeJSON(v any) Payload {
	return Payload{Kind: KindJSON, JSON: dedupJSON(v)}
}

// tryParseJSON strictly parses text as a single JSON document.
// Numbers are kept as json.Number so their original formatting survives
// into the canonical serialization. Trailing non-whitespace content
// fails the parse.
func tryParseJSON(text string) (any, bool) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, false
	}
	return v, true
}

// dedupJSON removes duplicate array elements at every nesting depth.
// Elements are keyed by their canonical serialization (sorted object
// keys) so two objects that differ only in key order collapse to one.
// The first occurrence wins and surviving elements keep their relative
// input order.
func dedupJSON(v any) any {
	switch val := v.(type) {
	case []any:
		seen := make(map[string]struct{}, len(val))
		out := make([]any, 0, len(val))
		for _, item := range val {
			key := dedupKey(item)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, dedupJSON(item))
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = dedupJSON(item)
		}
		return out
	default:
		return v
	}
}

// dedupKey derives the identity of an array element. Containers use the
// canonical sorted-key serialization; scalars use their printed value.
func dedupKey(v any) string {
	switch val := v.(type) {
	case map[string]any, []any:
		var b bytes.Buffer
		writeCanonical(&b, val)
		return b.String()
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "true"
		}
		return "false"
	case nil:
		return "null"
	default:
		var b bytes.Buffer
		writeCanonical(&b, val)
		return b.String()
	}
}

// dedupLines trims, drops empty lines, and deduplicates the rest with a
// case-insensitive key, preserving first-occurrence order.
func dedupLines(text string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, line := range splitLines(text) {
		key := strings.ToLower(line)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, line)
	}
	return out
}

// splitLines splits on \n or \r\n, trims each line, and drops empties.
func splitLines(text string) []string {
	var out []string
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(strings.TrimSuffix(raw, "\r"))
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}
