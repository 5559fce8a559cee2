package pipeline

import (
	"encoding/json"
	"regexp"
)

// maskRule substitutes every non-overlapping match of a PII-shaped
// pattern with a fixed placeholder.
type maskRule struct {
	name        string
	pattern     *regexp.Regexp
	placeholder string
}

// maskRules is applied in order to every string leaf. The order matters:
// narrower patterns run first so that an already-placed placeholder
// (e.g. [EMAIL]) cannot be re-captured by a broader later pattern such
// as the long-digit-run card rule. No placeholder matches any rule, so
// masking is idempotent.
var maskRules = []maskRule{
	{"email", regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`), "[EMAIL]"},
	{"phone", regexp.MustCompile(`\b(?:\+?\d{1,3}[ -]?)?(?:\(\d{2,4}\)[ -]?)?\d{3,5}[ -]?\d{3,5}[ -]?\d{0,4}\b`), "[PHONE]"},
	{"ipv4", regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`), "[IP]"},
	{"ipv6", regexp.MustCompile(`\b(?:[A-Fa-f0-9]{1,4}:){7}[A-Fa-f0-9]{1,4}\b`), "[IPV6]"},
	{"timestamp", regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}[T\s]\d{2}:\d{2}:\d{2}(?:\.\d+)?Z?\b`), "[TIMESTAMP]"},
	{"jwt", regexp.MustCompile(`\beyJ[\w-]+\.[\w-]+\.[\w-]+\b`), "[JWT]"},
	{"bearer", regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9\-._~+/]+=*`), "Bearer [TOKEN]"},
	{"apikey", regexp.MustCompile(`(?i)(?:(?:api|secret|token|key|password)[ _-]?(?:id|key|token)?)["'=: ]+[A-Za-z0-9_\-]{16,}`), "[API_KEY]"},
	{"card", regexp.MustCompile(`\b(?:\d[ -]*?){13,19}\b`), "[CARD]"},
}

// MaskText replaces PII-shaped substrings with fixed placeholder tokens.
// Best effort: false positives and negatives are accepted tradeoffs.
func MaskText(s string) string {
	for _, r := range maskRules {
		s = r.pattern.ReplaceAllLiteralString(s, r.placeholder)
	}
	return s
}

// Mask applies MaskText to every string leaf of a payload. Containers,
// object keys, and non-string scalars pass through unchanged.
func Mask(p Payload) Payload {
	if p.Kind == KindJSON {
		return Payload{Kind: KindJSON, JSON: maskJSON(p.JSON)}
	}
	return Payload{Kind: KindText, Text: MaskText(p.Text)}
}

func maskJSON(v any) any {
	switch val := v.(type) {
	case string:
		return MaskText(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = maskJSON(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = maskJSON(item)
		}
		return out
	case json.Number, bool, nil:
		return val
	default:
		return val
	}
}
