package pipeline

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Fingerprint computes a stable SHA-256 content address for a payload.
// JSON payloads are serialized canonically first (sorted object keys at
// every depth) so that identical logical content fingerprints
// identically regardless of upstream key ordering.
func Fingerprint(p Payload) string {
	return FingerprintText(Canonical(p))
}

// FingerprintText computes the SHA-256 content address of a string,
// used directly for masked text payloads and individual masked lines.
func FingerprintText(s string) string {
	sum := sha256.Sum256([]byte(s))
	return fmt.Sprintf("%x", sum)
}

// Canonical returns the deterministic string serialization of a payload:
// the canonical JSON form for structured payloads, the text itself
// otherwise.
func Canonical(p Payload) string {
	if p.Kind == KindJSON {
		var b bytes.Buffer
		writeCanonical(&b, p.JSON)
		return b.String()
	}
	return p.Text
}

// writeCanonical serializes a decoded JSON value with object keys in
// lexicographic order at every nesting level. Numbers decoded as
// json.Number keep their original lexeme; anything else is formatted
// through a fixed, platform-independent path.
func writeCanonical(b *bytes.Buffer, v any) {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			writeJSONString(b, k)
			b.WriteByte(':')
			writeCanonical(b, val[k])
		}
		b.WriteByte('}')
	case []any:
		b.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				b.WriteByte(',')
			}
			writeCanonical(b, item)
		}
		b.WriteByte(']')
	case string:
		writeJSONString(b, val)
	case json.Number:
		b.WriteString(val.String())
	case bool:
		b.WriteString(strconv.FormatBool(val))
	case nil:
		b.WriteString("null")
	case float64:
		// Only reachable for values constructed in code rather than
		// decoded with UseNumber.
		b.WriteString(strconv.FormatFloat(val, 'g', -1, 64))
	default:
		enc, err := json.Marshal(val)
		if err != nil {
			b.WriteString("null")
			return
		}
		b.Write(enc)
	}
}

func writeJSONString(b *bytes.Buffer, s string) {
	enc, err := json.Marshal(s)
	if err != nil {
		b.WriteString(`""`)
		return
	}
	b.Write(enc)
}
