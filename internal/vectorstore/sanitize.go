package vectorstore

import (
	"fmt"
	"strings"
)

// SourcesSeparator joins list-valued metadata into a single string. Citation
// extraction reverses the transform by splitting on the comma and trimming.
const SourcesSeparator = ", "

// Sanitize returns a copy of payload with every value reduced to a
// primitive: list values are joined into one separator-delimited string,
// everything else passes through unchanged. Sanitizing an already-sanitized
// payload is a no-op.
func Sanitize(payload map[string]any) map[string]any {
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		switch vv := v.(type) {
		case []string:
			out[k] = strings.Join(vv, SourcesSeparator)
		case []any:
			parts := make([]string, len(vv))
			for i, item := range vv {
				parts[i] = fmt.Sprint(item)
			}
			out[k] = strings.Join(parts, SourcesSeparator)
		default:
			out[k] = v
		}
	}
	return out
}

// SplitSources reverses the list-to-string transform applied by Sanitize.
// Empty elements are dropped.
func SplitSources(joined string) []string {
	var out []string
	for _, part := range strings.Split(joined, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}
