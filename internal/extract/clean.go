package extract

import (
	"github.com/sells-group/leadgen-cli/internal/textutil"
)

// CleanValue recursively cleans an extracted value via typed dispatch:
// strings are normalized, string slices cleaned element-wise with empty
// results dropped, maps cleaned recursively, and anything else passes
// through unchanged. The returned bool reports whether anything non-empty
// survived.
func CleanValue(v any) (any, bool) {
	switch val := v.(type) {
	case string:
		cleaned := textutil.Normalize(val)
		return cleaned, cleaned != ""

	case []string:
		var out []string
		for _, item := range val {
			if c := textutil.Normalize(item); c != "" {
				out = append(out, c)
			}
		}
		return out, len(out) > 0

	case map[string]string:
		out := map[string]string{}
		for k, item := range val {
			if c := textutil.Normalize(item); c != "" {
				out[k] = c
			}
		}
		return out, len(out) > 0

	case map[string]any:
		out := map[string]any{}
		for k, item := range val {
			if c, ok := CleanValue(item); ok {
				out[k] = c
			}
		}
		return out, len(out) > 0

	case int:
		return val, val != 0

	default:
		return v, v != nil
	}
}

// CleanRecord cleans every field of a raw record and deletes fields whose
// cleaned value is empty.
func CleanRecord(raw map[string]any) map[string]any {
	cleaned := make(map[string]any, len(raw))
	for k, v := range raw {
		if c, ok := CleanValue(v); ok {
			cleaned[k] = c
		}
	}
	return cleaned
}
