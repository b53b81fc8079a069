package singer

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// maxFlatKeyLength is the longest composite column name emitted by
// Flatten. Matches common warehouse identifier limits.
const maxFlatKeyLength = 255

// flatKeySeparator joins nested object keys into a single column name.
const flatKeySeparator = "__"

// Flatten converts a nested record into a single-level map suitable for
// a CSV row. Nested objects are flattened with a double-underscore
// separator, arrays are serialized to JSON strings, and everything else
// passes through unchanged. Keys are visited in sorted order so the
// output is deterministic.
func Flatten(record map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(record))
	if err := flattenInto(out, record, nil); err != nil {
		return nil, err
	}
	return out, nil
}

func flattenInto(dst map[string]any, record map[string]any, parent []string) error {
	keys := make([]string, 0, len(record))
	for k := range record {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		switch v := record[k].(type) {
		case map[string]any:
			if err := flattenInto(dst, v, append(parent, k)); err != nil {
				return err
			}
		case []any:
			encoded, err := json.Marshal(v)
			if err != nil {
				return fmt.Errorf("flatten %s: encode array: %w", k, err)
			}
			dst[flattenKey(k, parent)] = string(encoded)
		default:
			dst[flattenKey(k, parent)] = v
		}
	}
	return nil
}

// flattenKey joins parent path segments and the leaf key. When the
// composite name would exceed maxFlatKeyLength, segments are shortened
// left to right until it fits.
func flattenKey(key string, parent []string) string {
	segments := make([]string, 0, len(parent)+1)
	segments = append(segments, parent...)
	segments = append(segments, key)

	for i := 0; len(strings.Join(segments, flatKeySeparator)) >= maxFlatKeyLength && i < len(segments); i++ {
		segments[i] = shortenSegment(segments[i])
	}
	return strings.Join(segments, flatKeySeparator)
}

// shortenSegment abbreviates one path segment: camelize it, keep only
// the non-lowercase characters, and lowercase the result. Segments that
// abbreviate to a single character fall back to their first three
// characters instead.
func shortenSegment(seg string) string {
	var camel strings.Builder
	upper := true
	for _, r := range seg {
		if r == '_' {
			upper = true
			continue
		}
		if upper {
			camel.WriteRune(unicode.ToUpper(r))
			upper = false
			continue
		}
		camel.WriteRune(r)
	}

	var reduced strings.Builder
	for _, r := range camel.String() {
		if !unicode.IsLower(r) {
			reduced.WriteRune(r)
		}
	}

	short := reduced.String()
	if len(short) <= 1 {
		short = seg
		if len(short) > 3 {
			short = short[:3]
		}
	}
	return strings.ToLower(short)
}
