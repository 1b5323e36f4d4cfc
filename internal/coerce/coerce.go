// Package coerce converts raw grid cells into the typed scalars stored in
// documents.
//
// Grid cells arrive as whatever the reader produced: strings from CSV,
// native numbers or booleans from richer sources, or nothing at all. Coerce
// collapses all of that into four shapes: nil, bool, float64, or string.
//
// The conversion is deliberately best-effort and lossy in two documented
// ways:
//   - Any numeric-looking string becomes a number, so leading zeros are
//     lost: "007" stores as 7. Callers that need zero-padded codes must
//     quote them out of numeric form upstream.
//   - The exact strings "true" and "false" always become booleans, even
//     when the column was meant to hold free text.
//
// These are part of the observable contract (the tests encode them); do not
// "fix" them here.
package coerce

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Value converts a single raw cell into a typed scalar. It is total: every
// input the grid can produce maps to nil, bool, float64, or string.
//
// Rules, in order:
//   - nil or empty string -> nil
//   - already-numeric input -> returned unchanged
//   - trimmed "true"/"false" (exact, case-sensitive) -> bool
//   - trimmed string that parses to a finite number -> float64
//   - anything else -> the trimmed string
func Value(raw any) any {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		if v == "" {
			return nil
		}
		return coerceString(v)
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return v
	case bool:
		return v
	default:
		return coerceString(String(raw))
	}
}

func coerceString(s string) any {
	s = strings.TrimSpace(s)

	switch s {
	case "true":
		return true
	case "false":
		return false
	}

	// Reject empty before parsing so whitespace-only cells stay strings,
	// and reject Inf/NaN spellings that strconv would accept.
	if s != "" {
		if n, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(n, 0) && !math.IsNaN(n) {
			return n
		}
	}

	return s
}

// String renders a raw cell as a string without applying type coercion.
// Used for identifier cells, where "007" must stay "007".
func String(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprint(v)
	}
}
