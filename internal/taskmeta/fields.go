package taskmeta

import (
	"math"
	"strconv"
	"strings"
)

// Fields is a lowercase-keyed field set produced by Extract. Values are
// strings for most syntaxes and native JSON types for the curly block, so
// the accessors below normalize.
type Fields map[string]any

func (f Fields) Has(key string) bool {
	_, ok := f[key]
	return ok
}

// String returns the value as a trimmed string, or "" when absent.
func (f Fields) String(key string) string {
	value, ok := f[key]
	if !ok || value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// Number returns the value parsed as a number and whether it was numeric.
func (f Fields) Number(key string) (float64, bool) {
	value, ok := f[key]
	if !ok {
		return 0, false
	}
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// List returns the value as a string slice, accepting both arrays and
// comma-separated strings.
func (f Fields) List(key string) []string {
	value, ok := f[key]
	if !ok || value == nil {
		return nil
	}
	switch v := value.(type) {
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				items = append(items, strings.TrimSpace(s))
			}
		}
		if len(items) == 0 {
			return nil
		}
		return items
	case string:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		parts := strings.Split(v, ",")
		items := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				items = append(items, trimmed)
			}
		}
		return items
	default:
		return nil
	}
}

// XP returns the experience value, defaulting to zero.
func (f Fields) XP() float64 {
	n, _ := f.Number("xp")
	return n
}

// CP returns the class-point value, defaulting to zero.
func (f Fields) CP() float64 {
	n, _ := f.Number("cp")
	return n
}

// Coins returns the coin value; absent or non-numeric coins default to a
// tenth of the experience value, rounded.
func (f Fields) Coins() float64 {
	if n, ok := f.Number("coins"); ok {
		return n
	}
	return math.Round(f.XP() * 0.1)
}
