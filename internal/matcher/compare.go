package matcher

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// valuesEqual compares two decoded JSON values. Numbers compare numerically
// when either side is a real number, so 10000 equals "10000". Strings compare
// exactly. nil only equals nil.
func valuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if isNumber(a) || isNumber(b) {
		x, okA := toNumber(a)
		y, okB := toNumber(b)
		if okA && okB {
			return x == y
		}
	}
	return canonical(a) == canonical(b)
}

func contains(haystack, needle any) bool {
	if haystack == nil || needle == nil {
		return false
	}
	if items, ok := haystack.([]any); ok {
		for _, item := range items {
			if valuesEqual(item, needle) {
				return true
			}
		}
		return false
	}
	switch haystack.(type) {
	case map[string]any:
		return false
	}
	return strings.Contains(canonical(haystack), canonical(needle))
}

func compareNumbers(a, b any, cmp func(x, y float64) bool) bool {
	x, ok := toNumber(a)
	if !ok {
		return false
	}
	y, ok := toNumber(b)
	if !ok {
		return false
	}
	return cmp(x, y)
}

func isNumber(v any) bool {
	switch v.(type) {
	case float64, float32, int, int32, int64, uint, uint32, uint64, json.Number:
		return true
	}
	return false
}

func toNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func canonical(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return x.String()
	}
	if f, ok := toNumber(v); ok && isNumber(v) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
