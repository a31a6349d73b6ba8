package normalize

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var nonItemChars = regexp.MustCompile(`[^a-z0-9_]`)

// ItemCode trims whitespace, lowercases, and strips characters that cannot
// appear in an item code. "G0110A" and " g0110a " both become "g0110a".
func ItemCode(code string) string {
	s := strings.ToLower(strings.TrimSpace(code))
	return nonItemChars.ReplaceAllString(s, "")
}

// SectionCode uppercases and trims a section id.
func SectionCode(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// ParseItem interprets a raw item value as an integer code. ok is false when
// the value is not numeric; n is 0 in that case. Integral floats and numeric
// text ("3", "3.0") are accepted.
func ParseItem(v any) (n int, ok bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int32:
		return int(t), true
	case int64:
		return int(t), true
	case float64:
		return fromFloat(t)
	case string:
		s := strings.TrimSpace(t)
		if i, err := strconv.Atoi(s); err == nil {
			return i, true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return fromFloat(f)
	default:
		return 0, false
	}
}

func fromFloat(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}

// Truthy reports whether a raw item value marks a condition as present.
func Truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "1", "true", "yes", "y", "checked", "x":
			return true
		}
		return false
	case float64:
		return t != 0 && !math.IsNaN(t)
	case int:
		return t != 0
	default:
		return false
	}
}

// RawString renders a raw item value for logs and coercion reports.
func RawString(v any) string {
	if v == nil {
		return "null"
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
