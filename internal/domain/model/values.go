package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// IsEmpty reports whether v counts as "no value": nil, blank strings and
// empty sequences.
func IsEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	case json.Number:
		return t == ""
	default:
		return false
	}
}

// AsSlice returns v as a sequence when it is one.
func AsSlice(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out, true
	case []float64:
		out := make([]any, len(t))
		for i, f := range t {
			out[i] = f
		}
		return out, true
	case []int:
		out := make([]any, len(t))
		for i, n := range t {
			out[i] = n
		}
		return out, true
	default:
		return nil, false
	}
}

// Flatten returns the elements of a sequence, or v itself as a one-element
// sequence. Empty elements are dropped.
func Flatten(v any) []any {
	items, ok := AsSlice(v)
	if !ok {
		items = []any{v}
	}
	out := make([]any, 0, len(items))
	for _, it := range items {
		if !IsEmpty(it) {
			out = append(out, it)
		}
	}
	return out
}

// Stringify renders a scalar the way filter values are compared: integral
// numbers without a fractional part, booleans as true/false.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return formatFloat(f)
		}
		return t.String()
	case float64:
		return formatFloat(t)
	case float32:
		return formatFloat(float64(t))
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case fmt.Stringer:
		return t.String()
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	}
}

func formatFloat(f float64) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// AsFloat coerces numbers and numeric strings.
func AsFloat(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case int32:
		f = float64(t)
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(t), ",", "."), 64)
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// IsTruthy accepts the boolean spellings found in tagged data:
// true, "true", "1", "yes", "si"/"sí" and the number 1.
func IsTruthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64, float32, int, int64, int32, json.Number:
		f, ok := AsFloat(t)
		return ok && f == 1
	case string:
		switch Normalize(t) {
		case "TRUE", "1", "YES", "SI", "Y", "S":
			return true
		}
	}
	return false
}

// Chained transformers carry state; build one per call.
func foldDiacritics() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// Normalize decomposes s (NFD), strips combining marks, trims and upper-cases,
// so "penal ", "PENAL" and "Pénal" compare equal.
func Normalize(s string) string {
	out, _, err := transform.String(foldDiacritics(), s)
	if err != nil {
		out = s
	}
	return strings.ToUpper(strings.TrimSpace(out))
}

// NormalizeValue is Normalize over Stringify.
func NormalizeValue(v any) string {
	return Normalize(Stringify(v))
}
