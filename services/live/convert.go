package live

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/xorcare/pointer"

	"github.com/nvbf/quadball-live-sync/pkg/ordered"
)

// Feed values arrive as decoded JSON (json.Number, string, bool, nil, ...).
// The helpers below coerce them; anything that does not fit yields "unset".

func toInt(v any) (int, bool) {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return int(i), true
		}
		if f, err := t.Float64(); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return int(f), true
		}
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	case string:
		if i, err := strconv.Atoi(t); err == nil {
			return i, true
		}
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f, true
		}
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case float64:
		return t, true
	case string:
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func toString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	case int:
		return strconv.Itoa(t), true
	}
	return "", false
}

// toBool follows truthiness: null, false, 0, "" and empty containers are false.
func toBool(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case json.Number:
		f, err := t.Float64()
		return err == nil && f != 0
	case int:
		return t != 0
	case float64:
		return t != 0
	case ordered.Object:
		return len(t) > 0
	case []any:
		return len(t) > 0
	}
	return true
}

func optInt(v any) *int {
	if i, ok := toInt(v); ok {
		return pointer.Int(i)
	}
	return nil
}

func optFloat(v any) *float64 {
	if f, ok := toFloat(v); ok {
		return pointer.Float64(f)
	}
	return nil
}

func optString(v any) *string {
	if s, ok := toString(v); ok {
		return pointer.String(s)
	}
	return nil
}

func stringOr(v any, def string) string {
	if s, ok := toString(v); ok {
		return s
	}
	return def
}

func intOrZero(v any) int {
	i, _ := toInt(v)
	return i
}

func floatOrZero(v any) float64 {
	f, _ := toFloat(v)
	return f
}
