package types

import (
	"encoding/json"
	"math"
	"strconv"
)

// Snapshot is a point-in-time quote/info map keyed by provider field names
// (longName, trailingPE, targetMeanPrice, ...). Missing keys are normal.
type Snapshot map[string]any

// Lookup walks nested maps along keys. A missing key, a nil value or a
// non-map intermediate all report not found; nothing here panics.
func Lookup(data map[string]any, keys ...string) (any, bool) {
	if data == nil || len(keys) == 0 {
		return nil, false
	}
	var cur any = data
	for _, k := range keys {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		v, exists := m[k]
		if !exists || v == nil {
			return nil, false
		}
		cur = v
	}
	return cur, true
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Snapshot:
		return m, true
	default:
		return nil, false
	}
}

// ToFloat converts the numeric shapes a decoded snapshot may hold.
// NaN and infinities are treated as missing.
func ToFloat(v any) (float64, bool) {
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
		parsed, err := strconv.ParseFloat(n, 64)
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

// Float returns the numeric value at keys, or nil when absent or non-numeric.
func (s Snapshot) Float(keys ...string) *float64 {
	v, ok := Lookup(s, keys...)
	if !ok {
		return nil
	}
	f, ok := ToFloat(v)
	if !ok {
		return nil
	}
	return &f
}

// FloatOr is Float with a default.
func (s Snapshot) FloatOr(def float64, keys ...string) float64 {
	if f := s.Float(keys...); f != nil {
		return *f
	}
	return def
}

// String returns the string at keys, or def when absent, empty or not a string.
func (s Snapshot) String(def string, keys ...string) string {
	v, ok := Lookup(s, keys...)
	if !ok {
		return def
	}
	str, ok := v.(string)
	if !ok || str == "" {
		return def
	}
	return str
}

// Int returns the integral value at keys, or def.
func (s Snapshot) Int(def int, keys ...string) int {
	f := s.Float(keys...)
	if f == nil {
		return def
	}
	return int(*f)
}
