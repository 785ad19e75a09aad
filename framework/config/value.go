package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is one configuration value. The dynamic payload is normalised to
// string, int64, float64, bool, []Value, or map[string]Value.
type Value struct {
	raw any
}

// ValueOf normalises raw into a Value. Numeric widths collapse to int64 and
// float64; nested maps and slices are converted recursively. YAML decoding
// produces map[string]any, which is handled here.
func ValueOf(raw any) Value {
	switch v := raw.(type) {
	case Value:
		return v
	case nil:
		return Value{raw: ""}
	case string, bool, int64, float64:
		return Value{raw: v}
	case int:
		return Value{raw: int64(v)}
	case int8:
		return Value{raw: int64(v)}
	case int16:
		return Value{raw: int64(v)}
	case int32:
		return Value{raw: int64(v)}
	case uint:
		return Value{raw: int64(v)}
	case uint8:
		return Value{raw: int64(v)}
	case uint16:
		return Value{raw: int64(v)}
	case uint32:
		return Value{raw: int64(v)}
	case uint64:
		return Value{raw: int64(v)}
	case float32:
		return Value{raw: float64(v)}
	case []any:
		items := make([]Value, len(v))
		for i, item := range v {
			items[i] = ValueOf(item)
		}
		return Value{raw: items}
	case []Value:
		return Value{raw: v}
	case map[string]any:
		m := make(map[string]Value, len(v))
		for k, item := range v {
			m[k] = ValueOf(item)
		}
		return Value{raw: m}
	case map[string]Value:
		return Value{raw: v}
	default:
		return Value{raw: fmt.Sprintf("%v", v)}
	}
}

// Raw exposes the normalised payload.
func (v Value) Raw() any { return v.raw }

// String coerces to string. Scalars render with strconv; arrays and maps do
// not coerce.
func (v Value) String() (string, bool) {
	switch t := v.raw.(type) {
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	default:
		return "", false
	}
}

// Int64 coerces to int64, parsing strings when possible.
func (v Value) Int64() (int64, bool) {
	switch t := v.raw.(type) {
	case int64:
		return t, true
	case float64:
		return int64(t), true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// Float64 coerces to float64, widening ints and parsing strings.
func (v Value) Float64() (float64, bool) {
	switch t := v.raw.(type) {
	case float64:
		return t, true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Bool coerces to bool. The strings "true", "yes", and "1" (any case) are
// true; "false", "no", and "0" are false.
func (v Value) Bool() (bool, bool) {
	switch t := v.raw.(type) {
	case bool:
		return t, true
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "1":
			return true, true
		case "false", "no", "0":
			return false, true
		}
		return false, false
	case int64:
		if t == 0 || t == 1 {
			return t == 1, true
		}
		return false, false
	default:
		return false, false
	}
}

// Slice returns the array payload.
func (v Value) Slice() ([]Value, bool) {
	items, ok := v.raw.([]Value)
	return items, ok
}

// Map returns the table payload.
func (v Value) Map() (map[string]Value, bool) {
	m, ok := v.raw.(map[string]Value)
	return m, ok
}

// StringSlice returns an array of strings, either from an array payload or
// by splitting a scalar string on commas.
func (v Value) StringSlice() ([]string, bool) {
	if items, ok := v.Slice(); ok {
		out := make([]string, 0, len(items))
		for _, item := range items {
			s, ok := item.String()
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	if s, ok := v.raw.(string); ok {
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out, true
	}
	return nil, false
}
