package internal

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Cloner is implemented by values that know how to deep-copy themselves.
// DeepCopy defers to it for types it does not understand natively.
type Cloner interface {
	CloneValue() any
}

// SplitList flattens v into an ordered list of trimmed, non-empty strings.
// Strings are split on delim (any whitespace when delim is a single space),
// slices are walked recursively and numbers are formatted. The second return
// is false when v, or one of its leaves, is of an unsupported type.
func SplitList(v any, delim string) ([]string, bool) {
	out := make([]string, 0)
	ok := appendList(&out, v, delim)
	return out, ok
}

func appendList(out *[]string, v any, delim string) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		var parts []string
		if delim == ListDelimSpace {
			parts = strings.Fields(val)
		} else {
			parts = strings.Split(val, delim)
		}
		for _, part := range parts {
			part = strings.Trim(part, ListCutset)
			if part != StringValueEmpty {
				*out = append(*out, part)
			}
		}
		return true
	case []string:
		for _, item := range val {
			appendList(out, item, delim)
		}
		return true
	case []any:
		ok := true
		for _, item := range val {
			if !appendList(out, item, delim) {
				ok = false
			}
		}
		return ok
	}
	if s, isScalar := FormatScalar(v); isScalar {
		return appendList(out, s, delim)
	}
	return false
}

// Dedupe removes repeated entries, keeping the first occurrence.
func Dedupe(list []string) []string {
	if len(list) < 2 {
		return list
	}
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, item := range list {
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

// FormatScalar renders strings and numbers as attribute text.
// Booleans, lists and maps are not scalars for this purpose.
func FormatScalar(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case int:
		return strconv.Itoa(val), true
	case int8, int16, int32, int64:
		return strconv.FormatInt(reflect.ValueOf(val).Int(), 10), true
	case uint, uint8, uint16, uint32, uint64:
		return strconv.FormatUint(reflect.ValueOf(val).Uint(), 10), true
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case fmt.Stringer:
		return val.String(), true
	}
	return StringValueEmpty, false
}

// ToInt converts integers, integral floats and numeric strings.
func ToInt(v any) (int64, bool) {
	switch val := v.(type) {
	case int:
		return int64(val), true
	case int8, int16, int32, int64:
		return reflect.ValueOf(val).Int(), true
	case uint, uint8, uint16, uint32, uint64:
		u := reflect.ValueOf(val).Uint()
		if u > math.MaxInt64 {
			return 0, false
		}
		return int64(u), true
	case float32:
		return floatToInt(float64(val))
	case float64:
		return floatToInt(val)
	case string:
		s := strings.TrimSpace(val)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return floatToInt(f)
		}
	}
	return 0, false
}

func floatToInt(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int64(f), true
}

// ToFloat converts any numeric value or numeric string.
func ToFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float32:
		return float64(val), true
	case float64:
		return val, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		return f, err == nil
	}
	if i, ok := ToInt(v); ok {
		return float64(i), true
	}
	return 0, false
}

// ParseBool accepts booleans, integers and the usual string spellings.
func ParseBool(v any) (bool, bool) {
	switch val := v.(type) {
	case bool:
		return val, true
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case BoolStringTrue, BoolStringYes, BoolStringOn, BoolStringOne:
			return true, true
		case BoolStringFalse, BoolStringNo, BoolStringOff, BoolStringZero, StringValueEmpty:
			return false, true
		}
		return false, false
	}
	if i, ok := ToInt(v); ok {
		return i != 0, true
	}
	return false, false
}

// IsEmpty reports whether v is nil, an empty string or an empty collection.
func IsEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == StringValueEmpty
	case []string:
		return len(val) == 0
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	case interface{ Len() int }:
		return val.Len() == 0
	}
	return false
}

// DeepCopy copies lists and maps recursively. Scalars are returned as-is.
func DeepCopy(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case []string:
		if val == nil {
			return []string(nil)
		}
		out := make([]string, len(val))
		copy(out, val)
		return out
	case []any:
		if val == nil {
			return []any(nil)
		}
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = DeepCopy(item)
		}
		return out
	case map[string]any:
		if val == nil {
			return map[string]any(nil)
		}
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = DeepCopy(item)
		}
		return out
	case map[string]string:
		out := make(map[string]string, len(val))
		for k, item := range val {
			out[k] = item
		}
		return out
	case Cloner:
		return val.CloneValue()
	}
	return v
}
