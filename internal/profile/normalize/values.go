package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/janisto/profile-composer/internal/profile"
)

// Issue describes a field that was present but could not be used.
type Issue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Issues collects normalization problems. A non-empty list never means the
// record was rejected.
type Issues []Issue

func (is *Issues) add(field, format string, args ...any) {
	*is = append(*is, Issue{Field: field, Reason: fmt.Sprintf(format, args...)})
}

// asRecord accepts the map shapes produced by encoding/json and Firestore.
func asRecord(v any) (profile.Record, bool) {
	switch t := v.(type) {
	case profile.Record:
		return t, t != nil
	case map[string]any:
		return profile.Record(t), t != nil
	default:
		return nil, false
	}
}

func asList(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []map[string]any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out, true
	case []profile.Record:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out, true
	default:
		return nil, false
	}
}

// scalarString converts strings and numbers to a trimmed string.
func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), true
	case json.Number:
		return t.String(), true
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return "", false
		}
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case int:
		return strconv.Itoa(t), true
	default:
		return "", false
	}
}

func asFloat(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case int64:
		f = float64(t)
	case int:
		f = float64(t)
	case json.Number:
		p, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = p
	case string:
		p, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		f = p
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// text returns the first key holding a non-empty string. Keys holding a
// value of another type are reported and skipped.
func text(rec profile.Record, field string, issues *Issues, keys ...string) (string, bool) {
	for _, k := range keys {
		v, ok := rec[k]
		if !ok || v == nil {
			continue
		}
		s, isString := v.(string)
		if !isString {
			issues.add(field, "key %q has unexpected type %T", k, v)
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			return s, true
		}
	}
	return "", false
}

// identifier is like text but also accepts numeric values.
func identifier(rec profile.Record, field string, issues *Issues, keys ...string) (string, bool) {
	for _, k := range keys {
		v, ok := rec[k]
		if !ok || v == nil {
			continue
		}
		s, ok := scalarString(v)
		if !ok {
			issues.add(field, "key %q has unexpected type %T", k, v)
			continue
		}
		if s != "" {
			return s, true
		}
	}
	return "", false
}

// flag returns the first key holding a boolean.
func flag(rec profile.Record, keys ...string) (value bool, present bool) {
	for _, k := range keys {
		if b, ok := rec[k].(bool); ok {
			return b, true
		}
	}
	return false, false
}

func number(rec profile.Record, field string, issues *Issues, keys ...string) *float64 {
	for _, k := range keys {
		v, ok := rec[k]
		if !ok || v == nil {
			continue
		}
		f, ok := asFloat(v)
		if !ok {
			issues.add(field, "key %q is not numeric", k)
			continue
		}
		return &f
	}
	return nil
}

// nested returns the first key holding an object.
func nested(rec profile.Record, keys ...string) profile.Record {
	for _, k := range keys {
		if r, ok := asRecord(rec[k]); ok {
			return r
		}
	}
	return nil
}

// unwrap descends through envelope keys while they hold objects.
func unwrap(rec profile.Record, envelopes ...string) profile.Record {
	for _, k := range envelopes {
		if inner, ok := asRecord(rec[k]); ok {
			rec = inner
		}
	}
	return rec
}

func ptr(s string) *string {
	return &s
}
