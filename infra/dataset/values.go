package dataset

import (
	"math"
	"strconv"
	"strings"
)

// unwrap converts a Firestore typed value into its plain form. Plain values
// are returned unchanged.
func unwrap(v any) any {
	m, ok := v.(map[string]any)
	if !ok || len(m) != 1 {
		return v
	}
	for k, inner := range m {
		switch k {
		case "integerValue", "doubleValue", "stringValue", "booleanValue", "timestampValue":
			return inner
		case "nullValue":
			return nil
		case "mapValue":
			fields, _ := inner.(map[string]any)
			return unwrapFields(fields["fields"])
		case "arrayValue":
			arr, _ := inner.(map[string]any)
			vals, _ := arr["values"].([]any)
			out := make([]any, len(vals))
			for i, e := range vals {
				out[i] = unwrap(e)
			}
			return out
		}
	}
	return v
}

func unwrapFields(v any) map[string]any {
	in, _ := v.(map[string]any)
	out := make(map[string]any, len(in))
	for k, e := range in {
		out[k] = unwrap(e)
	}
	return out
}

// number reads a numeric field. Missing, malformed or non-finite values are 0.
func number(v any) float64 {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		f = parsed
	case bool:
		if t {
			return 1
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func flag(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		return err == nil && b
	case float64:
		return t != 0
	}
	return false
}

func text(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

// faultFlags accepts the name to flag map scouts submit, a list of names,
// or a comma separated string of names.
func faultFlags(v any) map[string]bool {
	out := map[string]bool{}
	switch t := v.(type) {
	case map[string]any:
		for k, f := range t {
			out[k] = flag(f)
		}
	case []any:
		for _, e := range t {
			if s := strings.TrimSpace(text(e)); s != "" {
				out[s] = true
			}
		}
	case string:
		for _, s := range strings.Split(t, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out[s] = true
			}
		}
	}
	return out
}
