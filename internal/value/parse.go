package value

import "strings"

// MaxParseDepth bounds recursive string→JSON unwrapping so adversarially
// deep input cannot exhaust the stack.
const MaxParseDepth = 64

// SmartParse recursively replaces strings that contain serialized JSON
// objects/arrays with their parsed form. Doubly-stringified JSON is fully
// unwrapped. Strings that fail to parse, or that parse to a non-container
// (e.g. a quoted number), are left untouched. Non-string scalars pass
// through unchanged.
func SmartParse(v any) any {
	return smartParse(v, MaxParseDepth)
}

func smartParse(v any, depth int) any {
	if depth <= 0 {
		return v
	}
	switch vv := v.(type) {
	case string:
		if !looksLikeJSON(vv) {
			return v
		}
		parsed, err := DecodeString(vv)
		if err != nil || !IsContainer(parsed) {
			return v
		}
		return smartParse(parsed, depth-1)
	case *Object:
		out := NewObject()
		for pair := vv.Oldest(); pair != nil; pair = pair.Next() {
			out.Set(pair.Key, smartParse(pair.Value, depth-1))
		}
		return out
	case []any:
		out := make([]any, len(vv))
		for i, e := range vv {
			out[i] = smartParse(e, depth-1)
		}
		return out
	default:
		return v
	}
}

// looksLikeJSON reports whether the trimmed string is bracketed like a
// JSON object or array. Cheap pre-check before attempting a full parse.
func looksLikeJSON(s string) bool {
	t := strings.TrimSpace(s)
	if len(t) < 2 {
		return false
	}
	return (strings.HasPrefix(t, "{") && strings.HasSuffix(t, "}")) ||
		(strings.HasPrefix(t, "[") && strings.HasSuffix(t, "]"))
}
