package value

import (
	"encoding/json"
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ── Value model ────────────────────────────────────────────
// A Value is an untyped JSON tree: nil, bool, string, json.Number,
// float64 (frontend-supplied), *Object, or []any.
//
// Objects preserve insertion order so record key order survives
// decode → transform → encode. Numbers decoded from files are always
// json.Number, which keeps integers beyond float64 precision intact.

// Object is an insertion-ordered string-keyed mapping.
type Object = orderedmap.OrderedMap[string, any]

// NewObject creates an empty ordered object.
func NewObject() *Object {
	return orderedmap.New[string, any]()
}

// IsContainer reports whether v is an object or an array.
func IsContainer(v any) bool {
	switch v.(type) {
	case *Object, []any:
		return true
	}
	return false
}

// CloneObject returns a shallow copy of obj preserving key order.
func CloneObject(obj *Object) *Object {
	out := NewObject()
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		out.Set(pair.Key, pair.Value)
	}
	return out
}

// Clone deep-copies a value tree. Scalars are returned as-is.
func Clone(v any) any {
	switch vv := v.(type) {
	case *Object:
		out := NewObject()
		for pair := vv.Oldest(); pair != nil; pair = pair.Next() {
			out.Set(pair.Key, Clone(pair.Value))
		}
		return out
	case []any:
		out := make([]any, len(vv))
		for i, e := range vv {
			out[i] = Clone(e)
		}
		return out
	default:
		return v
	}
}

// Keys returns obj's keys in insertion order.
func Keys(obj *Object) []string {
	keys := make([]string, 0, obj.Len())
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Stringify converts a value to its generic string form.
// nil becomes "", scalars use their natural text, containers serialize
// to JSON. Used for filter comparison and distinct-value sampling.
func Stringify(v any) string {
	switch vv := v.(type) {
	case nil:
		return ""
	case string:
		return vv
	case bool:
		if vv {
			return "true"
		}
		return "false"
	case json.Number:
		return vv.String()
	case float64:
		return strconv.FormatFloat(vv, 'f', -1, 64)
	case int:
		return strconv.Itoa(vv)
	case int64:
		return strconv.FormatInt(vv, 10)
	default:
		s, err := EncodeString(v)
		if err != nil {
			return ""
		}
		return s
	}
}

// Truthy applies generic boolean coercion: nil, false, zero and the
// empty string are false; everything else (including containers) is true.
func Truthy(v any) bool {
	switch vv := v.(type) {
	case nil:
		return false
	case bool:
		return vv
	case string:
		return vv != ""
	case json.Number:
		f, err := vv.Float64()
		return err != nil || f != 0
	case float64:
		return vv != 0
	case int:
		return vv != 0
	case int64:
		return vv != 0
	default:
		return true
	}
}

// ToNumber coerces a value to a json.Number.
// Returns false when the value has no numeric form (the caller decides
// whether that is a warning).
func ToNumber(v any) (json.Number, bool) {
	switch vv := v.(type) {
	case json.Number:
		return vv, true
	case float64:
		return json.Number(strconv.FormatFloat(vv, 'f', -1, 64)), true
	case int:
		return json.Number(strconv.Itoa(vv)), true
	case int64:
		return json.Number(strconv.FormatInt(vv, 10)), true
	case bool:
		if vv {
			return json.Number("1"), true
		}
		return json.Number("0"), true
	case string:
		s := strings.TrimSpace(vv)
		if s == "" {
			return "", false
		}
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return "", false
		}
		// Keep the literal text when it is already valid JSON number
		// syntax, so big integers stay lossless.
		if isJSONNumber(s) {
			return json.Number(s), true
		}
		f, _ := strconv.ParseFloat(s, 64)
		return json.Number(strconv.FormatFloat(f, 'f', -1, 64)), true
	default:
		return "", false
	}
}

// isJSONNumber reports whether s is valid JSON number syntax.
func isJSONNumber(s string) bool {
	var n json.Number
	return json.Unmarshal([]byte(s), &n) == nil
}
