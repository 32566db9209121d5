package transform

import (
	"strconv"
	"strings"

	"github.com/leoygaga-prog/json-workbench/internal/value"
)

// hardFlattenDepth is the absolute recursion bound applied on top of any
// caller-supplied depth limit.
const hardFlattenDepth = 128

// flattenStrip flattens nested structure into dot-joined compound keys.
// With explicit targets only those fields are flattened in place; with
// none the whole record is replaced by its flattened form. Depth-limited
// recursion keeps sub-structure below the cutoff verbatim under its
// accumulated key. SmartEAV collapses {label, value} objects into a
// single column named after the label. A stripPrefix, when set, is
// removed from every resulting key in a second pass.
func flattenStrip(obj *value.Object, op Operation) *value.Object {
	keepPrefix := true
	if op.KeepPrefix != nil {
		keepPrefix = *op.KeepPrefix
	}
	limit := op.Depth
	if limit <= 0 || limit > hardFlattenDepth {
		limit = hardFlattenDepth
	}

	targets := op.targetFields()

	var out *value.Object
	if targets == nil {
		out = value.NewObject()
		for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
			flattenEntry(out, pair.Key, pair.Value, keepPrefix, limit, op.SmartEAV)
		}
	} else {
		out = value.CloneObject(obj)
		for _, key := range targets {
			v, ok := obj.Get(key)
			if !ok || !value.IsContainer(v) {
				continue
			}
			// Delete first so a flattened child key equal to the
			// original key does not collide with it.
			out.Delete(key)
			flattenEntry(out, key, v, keepPrefix, limit, op.SmartEAV)
		}
	}

	if op.StripPrefix == "" {
		return out
	}
	stripped := value.NewObject()
	for pair := out.Oldest(); pair != nil; pair = pair.Next() {
		key := pair.Key
		if strings.HasPrefix(key, op.StripPrefix) {
			key = key[len(op.StripPrefix):]
		}
		stripped.Set(key, pair.Value)
	}
	return stripped
}

// flattenEntry flattens one named field into out. Scalars and empty
// containers keep the field name as-is; nested structure is expanded
// with the name as leading prefix segment when keepPrefix is true.
func flattenEntry(out *value.Object, name string, v any, keepPrefix bool, depth int, eav bool) {
	if !value.IsContainer(v) || isEmptyContainer(v) {
		out.Set(name, v)
		return
	}
	prefix := ""
	if keepPrefix {
		prefix = name
	}
	flattenValue(out, prefix, v, depth, eav)
}

// flattenValue recursively expands v under prefix. depth counts the
// remaining levels to recurse; at zero the value is kept verbatim.
func flattenValue(out *value.Object, prefix string, v any, depth int, eav bool) {
	if !value.IsContainer(v) || isEmptyContainer(v) {
		out.Set(prefix, v)
		return
	}
	if depth <= 0 {
		out.Set(prefix, v)
		return
	}

	switch vv := v.(type) {
	case *value.Object:
		for pair := vv.Oldest(); pair != nil; pair = pair.Next() {
			flattenValue(out, joinKey(prefix, pair.Key), pair.Value, depth-1, eav)
		}
	case []any:
		for i, elem := range vv {
			// An entity-attribute-value element contributes its label
			// as the key segment instead of its numeric index, so
			// [{label:"Title",value:"Hello"}] collapses to a natural
			// column name.
			if eav {
				if obj, isObj := elem.(*value.Object); isObj {
					if label, val, ok := eavPair(obj); ok {
						key := joinKey(prefix, sanitizeLabel(label))
						if value.IsContainer(val) && !isEmptyContainer(val) {
							flattenValue(out, key, val, depth-1, eav)
						} else {
							out.Set(key, val)
						}
						continue
					}
				}
			}
			flattenValue(out, joinKey(prefix, strconv.Itoa(i)), elem, depth-1, eav)
		}
	}
}

// eavPair recognizes the entity-attribute-value shape: an object with a
// non-empty string "label" and a "value" key.
func eavPair(obj *value.Object) (label string, val any, ok bool) {
	lv, hasLabel := obj.Get("label")
	if !hasLabel {
		return "", nil, false
	}
	s, isStr := lv.(string)
	if !isStr || s == "" {
		return "", nil, false
	}
	val, hasValue := obj.Get("value")
	if !hasValue {
		return "", nil, false
	}
	return s, val, true
}

// sanitizeLabel keeps EAV labels from injecting path separators.
func sanitizeLabel(label string) string {
	return strings.ReplaceAll(label, ".", "_")
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func isEmptyContainer(v any) bool {
	switch vv := v.(type) {
	case *value.Object:
		return vv.Len() == 0
	case []any:
		return len(vv) == 0
	}
	return false
}
