package value

import (
	"strconv"
	"strings"
)

// Lookup resolves a dot-joined path against a value tree, descending
// through objects by key and through arrays by numeric index.
// Returns (value, true) on success; missing is distinguished from a
// stored null.
func Lookup(root any, path string) (any, bool) {
	if path == "" {
		return root, true
	}
	cur := root
	for _, part := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case *Object:
			v, ok := node.Get(part)
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			idx, err := strconv.Atoi(part)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			cur = node[idx]
		default:
			return nil, false
		}
	}
	return cur, true
}

// LookupObjects resolves a dot-joined path descending through objects
// only. A path segment that lands on an array (or any non-object) stops
// resolution with a miss — the filter grammar's field semantics.
func LookupObjects(root any, path string) (any, bool) {
	if path == "" {
		return root, true
	}
	cur := root
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(*Object)
		if !ok {
			return nil, false
		}
		v, ok := obj.Get(part)
		if !ok {
			return nil, false
		}
		cur = v
	}
	return cur, true
}
