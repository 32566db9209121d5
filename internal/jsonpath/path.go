// Package jsonpath implements path-addressed edits on a value tree.
// Every function is copy-on-write: it returns a new root reflecting the
// edit (or the original root when the operation is inapplicable) and
// never mutates the input in place.
package jsonpath

import (
	"strconv"

	"github.com/leoygaga-prog/json-workbench/internal/value"
)

// Segment is one component of a path: an object key or an array index.
// IsIndex disambiguates Index=0 from an unset index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// Field returns a key segment.
func Field(key string) Segment { return Segment{Key: key} }

// Index returns an array-index segment.
func Index(i int) Segment { return Segment{Index: i, IsIndex: true} }

// Path addresses a location within a single value tree.
type Path []Segment

// asIndex coerces the segment to an array index. Negative indices are
// never valid, explicit or coerced.
func (s Segment) asIndex() (int, bool) {
	if s.IsIndex {
		return s.Index, s.Index >= 0
	}
	i, err := strconv.Atoi(s.Key)
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}

// asKey coerces the segment to an object key.
func (s Segment) asKey() string {
	if s.IsIndex {
		return strconv.Itoa(s.Index)
	}
	return s.Key
}

// Get returns the value at path. The boolean is false when any
// intermediate segment is absent or traverses a non-container, which
// distinguishes "missing" from a stored null.
func Get(root any, p Path) (any, bool) {
	cur := root
	for _, seg := range p {
		switch node := cur.(type) {
		case *value.Object:
			v, ok := node.Get(seg.asKey())
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			idx, ok := seg.asIndex()
			if !ok || idx >= len(node) {
				return nil, false
			}
			cur = node[idx]
		default:
			return nil, false
		}
	}
	return cur, true
}

// Set writes v at path and returns the new root. An empty path replaces
// the whole root. Writing through a missing or primitive node
// materializes the needed container (a list when the segment is an
// index, a mapping otherwise), silently discarding any primitive that
// was there. Writing past a list's bounds grows it, storing null in the
// holes.
func Set(root any, p Path, v any) any {
	if len(p) == 0 {
		return v
	}
	head, rest := p[0], p[1:]

	if node, ok := root.([]any); ok {
		idx, isIdx := head.asIndex()
		if isIdx {
			out := make([]any, len(node))
			copy(out, node)
			for len(out) <= idx {
				out = append(out, nil)
			}
			out[idx] = Set(out[idx], rest, v)
			return out
		}
		// Non-numeric key addressing a list: the list gives way to a
		// fresh mapping, same override policy as set-through-primitive.
		root = nil
	}

	if obj, ok := root.(*value.Object); ok {
		key := head.asKey()
		child, _ := obj.Get(key)
		out := value.CloneObject(obj)
		out.Set(key, Set(child, rest, v))
		return out
	}

	// Missing or primitive: materialize the container the segment needs.
	if idx, isIdx := head.asIndex(); isIdx {
		out := make([]any, idx+1)
		out[idx] = Set(nil, rest, v)
		return out
	}
	out := value.NewObject()
	out.Set(head.asKey(), Set(nil, rest, v))
	return out
}

// Rename changes the key addressed by path to newKey, preserving the
// key's position within its parent mapping. No-op when the path is
// empty, newKey is empty, the parent is not a mapping, or the old key
// is absent.
func Rename(root any, p Path, newKey string) any {
	if len(p) == 0 || newKey == "" {
		return root
	}
	parentPath, last := p[:len(p)-1], p[len(p)-1]
	parent, ok := Get(root, parentPath)
	if !ok {
		return root
	}
	obj, ok := parent.(*value.Object)
	if !ok {
		return root
	}
	oldKey := last.asKey()
	if _, ok := obj.Get(oldKey); !ok {
		return root
	}
	out := value.NewObject()
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Key == oldKey {
			out.Set(newKey, pair.Value)
			continue
		}
		if pair.Key == newKey {
			continue // overwritten by the renamed key
		}
		out.Set(pair.Key, pair.Value)
	}
	return Set(root, parentPath, out)
}

// Remove deletes the value at path. Removing a list element shifts the
// elements after it. Empty paths and non-container parents are no-ops.
func Remove(root any, p Path) any {
	if len(p) == 0 {
		return root
	}
	parentPath, last := p[:len(p)-1], p[len(p)-1]
	parent, ok := Get(root, parentPath)
	if !ok {
		return root
	}
	switch node := parent.(type) {
	case *value.Object:
		key := last.asKey()
		if _, ok := node.Get(key); !ok {
			return root
		}
		out := value.CloneObject(node)
		out.Delete(key)
		return Set(root, parentPath, out)
	case []any:
		idx, isIdx := last.asIndex()
		if !isIdx || idx >= len(node) {
			return root
		}
		out := make([]any, 0, len(node)-1)
		out = append(out, node[:idx]...)
		out = append(out, node[idx+1:]...)
		return Set(root, parentPath, out)
	default:
		return root
	}
}

// AddMapEntry sets key=v on the mapping at path. No-op when path does
// not resolve to a mapping.
func AddMapEntry(root any, p Path, key string, v any) any {
	node, ok := Get(root, p)
	if !ok {
		return root
	}
	obj, ok := node.(*value.Object)
	if !ok {
		return root
	}
	out := value.CloneObject(obj)
	out.Set(key, v)
	return Set(root, p, out)
}

// AddListItem appends v to the list at path. No-op when path does not
// resolve to a list.
func AddListItem(root any, p Path, v any) any {
	node, ok := Get(root, p)
	if !ok {
		return root
	}
	list, ok := node.([]any)
	if !ok {
		return root
	}
	out := make([]any, 0, len(list)+1)
	out = append(out, list...)
	out = append(out, v)
	return Set(root, p, out)
}

// FromAny converts a decoded JSON path (an array of strings and numbers,
// e.g. ["user", 0, "name"]) into a Path. Used at the app boundary.
func FromAny(raw []any) Path {
	p := make(Path, 0, len(raw))
	for _, seg := range raw {
		switch s := seg.(type) {
		case string:
			p = append(p, Field(s))
		case float64:
			p = append(p, Index(int(s)))
		case int:
			p = append(p, Index(s))
		default:
			if n, ok := value.ToNumber(seg); ok {
				if i, err := n.Int64(); err == nil {
					p = append(p, Index(int(i)))
					continue
				}
			}
			p = append(p, Field(value.Stringify(seg)))
		}
	}
	return p
}
