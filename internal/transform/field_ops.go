package transform

import (
	"fmt"

	"github.com/leoygaga-prog/json-workbench/internal/value"
)

// addField sets a field on every record, overwriting an existing key.
// Mode "static" writes a literal (empty string when absent); mode "copy"
// duplicates the current value of fromKey. A copy from a missing source
// leaves the record without the target key.
func addField(obj *value.Object, op Operation) *value.Object {
	out := value.CloneObject(obj)
	switch op.Mode {
	case "copy":
		v, ok := obj.Get(op.FromKey)
		if !ok {
			return out
		}
		out.Set(op.Key, v)
	default: // "static"
		v := op.Value
		if v == nil {
			v = ""
		}
		out.Set(op.Key, v)
	}
	return out
}

// deleteField removes every listed key; absent keys are ignored.
func deleteField(obj *value.Object, op Operation) *value.Object {
	out := value.CloneObject(obj)
	for _, k := range op.targetFields() {
		out.Delete(k)
	}
	return out
}

// renameField moves from → to. Existing to is overwritten (keeping its
// position); a brand-new to lands at the end of the record.
func renameField(obj *value.Object, op Operation) *value.Object {
	v, ok := obj.Get(op.From)
	if !ok {
		return obj
	}
	out := value.CloneObject(obj)
	out.Delete(op.From)
	out.Set(op.To, v)
	return out
}

// updateValue replaces or decorates an existing field. "set" writes the
// literal; "prefixSuffix" only touches string values.
func updateValue(obj *value.Object, op Operation) *value.Object {
	cur, ok := obj.Get(op.Key)
	if !ok {
		return obj
	}
	out := value.CloneObject(obj)
	switch op.Mode {
	case "prefixSuffix":
		s, isStr := cur.(string)
		if !isStr {
			return obj
		}
		out.Set(op.Key, op.Prefix+s+op.Suffix)
	default: // "set"
		out.Set(op.Key, op.Value)
	}
	return out
}

// typeConvert coerces a field to string, number or boolean. A failed
// numeric coercion leaves the value in place and records a warning.
func typeConvert(obj *value.Object, op Operation, warn func(string)) *value.Object {
	cur, ok := obj.Get(op.Key)
	if !ok {
		return obj
	}
	out := value.CloneObject(obj)
	switch op.Target {
	case "string":
		out.Set(op.Key, value.Stringify(cur))
	case "number":
		n, ok := value.ToNumber(cur)
		if !ok {
			warn(fmt.Sprintf("cannot convert to number: %s", value.Stringify(cur)))
			return obj
		}
		out.Set(op.Key, n)
	case "boolean":
		out.Set(op.Key, value.Truthy(cur))
	}
	return out
}

// extractByCondition scans the list at source for the first element
// whose matchKey stringifies equal to matchValue, and copies that
// element's extractKey value into target. Non-list sources and
// no-match records pass through unchanged.
func extractByCondition(obj *value.Object, op Operation) *value.Object {
	src, ok := value.Lookup(obj, op.Source)
	if !ok {
		return obj
	}
	list, ok := src.([]any)
	if !ok {
		return obj
	}
	for _, elem := range list {
		mv, ok := value.Lookup(elem, op.MatchKey)
		if !ok || value.Stringify(mv) != op.MatchValue {
			continue
		}
		ev, ok := value.Lookup(elem, op.ExtractKey)
		if !ok {
			return obj
		}
		out := value.CloneObject(obj)
		out.Set(op.Target, ev)
		return out
	}
	return obj
}

// nestFields moves the named top-level fields into an object at target,
// merging into an existing mapping-valued target.
func nestFields(obj *value.Object, op Operation) *value.Object {
	fields := nestSourceFields(op)

	nested := value.NewObject()
	if cur, ok := obj.Get(op.Target); ok {
		if curObj, isObj := cur.(*value.Object); isObj {
			nested = value.CloneObject(curObj)
		}
	}

	out := value.CloneObject(obj)
	moved := false
	for _, f := range fields {
		v, ok := obj.Get(f)
		if !ok {
			continue
		}
		nested.Set(f, v)
		out.Delete(f)
		moved = true
	}
	if !moved && nested.Len() == 0 {
		return obj
	}
	out.Set(op.Target, nested)
	return out
}

// keyReorder emits the listed keys first (skipping absentees), then the
// remaining keys in their original relative order.
func keyReorder(obj *value.Object, op Operation) *value.Object {
	out := value.NewObject()
	listed := make(map[string]bool, len(op.Keys))
	for _, k := range op.Keys {
		listed[k] = true
		if v, ok := obj.Get(k); ok {
			out.Set(k, v)
		}
	}
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		if !listed[pair.Key] {
			out.Set(pair.Key, pair.Value)
		}
	}
	return out
}

// ReorderKeys applies a key-order hint to a record: hinted names first,
// remainder in original order. Used by exporters to bias column order.
func ReorderKeys(obj *value.Object, order []string) *value.Object {
	if len(order) == 0 {
		return obj
	}
	return keyReorder(obj, Operation{Type: OpKeyReorder, Keys: order})
}
