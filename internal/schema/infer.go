// Package schema builds a summarized shape descriptor from a bounded
// sample of records. It is advisory only: it feeds the interactive field
// picker and never gates a transform.
package schema

import (
	"github.com/leoygaga-prog/json-workbench/internal/value"
)

// Node kinds.
const (
	KindObject = "object"
	KindArray  = "array"
	KindValue  = "value"
)

// Node describes the inferred shape at one level of the tree.
type Node struct {
	Kind string `json:"kind"`

	// KindObject: union of keys seen across the sample, first-seen order.
	Keys   []string         `json:"keys,omitempty"`
	Fields map[string]*Node `json:"fields,omitempty"`

	// KindArray: one node summarizing all elements, plus distinct
	// stringified values per discriminator key of object elements.
	Item     *Node               `json:"item,omitempty"`
	Distinct map[string][]string `json:"distinct,omitempty"`
}

const (
	// DefaultMaxDepth caps recursion at the public entry point.
	DefaultMaxDepth = 6
	// sampleLimit bounds how many values are examined per level.
	sampleLimit = 50
	// distinctLimit bounds distinct values collected per discriminator.
	distinctLimit = 40
)

// discriminatorKeys are the fields sampled for distinct values inside
// homogeneous arrays, to drive filter-by-value UI affordances.
var discriminatorKeys = []string{"label", "type", "category", "name"}

// Infer classifies a sample of values. maxDepth <= 0 uses DefaultMaxDepth.
func Infer(samples []any, maxDepth int) *Node {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return infer(samples, maxDepth)
}

func infer(samples []any, depth int) *Node {
	if depth <= 0 || len(samples) == 0 {
		return &Node{Kind: KindValue}
	}
	if len(samples) > sampleLimit {
		samples = samples[:sampleLimit]
	}

	// Serialized JSON in string fields still describes shape; coerce
	// before classifying.
	coerced := make([]any, len(samples))
	for i, s := range samples {
		coerced[i] = value.SmartParse(s)
	}

	// Arrays win: merge elements across all sampled arrays one level
	// deep and summarize the merged item sample.
	var merged []any
	hasArray := false
	for _, s := range coerced {
		arr, ok := s.([]any)
		if !ok {
			continue
		}
		hasArray = true
		for _, e := range arr {
			if len(merged) < sampleLimit {
				merged = append(merged, e)
			}
		}
	}
	if hasArray {
		return &Node{
			Kind:     KindArray,
			Item:     infer(merged, depth-1),
			Distinct: collectDistinct(merged),
		}
	}

	hasObject := false
	var keys []string
	byKey := map[string][]any{}
	for _, s := range coerced {
		obj, ok := s.(*value.Object)
		if !ok {
			continue
		}
		hasObject = true
		for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
			if _, seen := byKey[pair.Key]; !seen {
				keys = append(keys, pair.Key)
			}
			byKey[pair.Key] = append(byKey[pair.Key], pair.Value)
		}
	}
	if hasObject {
		fields := make(map[string]*Node, len(keys))
		for _, k := range keys {
			fields[k] = infer(byKey[k], depth-1)
		}
		return &Node{Kind: KindObject, Keys: keys, Fields: fields}
	}

	return &Node{Kind: KindValue}
}

// collectDistinct gathers up to distinctLimit distinct stringified
// values per discriminator key from object elements.
func collectDistinct(elems []any) map[string][]string {
	out := map[string][]string{}
	for _, key := range discriminatorKeys {
		seen := map[string]bool{}
		var vals []string
		for _, e := range elems {
			obj, ok := e.(*value.Object)
			if !ok {
				continue
			}
			v, ok := obj.Get(key)
			if !ok {
				continue
			}
			s := value.Stringify(v)
			if seen[s] {
				continue
			}
			seen[s] = true
			vals = append(vals, s)
			if len(vals) >= distinctLimit {
				break
			}
		}
		if len(vals) > 0 {
			out[key] = vals
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
