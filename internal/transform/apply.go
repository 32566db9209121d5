package transform

import (
	"github.com/leoygaga-prog/json-workbench/internal/value"
)

// Apply runs one operation over every record and returns the new record
// slice plus accumulated per-record warnings. Records that are not
// mappings pass through unchanged. The error return is reserved for
// invalid top-level parameters, detected before any record is touched.
func Apply(records []any, op Operation) ([]any, []string, error) {
	if err := op.Validate(); err != nil {
		return nil, nil, err
	}

	var warnings []string
	warn := func(msg string) { warnings = append(warnings, msg) }

	out := make([]any, len(records))
	for i, rec := range records {
		obj, ok := rec.(*value.Object)
		if !ok {
			out[i] = rec
			continue
		}
		out[i] = applyOne(obj, op, warn)
	}
	return out, warnings, nil
}

// applyOne maps a single record through the operation.
func applyOne(obj *value.Object, op Operation, warn func(string)) *value.Object {
	switch op.Type {
	case OpAddField:
		return addField(obj, op)
	case OpDeleteField:
		return deleteField(obj, op)
	case OpRenameField:
		return renameField(obj, op)
	case OpUpdateValue:
		return updateValue(obj, op)
	case OpTypeConvert:
		return typeConvert(obj, op, warn)
	case OpExtractByCondition:
		return extractByCondition(obj, op)
	case OpNestFields:
		return nestFields(obj, op)
	case OpFlattenStrip:
		return flattenStrip(obj, op)
	case OpKeyReorder:
		return keyReorder(obj, op)
	case OpEscapeString:
		return escapeFields(obj, op, warn)
	case OpUnescapeString:
		return unescapeFields(obj, op)
	case OpParseJSON:
		return parseJSONFields(obj, op)
	default:
		return obj
	}
}
