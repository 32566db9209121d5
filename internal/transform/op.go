// Package transform implements the batch record-rewriting operations.
// Every operation is a pure map from one record to one record, applied
// independently across a dataset; per-record failures never abort the
// batch — they become no-ops or warnings.
package transform

import "fmt"

// Operation types.
const (
	OpAddField           = "addField"
	OpDeleteField        = "deleteField"
	OpRenameField        = "renameField"
	OpUpdateValue        = "updateValue"
	OpTypeConvert        = "typeConvert"
	OpExtractByCondition = "extractByCondition"
	OpNestFields         = "nestFields"
	OpFlattenStrip       = "flattenStrip"
	OpKeyReorder         = "keyReorder"
	OpEscapeString       = "escapeString"
	OpUnescapeString     = "unescapeString"
	OpParseJSON          = "parseJSON"
)

// Operation is the declarative descriptor for one batch operation — a
// tagged union over Type. Unused fields are ignored per type.
type Operation struct {
	Type string `json:"type"`

	// Field targeting. Keys doubles as the ordered name list for
	// deleteField, nestFields and keyReorder; Key is the single-field
	// form for addField, updateValue, typeConvert and the string ops.
	Key  string   `json:"key,omitempty"`
	Keys []string `json:"keys,omitempty"`

	// addField / updateValue
	Mode    string `json:"mode,omitempty"` // "static"|"copy" / "set"|"prefixSuffix"
	Value   any    `json:"value,omitempty"`
	FromKey string `json:"fromKey,omitempty"`
	Prefix  string `json:"prefix,omitempty"`
	Suffix  string `json:"suffix,omitempty"`

	// renameField
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`

	// typeConvert: "string" | "number" | "boolean"
	// extractByCondition / nestFields / flattenStrip: target field name
	Target string `json:"target,omitempty"`

	// extractByCondition
	Source     string `json:"source,omitempty"`
	MatchKey   string `json:"matchKey,omitempty"`
	MatchValue string `json:"matchValue,omitempty"`
	ExtractKey string `json:"extractKey,omitempty"`

	// flattenStrip
	StripPrefix string `json:"stripPrefix,omitempty"`
	Depth       int    `json:"depth,omitempty"` // 0 = unlimited
	KeepPrefix  *bool  `json:"keepPrefix,omitempty"`
	SmartEAV    bool   `json:"smartEav,omitempty"`
}

// Validate checks the operation's top-level parameters. A failure here
// means the whole operation is a no-op on the dataset; it is the only
// error path in the engine.
func (op Operation) Validate() error {
	switch op.Type {
	case OpAddField:
		if op.Key == "" {
			return fmt.Errorf("addField: key is required")
		}
		if op.Mode == "copy" && op.FromKey == "" {
			return fmt.Errorf("addField: fromKey is required in copy mode")
		}
	case OpDeleteField:
		if len(op.Keys) == 0 && op.Key == "" {
			return fmt.Errorf("deleteField: at least one key is required")
		}
	case OpRenameField:
		if op.From == "" || op.To == "" {
			return fmt.Errorf("renameField: from and to are required")
		}
	case OpUpdateValue:
		if op.Key == "" {
			return fmt.Errorf("updateValue: key is required")
		}
	case OpTypeConvert:
		if op.Key == "" {
			return fmt.Errorf("typeConvert: key is required")
		}
		switch op.Target {
		case "string", "number", "boolean":
		default:
			return fmt.Errorf("typeConvert: unknown target type %q", op.Target)
		}
	case OpExtractByCondition:
		if op.Source == "" || op.MatchKey == "" || op.ExtractKey == "" || op.Target == "" {
			return fmt.Errorf("extractByCondition: source, matchKey, extractKey and target are required")
		}
	case OpNestFields:
		if op.Target == "" {
			return fmt.Errorf("nestFields: target is required")
		}
		if len(nestSourceFields(op)) == 0 {
			return fmt.Errorf("nestFields: no source fields")
		}
	case OpFlattenStrip:
		// All parameters optional: no targets means the whole record.
	case OpKeyReorder:
		if len(op.Keys) == 0 {
			return fmt.Errorf("keyReorder: order list is required")
		}
	case OpEscapeString, OpUnescapeString, OpParseJSON:
		// No targets means all fields / the whole record.
	default:
		return fmt.Errorf("unknown operation type %q", op.Type)
	}
	return nil
}

// targetFields returns the explicit field targets, or nil meaning
// "all fields" for the operations that support it.
func (op Operation) targetFields() []string {
	if len(op.Keys) > 0 {
		return op.Keys
	}
	if op.Key != "" {
		return []string{op.Key}
	}
	return nil
}

// nestSourceFields returns the nestFields sources with the target field
// excluded, so the nested object never swallows itself.
func nestSourceFields(op Operation) []string {
	var out []string
	for _, f := range op.Keys {
		if f != "" && f != op.Target {
			out = append(out, f)
		}
	}
	return out
}
