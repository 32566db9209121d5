package transform

import (
	"fmt"
	"strings"

	"github.com/leoygaga-prog/json-workbench/internal/value"
)

// escaper replaces the five escape-sensitive characters with their
// two-character sequences in a single pass, so an inserted backslash is
// never re-escaped.
var escaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// escapeFields escapes the targeted string fields (all fields when none
// are named). Object/array values are serialized to a JSON string; a
// serialization failure warns when the field was explicitly targeted and
// is silently skipped in all-fields mode.
func escapeFields(obj *value.Object, op Operation, warn func(string)) *value.Object {
	targets := op.targetFields()
	explicit := targets != nil
	if targets == nil {
		targets = value.Keys(obj)
	}

	out := value.CloneObject(obj)
	for _, key := range targets {
		v, ok := obj.Get(key)
		if !ok {
			continue
		}
		switch vv := v.(type) {
		case string:
			out.Set(key, escaper.Replace(vv))
		case *value.Object, []any:
			s, err := value.EncodeString(vv)
			if err != nil {
				if explicit {
					warn(fmt.Sprintf("cannot serialize field %q: %v", key, err))
				}
				continue
			}
			out.Set(key, s)
		}
	}
	return out
}

// unescapeFields decodes escape sequences in the targeted string fields.
func unescapeFields(obj *value.Object, op Operation) *value.Object {
	targets := op.targetFields()
	if targets == nil {
		targets = value.Keys(obj)
	}
	out := value.CloneObject(obj)
	for _, key := range targets {
		v, ok := obj.Get(key)
		if !ok {
			continue
		}
		if s, isStr := v.(string); isStr {
			out.Set(key, unescapeString(s))
		}
	}
	return out
}

// unescapeString scans left to right with an explicit index so decoded
// characters are never re-processed. A backslash followed by one of
// n t r " ' \ emits the decoded character and advances two positions; an
// unrecognized escape emits the backslash alone and advances one, so the
// following character is re-scanned as a literal.
func unescapeString(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		c := s[i]
		if c == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 'n':
				b.WriteByte('\n')
				i += 2
				continue
			case 't':
				b.WriteByte('\t')
				i += 2
				continue
			case 'r':
				b.WriteByte('\r')
				i += 2
				continue
			case '"':
				b.WriteByte('"')
				i += 2
				continue
			case '\'':
				b.WriteByte('\'')
				i += 2
				continue
			case '\\':
				b.WriteByte('\\')
				i += 2
				continue
			}
			b.WriteByte('\\')
			i++
			continue
		}
		b.WriteByte(c)
		i++
	}
	return b.String()
}

// parseJSONFields applies the smart recursive parse to the targeted
// fields, or to the whole record when none are named.
func parseJSONFields(obj *value.Object, op Operation) *value.Object {
	targets := op.targetFields()
	if targets == nil {
		parsed, _ := value.SmartParse(obj).(*value.Object)
		if parsed == nil {
			return obj
		}
		return parsed
	}
	out := value.CloneObject(obj)
	for _, key := range targets {
		v, ok := obj.Get(key)
		if !ok {
			continue
		}
		out.Set(key, value.SmartParse(v))
	}
	return out
}
