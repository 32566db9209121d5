// Package filter evaluates a two-level rule grammar over a dataset:
// groups combine with AND, rules within a group combine with OR. A free
// text query additionally matches against each record's serialized form.
// Evaluation never mutates the dataset; it produces an index view.
package filter

import (
	"strings"

	"github.com/google/uuid"

	"github.com/leoygaga-prog/json-workbench/internal/value"
)

// Operator is a string comparison applied to the field's stringified
// value. All operators are case-insensitive except equals.
type Operator string

const (
	OpContains    Operator = "contains"
	OpEquals      Operator = "equals"
	OpStartsWith  Operator = "startsWith"
	OpEndsWith    Operator = "endsWith"
	OpNotContains Operator = "notContains"
	OpIsEmpty     Operator = "isEmpty"
	OpIsNotEmpty  Operator = "isNotEmpty"
)

// Rule compares one dot-addressed field against a value.
type Rule struct {
	ID    string   `json:"id"`
	Field string   `json:"field"`
	Op    Operator `json:"op"`
	Value string   `json:"value"`
}

// Group is a set of OR-combined rules. A group with zero rules is
// vacuously true (and is pruned by RuleSet.Remove).
type Group struct {
	ID    string `json:"id"`
	Rules []Rule `json:"rules"`
}

// RuleSet holds the AND-combined groups for one dataset view.
type RuleSet struct {
	Groups []Group `json:"groups"`
}

// Add places a rule. By default a rule for a field already present in
// some group joins that group — same field means OR — unless
// forceNewGroup is set. Returns the placed rule (with a generated ID).
func (rs *RuleSet) Add(field string, op Operator, val string, forceNewGroup bool) Rule {
	rule := Rule{ID: uuid.NewString(), Field: field, Op: op, Value: val}
	if !forceNewGroup {
		for i := range rs.Groups {
			for _, r := range rs.Groups[i].Rules {
				if r.Field == field {
					rs.Groups[i].Rules = append(rs.Groups[i].Rules, rule)
					return rule
				}
			}
		}
	}
	rs.Groups = append(rs.Groups, Group{ID: uuid.NewString(), Rules: []Rule{rule}})
	return rule
}

// Remove deletes a rule by ID; a group left empty is removed with it.
func (rs *RuleSet) Remove(ruleID string) bool {
	for gi := range rs.Groups {
		for ri, r := range rs.Groups[gi].Rules {
			if r.ID != ruleID {
				continue
			}
			g := &rs.Groups[gi]
			g.Rules = append(g.Rules[:ri], g.Rules[ri+1:]...)
			if len(g.Rules) == 0 {
				rs.Groups = append(rs.Groups[:gi], rs.Groups[gi+1:]...)
			}
			return true
		}
	}
	return false
}

// Empty reports whether the set has no rules at all.
func (rs *RuleSet) Empty() bool {
	return len(rs.Groups) == 0
}

// Evaluate computes the matched original-dataset indices, ascending.
// A record matches when the query (if any) appears in its serialized
// form case-insensitively AND every group has at least one matching rule.
func Evaluate(records []any, query string, groups []Group) []int {
	// The query is matched verbatim (lowercased, no trimming): whitespace
	// in it is part of the substring test.
	query = strings.ToLower(query)
	matched := make([]int, 0, len(records))
	for i, rec := range records {
		if query != "" && !recordContains(rec, query) {
			continue
		}
		if !groupsMatch(rec, groups) {
			continue
		}
		matched = append(matched, i)
	}
	return matched
}

func groupsMatch(rec any, groups []Group) bool {
	for _, g := range groups {
		if len(g.Rules) == 0 {
			continue
		}
		anyMatch := false
		for _, r := range g.Rules {
			if ruleMatches(rec, r) {
				anyMatch = true
				break
			}
		}
		if !anyMatch {
			return false
		}
	}
	return true
}

// ruleMatches evaluates one rule against the string form of the field's
// dot-addressed value. Resolution walks nested mappings only; a path
// through a list yields the empty string. Missing fields stringify to "".
func ruleMatches(rec any, r Rule) bool {
	fieldVal := ""
	if v, ok := value.LookupObjects(rec, r.Field); ok {
		fieldVal = value.Stringify(v)
	}
	switch r.Op {
	case OpEquals:
		return fieldVal == r.Value
	case OpContains:
		return strings.Contains(strings.ToLower(fieldVal), strings.ToLower(r.Value))
	case OpNotContains:
		return !strings.Contains(strings.ToLower(fieldVal), strings.ToLower(r.Value))
	case OpStartsWith:
		return strings.HasPrefix(strings.ToLower(fieldVal), strings.ToLower(r.Value))
	case OpEndsWith:
		return strings.HasSuffix(strings.ToLower(fieldVal), strings.ToLower(r.Value))
	case OpIsEmpty:
		return fieldVal == ""
	case OpIsNotEmpty:
		return fieldVal != ""
	default:
		return false
	}
}

func recordContains(rec any, lowerQuery string) bool {
	s, err := value.EncodeString(rec)
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(s), lowerQuery)
}
