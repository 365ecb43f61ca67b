package tracker

import (
	"fmt"
	"strings"
)

// Query fields understood by SearchIssues.
const (
	FieldProject = "project"
	FieldStatus  = "status"
	FieldSprint  = "sprint"
	FieldKey     = "key"
)

var validFields = map[string]bool{
	FieldProject: true,
	FieldStatus:  true,
	FieldSprint:  true,
	FieldKey:     true,
}

// Clause is a single `field = value` condition.
type Clause struct {
	Field string
	Value string
}

// Query is a conjunction of clauses. The empty query matches every issue.
type Query struct {
	Clauses []Clause
}

// ParseQuery parses the JQL-like subset `clause (AND clause)*` where each
// clause is `field = value`. Values may be bare words or double-quoted.
// Status values are normalized to their upper-case names.
func ParseQuery(q string) (Query, error) {
	var query Query
	q = strings.TrimSpace(q)
	if q == "" {
		return query, nil
	}
	for _, part := range splitAnd(q) {
		field, value, ok := strings.Cut(part, "=")
		if !ok {
			return Query{}, fmt.Errorf("query clause %q: missing '='", part)
		}
		field = strings.ToLower(strings.TrimSpace(field))
		if !validFields[field] {
			return Query{}, fmt.Errorf("query clause %q: unknown field %q; valid: project, status, sprint, key", part, field)
		}
		value = strings.TrimSpace(value)
		if len(value) >= 2 && strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) {
			value = value[1 : len(value)-1]
		}
		if value == "" {
			return Query{}, fmt.Errorf("query clause %q: empty value", part)
		}
		if field == FieldStatus {
			code, err := ParseStatusName(value)
			if err != nil {
				return Query{}, err
			}
			value = code.String()
		}
		query.Clauses = append(query.Clauses, Clause{Field: field, Value: value})
	}
	return query, nil
}

// splitAnd splits on the AND keyword (any case) outside double quotes.
func splitAnd(q string) []string {
	var parts []string
	inQuote := false
	start := 0
	for i := 0; i < len(q); i++ {
		switch {
		case q[i] == '"':
			inQuote = !inQuote
		case !inQuote && i+5 <= len(q) && strings.EqualFold(q[i:i+5], " and "):
			parts = append(parts, strings.TrimSpace(q[start:i]))
			start = i + 5
			i += 4
		}
	}
	return append(parts, strings.TrimSpace(q[start:]))
}

// IssueView is the tracker-side state of an issue a query is evaluated against.
type IssueView struct {
	Key     string
	Project string
	Status  StatusCode
	Sprints []string // every sprint the issue was ever assigned to
}

// Matches reports whether the issue satisfies every clause.
func (q Query) Matches(v IssueView) bool {
	for _, c := range q.Clauses {
		switch c.Field {
		case FieldProject:
			if !strings.EqualFold(v.Project, c.Value) {
				return false
			}
		case FieldKey:
			if !strings.EqualFold(v.Key, c.Value) {
				return false
			}
		case FieldStatus:
			if v.Status.String() != c.Value {
				return false
			}
		case FieldSprint:
			found := false
			for _, s := range v.Sprints {
				if s == c.Value {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}
	return true
}
