package filter

import "fmt"

// MaxConditions is the maximum number of conditions per expression.
const MaxConditions = 16

// Expression is a conjunction of exact-match conditions used as a retrieval pre-filter.
type Expression struct {
	must []Condition
}

// NewExpression validates and creates a filter Expression.
func NewExpression(must ...Condition) (Expression, error) {
	if len(must) > MaxConditions {
		return Expression{}, fmt.Errorf("too many conditions (max %d)", MaxConditions)
	}
	seen := make(map[string]struct{}, len(must))
	for _, c := range must {
		if _, dup := seen[c.key]; dup {
			return Expression{}, fmt.Errorf("duplicate condition on %q", c.key)
		}
		seen[c.key] = struct{}{}
	}
	return Expression{must: must}, nil
}

// Must returns the conditions that every hit has to satisfy.
func (e Expression) Must() []Condition { return e.must }

// IsEmpty reports whether the expression has no conditions.
func (e Expression) IsEmpty() bool { return len(e.must) == 0 }

// Condition is an exact equality predicate on a metadata field.
type Condition struct {
	key   string
	match string
}

// NewMatch creates an exact match condition.
func NewMatch(key, match string) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	if match == "" {
		return Condition{}, fmt.Errorf("match value is required for key %q", key)
	}
	return Condition{key: key, match: match}, nil
}

// Key returns the field name.
func (c Condition) Key() string { return c.key }

// Match returns the exact match value.
func (c Condition) Match() string { return c.match }
