package sqlgen

import "strings"

// Comparison operators accepted by Statement.
const (
	OpEq   = "="
	OpNe   = "!="
	OpLt   = "<"
	OpLe   = "<="
	OpGt   = ">"
	OpGe   = ">="
	OpLike = "LIKE"
	OpIn   = "IN"
)

// Statement is a single comparison between a column and a literal, the leaf
// predicate of a Where clause.
//
// Statements are plain values. Copying one and changing the copy never
// affects the original, which lets the compiler rewrite a statement's key
// during many-to-many traversal without touching the statement the caller
// (or a sibling compilation) still holds.
type Statement struct {
	Key   string
	Op    string
	Value Literal

	// Values holds the literal list for the IN operator. Exactly one of
	// Value or Values is set.
	Values []Literal
}

// Eq builds "key = value".
func Eq(key string, v Literal) Statement { return Statement{Key: key, Op: OpEq, Value: v} }

// Ne builds "key != value".
func Ne(key string, v Literal) Statement { return Statement{Key: key, Op: OpNe, Value: v} }

// Lt builds "key < value".
func Lt(key string, v Literal) Statement { return Statement{Key: key, Op: OpLt, Value: v} }

// Le builds "key <= value".
func Le(key string, v Literal) Statement { return Statement{Key: key, Op: OpLe, Value: v} }

// Gt builds "key > value".
func Gt(key string, v Literal) Statement { return Statement{Key: key, Op: OpGt, Value: v} }

// Ge builds "key >= value".
func Ge(key string, v Literal) Statement { return Statement{Key: key, Op: OpGe, Value: v} }

// Like builds "key LIKE value".
func Like(key string, v Literal) Statement { return Statement{Key: key, Op: OpLike, Value: v} }

// In builds "key IN (v1, v2, ...)". Order of the list is preserved in the
// rendered text.
func In(key string, vals ...Literal) Statement {
	return Statement{Key: key, Op: OpIn, Values: vals}
}

// WithKey returns a copy of the statement with the key replaced. The
// receiver is left unchanged.
func (s Statement) WithKey(key string) Statement {
	s.Key = key
	return s
}

// SQL renders the comparison without any surrounding keyword.
func (s Statement) SQL() string {
	if s.Op == OpIn {
		parts := make([]string, len(s.Values))
		for i, v := range s.Values {
			parts[i] = v.SQL()
		}
		return s.Key + " IN (" + strings.Join(parts, ", ") + ")"
	}
	return s.Key + " " + s.Op + " " + s.Value.SQL()
}
