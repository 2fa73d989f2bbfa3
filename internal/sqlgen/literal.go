package sqlgen

import (
	"strconv"
	"strings"
)

// Literal is a sealed interface over the value types that can appear on the
// right-hand side of a Statement. Only String, Int, Bool, and Null implement
// it. The marker method prevents external implementations so the renderer
// can rely on every literal knowing its own SQL syntax.
//
// No float type: column values that need richer encodings belong to the
// field layer, which hands the compiler pre-encoded literals.
type Literal interface {
	literalNode() // Marker method - seals interface to this package

	// SQL returns the literal in SQL syntax.
	SQL() string
}

// String is a text literal. Rendered single-quoted with embedded single
// quotes doubled.
type String string

func (String) literalNode() {}

// SQL implements Literal.
func (s String) SQL() string {
	return "'" + strings.ReplaceAll(string(s), "'", "''") + "'"
}

// Int is an integer literal. Always int64.
type Int int64

func (Int) literalNode() {}

// SQL implements Literal.
func (n Int) SQL() string {
	return strconv.FormatInt(int64(n), 10)
}

// Bool is a boolean literal. SQLite has no boolean type, so it renders as
// 1 or 0.
type Bool bool

func (Bool) literalNode() {}

// SQL implements Literal.
func (b Bool) SQL() string {
	if b {
		return "1"
	}
	return "0"
}

// Null is the SQL NULL literal.
type Null struct{}

func (Null) literalNode() {}

// SQL implements Literal.
func (Null) SQL() string {
	return "NULL"
}
