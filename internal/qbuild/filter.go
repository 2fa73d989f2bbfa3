package qbuild

import (
	"strings"

	"github.com/cyroxx/androrm/internal/sqlgen"
)

// Separator splits a filter path into field-name segments.
const Separator = "."

// Filter pairs a field path with the comparison applied to its terminal
// field. Every non-terminal segment must name a relational field; the
// terminal segment may be scalar or relational.
//
// Filters are immutable from the compiler's point of view: one Filter value
// can be compiled repeatedly, and concurrently, with identical results.
type Filter struct {
	Path   []string
	Clause sqlgen.Statement
}

// NewFilter splits path on Separator and pairs it with the clause.
func NewFilter(path string, clause sqlgen.Statement) Filter {
	return Filter{
		Path:   strings.Split(path, Separator),
		Clause: clause,
	}
}

// PathString returns the dotted form of the path.
func (f Filter) PathString() string {
	return strings.Join(f.Path, Separator)
}
