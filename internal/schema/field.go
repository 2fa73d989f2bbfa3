package schema

import (
	"sort"
	"strings"
)

// Field is a sealed interface over the descriptor variants a model field can
// carry. Only Scalar, ForeignKey, ManyToMany, and OneToMany implement it,
// which keeps the compiler's descriptor switches exhaustive.
type Field interface {
	fieldNode() // Marker method - seals interface to this package
}

// Scalar describes a plain column.
type Scalar struct {
	// Column is the column name. Empty means the field name.
	Column string

	// SQLType is the column type used for DDL: one of "varchar", "text",
	// "integer", "boolean", "date".
	SQLType string

	// MaxLength constrains varchar columns. Zero means unconstrained.
	MaxLength int
}

func (Scalar) fieldNode() {}

// ForeignKey describes a one-to-one relation stored as a column on the
// declaring model's table.
type ForeignKey struct {
	// Column is the column holding the target's primary key. Empty means
	// the field name.
	Column string

	// Target is the name of the referenced model.
	Target string
}

func (ForeignKey) fieldNode() {}

// ManyToMany describes a relation carried by a separate join table whose
// two columns are named after the endpoint tables.
type ManyToMany struct {
	// JoinTable overrides the join table name. Empty means the default:
	// the two endpoint table names, sorted, joined with "_".
	JoinTable string

	// Target is the name of the referenced model.
	Target string
}

func (ManyToMany) fieldNode() {}

// OneToMany describes the reverse side of a foreign key. It can be declared,
// but the query compiler refuses to traverse it.
type OneToMany struct {
	// Target is the name of the referenced model.
	Target string
}

func (OneToMany) fieldNode() {}

// Relational reports whether the descriptor crosses tables.
func Relational(f Field) bool {
	switch f.(type) {
	case ForeignKey, ManyToMany, OneToMany:
		return true
	}
	return false
}

// RelationTable returns the join table name for a many-to-many field between
// the two endpoint tables, applying the naming convention when no explicit
// join table was declared.
func RelationTable(m ManyToMany, originTable, targetTable string) string {
	if m.JoinTable != "" {
		return m.JoinTable
	}
	tables := []string{originTable, targetTable}
	sort.Strings(tables)
	return strings.Join(tables, "_")
}
