package sqlgen

import "strings"

// Source is a sealed interface over the FROM targets of a Select: a bare
// table name, an inner join, or a nested select. The marker method seals the
// interface to this package so the renderer's type handling stays exhaustive.
type Source interface {
	sourceNode() // Marker method - seals interface to this package

	// sourceSQL renders the source for embedding in a FROM clause.
	sourceSQL() string
}

// Table is a bare table name source.
type Table string

func (Table) sourceNode() {}

func (t Table) sourceSQL() string {
	return string(t)
}

// Aliased pairs a source with the alias it is visible under. Nested selects
// and joins are parenthesized when rendered; bare tables are not.
type Aliased struct {
	Source Source
	Alias  string
}

func (a Aliased) sql() string {
	if t, ok := a.Source.(Table); ok {
		return string(t) + " AS " + a.Alias
	}
	return "(" + a.Source.sourceSQL() + ") AS " + a.Alias
}

// Join is an inner join of two aliased sources on a column equality.
//
// Semantics:
//
//	<left> AS l JOIN <right> AS r ON l.OnLeft = r.OnRight
//
// Both sides may themselves be selects, which is how the compiler stacks
// per-filter sub-queries into a primary-key self-join chain.
type Join struct {
	Left    Aliased
	Right   Aliased
	OnLeft  string
	OnRight string
}

func (*Join) sourceNode() {}

func (j *Join) sourceSQL() string {
	return j.Left.sql() +
		" JOIN " + j.Right.sql() +
		" ON " + j.Left.Alias + "." + j.OnLeft +
		" = " + j.Right.Alias + "." + j.OnRight
}

// Select is the root query node.
//
// Semantics:
//
//	SELECT <projection> FROM <from> [WHERE <where>] [LIMIT <limit>]
//
// An empty projection renders as "*". A Select is itself a Source, so it can
// appear aliased on either side of a Join.
type Select struct {
	From       Source
	Projection []string
	Where      *Where
	Limit      *Limit
}

func (*Select) sourceNode() {}

func (s *Select) sourceSQL() string {
	return s.SQL()
}

// SQL renders the complete statement.
func (s *Select) SQL() string {
	proj := "*"
	if len(s.Projection) > 0 {
		proj = strings.Join(s.Projection, ", ")
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(proj)
	b.WriteString(" FROM ")
	b.WriteString(s.From.sourceSQL())
	if s.Where != nil {
		b.WriteString(" WHERE ")
		b.WriteString(s.Where.Clause())
	}
	if s.Limit != nil {
		b.WriteString(" LIMIT ")
		b.WriteString(s.Limit.Clause())
	}
	return b.String()
}
