package sqlgen

import "strconv"

// Where is the optional filter clause of a Select.
//
// Clause returns the bare condition; the Select renderer alone prepends
// "WHERE ". Consumers that need the condition for other statement kinds
// (UPDATE, DELETE) call Clause directly instead of stripping keywords from
// rendered text.
type Where struct {
	Stmt Statement
}

// NewWhere wraps a statement in a Where clause.
func NewWhere(stmt Statement) *Where {
	return &Where{Stmt: stmt}
}

// Clause returns the condition without the WHERE keyword.
func (w *Where) Clause() string {
	return w.Stmt.SQL()
}

// Limit is the optional row-limit clause of a Select.
type Limit struct {
	Offset int
	Count  int
}

// Clause returns the limit fragment without the LIMIT keyword, using the
// "offset, count" form when an offset is set.
func (l *Limit) Clause() string {
	if l.Offset > 0 {
		return strconv.Itoa(l.Offset) + ", " + strconv.Itoa(l.Count)
	}
	return strconv.Itoa(l.Count)
}
