// Package sqlgen defines the query AST and its SQL renderer.
//
// The AST is built bottom-up by the query compiler and rendered exactly once.
// Every node renders itself; nothing outside this package concatenates SQL
// fragments. Clauses expose their condition without the leading keyword
// (Where.Clause, Limit.Clause) so embedding a clause in another statement
// never requires stripping "WHERE " or "LIMIT " from rendered text.
//
// Node types:
//   - Select: projection over a Source with optional Where and Limit
//   - Join: inner join of two aliased sources on a column equality
//   - Table: a bare table name
//   - Statement: one column/operator/literal comparison
//
// Rendering is deterministic: the same AST always produces byte-identical
// text. Projection and IN-list order is construction order, never map
// iteration order.
package sqlgen
