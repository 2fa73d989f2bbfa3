// Package qbuild compiles filters over a graph of related models into a
// single executable Select.
//
// A filter names a dotted field path ("product.name") and a comparison for
// the terminal field. Compilation resolves each path segment against the
// model's declared and inherited fields, unwraps the relations the path
// crosses (foreign-key and many-to-many), and assembles a nested join tree
// that yields the identifier set satisfying that filter. Multiple filters
// are combined with AND semantics by chaining primary-key self-joins of the
// per-filter sub-queries, since each sub-query may have an arbitrarily
// different FROM shape.
//
// Compilation is a pure function of the registry and the filter list: no
// global state, no side effects, and any failure aborts the whole compile.
// The alias depth counter is an explicit parameter threaded through the
// recursion, so concurrent compilations never interfere. A filter's
// statement is never mutated; the many-to-many key rewrite works on a copy.
package qbuild
