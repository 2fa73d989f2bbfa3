package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/cyroxx/androrm/internal/sqlgen"
)

// Insert adds a row and returns its new identifier. Column order is sorted
// so the emitted SQL is deterministic; values are always parameterized.
func (s *Store) Insert(ctx context.Context, table string, values map[string]any) (int64, error) {
	cols, args := sortedColumns(values)

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(cols, ", "),
		placeholders(len(cols)))

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("insert into %s: %w", table, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert into %s: %w", table, err)
	}
	return id, nil
}

// Update rewrites the matched rows and returns the number affected. The
// where clause contributes its bare condition; no keyword stripping.
func (s *Store) Update(ctx context.Context, table string, values map[string]any, where *sqlgen.Where) (int64, error) {
	cols, args := sortedColumns(values)

	sets := make([]string, len(cols))
	for i, col := range cols {
		sets[i] = col + " = ?"
	}

	query := fmt.Sprintf("UPDATE %s SET %s", table, strings.Join(sets, ", "))
	if where != nil {
		query += " WHERE " + where.Clause()
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("update %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update %s: %w", table, err)
	}
	return n, nil
}

// InsertOrUpdate updates the rows matched by where when at least one
// exists, and inserts the values otherwise. Returns the affected row count
// on update and the new row id on insert.
//
// The existence check and the write are two statements, so two writers
// aiming at the same key can both pass the check and insert twice. See the
// package comment.
func (s *Store) InsertOrUpdate(ctx context.Context, table string, values map[string]any, where *sqlgen.Where) (int64, error) {
	probe := &sqlgen.Select{
		From:       sqlgen.Table(table),
		Projection: []string{"1"},
		Where:      where,
		Limit:      &sqlgen.Limit{Count: 1},
	}

	var one int
	err := s.db.QueryRowContext(ctx, probe.SQL()).Scan(&one)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return s.Insert(ctx, table, values)
	case err != nil:
		return 0, fmt.Errorf("insert or update %s: %w", table, err)
	default:
		return s.Update(ctx, table, values, where)
	}
}

// Delete removes the matched rows and returns the number affected.
func (s *Store) Delete(ctx context.Context, table string, where *sqlgen.Where) (int64, error) {
	query := "DELETE FROM " + table
	if where != nil {
		query += " WHERE " + where.Clause()
	}

	res, err := s.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", table, err)
	}
	return n, nil
}

// sortedColumns splits a value map into sorted column names and matching
// arguments.
func sortedColumns(values map[string]any) ([]string, []any) {
	cols := make([]string, 0, len(values))
	for col := range values {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	args := make([]any, len(cols))
	for i, col := range cols {
		args[i] = values[col]
	}
	return cols, args
}

// placeholders renders "?, ?, ?" for n parameters.
func placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "?"
	}
	return strings.Join(parts, ", ")
}
