package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/cyroxx/androrm/internal/schema"
)

// CreateTables creates one table per registered model plus one join table
// per many-to-many relation. Existing tables are left alone, so the call is
// idempotent.
func (s *Store) CreateTables(ctx context.Context, reg *schema.Registry) error {
	for _, stmt := range CreateTableStatements(reg) {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create tables: %w", err)
		}
	}
	return nil
}

// CreateTableStatements renders the DDL for a registry in a deterministic
// order: model tables in registration order, then join tables in first-use
// order. Inherited fields become columns on the inheriting model's table.
func CreateTableStatements(reg *schema.Registry) []string {
	pk := reg.PrimaryKey()

	var stmts []string
	joinSeen := make(map[string]bool)
	var joinStmts []string

	for _, m := range reg.Models() {
		cols := []string{pk + " integer primary key autoincrement"}

		for _, name := range reg.FieldNames(m) {
			f, _ := reg.Field(m, name)
			switch d := f.(type) {
			case schema.Scalar:
				cols = append(cols, schema.ColumnName(name, d)+" "+scalarColumnType(d))
			case schema.ForeignKey:
				cols = append(cols, schema.ColumnName(name, d)+" integer")
			case schema.ManyToMany:
				target, ok := reg.Model(d.Target)
				if !ok {
					continue
				}
				jt := schema.RelationTable(d, m.Table(), target.Table())
				if joinSeen[jt] {
					continue
				}
				joinSeen[jt] = true
				joinStmts = append(joinStmts, joinTableDDL(jt, m.Table(), target.Table()))
			case schema.OneToMany:
				// The reverse side; its column lives on the target table.
			}
		}

		stmts = append(stmts, fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
			m.Table(), strings.Join(cols, ", ")))
	}

	return append(stmts, joinStmts...)
}

// scalarColumnType maps a scalar descriptor to its SQL column type.
func scalarColumnType(d schema.Scalar) string {
	if d.SQLType == "varchar" && d.MaxLength > 0 {
		return fmt.Sprintf("varchar(%d)", d.MaxLength)
	}
	return d.SQLType
}

// joinTableDDL renders the join table for a many-to-many relation. Its two
// columns are named after the endpoint tables, which is the convention the
// query compiler joins against. Columns are emitted in sorted order so the
// DDL does not depend on which endpoint declared the relation.
func joinTableDDL(name, leftTable, rightTable string) string {
	if rightTable < leftTable {
		leftTable, rightTable = rightTable, leftTable
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s integer, %s integer)",
		name, leftTable, rightTable)
}

// Drop removes one table.
func (s *Store) Drop(ctx context.Context, table string) error {
	if _, err := s.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
		return fmt.Errorf("drop %s: %w", table, err)
	}
	return nil
}

// DropAll removes every table the registry defines, join tables included.
func (s *Store) DropAll(ctx context.Context, reg *schema.Registry) error {
	dropped := make(map[string]bool)
	for _, m := range reg.Models() {
		if err := s.Drop(ctx, m.Table()); err != nil {
			return err
		}
		for _, name := range reg.FieldNames(m) {
			f, _ := reg.Field(m, name)
			d, ok := f.(schema.ManyToMany)
			if !ok {
				continue
			}
			target, ok := reg.Model(d.Target)
			if !ok {
				continue
			}
			jt := schema.RelationTable(d, m.Table(), target.Table())
			if dropped[jt] {
				continue
			}
			dropped[jt] = true
			if err := s.Drop(ctx, jt); err != nil {
				return err
			}
		}
	}
	return nil
}
