package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyroxx/androrm/internal/schema"
)

const testModels = `
	model: Product: {
		fields: {
			name: {type: "char", maxLength: 50}
		}
	}
	model: Supplier: {
		fields: {
			name: {type: "char", maxLength: 50}
		}
	}
	model: Branch: {
		fields: {
			name:      {type: "char", maxLength: 50}
			product:   {type: "fk", target: "Product"}
			suppliers: {type: "m2m", target: "Supplier"}
		}
	}
`

func testRegistry(t *testing.T) *schema.Registry {
	t.Helper()
	reg, err := schema.LoadString(testModels)
	require.NoError(t, err)
	return reg
}

func TestCreateTableStatements(t *testing.T) {
	stmts := CreateTableStatements(testRegistry(t))

	assert.Equal(t, []string{
		"CREATE TABLE IF NOT EXISTS product (id integer primary key autoincrement, name varchar(50))",
		"CREATE TABLE IF NOT EXISTS supplier (id integer primary key autoincrement, name varchar(50))",
		"CREATE TABLE IF NOT EXISTS branch (id integer primary key autoincrement, name varchar(50), product integer)",
		"CREATE TABLE IF NOT EXISTS branch_supplier (branch integer, supplier integer)",
	}, stmts)
}

func TestCreateTableStatementsInheritedColumns(t *testing.T) {
	reg, err := schema.LoadString(`
		model: Base: {
			fields: {
				created: {type: "date"}
			}
		}
		model: Branch: {
			extends: "Base"
			fields: {
				name: {type: "char", maxLength: 50}
			}
		}
	`)
	require.NoError(t, err)

	stmts := CreateTableStatements(reg)
	// Inherited fields become columns on the inheriting model's table.
	assert.Contains(t, stmts,
		"CREATE TABLE IF NOT EXISTS branch (id integer primary key autoincrement, name varchar(50), created date)")
}

func TestCreateTableStatementsCustomPrimaryKey(t *testing.T) {
	reg, err := schema.LoadString(`
		model: Branch: {
			fields: {
				name: {type: "text"}
			}
		}
	`, schema.WithPrimaryKey("pk"))
	require.NoError(t, err)

	stmts := CreateTableStatements(reg)
	require.Len(t, stmts, 1)
	assert.Equal(t,
		"CREATE TABLE IF NOT EXISTS branch (pk integer primary key autoincrement, name text)",
		stmts[0])
}

func TestCreateTableStatementsJoinTableOnce(t *testing.T) {
	// A many-to-many declared on both endpoints still yields one join table.
	reg, err := schema.LoadString(`
		model: Branch: {
			fields: {
				name:      {type: "text"}
				suppliers: {type: "m2m", target: "Supplier"}
			}
		}
		model: Supplier: {
			fields: {
				name:     {type: "text"}
				branches: {type: "m2m", target: "Branch"}
			}
		}
	`)
	require.NoError(t, err)

	stmts := CreateTableStatements(reg)
	count := 0
	for _, stmt := range stmts {
		if stmt == "CREATE TABLE IF NOT EXISTS branch_supplier (branch integer, supplier integer)" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
