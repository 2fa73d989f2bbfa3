package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyroxx/androrm/internal/qbuild"
	"github.com/cyroxx/androrm/internal/sqlgen"
)

// openSeeded opens an in-memory store with the test models created and a
// small data set inserted.
func openSeeded(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	s, err := OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	reg := testRegistry(t)
	require.NoError(t, s.CreateTables(ctx, reg))

	seed := []struct {
		table  string
		values map[string]any
	}{
		{"product", map[string]any{"id": 1, "name": "Widgets"}},
		{"product", map[string]any{"id": 2, "name": "Gears"}},
		{"supplier", map[string]any{"id": 1, "name": "Bolts Inc"}},
		{"branch", map[string]any{"id": 1, "name": "Acme", "product": 1}},
		{"branch", map[string]any{"id": 2, "name": "Other", "product": 2}},
		{"branch_supplier", map[string]any{"branch": 1, "supplier": 1}},
	}
	for _, row := range seed {
		_, err := s.Insert(ctx, row.table, row.values)
		require.NoError(t, err)
	}
	return s
}

func queryBranches(t *testing.T, s *Store, expr string) []map[string]any {
	t.Helper()

	filters, err := qbuild.ParseFilters(expr)
	require.NoError(t, err)

	c := qbuild.NewCompiler(testRegistry(t))
	sel, err := c.Compile("Branch", filters)
	require.NoError(t, err)

	rows, err := s.Query(context.Background(), sel)
	require.NoError(t, err)
	defer rows.Close()

	out, err := ScanRows(rows)
	require.NoError(t, err)
	return out
}

func TestQueryScalarFilter(t *testing.T) {
	s := openSeeded(t)

	rows := queryBranches(t, s, `name = "Acme"`)
	require.Len(t, rows, 1)
	assert.Equal(t, "Acme", rows[0]["name"])
}

func TestQueryForeignKeyPath(t *testing.T) {
	s := openSeeded(t)

	rows := queryBranches(t, s, `product.name = "Widgets"`)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0]["id"])
}

func TestQueryManyToManyPath(t *testing.T) {
	s := openSeeded(t)

	rows := queryBranches(t, s, `suppliers.name = "Bolts Inc"`)
	require.Len(t, rows, 1)
	assert.Equal(t, "Acme", rows[0]["name"])
}

func TestQueryFilterChainIntersects(t *testing.T) {
	s := openSeeded(t)

	rows := queryBranches(t, s, `name = "Acme" AND product.name = "Widgets"`)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0]["id"])

	// Filters that individually match different rows intersect to nothing.
	rows = queryBranches(t, s, `name = "Other" AND product.name = "Widgets"`)
	assert.Empty(t, rows)
}

func TestInsertOrUpdateRoundTrip(t *testing.T) {
	s := openSeeded(t)
	ctx := context.Background()

	where := sqlgen.NewWhere(sqlgen.Eq("name", sqlgen.String("Zeta")))

	// No match: inserts.
	_, err := s.InsertOrUpdate(ctx, "branch", map[string]any{"name": "Zeta", "product": 2}, where)
	require.NoError(t, err)

	// Match: updates in place instead of inserting a second row.
	_, err = s.InsertOrUpdate(ctx, "branch", map[string]any{"product": 1}, where)
	require.NoError(t, err)

	rows := queryBranches(t, s, `name = "Zeta"`)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0]["product"])
}

func TestDropAll(t *testing.T) {
	s := openSeeded(t)
	ctx := context.Background()
	reg := testRegistry(t)

	require.NoError(t, s.DropAll(ctx, reg))

	// All tables are gone, including the join table.
	for _, table := range []string{"product", "supplier", "branch", "branch_supplier"} {
		_, err := s.DB().ExecContext(ctx, "SELECT 1 FROM "+table)
		assert.Error(t, err, "table %s should not exist", table)
	}

	// CreateTables brings the schema back.
	require.NoError(t, s.CreateTables(ctx, reg))
	_, err := s.Insert(ctx, "branch", map[string]any{"name": "Acme"})
	assert.NoError(t, err)
}
