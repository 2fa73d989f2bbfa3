package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyroxx/androrm/internal/sqlgen"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func TestInsertEmitsSortedColumns(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO branch (name, product) VALUES (?, ?)").
		WithArgs("Acme", 1).
		WillReturnResult(sqlmock.NewResult(7, 1))

	id, err := s.Insert(context.Background(), "branch", map[string]any{
		"product": 1,
		"name":    "Acme",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUsesBareWhereClause(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("UPDATE branch SET name = ? WHERE id = 7").
		WithArgs("Acme Ltd").
		WillReturnResult(sqlmock.NewResult(0, 1))

	where := sqlgen.NewWhere(sqlgen.Eq("id", sqlgen.Int(7)))
	n, err := s.Update(context.Background(), "branch", map[string]any{"name": "Acme Ltd"}, where)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertOrUpdateInsertsWhenMissing(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT 1 FROM branch WHERE name = 'Zeta' LIMIT 1").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectExec("INSERT INTO branch (name) VALUES (?)").
		WithArgs("Zeta").
		WillReturnResult(sqlmock.NewResult(3, 1))

	where := sqlgen.NewWhere(sqlgen.Eq("name", sqlgen.String("Zeta")))
	id, err := s.InsertOrUpdate(context.Background(), "branch", map[string]any{"name": "Zeta"}, where)
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertOrUpdateUpdatesWhenPresent(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT 1 FROM branch WHERE name = 'Zeta' LIMIT 1").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectExec("UPDATE branch SET city = ? WHERE name = 'Zeta'").
		WithArgs("Berlin").
		WillReturnResult(sqlmock.NewResult(0, 1))

	where := sqlgen.NewWhere(sqlgen.Eq("name", sqlgen.String("Zeta")))
	n, err := s.InsertOrUpdate(context.Background(), "branch", map[string]any{"city": "Berlin"}, where)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("DELETE FROM branch WHERE name = 'Zeta'").
		WillReturnResult(sqlmock.NewResult(0, 2))

	where := sqlgen.NewWhere(sqlgen.Eq("name", sqlgen.String("Zeta")))
	n, err := s.Delete(context.Background(), "branch", where)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteWithoutWhere(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("DELETE FROM branch").
		WillReturnResult(sqlmock.NewResult(0, 5))

	n, err := s.Delete(context.Background(), "branch", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
