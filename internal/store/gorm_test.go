package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockStore(t *testing.T) (*GormStore, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return NewGormStore(db, time.Second), mock
}

func TestGormStore_FindTokenByHash(t *testing.T) {
	s, mock := newMockStore(t)
	id, userID := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "tokens" WHERE token_hash = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token_hash", "created_at"}).
			AddRow(id.String(), userID.String(), "abc", time.Now()))

	tok, err := s.FindTokenByHash(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, id, tok.ID)
	assert.Equal(t, userID, tok.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_FindTokenByHash_NotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM "tokens" WHERE token_hash = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token_hash", "created_at"}))

	_, err := s.FindTokenByHash(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_DeleteToken_Idempotent(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`DELETE FROM "tokens" WHERE id = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.DeleteToken(context.Background(), uuid.New()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_DeleteUser(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`DELETE FROM "users" WHERE id = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.DeleteUser(context.Background(), uuid.New()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_DeleteTodos_ScopedToOwner(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`DELETE FROM "todos" WHERE .*user_id = .*`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := s.DeleteTodos(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_FindTodo_OtherOwnerIsNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM "todos" WHERE .*user_id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "description", "completed", "user_id"}))

	_, err := s.FindTodo(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_FindTodos_Filters(t *testing.T) {
	s, mock := newMockStore(t)
	owner := uuid.New()
	done := false

	mock.ExpectQuery(`SELECT \* FROM "todos" WHERE .*completed = .*LOWER\(description\) LIKE .*ORDER BY created_at ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "description", "completed", "user_id"}).
			AddRow(uuid.New().String(), "Work", false, owner.String()))

	todos, err := s.FindTodos(context.Background(), TodoQuery{OwnerID: owner, Completed: &done, Search: "Work"})
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, "Work", todos[0].Description)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(gorm.ErrRecordNotFound), ErrNotFound)
	assert.ErrorIs(t, translate(gorm.ErrDuplicatedKey), ErrDuplicate)
	assert.ErrorIs(t, translate(context.DeadlineExceeded), ErrUnavailable)
	assert.ErrorIs(t, translate(driver.ErrBadConn), ErrUnavailable)

	other := errors.New("boom")
	assert.Equal(t, other, translate(other))
}
