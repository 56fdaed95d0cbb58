package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-service/internal/model"
)

var todoColumns = []string{"id", "title", "completed", "created_at"}

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return New(db), mock
}

func TestRepository_List(t *testing.T) {
	repo, mock := newMockRepo(t)
	t3 := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC, id DESC")).
		WillReturnRows(sqlmock.NewRows(todoColumns).
			AddRow(int64(3), "third", false, t3).
			AddRow(int64(2), "second", true, t2))

	todos, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, todos, 2)
	assert.Equal(t, int64(3), todos[0].ID)
	assert.Equal(t, "second", todos[1].Title)
	assert.True(t, todos[1].Completed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListEmpty(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, completed, created_at FROM todos")).
		WillReturnRows(sqlmock.NewRows(todoColumns))

	todos, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, todos)
	assert.Empty(t, todos)
}

func TestRepository_ListStorageError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT").WillReturnError(errors.New("connection refused"))

	_, err := repo.List(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrStorageUnavailable)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestRepository_Create(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO todos (title) VALUES ($1)")).
		WithArgs("Buy milk").
		WillReturnRows(sqlmock.NewRows(todoColumns).AddRow(int64(1), "Buy milk", false, now))

	todo, err := repo.Create(context.Background(), "Buy milk")
	require.NoError(t, err)
	assert.Equal(t, int64(1), todo.ID)
	assert.Equal(t, "Buy milk", todo.Title)
	assert.False(t, todo.Completed)
	assert.Equal(t, now, todo.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdatePartial(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()
	done := true

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE todos")).
		WithArgs(int64(7), nil, true).
		WillReturnRows(sqlmock.NewRows(todoColumns).AddRow(int64(7), "Buy milk", true, now))

	todo, err := repo.Update(context.Background(), 7, model.TodoPatch{Completed: &done})
	require.NoError(t, err)
	assert.True(t, todo.Completed)
	assert.Equal(t, "Buy milk", todo.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateTitle(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()
	title := "Buy bread"

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE todos")).
		WithArgs(int64(7), "Buy bread", nil).
		WillReturnRows(sqlmock.NewRows(todoColumns).AddRow(int64(7), "Buy bread", false, now))

	todo, err := repo.Update(context.Background(), 7, model.TodoPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Buy bread", todo.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	done := true

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE todos")).
		WithArgs(int64(999999), nil, true).
		WillReturnRows(sqlmock.NewRows(todoColumns))

	_, err := repo.Update(context.Background(), 999999, model.TodoPatch{Completed: &done})
	assert.ErrorIs(t, err, model.ErrTodoNotFound)
	assert.NotErrorIs(t, err, model.ErrStorageUnavailable)
}

func TestRepository_Delete(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM todos WHERE id = $1 RETURNING id")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))

	id, err := repo.Delete(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_DeleteNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM todos")).
		WithArgs(int64(999999)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.Delete(context.Background(), 999999)
	assert.ErrorIs(t, err, model.ErrTodoNotFound)
}

func TestRepository_DeleteDriverErrorKeepsSQLState(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM todos")).
		WithArgs(int64(1)).
		WillReturnError(&pq.Error{Code: "57P01", Message: "terminating connection due to administrator command"})

	_, err := repo.Delete(context.Background(), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrStorageUnavailable)
	assert.Contains(t, err.Error(), "sqlstate 57P01")

	var pqErr *pq.Error
	assert.True(t, errors.As(err, &pqErr))
}

func TestRepository_MigrateAndPing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS todos")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("SELECT 1")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Migrate(context.Background()))
	require.NoError(t, repo.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Close(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	mock.ExpectClose()

	require.NoError(t, New(db).Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}
