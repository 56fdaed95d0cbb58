package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"todo-service/internal/model"
	"todo-service/internal/repository"
)

const schema = `
CREATE TABLE IF NOT EXISTS todos (
	id         BIGSERIAL PRIMARY KEY,
	title      TEXT NOT NULL,
	completed  BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS todos_created_at_idx ON todos (created_at DESC);
`

const (
	listQuery = `SELECT id, title, completed, created_at FROM todos ORDER BY created_at DESC, id DESC`

	insertQuery = `INSERT INTO todos (title) VALUES ($1) RETURNING id, title, completed, created_at`

	// COALESCE оставляет текущее значение колонки, если поле патча не передано (NULL)
	updateQuery = `UPDATE todos
		SET title = COALESCE($2, title), completed = COALESCE($3, completed)
		WHERE id = $1
		RETURNING id, title, completed, created_at`

	deleteQuery = `DELETE FROM todos WHERE id = $1 RETURNING id`
)

// PoolOptions настройки пула соединений
type PoolOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

var _ repository.TodoRepository = (*Repository)(nil)

// Repository хранит задачи в PostgreSQL.
// *sql.DB безопасен для конкурентного использования, другого общего состояния нет.
type Repository struct {
	db *sql.DB
}

// Open открывает пул соединений по DSN и проверяет доступность базы
func Open(ctx context.Context, dsn string, pool PoolOptions) (*Repository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if pool.MaxOpenConns > 0 {
		db.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		db.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(pool.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Repository{db: db}, nil
}

// New оборачивает уже открытый *sql.DB
func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Migrate создает таблицу todos, если ее еще нет
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return storageError("migrate", err)
	}
	return nil
}

// List возвращает все задачи, новые первыми
func (r *Repository) List(ctx context.Context) ([]model.Todo, error) {
	rows, err := r.db.QueryContext(ctx, listQuery)
	if err != nil {
		return nil, storageError("list todos", err)
	}
	defer rows.Close()

	todos := make([]model.Todo, 0)
	for rows.Next() {
		var todo model.Todo
		if err := rows.Scan(&todo.ID, &todo.Title, &todo.Completed, &todo.CreatedAt); err != nil {
			return nil, storageError("scan todo", err)
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("list todos", err)
	}

	return todos, nil
}

// Create вставляет задачу; id и created_at выдает база
func (r *Repository) Create(ctx context.Context, title string) (model.Todo, error) {
	var todo model.Todo
	err := r.db.QueryRowContext(ctx, insertQuery, title).
		Scan(&todo.ID, &todo.Title, &todo.Completed, &todo.CreatedAt)
	if err != nil {
		return model.Todo{}, storageError("create todo", err)
	}
	return todo, nil
}

// Update обновляет переданные поля одним запросом.
// Если строка не найдена, RETURNING ничего не вернет и Scan отдаст sql.ErrNoRows.
func (r *Repository) Update(ctx context.Context, id int64, patch model.TodoPatch) (model.Todo, error) {
	var title sql.NullString
	if patch.Title != nil {
		title = sql.NullString{String: *patch.Title, Valid: true}
	}
	var completed sql.NullBool
	if patch.Completed != nil {
		completed = sql.NullBool{Bool: *patch.Completed, Valid: true}
	}

	var todo model.Todo
	err := r.db.QueryRowContext(ctx, updateQuery, id, title, completed).
		Scan(&todo.ID, &todo.Title, &todo.Completed, &todo.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Todo{}, model.ErrTodoNotFound
	}
	if err != nil {
		return model.Todo{}, storageError("update todo", err)
	}
	return todo, nil
}

// Delete удаляет задачу и возвращает ее ID
func (r *Repository) Delete(ctx context.Context, id int64) (int64, error) {
	var deleted int64
	err := r.db.QueryRowContext(ctx, deleteQuery, id).Scan(&deleted)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, model.ErrTodoNotFound
	}
	if err != nil {
		return 0, storageError("delete todo", err)
	}
	return deleted, nil
}

// Ping выполняет SELECT 1 для health-check
func (r *Repository) Ping(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "SELECT 1"); err != nil {
		return storageError("ping", err)
	}
	return nil
}

// Close закрывает пул соединений
func (r *Repository) Close() error {
	return r.db.Close()
}

// storageError помечает ошибку как ошибку хранилища и дописывает код SQLSTATE, если он есть
func storageError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		err = fmt.Errorf("%w (sqlstate %s)", err, pqErr.Code)
	}
	return model.StorageError(op, err)
}
