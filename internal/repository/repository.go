package repository

import (
	"context"

	"todo-service/internal/model"
)

// TodoRepository интерфейс для работы с задачами в хранилище.
// Update и Delete не делают предварительной проверки существования:
// отсутствие записи определяется по результату самой операции
// и возвращается как model.ErrTodoNotFound.
type TodoRepository interface {
	// List возвращает все задачи, новые первыми
	List(ctx context.Context) ([]model.Todo, error)

	// Create сохраняет новую задачу и возвращает ее с ID и CreatedAt
	Create(ctx context.Context, title string) (model.Todo, error)

	// Update применяет патч и возвращает обновленную задачу
	Update(ctx context.Context, id int64, patch model.TodoPatch) (model.Todo, error)

	// Delete удаляет задачу и возвращает ее ID
	Delete(ctx context.Context, id int64) (int64, error)

	// Ping проверяет доступность хранилища
	Ping(ctx context.Context) error

	// Close освобождает соединения с хранилищем
	Close() error
}
