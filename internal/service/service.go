package service

import (
	"context"

	"todo-service/internal/model"
)

// TodoService интерфейс для бизнес-логики работы с задачами
type TodoService interface {
	// List возвращает все задачи, новые первыми
	List(ctx context.Context) ([]model.Todo, error)

	// Create создает задачу с указанным заголовком
	Create(ctx context.Context, title string) (model.Todo, error)

	// Update применяет частичное обновление к задаче с указанным ID
	Update(ctx context.Context, id int64, patch model.TodoPatch) (model.Todo, error)

	// Delete удаляет задачу и возвращает ее ID
	Delete(ctx context.Context, id int64) (int64, error)
}
