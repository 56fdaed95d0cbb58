package todos

import (
	"context"
	"strings"

	"todo-service/internal/model"
	"todo-service/internal/repository"
	svc "todo-service/internal/service"
)

// Тексты ошибок валидации, которые уходят клиенту как есть
const (
	ErrMsgTitleRequired = "title required"
	ErrMsgNoFields      = "no fields to update"
)

var _ svc.TodoService = (*service)(nil)

type service struct {
	todoRepository repository.TodoRepository
}

// NewTodoService создает новый экземпляр сервиса для работы с задачами
func NewTodoService(todoRepository repository.TodoRepository) svc.TodoService {
	return &service{
		todoRepository: todoRepository,
	}
}

// List возвращает все задачи
func (s *service) List(ctx context.Context) ([]model.Todo, error) {
	todos, err := s.todoRepository.List(ctx)
	if err != nil {
		return nil, err
	}

	return todos, nil
}

// Create создает новую задачу с обрезанным заголовком
func (s *service) Create(ctx context.Context, title string) (model.Todo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Todo{}, model.NewValidationError(ErrMsgTitleRequired)
	}

	todo, err := s.todoRepository.Create(ctx, title)
	if err != nil {
		return model.Todo{}, err
	}

	return todo, nil
}

// Update применяет патч. Существование записи не проверяется заранее:
// репозиторий сам вернет model.ErrTodoNotFound.
func (s *service) Update(ctx context.Context, id int64, patch model.TodoPatch) (model.Todo, error) {
	if patch.IsEmpty() {
		return model.Todo{}, model.NewValidationError(ErrMsgNoFields)
	}

	patch = patch.Normalize()
	if patch.Title != nil && *patch.Title == "" {
		return model.Todo{}, model.NewValidationError(ErrMsgTitleRequired)
	}

	todo, err := s.todoRepository.Update(ctx, id, patch)
	if err != nil {
		return model.Todo{}, err
	}

	return todo, nil
}

// Delete удаляет задачу по ID
func (s *service) Delete(ctx context.Context, id int64) (int64, error) {
	deleted, err := s.todoRepository.Delete(ctx, id)
	if err != nil {
		return 0, err
	}

	return deleted, nil
}
