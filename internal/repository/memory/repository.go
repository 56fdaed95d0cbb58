package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"todo-service/internal/model"
	"todo-service/internal/repository"
)

var _ repository.TodoRepository = (*repo)(nil)

type repo struct {
	mu     sync.RWMutex
	todos  map[int64]model.Todo
	lastID int64

	// now подменяется в тестах
	now func() time.Time
}

// NewRepository создает новый экземпляр in-memory репозитория на основе map.
// ID выдаются монотонным счетчиком и не переиспользуются после удаления.
func NewRepository() repository.TodoRepository {
	return newRepo(time.Now)
}

func newRepo(now func() time.Time) *repo {
	return &repo{
		todos: make(map[int64]model.Todo),
		now:   now,
	}
}

// List возвращает все задачи, отсортированные по CreatedAt по убыванию
func (r *repo) List(ctx context.Context) ([]model.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	todos := make([]model.Todo, 0, len(r.todos))
	for _, todo := range r.todos {
		todos = append(todos, todo)
	}

	sort.Slice(todos, func(i, j int) bool {
		if todos[i].CreatedAt.Equal(todos[j].CreatedAt) {
			return todos[i].ID > todos[j].ID
		}
		return todos[i].CreatedAt.After(todos[j].CreatedAt)
	})

	return todos, nil
}

// Create сохраняет новую задачу
func (r *repo) Create(ctx context.Context, title string) (model.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastID++
	todo := model.Todo{
		ID:        r.lastID,
		Title:     title,
		Completed: false,
		CreatedAt: r.now().UTC(),
	}
	r.todos[todo.ID] = todo

	return todo, nil
}

// Update применяет патч к существующей задаче
func (r *repo) Update(ctx context.Context, id int64, patch model.TodoPatch) (model.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	todo, exists := r.todos[id]
	if !exists {
		return model.Todo{}, model.ErrTodoNotFound
	}

	todo = patch.Apply(todo)
	r.todos[id] = todo

	return todo, nil
}

// Delete удаляет задачу по ID
func (r *repo) Delete(ctx context.Context, id int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.todos[id]; !exists {
		return 0, model.ErrTodoNotFound
	}

	delete(r.todos, id)

	return id, nil
}

// Ping всегда успешен: хранилище живет в памяти процесса
func (r *repo) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (r *repo) Close() error {
	return nil
}
