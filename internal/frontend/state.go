package frontend

import (
	"slices"

	"todo-service/internal/model"
)

// Stats счетчики для заголовка списка
type Stats struct {
	Total   int
	Done    int
	Pending int
}

// TodoList локальное состояние списка задач на стороне клиента.
// Владелец состояния обновляет его записями, которые вернул сервер,
// без повторной загрузки всего списка. Не потокобезопасен.
type TodoList struct {
	items []model.Todo
}

// NewTodoList создает пустой список
func NewTodoList() *TodoList {
	return &TodoList{items: []model.Todo{}}
}

// Replace заменяет состояние результатом List
func (l *TodoList) Replace(todos []model.Todo) {
	l.items = append(make([]model.Todo, 0, len(todos)), todos...)
}

// Apply вставляет или заменяет запись по ID.
// Новая запись встает в начало списка, существующая остается на своем месте.
func (l *TodoList) Apply(todo model.Todo) {
	if i := l.index(todo.ID); i >= 0 {
		l.items[i] = todo
		return
	}
	l.items = slices.Insert(l.items, 0, todo)
}

// Remove убирает запись по ID. Возвращает false, если записи не было.
func (l *TodoList) Remove(id int64) bool {
	i := l.index(id)
	if i < 0 {
		return false
	}
	l.items = slices.Delete(l.items, i, i+1)
	return true
}

// Get возвращает запись по ID
func (l *TodoList) Get(id int64) (model.Todo, bool) {
	if i := l.index(id); i >= 0 {
		return l.items[i], true
	}
	return model.Todo{}, false
}

// Items возвращает копию записей в порядке отображения
func (l *TodoList) Items() []model.Todo {
	return slices.Clone(l.items)
}

// Len количество записей
func (l *TodoList) Len() int {
	return len(l.items)
}

// Stats считает выполненные и ожидающие задачи
func (l *TodoList) Stats() Stats {
	s := Stats{Total: len(l.items)}
	for _, t := range l.items {
		if t.Completed {
			s.Done++
		}
	}
	s.Pending = s.Total - s.Done
	return s
}

func (l *TodoList) index(id int64) int {
	return slices.IndexFunc(l.items, func(t model.Todo) bool { return t.ID == id })
}
