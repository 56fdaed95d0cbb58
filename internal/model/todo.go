package model

import (
	"strings"
	"time"
)

// Todo представляет одну задачу в списке (доменная модель)
type Todo struct {
	ID        int64     // Идентификатор, выдается хранилищем и не переиспользуется
	Title     string    // Заголовок задачи (никогда не пустой)
	Completed bool      // Признак выполнения
	CreatedAt time.Time // Дата создания, ключ сортировки списка
}

// TodoPatch описывает частичное обновление задачи.
// nil означает, что поле не передано и остается без изменений.
type TodoPatch struct {
	Title     *string
	Completed *bool
}

// IsEmpty проверяет, что в патче нет ни одного поля
func (p TodoPatch) IsEmpty() bool {
	return p.Title == nil && p.Completed == nil
}

// Normalize возвращает копию патча с обрезанным заголовком
func (p TodoPatch) Normalize() TodoPatch {
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		p.Title = &title
	}
	return p
}

// Apply применяет патч к задаче и возвращает результат.
// ID и CreatedAt не меняются.
func (p TodoPatch) Apply(t Todo) Todo {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	return t
}
