package converter

import (
	"fmt"
	"time"

	"todo-service/internal/model"
)

// TimeLayout формат createdAt в JSON: ISO-8601 в UTC с миллисекундами
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Todo JSON-представление задачи
type Todo struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"createdAt"`
}

// DeletedID тело успешного ответа на DELETE
type DeletedID struct {
	ID int64 `json:"id"`
}

// ModelToDTO конвертирует доменную модель в JSON-представление
func ModelToDTO(todo model.Todo) Todo {
	var createdAt string
	if !todo.CreatedAt.IsZero() {
		createdAt = todo.CreatedAt.UTC().Format(TimeLayout)
	}

	return Todo{
		ID:        todo.ID,
		Title:     todo.Title,
		Completed: todo.Completed,
		CreatedAt: createdAt,
	}
}

// ModelsToDTOs конвертирует слайс моделей. Пустой вход дает пустой (не nil) слайс,
// чтобы в JSON получился [] а не null.
func ModelsToDTOs(todos []model.Todo) []Todo {
	dtos := make([]Todo, len(todos))
	for i, todo := range todos {
		dtos[i] = ModelToDTO(todo)
	}

	return dtos
}

// DTOToModel конвертирует JSON-представление обратно в доменную модель
func DTOToModel(dto Todo) (model.Todo, error) {
	var createdAt time.Time
	if dto.CreatedAt != "" {
		var err error
		createdAt, err = time.Parse(time.RFC3339Nano, dto.CreatedAt)
		if err != nil {
			return model.Todo{}, fmt.Errorf("parse createdAt %q: %w", dto.CreatedAt, err)
		}
	}

	return model.Todo{
		ID:        dto.ID,
		Title:     dto.Title,
		Completed: dto.Completed,
		CreatedAt: createdAt,
	}, nil
}

// DTOsToModels конвертирует слайс JSON-представлений
func DTOsToModels(dtos []Todo) ([]model.Todo, error) {
	todos := make([]model.Todo, 0, len(dtos))
	for _, dto := range dtos {
		todo, err := DTOToModel(dto)
		if err != nil {
			return nil, err
		}
		todos = append(todos, todo)
	}

	return todos, nil
}
