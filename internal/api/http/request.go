package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"todo-service/internal/model"
)

const maxBodyBytes = 1 << 20

// bodyFields читает тело как JSON-объект. Нечитаемое или невалидное тело
// считается пустым объектом: отсутствующие поля обрабатывает сервис.
func bodyFields(w http.ResponseWriter, r *http.Request) map[string]json.RawMessage {
	fields := make(map[string]json.RawMessage)
	if r.Body == nil {
		return fields
	}

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return fields
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return make(map[string]json.RawMessage)
	}
	return fields
}

// field декодирует одно поле. null, отсутствие поля и неверный тип дают nil.
func field[T any](fields map[string]json.RawMessage, key string) *T {
	raw, ok := fields[key]
	if !ok {
		return nil
	}

	var v *T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

func patchFromBody(fields map[string]json.RawMessage) model.TodoPatch {
	return model.TodoPatch{
		Title:     field[string](fields, "title"),
		Completed: field[bool](fields, "completed"),
	}
}

// pathID разбирает {id}. Нечисловой ID превращается в 0:
// такой записи не бывает, и запрос закончится 404, как для несуществующего ID.
func pathID(r *http.Request) int64 {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}
