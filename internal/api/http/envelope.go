package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"todo-service/internal/model"
)

// Текст ошибки 404, одинаковый для PATCH и DELETE
const errMsgNotFound = "todo not found"

// envelope единый формат ответа: {success, data} или {success, error}
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writeErrorMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Error: message})
}

// statusFor сопоставляет доменную ошибку с HTTP статусом и текстом для клиента
func statusFor(err error) (int, string) {
	switch {
	case model.IsValidation(err):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, model.ErrTodoNotFound):
		return http.StatusNotFound, errMsgNotFound
	default:
		// Ошибки хранилища отдаются как есть: секретов в них нет
		return http.StatusInternalServerError, err.Error()
	}
}
