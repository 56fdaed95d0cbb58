package model

import (
	"errors"
	"fmt"
)

var (
	// ErrTodoNotFound возвращается, когда задачи с указанным ID нет в хранилище
	ErrTodoNotFound = errors.New("todo not found")

	// ErrStorageUnavailable оборачивает любые ошибки хранилища
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// ValidationError сигнализирует о некорректных входных данных
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// NewValidationError создает ошибку валидации с указанной причиной
func NewValidationError(reason string) error {
	return &ValidationError{Reason: reason}
}

// IsValidation проверяет, является ли err (или что-то в его цепочке) ошибкой валидации
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// StorageError оборачивает ошибку драйвера так, что errors.Is(err, ErrStorageUnavailable) == true,
// а текст исходной ошибки сохраняется
func StorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &storageError{op: op, err: err}
}

type storageError struct {
	op  string
	err error
}

func (e *storageError) Error() string {
	return fmt.Sprintf("%s: %v", e.op, e.err)
}

func (e *storageError) Unwrap() []error {
	return []error{ErrStorageUnavailable, e.err}
}
