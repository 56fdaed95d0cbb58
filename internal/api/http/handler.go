package http

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"todo-service/internal/api/http/middleware"
	"todo-service/internal/converter"
	svc "todo-service/internal/service"
)

// Handler реализует REST API для задач
type Handler struct {
	todoService svc.TodoService
	log         *logrus.Entry
}

// NewHandler создает новый экземпляр HTTP хэндлера
func NewHandler(todoService svc.TodoService, log *logrus.Entry) *Handler {
	return &Handler{
		todoService: todoService,
		log:         log.WithField("component", "http_handler"),
	}
}

// Register регистрирует маршруты на mux под указанным префиксом (например, "/api")
func (h *Handler) Register(mux *http.ServeMux, prefix string) {
	mux.HandleFunc("GET "+prefix+"/todos", h.ListTodos)
	mux.HandleFunc("POST "+prefix+"/todos", h.CreateTodo)
	mux.HandleFunc("PATCH "+prefix+"/todos/{id}", h.UpdateTodo)
	mux.HandleFunc("DELETE "+prefix+"/todos/{id}", h.DeleteTodo)
}

func (h *Handler) entry(r *http.Request, handler string) *logrus.Entry {
	return h.log.WithFields(logrus.Fields{
		"handler":    handler,
		"request_id": middleware.GetRequestID(r.Context()),
	})
}

// fail пишет ответ об ошибке и логирует ее: 4xx как предупреждение, 5xx как ошибку
func (h *Handler) fail(w http.ResponseWriter, entry *logrus.Entry, err error) {
	status, message := statusFor(err)
	entry = entry.WithField("status", status)
	if status >= http.StatusInternalServerError {
		entry.WithError(err).Error("request failed")
	} else {
		entry.WithError(err).Warn("request rejected")
	}
	writeErrorMessage(w, status, message)
}

// ListTodos обрабатывает GET /todos
func (h *Handler) ListTodos(w http.ResponseWriter, r *http.Request) {
	entry := h.entry(r, "ListTodos")

	todos, err := h.todoService.List(r.Context())
	if err != nil {
		h.fail(w, entry, err)
		return
	}

	entry.WithField("count", len(todos)).Debug("todos listed")
	writeData(w, http.StatusOK, converter.ModelsToDTOs(todos))
}

// CreateTodo обрабатывает POST /todos
func (h *Handler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	entry := h.entry(r, "CreateTodo")

	var title string
	if t := field[string](bodyFields(w, r), "title"); t != nil {
		title = *t
	}

	todo, err := h.todoService.Create(r.Context(), title)
	if err != nil {
		h.fail(w, entry, err)
		return
	}

	entry.WithField("todo_id", todo.ID).Info("todo created")
	writeData(w, http.StatusCreated, converter.ModelToDTO(todo))
}

// UpdateTodo обрабатывает PATCH /todos/{id}
func (h *Handler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	entry := h.entry(r, "UpdateTodo").WithField("todo_id", id)

	todo, err := h.todoService.Update(r.Context(), id, patchFromBody(bodyFields(w, r)))
	if err != nil {
		h.fail(w, entry, err)
		return
	}

	entry.Info("todo updated")
	writeData(w, http.StatusOK, converter.ModelToDTO(todo))
}

// DeleteTodo обрабатывает DELETE /todos/{id}
func (h *Handler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	entry := h.entry(r, "DeleteTodo").WithField("todo_id", id)

	deleted, err := h.todoService.Delete(r.Context(), id)
	if err != nil {
		h.fail(w, entry, err)
		return
	}

	entry.Info("todo deleted")
	writeData(w, http.StatusOK, converter.DeletedID{ID: deleted})
}
