package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"todo-service/internal/converter"
	"todo-service/internal/model"
)

// DefaultTimeout таймаут одного запроса, если не задан явно
const DefaultTimeout = 10 * time.Second

// fallbackMessage используется, когда тело ответа не удалось разобрать как JSON
const fallbackMessage = "request failed"

// APIError единый тип ошибки клиента: статус ответа и сообщение сервера
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client обращается к REST API задач. Между вызовами состояния не хранит.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option настраивает Client
type Option func(*Client)

// WithHTTPClient подменяет http.Client (например, в тестах)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout задает таймаут одного запроса
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// New создает клиента. baseURL включает префикс API, например "http://localhost:3000/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope ответ сервера; data разбирается отдельно под конкретный тип
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// patchBody тело PATCH: отсутствующие поля не сериализуются
type patchBody struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// List возвращает все задачи, новые первыми
func (c *Client) List(ctx context.Context) ([]model.Todo, error) {
	var dtos []converter.Todo
	if err := c.do(ctx, http.MethodGet, "/todos", nil, &dtos); err != nil {
		return nil, err
	}
	return converter.DTOsToModels(dtos)
}

// Create создает задачу
func (c *Client) Create(ctx context.Context, title string) (model.Todo, error) {
	var dto converter.Todo
	body := map[string]string{"title": title}
	if err := c.do(ctx, http.MethodPost, "/todos", body, &dto); err != nil {
		return model.Todo{}, err
	}
	return converter.DTOToModel(dto)
}

// Update отправляет только переданные поля патча
func (c *Client) Update(ctx context.Context, id int64, patch model.TodoPatch) (model.Todo, error) {
	var dto converter.Todo
	body := patchBody{Title: patch.Title, Completed: patch.Completed}
	if err := c.do(ctx, http.MethodPatch, todoPath(id), body, &dto); err != nil {
		return model.Todo{}, err
	}
	return converter.DTOToModel(dto)
}

// Delete удаляет задачу и возвращает ID, подтвержденный сервером
func (c *Client) Delete(ctx context.Context, id int64) (int64, error) {
	var deleted converter.DeletedID
	if err := c.do(ctx, http.MethodDelete, todoPath(id), nil, &deleted); err != nil {
		return 0, err
	}
	return deleted.ID, nil
}

func todoPath(id int64) string {
	return "/todos/" + strconv.FormatInt(id, 10)
}

// do выполняет запрос и разворачивает конверт в out.
// Ошибка сети возвращается обернутой, ошибка сервера приходит как *APIError.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: fallbackMessage}
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if !ok || !env.Success {
		msg := env.Error
		if msg == "" {
			msg = fallbackMessage
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}
