package swagger

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
)

//go:embed embed/*
var swaggerContent embed.FS

// ServeSwagger добавляет маршруты для Swagger UI и OpenAPI документа в указанный mux.
// apiPrefix подставляется в servers документа, чтобы "Try it out" бил в правильный путь.
//
// Создает следующие маршруты:
// - GET /swagger/ - страница Swagger UI
// - GET /swagger.json - OpenAPI документ
func ServeSwagger(mux *http.ServeMux, apiPrefix string) error {
	swaggerUI, err := fs.Sub(swaggerContent, "embed")
	if err != nil {
		return fmt.Errorf("embedded swagger ui: %w", err)
	}

	spec, err := Spec(apiPrefix)
	if err != nil {
		return fmt.Errorf("build openapi document: %w", err)
	}

	// StripPrefix убирает /swagger из пути перед поиском файла
	mux.Handle("GET /swagger/", http.StripPrefix("/swagger", http.FileServer(http.FS(swaggerUI))))

	// Редирект с /swagger на /swagger/
	mux.HandleFunc("GET /swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/", http.StatusMovedPermanently)
	})

	mux.HandleFunc("GET /swagger.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write(spec)
	})

	return nil
}

// Spec возвращает встроенный OpenAPI документ с servers, указывающим на apiPrefix
func Spec(apiPrefix string) ([]byte, error) {
	raw, err := swaggerContent.ReadFile("embed/openapi.json")
	if err != nil {
		return nil, err
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	doc["servers"] = []map[string]string{{"url": apiPrefix}}

	return json.Marshal(doc)
}
