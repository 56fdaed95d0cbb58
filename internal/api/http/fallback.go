package http

import (
	"net/http"
	"strings"
)

const (
	errMsgRouteNotFound    = "not found"
	errMsgMethodNotAllowed = "method not allowed"
	fallbackPattern        = "/"
)

var routeMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

// Fallback отвечает конвертом на запросы, которым не нашелся маршрут.
// Регистрируется на "/"; если путь известен mux под другим методом, отдает 405 с Allow.
func Fallback(mux *http.ServeMux) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if allowed := allowedMethods(mux, r); len(allowed) > 0 {
			w.Header().Set("Allow", strings.Join(allowed, ", "))
			writeErrorMessage(w, http.StatusMethodNotAllowed, errMsgMethodNotAllowed)
			return
		}
		writeErrorMessage(w, http.StatusNotFound, errMsgRouteNotFound)
	}
}

func allowedMethods(mux *http.ServeMux, r *http.Request) []string {
	var allowed []string
	for _, method := range routeMethods {
		if method == r.Method {
			continue
		}
		alt := r.Clone(r.Context())
		alt.Method = method
		if _, pattern := mux.Handler(alt); pattern != "" && pattern != fallbackPattern {
			allowed = append(allowed, method)
		}
	}
	return allowed
}
