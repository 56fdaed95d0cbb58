package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Pinger проверяет доступность хранилища
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Database string `json:"database"`
	Error    string `json:"error,omitempty"`
}

// Health отвечает на GET /health, проверяя соединение с базой
func Health(p Pinger, log *logrus.Entry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{Success: true, Message: "Server is running", Database: "connected"}
		status := http.StatusOK
		if err := p.Ping(ctx); err != nil {
			log.WithError(err).Warn("health check failed")
			resp = healthResponse{Message: "Server is running", Database: "disconnected", Error: err.Error()}
			status = http.StatusInternalServerError
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
