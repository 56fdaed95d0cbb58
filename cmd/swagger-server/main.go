package main

import (
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"todo-service/internal/api/swagger"
	"todo-service/internal/logger"
)

// getWSLIP пытается получить IP адрес WSL машины
func getWSLIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "", err
	}
	defer conn.Close()

	localAddr := conn.LocalAddr().(*net.UDPAddr)
	ip := localAddr.IP.String()

	// Возвращаем IP только если это не localhost
	if ip != "127.0.0.1" && !strings.HasPrefix(ip, "127.") {
		return ip, nil
	}
	return "", nil
}

// Отдельный сервер документации: Swagger UI без запуска самого API.
// "Try it out" отправляет запросы на API_BASE_URL.
func main() {
	log := logger.New("swagger-server", os.Getenv("LOG_LEVEL"), "text")

	port := os.Getenv("SWAGGER_PORT")
	if port == "" {
		port = "8082"
	}

	apiBase := os.Getenv("API_BASE_URL")
	if apiBase == "" {
		apiBase = "http://localhost:3000/api"
	}

	addr := "0.0.0.0:" + port

	mux := http.NewServeMux()
	if err := swagger.ServeSwagger(mux, apiBase); err != nil {
		log.WithError(err).Fatal("failed to set up swagger routes")
	}

	// Редирект с корня на Swagger UI
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/", http.StatusMovedPermanently)
	})

	// Получаем IP адрес хоста для доступа из Windows (WSL)
	hostIP := "localhost"
	if wslIP := os.Getenv("WSL_HOST_IP"); wslIP != "" {
		hostIP = wslIP
	} else if ip, err := getWSLIP(); err == nil && ip != "" {
		hostIP = ip
	}

	log.WithField("api", apiBase).Info("Swagger UI server started")
	log.Infof("open http://localhost:%s/swagger/", port)
	if hostIP != "localhost" {
		log.Infof("open http://%s:%s/swagger/ (WSL IP)", hostIP, port)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		log.WithError(err).Fatal("failed to start swagger server")
	}
}
