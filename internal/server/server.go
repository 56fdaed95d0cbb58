package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	httpapi "todo-service/internal/api/http"
	"todo-service/internal/api/http/middleware"
	"todo-service/internal/api/swagger"
	"todo-service/internal/config"
	"todo-service/internal/repository"
	todosService "todo-service/internal/service/todos"
)

// Server представляет HTTP сервер приложения вместе с хранилищем, которым он владеет
type Server struct {
	Mux        *http.ServeMux
	HTTPServer *http.Server
	Addr       string

	// Конфигурация
	Config *config.Config

	repo    repository.TodoRepository
	metrics *middleware.Metrics
	log     *logrus.Entry
}

// NewServer создает сервер и собирает цепочку Repository → Service → Handler
func NewServer(cfg *config.Config, repo repository.TodoRepository, log *logrus.Entry) *Server {
	addr := "0.0.0.0:" + strconv.Itoa(cfg.Server.Port)

	s := &Server{
		Mux:    http.NewServeMux(),
		Addr:   addr,
		Config: cfg,
		repo:   repo,
		log:    log,
	}
	s.metrics = middleware.NewMetrics().WithRoutes(s.Mux)

	s.routes()

	s.HTTPServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadTimeout:       seconds(cfg.Server.HTTPReadTimeout, 15),
		WriteTimeout:      seconds(cfg.Server.HTTPWriteTimeout, 15),
		IdleTimeout:       seconds(cfg.Server.HTTPIdleTimeout, 60),
		ReadHeaderTimeout: seconds(cfg.Server.HTTPReadHeaderTimeout, 5),
	}

	return s
}

// routes регистрирует все маршруты на mux
func (s *Server) routes() {
	todoSvc := todosService.NewTodoService(s.repo)
	handler := httpapi.NewHandler(todoSvc, s.log)
	handler.Register(s.Mux, s.Config.HTTP.APIPrefix)
	s.log.WithField("prefix", s.Config.HTTP.APIPrefix).Info("registered todo routes")

	s.Mux.HandleFunc("GET /health", httpapi.Health(s.repo, s.log))

	if s.Config.HTTP.MetricsEnabled {
		s.Mux.Handle("GET /metrics", s.metrics.Handler())
	}

	if s.Config.HTTP.SwaggerEnabled {
		if err := swagger.ServeSwagger(s.Mux, s.Config.HTTP.APIPrefix); err != nil {
			s.log.WithError(err).Error("swagger UI disabled")
		} else {
			s.log.Info("swagger UI enabled at /swagger/")
		}
	}

	// Все, что не совпало с маршрутами выше, получает 404/405 в формате конверта
	s.Mux.HandleFunc("/", httpapi.Fallback(s.Mux))
}

// Handler возвращает mux, обернутый в middleware.
// Порядок (снаружи внутрь): CORS → RequestID → Logging → Recover → Metrics → RateLimit → mux.
// Между Metrics и mux запрос не копируется, поэтому r.Pattern виден Metrics; 429 тоже считаются.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.Mux
	handler = middleware.RateLimit(handler, s.Config.HTTP.RateLimitRPS, s.Config.HTTP.RateLimitBurst, s.log)
	handler = s.metrics.Middleware(handler)
	handler = middleware.Recover(handler, s.log)
	handler = middleware.Logging(handler, s.log)
	handler = middleware.RequestID(handler)
	handler = setupCORS(s.Config.HTTP).Handler(handler)
	return handler
}

// Start запускает HTTP сервер в горутине.
// Возвращает канал ошибок для отслеживания ошибок сервера.
func (s *Server) Start() <-chan error {
	errChan := make(chan error, 1)

	listener, err := net.Listen("tcp", s.Addr)
	if err != nil {
		errChan <- fmt.Errorf("failed to listen on %s: %w", s.Addr, err)
		return errChan
	}

	go func() {
		s.log.WithField("addr", listener.Addr().String()).Info("HTTP server listening")
		if err := s.HTTPServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	return errChan
}

// Shutdown выполняет graceful shutdown: перестает принимать соединения,
// ждет активные запросы до таймаута, затем закрывает хранилище.
// Хранилище закрывается в любом случае, даже если таймаут истек.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("starting graceful shutdown")

	shutdownErr := s.HTTPServer.Shutdown(ctx)
	if shutdownErr != nil {
		s.log.WithError(shutdownErr).Warn("graceful shutdown timeout, forcing close")
		_ = s.HTTPServer.Close()
	} else {
		s.log.Info("HTTP server stopped gracefully")
	}

	if err := s.repo.Close(); err != nil {
		s.log.WithError(err).Error("failed to close storage")
		return errors.Join(shutdownErr, err)
	}
	s.log.Info("storage closed")

	return shutdownErr
}

// setupCORS настраивает CORS middleware используя конфигурацию
func setupCORS(cfg *config.ConfigHTTP) *cors.Cors {
	origins := strings.Split(cfg.CORSAllowedOrigins, ",")
	// Убираем пробелы из origins
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	maxAge := cfg.CORSMaxAge
	if maxAge == 0 {
		maxAge = 86400 // 24 часа по умолчанию
	}

	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{
			"Content-Type",
			"X-Requested-With",
			middleware.HeaderRequestID,
		},
		ExposedHeaders:   []string{middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           maxAge,
	})
}

func seconds(v, def int) time.Duration {
	if v <= 0 {
		v = def
	}
	return time.Duration(v) * time.Second
}
