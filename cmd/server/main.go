package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"todo-service/internal/config"
	"todo-service/internal/logger"
	"todo-service/internal/repository"
	"todo-service/internal/repository/memory"
	"todo-service/internal/repository/postgres"
	"todo-service/internal/server"
)

const (
	configFile  = "config.yml"
	serviceName = "todo-service"
)

func main() {
	// Загружаем конфигурацию из файла (.env подхватывается автоматически)
	appConfig, err := config.Load(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(serviceName, appConfig.Logger.Level, appConfig.Logger.Format)

	// Инициализация компонентов (DI): Repository → Service → Handler
	repo, err := openRepository(appConfig.Database, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize storage")
	}

	srv := server.NewServer(appConfig, repo, log)

	// Канал для graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := srv.Start()
	log.WithField("addr", srv.Addr).Info("Todo Service started")

	// Ожидание сигнала или ошибки
	exitCode := 0
	select {
	case err := <-errChan:
		log.WithError(err).Error("server error")
		exitCode = 1
	case sig := <-sigChan:
		log.WithField("signal", sig.String()).Info("received signal, starting graceful shutdown")
	}

	ctx, cancel := context.WithTimeout(context.Background(), appConfig.Server.ShutdownTimeout())
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("shutdown finished with errors")
		exitCode = 1
	}

	log.Info("Todo Service stopped")
	os.Exit(exitCode)
}

// openRepository выбирает хранилище по database.driver
func openRepository(cfg *config.ConfigDatabase, log *logrus.Entry) (repository.TodoRepository, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		log.Info("initialized in-memory repository")
		return memory.NewRepository(), nil

	case config.DriverPostgres:
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout())
		defer cancel()

		repo, err := postgres.Open(ctx, cfg.DSN(), postgres.PoolOptions{
			MaxOpenConns:    cfg.MaxOpenConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			ConnMaxLifetime: cfg.ConnMaxLifetimeDuration(),
		})
		if err != nil {
			return nil, err
		}

		if cfg.AutoMigrate {
			if err := repo.Migrate(ctx); err != nil {
				_ = repo.Close()
				return nil, err
			}
			log.Info("database schema is up to date")
		}

		log.WithFields(logrus.Fields{
			"host": cfg.Host,
			"name": cfg.Name,
		}).Info("initialized postgres repository")
		return repo, nil
	}

	return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}
