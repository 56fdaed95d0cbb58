package config

import (
	"fmt"
	"net/url"
	"time"
)

// Поддерживаемые значения database.driver
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// ConfigLogger настройки логирования
type ConfigLogger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json или text
}

// ConfigServer настройки HTTP сервера
type ConfigServer struct {
	Port                    int `mapstructure:"port"`
	HTTPReadTimeout         int `mapstructure:"http_read_timeout"`
	HTTPWriteTimeout        int `mapstructure:"http_write_timeout"`
	HTTPIdleTimeout         int `mapstructure:"http_idle_timeout"`
	HTTPReadHeaderTimeout   int `mapstructure:"http_read_header_timeout"`
	GracefulShutdownTimeout int `mapstructure:"graceful_shutdown_timeout"`
}

// ConfigHTTP настройки API: префикс, CORS, rate limit, документация
type ConfigHTTP struct {
	APIPrefix          string `mapstructure:"api_prefix"`
	CORSAllowedOrigins string `mapstructure:"cors_allowed_origins"`
	CORSMaxAge         int    `mapstructure:"cors_max_age"`
	RateLimitRPS       int    `mapstructure:"rate_limit_rps"`
	RateLimitBurst     int    `mapstructure:"rate_limit_burst"`
	SwaggerEnabled     bool   `mapstructure:"swagger_enabled"`
	MetricsEnabled     bool   `mapstructure:"metrics_enabled"`
}

// ConfigDatabase настройки хранилища
type ConfigDatabase struct {
	Driver          string `mapstructure:"driver"` // postgres или memory
	URL             string `mapstructure:"url"`    // если задан, имеет приоритет над отдельными полями
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	Name            string `mapstructure:"name"`
	SSLMode         string `mapstructure:"sslmode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // секунды
	ConnectTimeoutS int    `mapstructure:"connect_timeout"`   // секунды
	AutoMigrate     bool   `mapstructure:"auto_migrate"`
}

// Config основная структура конфигурации
type Config struct {
	Logger   *ConfigLogger   `mapstructure:"logger"`
	Server   *ConfigServer   `mapstructure:"server"`
	HTTP     *ConfigHTTP     `mapstructure:"http"`
	Database *ConfigDatabase `mapstructure:"database"`
}

// DSN собирает строку подключения к PostgreSQL
func (db *ConfigDatabase) DSN() string {
	if db.URL != "" {
		return db.URL
	}

	sslMode := db.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(db.User, db.Password),
		Host:     fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:     "/" + db.Name,
		RawQuery: "sslmode=" + url.QueryEscape(sslMode),
	}
	return u.String()
}

// ConnMaxLifetimeDuration возвращает время жизни соединения как time.Duration
func (db *ConfigDatabase) ConnMaxLifetimeDuration() time.Duration {
	return time.Duration(db.ConnMaxLifetime) * time.Second
}

// ShutdownTimeout возвращает таймаут graceful shutdown (по умолчанию 10 секунд)
func (s *ConfigServer) ShutdownTimeout() time.Duration {
	if s.GracefulShutdownTimeout <= 0 {
		return 10 * time.Second
	}
	return time.Duration(s.GracefulShutdownTimeout) * time.Second
}

// ConnectTimeout таймаут первого подключения и миграции (по умолчанию 5 секунд)
func (db *ConfigDatabase) ConnectTimeout() time.Duration {
	if db.ConnectTimeoutS <= 0 {
		return 5 * time.Second
	}
	return time.Duration(db.ConnectTimeoutS) * time.Second
}
