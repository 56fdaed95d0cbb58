package config

import (
	"fmt"
	"strings"
)

// Load читает .env (если есть) и конфигурационный файл, затем проставляет значения по умолчанию
func Load(configFile string) (*Config, error) {
	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}

	cfg, err := InitConfig[Config](configFile)
	if err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Logger == nil {
		c.Logger = &ConfigLogger{}
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}

	if c.Server == nil {
		c.Server = &ConfigServer{}
	}
	if c.Server.Port == 0 {
		c.Server.Port = 3000
	}

	if c.HTTP == nil {
		c.HTTP = &ConfigHTTP{}
	}
	if c.HTTP.APIPrefix == "" {
		c.HTTP.APIPrefix = "/api"
	}
	c.HTTP.APIPrefix = "/" + strings.Trim(c.HTTP.APIPrefix, "/")
	if c.HTTP.CORSAllowedOrigins == "" {
		c.HTTP.CORSAllowedOrigins = "http://localhost:5173"
	}

	if c.Database == nil {
		c.Database = &ConfigDatabase{}
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverPostgres
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
}

// Validate проверяет значения, без которых сервер не стартует
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.URL == "" && (c.Database.Host == "" || c.Database.Name == "") {
			return fmt.Errorf("database: url or host and name are required for postgres")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("database: unsupported driver %q", c.Database.Driver)
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server: invalid port %d", c.Server.Port)
	}

	return nil
}
