package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envPattern ищет ${VAR} и ${VAR:-default}
var envPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandEnvWithDefaults подставляет переменные окружения.
// Пустая или невыставленная переменная заменяется значением после ":-".
func expandEnvWithDefaults(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(match string) string {
		m := envPattern.FindStringSubmatch(match)
		if value := os.Getenv(m[1]); value != "" {
			return value
		}
		return m[2]
	})
}

// LoadDotEnv подгружает переменные из .env файлов, если они есть.
// Уже выставленные переменные окружения не перезаписываются.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("godotenv.Load(%s): %w", f, err)
		}
	}
	return nil
}

// InitConfig читает конфигурационный файл в структуру C.
// Тип файла определяется по расширению; строки с ${...} раскрываются из окружения.
func InitConfig[C any](configFile string) (*C, error) {
	v := viper.New()
	v.SetConfigFile(configFile)
	v.SetConfigType(strings.TrimPrefix(filepath.Ext(configFile), "."))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("v.ReadInConfig: %w", err)
	}

	for _, k := range v.AllKeys() {
		raw := v.GetString(k)
		if !strings.Contains(raw, "${") {
			continue
		}
		// Строка ставится как есть: числа и bool приводит Unmarshal по типу поля
		v.Set(k, expandEnvWithDefaults(raw))
	}

	cfg := new(C)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("v.Unmarshal: %w", err)
	}

	return cfg, nil
}
