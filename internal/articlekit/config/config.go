// Управление конфигурацией приложения из переменных окружения.
// Содержит структуру Config для хранения параметров и функцию ReadConfig для их загрузки из переменных окружения.
//
// Основные возможности:
//   - Загрузка конфигурации из переменных окружения с использованием тегов struct.
//   - Преобразование типов данных из переменных окружения (string, int, bool).
//   - Маскировка секретных значений (tokens) в логах.
//   - Значения по умолчанию для адреса бэкенда и локального превью.
package config

import (
	"log/slog"
	"net/url"
	"os"
	"reflect"
	"strings"
)

type Config struct {
	APIURLRaw string `env:"API_URL"`
	APIURL    *url.URL

	// База для относительных src изображений в документах
	ImageBaseURL string `env:"IMAGE_BASE_URL"`

	SessionsDBPath string `env:"SESSIONS_DB_PATH"`

	PreviewAddr string `env:"PREVIEW_ADDR"`

	ExportDir string `env:"EXPORT_DIR"`

	SearchDebounceMs int `env:"SEARCH_DEBOUNCE_MS"`

	Debug bool `env:"DEBUG"`
}

// ReadConfig загружает конфигурацию приложения из переменных окружения. Возвращает структуру Config с загруженными параметрами. Если API_URL не задан, используется адрес production-бэкенда. Типы данных преобразуются из строк, а секретные значения маскируются в логах.
func ReadConfig() *Config {
	config := &Config{}

	envConfig("env", config)

	if config.APIURLRaw == "" {
		config.APIURLRaw = "https://article-backend.fly.dev"
	}
	var err error
	config.APIURL, err = url.Parse(config.APIURLRaw)
	if err != nil {
		slog.Error("API_URL incorrect", "err", err)
		os.Exit(1)
	}

	if config.ImageBaseURL == "" {
		config.ImageBaseURL = config.APIURLRaw
	}

	if config.SessionsDBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		config.SessionsDBPath = home + "/.articlekit/sessions.db"
	}

	if config.PreviewAddr == "" {
		config.PreviewAddr = "localhost:8080"
	}

	if config.SearchDebounceMs <= 0 {
		config.SearchDebounceMs = 300
	}

	return config
}

// Присваивает полям в переданной структуре значения переменных. Название переменной для каждого поля лежит в теге этого поля.
func envConfig(key string, s interface{}) {
	v := reflect.ValueOf(s).Elem()
	typeParam := v.Type()
	for i := 0; i < v.NumField(); i++ {
		fName := typeParam.Field(i).Name
		fEnvTag := typeParam.Field(i).Tag.Get(key)

		if !Exist(fEnvTag) {
			continue
		}

		logValue := GetEnv(fEnvTag)
		if logValue == "" {
			continue
		}

		// Secure secrets in log
		if strings.Contains(strings.ToLower(fName), "pass") || strings.Contains(strings.ToLower(fName), "secret") || strings.Contains(strings.ToLower(fName), "token") {
			pass := strings.Split(GetEnv(fEnvTag), "")
			logValue = pass[0]
			for i := 1; i < len(pass)-1; i++ {
				logValue += "*"
			}
			logValue += pass[len(pass)-1]
		}
		slog.Info("Set config value",
			slog.String("key", typeParam.Name()+"."+fName),
			slog.String("value", logValue),
			slog.String("source", "ENVIRONMENT"),
		)

		switch v.Field(i).Interface().(type) {
		case string:
			v.Field(i).SetString(GetEnv(fEnvTag))
		case int:
			v.Field(i).SetInt(int64(GetIntEnv(fEnvTag)))
		case bool:
			v.Field(i).SetBool(GetBoolEnv(fEnvTag))
		}
	}
}
