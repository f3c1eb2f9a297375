package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/text/currency"
)

// Config содержит конфигурацию приложения
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	External ExternalConfig
	Worker   WorkerConfig
	Network  NetworkConfig
	Logging  LoggingConfig
	App      AppConfig
}

// ServerConfig содержит настройки сервера
type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig содержит настройки хранилища сессии.
// Если Enabled == false, сессия не сохраняется между запусками.
type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// ExternalConfig содержит настройки внешнего API
type ExternalConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// WorkerConfig содержит настройки опроса курсов
type WorkerConfig struct {
	Interval time.Duration
}

// NetworkConfig содержит настройки проверки доступности сети
type NetworkConfig struct {
	ProbeInterval time.Duration
	ProbeTimeout  time.Duration
}

// LoggingConfig содержит настройки логирования
type LoggingConfig struct {
	Level  string
	Format string
}

// AppConfig содержит общие настройки приложения
type AppConfig struct {
	ShutdownTimeout  time.Duration
	BaseCurrency     string
	MaxDigits        int
	MaxDecimalDigits int
	// Идентификатор сохранённой сессии; пустой означает последнюю сессию для базовой валюты
	SessionID string
}

// Load загружает конфигурацию из переменных окружения
// Сначала пытается загрузить .env файл, затем использует системные env vars
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using system environment variables: %v", err)
	}
	return &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "localhost"),
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:  getDurationEnv("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Database: DatabaseConfig{
			Enabled:  getBoolEnv("DB_ENABLED", false),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "rates_converter"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		External: ExternalConfig{
			APIKey:  getEnv("EXTERNAL_API_KEY", ""),
			BaseURL: getEnv("EXTERNAL_API_URL", "https://hiring.revolut.codes"),
			Timeout: getDurationEnv("EXTERNAL_API_TIMEOUT", 5*time.Second),
		},
		Worker: WorkerConfig{
			Interval: getDurationEnv("WORKER_INTERVAL", time.Second),
		},
		Network: NetworkConfig{
			ProbeInterval: getDurationEnv("NETWORK_PROBE_INTERVAL", 5*time.Second),
			ProbeTimeout:  getDurationEnv("NETWORK_PROBE_TIMEOUT", 2*time.Second),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		App: AppConfig{
			ShutdownTimeout:  getDurationEnv("SHUTDOWN_TIMEOUT", 30*time.Second),
			BaseCurrency:     getCurrencyEnv("BASE_CURRENCY", "EUR"),
			MaxDigits:        getIntEnv("MAX_DIGITS", 9),
			MaxDecimalDigits: getIntEnv("MAX_DECIMAL_DIGITS", 2),
			SessionID:        getEnv("SESSION_ID", ""),
		},
	}
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv получает значение переменной окружения как duration или возвращает значение по умолчанию
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

// getIntEnv получает значение переменной окружения как int или возвращает значение по умолчанию
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getCurrencyEnv получает ISO-код валюты; невалидный код заменяется значением по умолчанию
func getCurrencyEnv(key, defaultValue string) string {
	value := strings.ToUpper(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return defaultValue
	}
	unit, err := currency.ParseISO(value)
	if err != nil {
		log.Printf("Warning: %s=%q is not an ISO 4217 code, using %s", key, value, defaultValue)
		return defaultValue
	}
	return unit.String()
}
