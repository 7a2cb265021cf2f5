package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config содержит настройки приложения
type Config struct {
	HTTPPort   string // Порт HTTP сервера
	DBHost     string // Хост базы данных
	DBPort     string // Порт базы данных
	DBUser     string // Пользователь базы данных
	DBPassword string // Пароль базы данных
	DBName     string // Имя базы данных
	LogLevel   string // Уровень логирования

	JWTSecret   string        // Секрет для подписи JWT
	JWTIssuer   string        // Издатель токена
	JWTAudience string        // Аудитория токена
	TokenExpiry time.Duration // Время жизни токена

	EncryptionKey []byte // Симметричный ключ шифрования номеров карт

	SMTPHost     string // SMTP сервер для уведомлений
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	EmailEnabled bool // Флаг отправки email уведомлений
}

// LoadConfig загружает конфигурацию из .env файла и переменных окружения
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("Файл .env не найден")
	}

	expiry, err := time.ParseDuration(getEnv("TOKEN_EXPIRY", "30m"))
	if err != nil {
		expiry = 30 * time.Minute
	}

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("некорректный SMTP_PORT: %w", err)
	}

	config := &Config{
		HTTPPort:      getEnv("HTTP_PORT", "8080"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPassword:    getEnv("DB_PASSWORD", "postgres"),
		DBName:        getEnv("DB_NAME", "bank_rest"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		JWTIssuer:     getEnv("JWT_ISSUER", "bank-rest"),
		JWTAudience:   getEnv("JWT_AUDIENCE", "bank-rest-api"),
		TokenExpiry:   expiry,
		EncryptionKey: []byte(os.Getenv("ENCRYPTION_KEY")),
		SMTPHost:      getEnv("SMTP_HOST", ""),
		SMTPPort:      smtpPort,
		SMTPUser:      getEnv("SMTP_USER", ""),
		SMTPPassword:  getEnv("SMTP_PASS", ""),
		EmailEnabled:  getEnv("EMAIL_SENDER_ENABLED", "false") == "true",
	}

	// Секреты обязательны: дефолтов для них нет
	if config.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if keyLen := len(config.EncryptionKey); keyLen != 16 && keyLen != 24 && keyLen != 32 {
		return nil, fmt.Errorf("ENCRYPTION_KEY must be 16, 24, or 32 bytes, got %d", keyLen)
	}

	return config, nil
}

// DSN возвращает строку подключения к PostgreSQL
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName,
	)
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
