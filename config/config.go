package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Окно регистрации текущего ивента (WIB, UTC+7). Значения можно переопределить
// через REGISTRATION_OPEN / REGISTRATION_CLOSE, чтобы API и фронтовый
// countdown читали один и тот же момент из одного места.
const (
	defaultRegistrationOpen  = "2025-08-10T07:00:00+07:00"
	defaultRegistrationClose = "2025-08-10T17:00:00+07:00"
	defaultMaxTeams          = 16
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL        string
	ServerPort         int
	RegistrationOpen   time.Time
	RegistrationClose  time.Time
	MaxTeams           int
	CORSAllowedOrigins []string

	// Cloudflare R2 (опционально; без него загрузка логотипов выключена).
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	// Загружаем .env файл, если он есть. Ошибку не считаем фатальной.
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	portStr := os.Getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080" // Порт по умолчанию
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	open, err := parseTimeEnv("REGISTRATION_OPEN", defaultRegistrationOpen)
	if err != nil {
		return nil, err
	}
	closeAt, err := parseTimeEnv("REGISTRATION_CLOSE", defaultRegistrationClose)
	if err != nil {
		return nil, err
	}
	if !open.Before(closeAt) {
		return nil, fmt.Errorf("REGISTRATION_OPEN (%s) must be before REGISTRATION_CLOSE (%s)",
			open.Format(time.RFC3339), closeAt.Format(time.RFC3339))
	}

	maxTeams := defaultMaxTeams
	if v := os.Getenv("MAX_TEAMS"); v != "" {
		maxTeams, err = strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid MAX_TEAMS environment variable: %w", err)
		}
		if maxTeams <= 0 {
			return nil, fmt.Errorf("MAX_TEAMS must be positive, got %d", maxTeams)
		}
	}

	origins := []string{"*"}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		origins = origins[:0]
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	cfg := &Config{
		DatabaseURL:        dbURL,
		ServerPort:         port,
		RegistrationOpen:   open,
		RegistrationClose:  closeAt,
		MaxTeams:           maxTeams,
		CORSAllowedOrigins: origins,

		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
	}

	return cfg, nil
}

// R2Configured сообщает, задан ли полный набор параметров Cloudflare R2.
func (c *Config) R2Configured() bool {
	return c.R2AccountID != "" &&
		c.R2AccessKeyID != "" &&
		c.R2SecretAccessKey != "" &&
		c.R2BucketName != "" &&
		c.R2PublicBaseURL != ""
}

func parseTimeEnv(name, fallback string) (time.Time, error) {
	raw := os.Getenv(name)
	if raw == "" {
		raw = fallback
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s environment variable (want RFC3339): %w", name, err)
	}
	return t, nil
}
