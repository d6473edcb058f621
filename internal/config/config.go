package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type Config struct {
	ServiceName string
	Env         string
	Port        string
	LogLevel    string
	GinMode     string

	DB        DBConfig
	RedisAddr string

	JWTSecret string
	JWTTTL    time.Duration
}

// Load reads configuration from .env (if present) and environment variables.
func Load() *Config {
	// .env is optional; real deployments set environment variables directly
	_ = godotenv.Load()

	return &Config{
		ServiceName: getEnv("SERVICE_NAME", "project-weaver-api"),
		Env:         getEnv("ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "weaver"),
			Password: getEnv("DB_PASSWORD", "weaverpassword"),
			Name:     getEnv("DB_NAME", "project_weaver"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		JWTSecret: getEnv("JWT_SECRET", "default-secret-key-change-me"),
		JWTTTL:    getEnvHours("JWT_TTL_HOURS", 24),
	}
}

// LogConfig returns startup fields for the structured logger.
func (c *Config) LogConfig() []zap.Field {
	return []zap.Field{
		zap.String("service", c.ServiceName),
		zap.String("environment", c.Env),
		zap.String("port", c.Port),
		zap.String("db_host", c.DB.Host),
		zap.String("db_name", c.DB.Name),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvHours(key string, defaultHours int) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if hours, err := strconv.Atoi(value); err == nil && hours > 0 {
			return time.Duration(hours) * time.Hour
		}
	}
	return time.Duration(defaultHours) * time.Hour
}
