package config

import (
	"fmt"
	"os"
)

// Config holds all runtime configuration, read from the environment once
// at startup and passed explicitly to the components that need it.
type Config struct {
	Port string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	JWTSecret string

	RedisURL string

	AWSRegion    string
	AWSAccessKey string
	AWSSecretKey string
	S3Bucket     string

	UploadDir string
	BaseURL   string
}

// Load reads configuration from the environment. JWT_SECRET and the
// database settings are required; everything else has a usable default.
func Load() (*Config, error) {
	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		DBHost:       os.Getenv("DB_HOST"),
		DBUser:       os.Getenv("DB_USER"),
		DBPassword:   os.Getenv("DB_PASSWORD"),
		DBName:       os.Getenv("DB_NAME"),
		DBPort:       getEnv("DB_PORT", "5432"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		RedisURL:     getEnv("REDIS_URL", "redis://redis:6379"),
		AWSRegion:    os.Getenv("AWS_REGION"),
		AWSAccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		S3Bucket:     os.Getenv("AWS_S3_BUCKET"),
		UploadDir:    getEnv("UPLOAD_DIR", "/app/uploads"),
		BaseURL:      getEnv("BASE_URL", "http://localhost:8080"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}
	if cfg.DBHost == "" || cfg.DBUser == "" || cfg.DBName == "" {
		return nil, fmt.Errorf("database configuration is incomplete (DB_HOST, DB_USER, DB_NAME required)")
	}

	return cfg, nil
}

// DSN builds the Postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
