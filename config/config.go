package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort         string
	MaxFileSize        int64
	MaxMultipartMemory int64
	RequestTimeout     time.Duration
	GinMode            string

	LogLevel  string
	LogFormat string
	LogFile   string

	// base URL the CLI talks to in --server mode
	ServerURL     string
	ClientTimeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		MaxFileSize:        getEnvAsInt64("MAX_FILE_SIZE", 10*1024*1024), // 10 MB
		MaxMultipartMemory: getEnvAsInt64("MAX_MULTIPART_MEMORY", 32<<20),
		RequestTimeout:     getEnvAsDuration("REQUEST_TIMEOUT", 30*time.Second),
		GinMode:            getEnv("GIN_MODE", "release"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
		LogFile:            getEnv("LOG_FILE", ""),
		ServerURL:          getEnv("NOTICE_SERVER_URL", "http://localhost:8080"),
		ClientTimeout:      getEnvAsDuration("NOTICE_CLIENT_TIMEOUT", 60*time.Second),
	}
}

// LoadDotEnv loads variables from the given .env files (".env" when none are
// given) without overriding the real environment. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if _, err := strconv.Atoi(c.ServerPort); err != nil {
		return fmt.Errorf("SERVER_PORT must be numeric, got %q", c.ServerPort)
	}
	if c.MaxFileSize <= 0 {
		return errors.New("MAX_FILE_SIZE must be positive")
	}
	if c.LogFormat != "json" && c.LogFormat != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.LogFormat)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
