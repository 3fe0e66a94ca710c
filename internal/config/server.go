package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// ServerConfig holds settings for `rothsim serve`
type ServerConfig struct {
	Addr        string
	DBPath      string
	Workers     int
	LogLevel    string
	CORSOrigins []string
}

// LoadServerConfig reads a .env file when present, then the environment
func LoadServerConfig() (*ServerConfig, error) {
	_ = godotenv.Load()

	cfg := &ServerConfig{
		Addr:        getEnv("ROTHSIM_ADDR", ":8080"),
		DBPath:      getEnv("ROTHSIM_DB", "./data/rothsim.db"),
		Workers:     getEnvAsInt("ROTHSIM_WORKERS", runtime.NumCPU()),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: splitList(getEnv("ROTHSIM_CORS_ORIGINS", "*")),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required settings
func (c *ServerConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("ROTHSIM_ADDR is required")
	}
	if c.DBPath == "" {
		return fmt.Errorf("ROTHSIM_DB is required")
	}
	if c.Workers < 1 {
		return fmt.Errorf("ROTHSIM_WORKERS must be at least 1, got %d", c.Workers)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
