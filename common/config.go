package common

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const defaultDbURI = "sqlite:///data.db"

type Config struct {
	SecretKey          string // signs the session cookie
	DbURI              string
	Port               string
	GinMode            string
	CORSAllowedOrigins []string
	SessionMaxAgeDays  int
}

var ErrMissingSecret = errors.New("SECRET_KEY environment variable not set")

// LoadConfig reads .env (when present) and then the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		SecretKey:          getEnv("SECRET_KEY", os.Getenv("SESSION_SECRET")),
		DbURI:              getEnv("DB_URI", defaultDbURI),
		Port:               getEnv("PORT", "8080"),
		GinMode:            getEnv("GIN_MODE", "debug"),
		CORSAllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		SessionMaxAgeDays:  getEnvAsInt("SESSION_MAX_AGE_DAYS", 7),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return ErrMissingSecret
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
