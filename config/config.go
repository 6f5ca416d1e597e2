package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all runtime configuration, read once from the environment.
type Config struct {
	// HTTP server
	Port        string
	CORSOrigins []string

	// MongoDB
	MongoURI      string
	MongoDatabase string

	// Auth
	JWTSecret  string
	BcryptCost int

	// Runtime
	AppEnv   string
	LogLevel string
}

// Load reads configuration from environment variables, applying defaults
// for everything except the values Validate requires.
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "5000"),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGIN", "http://localhost:5173")),

		MongoURI:      getEnv("MONGO_URI", ""),
		MongoDatabase: getEnv("MONGO_DATABASE", "expense_tracker"),

		JWTSecret:  getEnv("JWT_SECRET", ""),
		BcryptCost: getEnvInt("BCRYPT_COST", 10),

		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate returns an error describing every missing or malformed value.
func (c *Config) Validate() error {
	var problems []string

	if c.MongoURI == "" {
		problems = append(problems, "MONGO_URI is required")
	}
	if c.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET is required")
	}
	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		problems = append(problems, fmt.Sprintf("invalid bcrypt cost %d: must be between 4 and 31", c.BcryptCost))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Development reports whether the process runs outside production.
// Secure cookies and Gin release mode switch on the inverse of this.
func (c *Config) Development() bool {
	return c.AppEnv != "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
