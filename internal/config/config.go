// internal/config/config.go
//
// Environment configuration.
// Load reads an optional .env file (godotenv) and then the process
// environment:
//
//   PORT               HTTP port (default 5175)
//   LOG_LEVEL          zerolog level (default info)
//   DATABASE_URL       SQLite path or postgres:// URL (default ./data/craftle.db)
//   RECIPES_FILE       JSON/YAML recipe catalog (default: embedded)
//   ITEMS_FILE         JSON item list (default: embedded)
//   JWT_SECRET         HS256 secret for bearer verification
//   CLIENT_ORIGIN      CORS origin (default http://localhost:5173)
//   DAILY_SALT         daily schedule salt
//   SESSION_CACHE_SIZE live riddles kept in memory (default 4096)
//   RANDOM_SEED        fixed entropy seed; unset means crypto-seeded
//   TUTORIAL_GROUP     group pinned by the tutorial (default axe0)

package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config is the resolved server configuration.
type Config struct {
	Port             string
	LogLevel         string
	DatabaseURL      string
	RecipesFile      string
	ItemsFile        string
	JWTSecret        string
	ClientOrigin     string
	DailySalt        string
	SessionCacheSize int
	// Seed is nil when RANDOM_SEED is unset.
	Seed          *int64
	TutorialGroup string
}

// Load reads .env (if present) and the environment.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv resolves the configuration from the current environment only.
func FromEnv() Config {
	c := Config{
		Port:             getEnv("PORT", "5175"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		DatabaseURL:      getEnv("DATABASE_URL", "./data/craftle.db"),
		RecipesFile:      os.Getenv("RECIPES_FILE"),
		ItemsFile:        os.Getenv("ITEMS_FILE"),
		JWTSecret:        getEnv("JWT_SECRET", "dev_secret_change_me"),
		ClientOrigin:     getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		DailySalt:        getEnv("DAILY_SALT", "local_dev_salt"),
		SessionCacheSize: envInt("SESSION_CACHE_SIZE", 4096),
		TutorialGroup:    getEnv("TUTORIAL_GROUP", "axe0"),
	}
	if v := os.Getenv("RANDOM_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = &n
		}
	}
	return c
}

// ApplyLogLevel sets the global zerolog level; unknown levels are ignored.
func (c Config) ApplyLogLevel() {
	if lvl, err := zerolog.ParseLevel(c.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
