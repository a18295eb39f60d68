package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr            string
	DBPath          string
	QuestionsPath   string
	LogLevel        string
	CORSOrigins     []string
	PersistWorkers  int
	PersistQueue    int
	LeaderboardSize int
}

// Load reads configuration from a .env file (if present) and environment
// variables, applying defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:            envOr("ADDR", ":8080"),
		DBPath:          envOr("DB_PATH", "file:quantumquiz.db"),
		QuestionsPath:   envOr("QUESTIONS_PATH", "data/questions.json"),
		LogLevel:        envOr("LOG_LEVEL", "INFO"),
		CORSOrigins:     envListOr("CORS_ORIGINS", []string{"http://localhost:8000"}),
		PersistWorkers:  envIntOr("PERSIST_WORKER_COUNT", 1),
		PersistQueue:    envIntOr("PERSIST_QUEUE_SIZE", 64),
		LeaderboardSize: envIntOr("LEADERBOARD_SIZE", 50),
	}
}

// Validate checks the configuration for values the server cannot start with.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.QuestionsPath == "" {
		return fmt.Errorf("QUESTIONS_PATH cannot be empty")
	}
	if c.PersistWorkers <= 0 {
		return fmt.Errorf("PERSIST_WORKER_COUNT must be positive, got %d", c.PersistWorkers)
	}
	if c.PersistQueue <= 0 {
		return fmt.Errorf("PERSIST_QUEUE_SIZE must be positive, got %d", c.PersistQueue)
	}
	if c.LeaderboardSize <= 0 {
		return fmt.Errorf("LEADERBOARD_SIZE must be positive, got %d", c.LeaderboardSize)
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envListOr(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
