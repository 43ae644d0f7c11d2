package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort     string
	DatabaseType   string // sqlite, postgres or mysql
	DatabasePath   string // sqlite only
	DatabaseURL    string // postgres/mysql DSN
	MigrationsPath string

	ScoreHashSecret string
	TokenSecret     string
	TokenDuration   time.Duration

	RedisAddr     string // optional leaderboard cache, empty disables it
	RedisPassword string

	ScoreHashWindow       time.Duration
	MultiplayerWaitLimit  time.Duration // WAITING sessions older than this get bot-filled
	MultiplayerFinishWait time.Duration // grace period before a finished player may submit alone
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is honoured when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:     getEnv("PORT", "8080"),
		DatabaseType:   getEnv("DATABASE_TYPE", "sqlite"),
		DatabasePath:   getEnv("DB_PATH", "./realvsai.db"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),

		ScoreHashSecret: getEnv("SCORE_HASH_SECRET", "dev-score-secret"),
		TokenSecret:     getEnv("TOKEN_SECRET", "dev-token-secret"),
		TokenDuration:   getEnvAsDuration("TOKEN_DURATION", 24*time.Hour),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		ScoreHashWindow:       getEnvAsDuration("SCORE_HASH_WINDOW", 300*time.Second),
		MultiplayerWaitLimit:  getEnvAsDuration("MULTIPLAYER_WAIT_TIMEOUT", 2*time.Minute),
		MultiplayerFinishWait: getEnvAsDuration("MULTIPLAYER_FINISH_WAIT", 10*time.Minute),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsDuration reads a duration environment variable or returns a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
