// Package config loads service configuration from the environment, with a
// .env file as a development convenience.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds every tunable the service reads at startup.
type Config struct {
	Port        int
	DatabaseURL string
	RedisURL    string
	JWTSecret   string

	TurnTimer      time.Duration // 0 disables the per-turn timer
	SessionTTL     time.Duration
	AllowAnyOrigin bool
	LogLevel       logrus.Level
}

// Load reads the configuration. A missing .env file is not an error; real
// deployments set the environment directly.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("config: could not read .env file")
	}

	cfg := Config{
		Port:           envInt("PORT", 8080),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		TurnTimer:      time.Duration(envInt("TURN_TIMER_SEC", 45)) * time.Second,
		SessionTTL:     time.Duration(envInt("SESSION_TTL_MIN", 60)) * time.Minute,
		AllowAnyOrigin: os.Getenv("ALLOW_ANY_ORIGIN") == "true",
		LogLevel:       logrus.InfoLevel,
	}

	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		parsed, err := logrus.ParseLevel(lvl)
		if err != nil {
			logrus.WithField("level", lvl).Warn("config: unknown log level, using info")
		} else {
			cfg.LogLevel = parsed
		}
	}
	if cfg.JWTSecret == "" {
		logrus.Warn("config: JWT_SECRET not set, using an insecure development default")
		cfg.JWTSecret = "dev-secret-do-not-use"
	}
	return cfg
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logrus.WithFields(logrus.Fields{"key": key, "value": v}).Warn("config: not an integer, using default")
		return def
	}
	return n
}
