package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/robalobadob/colormatch/internal/game"
	"github.com/robalobadob/colormatch/internal/httpserver"
	"github.com/robalobadob/colormatch/internal/results"
)

// config is everything main resolves from the environment (after .env is loaded).
type config struct {
	Port       string
	LogLevel   string
	LogFormat  string // "json" or "console"
	DSN        string
	IdleTTL    time.Duration
	SweepEvery time.Duration
	HTTP       httpserver.Config
}

// loadConfig reads the environment, applying defaults for anything unset.
func loadConfig() (config, error) {
	policy, err := game.ParseResubmitPolicy(os.Getenv("RESUBMIT_POLICY"))
	if err != nil {
		return config{}, err
	}
	days, err := envInt("SESSION_TTL_DAYS", 7)
	if err != nil {
		return config{}, err
	}
	idle, err := envDuration("SESSION_IDLE_TTL", 24*time.Hour)
	if err != nil {
		return config{}, err
	}
	sweep, err := envDuration("SESSION_SWEEP_INTERVAL", 10*time.Minute)
	if err != nil {
		return config{}, err
	}

	return config{
		Port:       getEnv("PORT", "5175"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFormat:  getEnv("LOG_FORMAT", "json"),
		DSN:        getEnv("DB_DSN", results.DefaultDSN),
		IdleTTL:    idle,
		SweepEvery: sweep,
		HTTP: httpserver.Config{
			Secret:        []byte(getEnv("SESSION_SECRET", "dev_secret_change_me")),
			TokenTTL:      time.Duration(days) * 24 * time.Hour,
			CookieName:    getEnv("COOKIE_NAME", "colormatch_session"),
			SecureCookies: os.Getenv("NODE_ENV") == "production",
			ClientOrigin:  getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
			Policy:        policy,
		},
	}, nil
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s: want a positive integer, got %q", k, v)
	}
	return n, nil
}

func envDuration(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s: want a positive duration, got %q", k, v)
	}
	return d, nil
}
