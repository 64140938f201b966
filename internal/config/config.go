// Package config loads application configuration from environment
// variables, with a .env file picked up for local development.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values. DataDir contains the
// two JSON documents; StaticDir is the static assets root that uploaded
// images live under and are served from.
type Config struct {
	Port           string
	DataDir        string
	StaticDir      string
	SessionSecret  string
	SessionTTLMin  int
	RememberTTLMin int
	BcryptCost     int
}

// Load reads configuration from the environment. A missing .env file is
// fine; a missing session secret is not, since every session token is
// signed with it.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, using environment")
	}
	return Config{
		Port:           getenv("APP_PORT", "8080"),
		DataDir:        getenv("DATA_DIR", "data"),
		StaticDir:      getenv("STATIC_DIR", "static"),
		SessionSecret:  must("SESSION_SECRET"),
		SessionTTLMin:  getint("SESSION_TTL_MIN", 30),
		RememberTTLMin: getint("REMEMBER_TTL_MIN", 60),
		BcryptCost:     getint("BCRYPT_COST", 10),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, v)
	}
	return n
}

func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
