// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"
	"strings"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Required values abort startup when missing;
// optional ones fall back to defaults that match the original service.
type Config struct {
	Env          string            // application environment (dev/test/prod)
	Port         string            // HTTP port to listen on
	DBUser       string            // database username
	DBPass       string            // database password (optional)
	DBHost       string            // database host address
	DBPort       string            // database port number
	DBName       string            // database name
	JWTSecret    string            // secret used to sign access tokens
	AccessTTLMin int               // access token time-to-live in minutes
	BcryptCost   int               // bcrypt cost for credential hashing
	AuthUsers    map[string]string // username -> plaintext password, hashed at startup
}

// Load reads configuration from environment variables.  Required variables
// are enforced by must(); missing values cause a fatal log and exit.
func Load() Config {
	return Config{
		Env:          must("APP_ENV"),
		Port:         must("APP_PORT"),
		DBUser:       must("DB_USER"),
		DBPass:       os.Getenv("DB_PASS"),
		DBHost:       must("DB_HOST"),
		DBPort:       must("DB_PORT"),
		DBName:       must("DB_NAME"),
		JWTSecret:    must("JWT_SECRET"),
		AccessTTLMin: envInt("ACCESS_TOKEN_TTL_MIN", 60),
		BcryptCost:   envInt("BCRYPT_COST", 10),
		AuthUsers:    parseAuthUsers(envStr("AUTH_USERS", "user1:password1,user2:password2")),
	}
}

// parseAuthUsers turns "alice:secret,bob:hunter2" into a username/password
// map.  Entries without a colon are skipped.  Colons inside passwords are
// preserved (only the first colon splits).
func parseAuthUsers(s string) map[string]string {
	users := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		user, pass, ok := strings.Cut(pair, ":")
		if !ok || user == "" {
			continue
		}
		users[user] = pass
	}
	return users
}

// must retrieves a required environment variable or exits the process.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
