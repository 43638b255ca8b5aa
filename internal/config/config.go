package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable. Access and refresh tokens are signed with
// independent secrets so that one kind can never validate where the
// other is required; the New*TTLMin fields apply only to the pair issued
// by the refresh endpoint, which intentionally gets a longer runway than
// the pair issued at login.
type Config struct {
	Env               string // application environment (e.g. "dev", "prod")
	Port              string // HTTP port to listen on
	DBUser            string // database username
	DBPass            string // database password (optional)
	DBHost            string // database host address
	DBPort            string // database port number
	DBName            string // database name
	JWTAccessSecret   string // secret used to sign access tokens
	JWTRefreshSecret  string // secret used to sign refresh tokens
	AccessTTLMin      int    // access token TTL in minutes, issued at login
	RefreshTTLMin     int    // refresh token TTL in minutes, issued at login
	NewAccessTTLMin   int    // access token TTL for the renewed pair
	NewRefreshTTLMin  int    // refresh token TTL for the renewed pair
	BcryptCost        int    // bcrypt cost for password hashing
	GoogleUserInfoURL string // Google userinfo endpoint (override for tests)
}

// Load reads configuration values from environment variables and returns
// a Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message. TTLs fall back to
// the documented defaults when unset.
func Load() Config {
	return Config{
		Env:               must("APP_ENV"),
		Port:              must("APP_PORT"),
		DBUser:            must("DB_USER"),
		DBPass:            os.Getenv("DB_PASS"), // empty allowed
		DBHost:            must("DB_HOST"),
		DBPort:            must("DB_PORT"),
		DBName:            must("DB_NAME"),
		JWTAccessSecret:   must("JWT_ACCESS_SECRET"),
		JWTRefreshSecret:  must("JWT_REFRESH_SECRET"),
		AccessTTLMin:      intOr("ACCESS_TOKEN_TTL_MIN", 30),
		RefreshTTLMin:     intOr("REFRESH_TOKEN_TTL_MIN", 240),
		NewAccessTTLMin:   intOr("NEW_ACCESS_TOKEN_TTL_MIN", 120),
		NewRefreshTTLMin:  intOr("NEW_REFRESH_TOKEN_TTL_MIN", 2880),
		BcryptCost:        intOr("BCRYPT_COST", 12),
		GoogleUserInfoURL: os.Getenv("GOOGLE_USERINFO_URL"), // verifier falls back to the real endpoint
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// intOr retrieves an integer environment variable, returning def when the
// variable is unset. A set-but-unparsable value is a fatal error.
func intOr(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
