package config // package config loads application configuration from environment variables

import (
	"log"     // log reports configuration errors and halts execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time expresses token lifetimes

	"github.com/joho/godotenv" // godotenv loads a local .env file when present
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. The signing secret is read once here; rotating
// it invalidates every outstanding token, which is acceptable because
// tokens are stateless.
type Config struct {
	Env        string        // application environment (e.g. "dev", "prod")
	Port       string        // HTTP port to listen on
	DBUser     string        // database username
	DBPass     string        // database password (optional)
	DBHost     string        // database host address
	DBPort     string        // database port number
	DBName     string        // database name
	JWTSecret  string        // secret used to sign JWTs
	AccessTTL  time.Duration // access token lifetime (default 24h)
	RefreshTTL time.Duration // refresh token lifetime (default 30 days)
	BcryptCost int           // bcrypt cost for password hashing
}

// Load reads configuration from the environment, after loading a .env file
// if one exists in the working directory. Required variables are enforced
// by must(); missing values cause the process to exit with a fatal log.
func Load() Config {
	_ = godotenv.Load() // absence of .env is fine in production

	return Config{
		Env:        must("APP_ENV"),
		Port:       must("APP_PORT"),
		DBUser:     must("DB_USER"),
		DBPass:     os.Getenv("DB_PASS"), // empty allowed
		DBHost:     must("DB_HOST"),
		DBPort:     must("DB_PORT"),
		DBName:     must("DB_NAME"),
		JWTSecret:  must("JWT_SECRET"),
		AccessTTL:  time.Duration(envInt("ACCESS_TOKEN_TTL_MIN", 24*60)) * time.Minute,
		RefreshTTL: time.Duration(envInt("REFRESH_TOKEN_TTL_DAYS", 30)) * 24 * time.Hour,
		BcryptCost: envInt("BCRYPT_COST", 12),
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

// envInt reads an integer variable, falling back to def when unset. An
// unparseable value is a fatal configuration error rather than a silent
// default.
func envInt(key string, def int) int {
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
