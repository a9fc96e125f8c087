package config // package config loads application configuration from environment variables

import (
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"strings"
	"time"
)

// ProductionEnv is the APP_ENV value that switches the service to strict
// origin checking unless CORS_STRICT says otherwise.
const ProductionEnv = "production"

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Pool sizing is deliberately absent: it is fixed
// in the database package and not tunable from the environment.
type Config struct {
	Env  string // application environment (development, production, ...)
	Host string // interface to bind the HTTP server to
	Port string // HTTP port to listen on

	DatabaseURL string // single connection string; wins over the discrete fields
	DBHost      string // database host address
	DBPort      string // database port number
	DBName      string // database name
	DBUser      string // database username
	DBPassword  string // database password
	DBSSLMode   string // libpq sslmode for the discrete target

	CORSOrigins       []string // allowed origins, "*" allows any
	StrictOriginCheck bool     // reject unknown origins instead of allowing them

	LogLevel string // zap level name
	Debug    bool   // development logger with colored output
}

// Load reads configuration values from environment variables and returns a
// Config.  Every value has a default so the server starts against a local
// PostgreSQL without any environment at all.
func Load() Config {
	env := envStr("APP_ENV", envStr("NODE_ENV", "development"))
	return Config{
		Env:  env,
		Host: envStr("HOST", "0.0.0.0"),
		Port: envStr("PORT", "34567"),

		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DBHost:      envStr("DB_HOST", "localhost"),
		DBPort:      envStr("DB_PORT", "5432"),
		DBName:      envStr("DB_NAME", "mindmirror"),
		DBUser:      envStr("DB_USER", "postgres"),
		DBPassword:  envStr("DB_PASSWORD", "postgres"),
		DBSSLMode:   envStr("DB_SSLMODE", "disable"),

		CORSOrigins:       SplitOrigins(envStr("CORS_ORIGIN", "http://localhost:8080")),
		StrictOriginCheck: envBool("CORS_STRICT", env == ProductionEnv),

		LogLevel: envStr("LOG_LEVEL", "info"),
		Debug:    envBool("DEBUG", false),
	}
}

// Addr returns the host:port pair the HTTP server binds to.
func (c Config) Addr() string {
	return c.Host + ":" + c.Port
}

// SplitOrigins turns a comma separated allow-list into its trimmed,
// non-empty entries.
func SplitOrigins(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
