package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/iliyamo/mind-mirror/internal/config"
)

// PoolOptions bounds the shared connection pool.  The values are fixed in
// code; DefaultPoolOptions is what the server runs with.
type PoolOptions struct {
	MaxOpenConns   int
	IdleTimeout    time.Duration // how long an unused connection may stay open
	AcquireTimeout time.Duration // how long a caller waits for a free connection
}

func DefaultPoolOptions() PoolOptions {
	return PoolOptions{
		MaxOpenConns:   20,
		IdleTimeout:    30 * time.Second,
		AcquireTimeout: 2 * time.Second,
	}
}

// Target identifies the database either by a single connection string (URL)
// or by discrete fields.  URL wins when both are present.
type Target struct {
	URL      string
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

// TargetFromConfig picks the connection fields out of the app config.
func TargetFromConfig(cfg config.Config) Target {
	return Target{
		URL:      cfg.DatabaseURL,
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		Name:     cfg.DBName,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		SSLMode:  cfg.DBSSLMode,
	}
}

// cloudHostMarkers are substrings of hosted provider hostnames that require
// TLS.  Their certificates are not verified (sslmode=require).
var cloudHostMarkers = []string{"supabase"}

// IsCloudHost reports whether a connection string points at a hosted
// provider.  The hostname is inspected when the string is a URL, otherwise
// the whole string is.
func IsCloudHost(dsn string) bool {
	s := dsn
	if u, err := url.Parse(dsn); err == nil && u.Host != "" {
		s = u.Hostname()
	}
	s = strings.ToLower(s)
	for _, m := range cloudHostMarkers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// BuildDSN renders the lib/pq connection string for t.  A connection string
// for a cloud host gets sslmode=require whatever it asked for; any other
// connection string without an sslmode gets sslmode=disable, since lib/pq
// would otherwise default to require.  Every DSN gets a connect_timeout
// derived from acquire unless it already has one.
func BuildDSN(t Target, acquire time.Duration) string {
	timeout := strconv.Itoa(timeoutSeconds(acquire))

	if t.URL != "" {
		cloud := IsCloudHost(t.URL)
		if isURL(t.URL) {
			u, err := url.Parse(t.URL)
			if err != nil {
				return t.URL // let the driver report it
			}
			q := u.Query()
			if cloud {
				q.Set("sslmode", "require")
			} else if q.Get("sslmode") == "" {
				q.Set("sslmode", "disable")
			}
			if q.Get("connect_timeout") == "" {
				q.Set("connect_timeout", timeout)
			}
			u.RawQuery = q.Encode()
			return u.String()
		}
		// key=value form; lib/pq keeps the last occurrence of a key
		dsn := t.URL
		if cloud {
			dsn += " sslmode=require"
		} else if !strings.Contains(dsn, "sslmode=") {
			dsn += " sslmode=disable"
		}
		if !strings.Contains(dsn, "connect_timeout=") {
			dsn += " connect_timeout=" + timeout
		}
		return dsn
	}

	sslmode := t.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	pairs := [][2]string{
		{"host", t.Host},
		{"port", t.Port},
		{"dbname", t.Name},
		{"user", t.User},
		{"password", t.Password},
		{"sslmode", sslmode},
		{"connect_timeout", timeout},
	}
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if p[1] == "" {
			continue
		}
		parts = append(parts, p[0]+"="+quoteValue(p[1]))
	}
	return strings.Join(parts, " ")
}

// Open connects to PostgreSQL, applies the pool bounds and verifies the
// connection within the acquisition timeout.
func Open(ctx context.Context, dsn string, opts PoolOptions) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Pool settings
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxOpenConns)
	db.SetConnMaxIdleTime(opts.IdleTimeout)

	if err := Ping(ctx, db, opts.AcquireTimeout); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// Ping checks the pool with a timeout.
func Ping(ctx context.Context, db *sql.DB, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return db.PingContext(ctx)
}

// Acquire takes one connection from the pool, waiting at most timeout for
// it.  The timeout only bounds the wait: work done on the returned
// connection runs on the caller's own context.  Callers must Close the
// connection to hand it back.
func Acquire(ctx context.Context, db *sql.DB, timeout time.Duration) (*sql.Conn, error) {
	if timeout <= 0 {
		return db.Conn(ctx)
	}
	actx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return db.Conn(actx)
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "postgres://") || strings.HasPrefix(s, "postgresql://")
}

func timeoutSeconds(d time.Duration) int {
	s := int(d / time.Second)
	if s < 1 {
		return 1
	}
	return s
}

// quoteValue escapes a key/value DSN value the way libpq expects.
func quoteValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}
