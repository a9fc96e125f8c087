// Package probe tries candidate connection strings for a hosted Supabase
// project and reports which of them work.
package probe

import (
	"context"
	"database/sql"
	"net/url"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/iliyamo/mind-mirror/internal/database"
)

// DefaultRegion is the pooler region used when none is configured.
const DefaultRegion = "ap-southeast-1"

// watchedTables are reported when present in the public schema.
var watchedTables = []string{"emotion_mapping", "mirror_records"}

// Candidate is one connection string to try.
type Candidate struct {
	Name string
	DSN  string
}

// Result is the outcome of probing one candidate.
type Result struct {
	Candidate Candidate
	Err       error
	Now       time.Time
	TimeZone  string
	Version   string
	Tables    []string // watched tables that exist
}

// OK reports whether the connection and the server queries succeeded.
func (r Result) OK() bool { return r.Err == nil }

// ProjectRef extracts the project reference from a project URL such as
// https://abcd.supabase.co.
func ProjectRef(projectURL string) string {
	ref := strings.TrimSpace(projectURL)
	ref = strings.TrimPrefix(ref, "https://")
	ref = strings.TrimPrefix(ref, "http://")
	ref = strings.TrimSuffix(ref, "/")
	return strings.TrimSuffix(ref, ".supabase.co")
}

// Candidates returns the direct connection (port 5432) followed by the
// session pooler (port 6543) for the project.  Both require TLS.
func Candidates(ref, password, region string) []Candidate {
	if region == "" {
		region = DefaultRegion
	}
	return []Candidate{
		{Name: "direct", DSN: pgURL("postgres", password, "db."+ref+".supabase.co:5432")},
		{Name: "pooler", DSN: pgURL("postgres."+ref, password, "aws-0-"+region+".pooler.supabase.com:6543")},
	}
}

func pgURL(user, password, host string) string {
	u := url.URL{
		Scheme:   "postgresql",
		User:     url.UserPassword(user, password),
		Host:     host,
		Path:     "/postgres",
		RawQuery: "sslmode=require",
	}
	return u.String()
}

// PoolOptions is the single-connection pool used while probing.
func PoolOptions() database.PoolOptions {
	return database.PoolOptions{MaxOpenConns: 1, IdleTimeout: 30 * time.Second, AcquireTimeout: 5 * time.Second}
}

// Probe connects to c and inspects the server.  The returned Result always
// names the candidate; Err is set on any failure.
func Probe(ctx context.Context, c Candidate) Result {
	opts := PoolOptions()
	db, err := database.Open(ctx, database.BuildDSN(database.Target{URL: c.DSN}, opts.AcquireTimeout), opts)
	if err != nil {
		return Result{Candidate: c, Err: err}
	}
	defer db.Close()

	res, err := Inspect(ctx, db)
	res.Candidate = c
	res.Err = err
	return res
}

// Inspect reads the server clock, time zone, version and which watched
// tables exist.  A failed table lookup leaves Tables empty but is still
// reported as an error.
func Inspect(ctx context.Context, db *sql.DB) (Result, error) {
	var res Result
	const qServer = `SELECT NOW(), current_setting('timezone'), version()`
	if err := db.QueryRowContext(ctx, qServer).Scan(&res.Now, &res.TimeZone, &res.Version); err != nil {
		return res, err
	}
	if i := strings.Index(res.Version, ","); i >= 0 {
		res.Version = res.Version[:i]
	}

	const qTables = `SELECT table_name
	                 FROM information_schema.tables
	                 WHERE table_schema = 'public' AND table_name = ANY($1)
	                 ORDER BY table_name`
	rows, err := db.QueryContext(ctx, qTables, pq.Array(watchedTables))
	if err != nil {
		return res, err
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return res, err
		}
		res.Tables = append(res.Tables, name)
	}
	return res, rows.Err()
}

// MissingTables lists the watched tables absent from res.
func MissingTables(res Result) []string {
	have := map[string]bool{}
	for _, t := range res.Tables {
		have[t] = true
	}
	var out []string
	for _, t := range watchedTables {
		if !have[t] {
			out = append(out, t)
		}
	}
	return out
}
