// Package repository contains data access logic separated from HTTP handlers.
// This file defines the read queries over mirror_records.  The API only ever
// reads the table; Insert and TableExists exist for the seeding and probing
// tools.
package repository

import (
	"context"      // context carries request cancellation into the driver
	"database/sql" // sql provides the pool and row scanning
	"time"

	"github.com/iliyamo/mind-mirror/internal/database"
	"github.com/iliyamo/mind-mirror/internal/model"
)

// recordColumns lists the columns returned for every record query.
const recordColumns = `id, image, timestamp, emotion, acne, wrinkles, pores, dark_circles, note`

// MirrorRecordRepo runs the fixed record queries against a shared pool.
// Each call waits at most acquireTimeout for a free connection; the query
// itself runs on the caller's context.  Driver errors are returned as-is.
type MirrorRecordRepo struct {
	db             *sql.DB
	acquireTimeout time.Duration
}

// NewMirrorRecordRepo constructs a MirrorRecordRepo over db.  A non-positive
// acquireTimeout waits for a connection as long as ctx allows.
func NewMirrorRecordRepo(db *sql.DB, acquireTimeout time.Duration) *MirrorRecordRepo {
	return &MirrorRecordRepo{db: db, acquireTimeout: acquireTimeout}
}

// ListAll returns every record, newest first.
func (r *MirrorRecordRepo) ListAll(ctx context.Context) ([]model.MirrorRecord, error) {
	const q = `SELECT ` + recordColumns + `
	           FROM mirror_records
	           ORDER BY timestamp DESC`
	return r.query(ctx, q)
}

// ListToday returns the records whose timestamp falls on the database's
// current date, newest first.  The date is evaluated by the server at query
// time so the application clock plays no part.
func (r *MirrorRecordRepo) ListToday(ctx context.Context) ([]model.MirrorRecord, error) {
	const q = `SELECT ` + recordColumns + `
	           FROM mirror_records
	           WHERE DATE(timestamp) = CURRENT_DATE
	           ORDER BY timestamp DESC`
	return r.query(ctx, q)
}

// ListRecent returns the newest records up to limit.  limit is bound to the
// statement untouched: a negative or non-numeric value is rejected by the
// database and that error is returned.
func (r *MirrorRecordRepo) ListRecent(ctx context.Context, limit string) ([]model.MirrorRecord, error) {
	const q = `SELECT ` + recordColumns + `
	           FROM mirror_records
	           ORDER BY timestamp DESC
	           LIMIT $1`
	return r.query(ctx, q, limit)
}

// Count returns the number of rows in mirror_records.
func (r *MirrorRecordRepo) Count(ctx context.Context) (int64, error) {
	conn, err := database.Acquire(ctx, r.db, r.acquireTimeout)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	var n int64
	if err := conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM mirror_records`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Insert writes rec and returns the id, emotion and timestamp the database
// stored.  A zero Timestamp leaves the column to its default.
func (r *MirrorRecordRepo) Insert(ctx context.Context, rec model.MirrorRecord) (model.MirrorRecord, error) {
	conn, err := database.Acquire(ctx, r.db, r.acquireTimeout)
	if err != nil {
		return model.MirrorRecord{}, err
	}
	defer conn.Close()

	var row *sql.Row
	if rec.Timestamp.IsZero() {
		const q = `INSERT INTO mirror_records (id, image, emotion, acne, wrinkles, pores, dark_circles, note)
		           VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		           RETURNING id, emotion, timestamp`
		row = conn.QueryRowContext(ctx, q,
			rec.ID, rec.Image, rec.Emotion, rec.Acne, rec.Wrinkles, rec.Pores, rec.DarkCircles, rec.Note)
	} else {
		const q = `INSERT INTO mirror_records (id, image, timestamp, emotion, acne, wrinkles, pores, dark_circles, note)
		           VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		           RETURNING id, emotion, timestamp`
		row = conn.QueryRowContext(ctx, q,
			rec.ID, rec.Image, rec.Timestamp, rec.Emotion, rec.Acne, rec.Wrinkles, rec.Pores, rec.DarkCircles, rec.Note)
	}

	out := rec
	if err := row.Scan(&out.ID, &out.Emotion, &out.Timestamp); err != nil {
		return model.MirrorRecord{}, err
	}
	return out, nil
}

// TableExists reports whether a table with the given name exists in the
// public schema.
func (r *MirrorRecordRepo) TableExists(ctx context.Context, name string) (bool, error) {
	conn, err := database.Acquire(ctx, r.db, r.acquireTimeout)
	if err != nil {
		return false, err
	}
	defer conn.Close()

	const q = `SELECT EXISTS (
	               SELECT FROM information_schema.tables
	               WHERE table_schema = 'public' AND table_name = $1
	           )`
	var ok bool
	if err := conn.QueryRowContext(ctx, q, name).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

// query acquires a connection, runs q and scans every row.  The result is
// never nil so an empty table encodes as [].
func (r *MirrorRecordRepo) query(ctx context.Context, q string, args ...any) ([]model.MirrorRecord, error) {
	conn, err := database.Acquire(ctx, r.db, r.acquireTimeout)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.MirrorRecord, 0)
	for rows.Next() {
		var rec model.MirrorRecord
		if err := rows.Scan(&rec.ID, &rec.Image, &rec.Timestamp, &rec.Emotion,
			&rec.Acne, &rec.Wrinkles, &rec.Pores, &rec.DarkCircles, &rec.Note); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
