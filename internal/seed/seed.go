// Package seed inserts sample mirror records for local development and
// demos.  It is used by cmd/seed only; the API never writes.
package seed

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iliyamo/mind-mirror/internal/model"
)

// Table is the table the seeder writes to.
const Table = "mirror_records"

// ErrTableMissing is returned by Run when the records table does not exist.
var ErrTableMissing = errors.New("table " + Table + " does not exist")

// Store is what the seeder needs from the repository.
type Store interface {
	TableExists(ctx context.Context, name string) (bool, error)
	Insert(ctx context.Context, rec model.MirrorRecord) (model.MirrorRecord, error)
	Count(ctx context.Context) (int64, error)
}

// Report summarizes a seeding run.  Total is the row count after inserting.
type Report struct {
	Succeeded int
	Failed    int
	Total     int64
}

type sample struct {
	emotion                            string
	acne, wrinkles, pores, darkCircles float64
	note                               string
}

var samples = []sample{
	{"happy", 5.5, 8.2, 12.3, 15.0, "Good mood and skin condition"},
	{"neutral", 25.0, 30.5, 35.2, 40.0, "Normal state"},
	{"sad", 45.5, 50.2, 55.8, 65.0, "Work stress"},
	{"surprise", 10.0, 15.3, 18.5, 20.0, "Surprise today"},
	{"angry", 60.0, 55.5, 50.2, 70.0, "Emotional fluctuation"},
}

// MockRecords returns one record per sample emotion with a fresh
// mock_<uuid> id.  Timestamps are left zero so the database assigns them.
func MockRecords() []model.MirrorRecord {
	out := make([]model.MirrorRecord, 0, len(samples))
	for _, s := range samples {
		out = append(out, model.MirrorRecord{
			ID:          "mock_" + uuid.NewString(),
			Emotion:     &s.emotion,
			Acne:        &s.acne,
			Wrinkles:    &s.wrinkles,
			Pores:       &s.pores,
			DarkCircles: &s.darkCircles,
			Note:        &s.note,
		})
	}
	return out
}

// Run inserts recs one by one.  A failed row is logged and counted, it does
// not stop the run.  Errors are returned only when the table is missing or
// the final count cannot be read.
func Run(ctx context.Context, store Store, recs []model.MirrorRecord, log *zap.Logger) (Report, error) {
	if log == nil {
		log = zap.NewNop()
	}
	var rep Report

	ok, err := store.TableExists(ctx, Table)
	if err != nil {
		return rep, err
	}
	if !ok {
		return rep, ErrTableMissing
	}

	for _, rec := range recs {
		stored, err := store.Insert(ctx, rec)
		if err != nil {
			rep.Failed++
			log.Warn("insert failed", zap.String("id", rec.ID), zap.Error(err))
			continue
		}
		rep.Succeeded++
		log.Info("inserted",
			zap.String("id", stored.ID),
			zap.Stringp("emotion", stored.Emotion),
			zap.Time("timestamp", stored.Timestamp))
	}

	total, err := store.Count(ctx)
	if err != nil {
		return rep, err
	}
	rep.Total = total
	return rep, nil
}
