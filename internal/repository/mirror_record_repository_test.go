package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/mind-mirror/internal/model"
)

var columns = []string{"id", "image", "timestamp", "emotion", "acne", "wrinkles", "pores", "dark_circles", "note"}

func strp(s string) *string { return &s }

func newTestRepo(t *testing.T) (*MirrorRecordRepo, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewMirrorRecordRepo(db, time.Second), mock, db
}

func TestListAll_ScansRowsInOrder(t *testing.T) {
	repo, mock, _ := newTestRepo(t)
	newer := time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)
	older := newer.Add(-time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, image, timestamp, emotion, acne, wrinkles, pores, dark_circles, note FROM mirror_records ORDER BY timestamp DESC")).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("r2", "img/2.png", newer, "happy", 5.5, 8.2, 12.3, 15.0, "Good mood").
			AddRow("r1", nil, older, "sad", 45.5, 50.2, 55.8, 65.0, nil))

	recs, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "r2", recs[0].ID)
	require.NotNil(t, recs[0].Image)
	assert.Equal(t, "img/2.png", *recs[0].Image)
	assert.True(t, newer.Equal(recs[0].Timestamp))
	assert.Equal(t, strp("happy"), recs[0].Emotion)
	require.NotNil(t, recs[0].DarkCircles)
	assert.Equal(t, 15.0, *recs[0].DarkCircles)
	require.NotNil(t, recs[0].Note)
	assert.Equal(t, "Good mood", *recs[0].Note)

	assert.Equal(t, "r1", recs[1].ID)
	assert.Nil(t, recs[1].Image)
	assert.Nil(t, recs[1].Note)
	assert.Equal(t, 45.5, *recs[1].Acne)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAll_EmptyIsNotNil(t *testing.T) {
	repo, mock, _ := newTestRepo(t)
	mock.ExpectQuery("FROM mirror_records").WillReturnRows(sqlmock.NewRows(columns))

	recs, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestListAll_NullEmotionStaysNil(t *testing.T) {
	repo, mock, _ := newTestRepo(t)
	mock.ExpectQuery("FROM mirror_records").
		WillReturnRows(sqlmock.NewRows(columns).AddRow("n1", nil, time.Now(), nil, nil, nil, nil, nil, nil))

	recs, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Nil(t, recs[0].Emotion)
}

func TestListToday_FiltersInDatabase(t *testing.T) {
	repo, mock, _ := newTestRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM mirror_records WHERE DATE(timestamp) = CURRENT_DATE ORDER BY timestamp DESC")).
		WithArgs().
		WillReturnRows(sqlmock.NewRows(columns).AddRow("t1", nil, time.Now(), "neutral", 1.0, 2.0, 3.0, 4.0, nil))

	recs, err := repo.ListToday(context.Background())
	require.NoError(t, err)
	assert.Len(t, recs, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRecent_BindsLimitVerbatim(t *testing.T) {
	repo, mock, _ := newTestRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY timestamp DESC LIMIT $1")).
		WithArgs("1").
		WillReturnRows(sqlmock.NewRows(columns).AddRow("newest", nil, time.Now(), "happy", nil, nil, nil, nil, nil))

	recs, err := repo.ListRecent(context.Background(), "1")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "newest", recs[0].ID)
	assert.Nil(t, recs[0].Acne)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRecent_PropagatesDatabaseError(t *testing.T) {
	repo, mock, _ := newTestRepo(t)
	dbErr := errors.New(`pq: invalid input syntax for type bigint: "NaN"`)
	mock.ExpectQuery("LIMIT").WithArgs("NaN").WillReturnError(dbErr)

	recs, err := repo.ListRecent(context.Background(), "NaN")
	assert.Nil(t, recs)
	assert.Same(t, dbErr, err)
}

func TestList_RowErrorIsReturned(t *testing.T) {
	repo, mock, _ := newTestRepo(t)
	rowErr := errors.New("connection reset")
	mock.ExpectQuery("FROM mirror_records").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("a", nil, time.Now(), "happy", nil, nil, nil, nil, nil).
			RowError(0, rowErr))

	_, err := repo.ListAll(context.Background())
	assert.ErrorIs(t, err, rowErr)
}

func TestList_AcquireTimeout(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(1)

	held, err := db.Conn(context.Background())
	require.NoError(t, err)
	defer held.Close()

	repo := NewMirrorRecordRepo(db, 20*time.Millisecond)
	_, err = repo.ListAll(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCount(t *testing.T) {
	repo, mock, _ := newTestRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM mirror_records")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(7)))

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
}

func TestInsert_DefaultTimestamp(t *testing.T) {
	repo, mock, _ := newTestRepo(t)
	stored := time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)
	acne := 5.5
	note := "Good mood"

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO mirror_records (id, image, emotion, acne, wrinkles, pores, dark_circles, note)")).
		WithArgs("mock_1", nil, "happy", 5.5, nil, nil, nil, "Good mood").
		WillReturnRows(sqlmock.NewRows([]string{"id", "emotion", "timestamp"}).AddRow("mock_1", "happy", stored))

	out, err := repo.Insert(context.Background(), model.MirrorRecord{ID: "mock_1", Emotion: strp("happy"), Acne: &acne, Note: &note})
	require.NoError(t, err)
	assert.Equal(t, "mock_1", out.ID)
	assert.True(t, stored.Equal(out.Timestamp))
	assert.Equal(t, &note, out.Note)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_ExplicitTimestamp(t *testing.T) {
	repo, mock, _ := newTestRepo(t)
	ts := time.Date(2026, 10, 14, 20, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO mirror_records (id, image, timestamp, emotion,")).
		WithArgs("x", nil, ts, "sad", nil, nil, nil, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "emotion", "timestamp"}).AddRow("x", "sad", ts))

	out, err := repo.Insert(context.Background(), model.MirrorRecord{ID: "x", Emotion: strp("sad"), Timestamp: ts})
	require.NoError(t, err)
	assert.True(t, ts.Equal(out.Timestamp))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_DuplicateID(t *testing.T) {
	repo, mock, _ := newTestRepo(t)
	mock.ExpectQuery("INSERT INTO mirror_records").
		WillReturnError(errors.New(`pq: duplicate key value violates unique constraint "mirror_records_pkey"`))

	_, err := repo.Insert(context.Background(), model.MirrorRecord{ID: "dup", Emotion: strp("happy")})
	assert.ErrorContains(t, err, "duplicate key")
}

func TestTableExists(t *testing.T) {
	repo, mock, _ := newTestRepo(t)
	mock.ExpectQuery("information_schema.tables").
		WithArgs("mirror_records").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.TableExists(context.Background(), "mirror_records")
	require.NoError(t, err)
	assert.True(t, ok)
}
