package seed

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/mind-mirror/internal/model"
)

type fakeStore struct {
	exists   bool
	existErr error
	failIDs  map[string]bool
	inserted []model.MirrorRecord
}

func (f *fakeStore) TableExists(_ context.Context, name string) (bool, error) {
	return f.exists && name == Table, f.existErr
}

func (f *fakeStore) Insert(_ context.Context, rec model.MirrorRecord) (model.MirrorRecord, error) {
	if f.failIDs[rec.ID] {
		return model.MirrorRecord{}, errors.New("duplicate key")
	}
	rec.Timestamp = time.Now()
	f.inserted = append(f.inserted, rec)
	return rec, nil
}

func (f *fakeStore) Count(context.Context) (int64, error) {
	return int64(len(f.inserted)) + 10, nil
}

func TestMockRecords(t *testing.T) {
	recs := MockRecords()
	require.Len(t, recs, 5)

	seen := map[string]bool{}
	for _, r := range recs {
		assert.True(t, strings.HasPrefix(r.ID, "mock_"), r.ID)
		assert.False(t, seen[r.ID], "duplicate id %s", r.ID)
		seen[r.ID] = true
		assert.True(t, r.Timestamp.IsZero())
		require.NotNil(t, r.Acne)
		require.NotNil(t, r.Note)
	}
	assert.Equal(t, "happy", *recs[0].Emotion)
	assert.Equal(t, 5.5, *recs[0].Acne)
	assert.Equal(t, "angry", *recs[4].Emotion)
	assert.Equal(t, 70.0, *recs[4].DarkCircles)
	assert.NotSame(t, recs[0].Acne, recs[1].Acne)
}

func TestRun_CountsSuccessAndFailure(t *testing.T) {
	recs := MockRecords()
	store := &fakeStore{exists: true, failIDs: map[string]bool{recs[2].ID: true}}

	rep, err := Run(context.Background(), store, recs, nil)
	require.NoError(t, err)
	assert.Equal(t, Report{Succeeded: 4, Failed: 1, Total: 14}, rep)
}

func TestRun_TableMissing(t *testing.T) {
	store := &fakeStore{}
	_, err := Run(context.Background(), store, MockRecords(), nil)
	assert.ErrorIs(t, err, ErrTableMissing)
	assert.Empty(t, store.inserted)
}

func TestRun_ExistsCheckFails(t *testing.T) {
	boom := errors.New("connection refused")
	_, err := Run(context.Background(), &fakeStore{existErr: boom}, MockRecords(), nil)
	assert.ErrorIs(t, err, boom)
}
