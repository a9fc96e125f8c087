package smoke

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/mind-mirror/internal/handler"
	"github.com/iliyamo/mind-mirror/internal/model"
	"github.com/iliyamo/mind-mirror/internal/router"
)

type stubStore struct {
	recs []model.MirrorRecord
	err  error
}

func (s stubStore) ListAll(context.Context) ([]model.MirrorRecord, error)   { return s.recs, s.err }
func (s stubStore) ListToday(context.Context) ([]model.MirrorRecord, error) { return s.recs, s.err }
func (s stubStore) ListRecent(context.Context, string) ([]model.MirrorRecord, error) {
	return s.recs, s.err
}

func strp(s string) *string { return &s }

func startAPI(t *testing.T, store handler.RecordStore) string {
	t.Helper()

	srv := httptest.NewServer(router.New(handler.NewRecordHandler(store, nil), router.Options{}))
	t.Cleanup(srv.Close)
	return srv.URL + "/api"
}

func TestRun_AllRoutesPass(t *testing.T) {
	base := startAPI(t, stubStore{recs: []model.MirrorRecord{{ID: "r1", Emotion: strp("happy"), Timestamp: time.Now()}}})

	checks := Client{Base: base}.Run(context.Background())
	require.Len(t, checks, 4)

	assert.Equal(t, "health", checks[0].Name)
	assert.Equal(t, "ok", checks[0].Response)
	for _, c := range checks {
		assert.True(t, c.OK(), c.Name)
	}
	assert.Equal(t, 1, checks[1].Count)
	assert.Equal(t, "r1", checks[1].FirstID)
}

func TestRun_DatabaseDown(t *testing.T) {
	base := startAPI(t, stubStore{err: errors.New("connection refused")})

	checks := Client{Base: base + "/"}.Run(context.Background())
	require.Len(t, checks, 4)

	assert.True(t, checks[0].OK(), "health does not depend on the database")
	for _, c := range checks[1:] {
		assert.False(t, c.OK(), c.Name)
		assert.Equal(t, 500, c.Status)
		assert.ErrorContains(t, c.Err, "connection refused")
	}
}

func TestRun_Unreachable(t *testing.T) {
	checks := Client{Base: "http://127.0.0.1:1/api"}.Run(context.Background())
	for _, c := range checks {
		assert.False(t, c.OK(), c.Name)
		assert.Error(t, c.Err)
	}
}
