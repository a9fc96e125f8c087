// Package handler exposes the HTTP handlers of the records API.  Every
// records endpoint answers with the same envelope: data and count on
// success, a fixed error label plus the driver's message on failure.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/mind-mirror/internal/model"
)

// DefaultRecentCount is used when the count query parameter is missing.
const DefaultRecentCount = "5"

// Fixed error labels of the failure envelope.
const (
	errListAll    = "failed to query records"
	errListToday  = "failed to query today's records"
	errListRecent = "failed to query recent records"
)

// RecordStore is the read side of the records table the handlers need.
type RecordStore interface {
	ListAll(ctx context.Context) ([]model.MirrorRecord, error)
	ListToday(ctx context.Context) ([]model.MirrorRecord, error)
	ListRecent(ctx context.Context, limit string) ([]model.MirrorRecord, error)
}

// RecordHandler serves the health and records endpoints.
type RecordHandler struct {
	Store RecordStore      // data access layer
	Log   *zap.Logger      // failures are logged here before the 500 is sent
	Now   func() time.Time // clock for the health timestamp; time.Now when nil
}

// NewRecordHandler wires a handler over store.  A nil logger is replaced by
// a no-op one.
func NewRecordHandler(store RecordStore, log *zap.Logger) *RecordHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &RecordHandler{Store: store, Log: log}
}

// RecordsResponse is the success envelope.
type RecordsResponse struct {
	Success bool                 `json:"success"`
	Data    []model.MirrorRecord `json:"data"`
	Count   int                  `json:"count"`
}

// ErrorResponse is the failure envelope.  Message carries the underlying
// error text unchanged.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ListAll handles GET /api/records.
func (h *RecordHandler) ListAll(c echo.Context) error {
	recs, err := h.Store.ListAll(c.Request().Context())
	return h.respond(c, recs, err, errListAll)
}

// ListToday handles GET /api/records/today.
func (h *RecordHandler) ListToday(c echo.Context) error {
	recs, err := h.Store.ListToday(c.Request().Context())
	return h.respond(c, recs, err, errListToday)
}

// ListRecent handles GET /api/records/recent?count=N.  The count is
// normalized by ParseCount and otherwise left for the database to judge.
func (h *RecordHandler) ListRecent(c echo.Context) error {
	limit := ParseCount(c.QueryParam("count"))
	recs, err := h.Store.ListRecent(c.Request().Context(), limit)
	return h.respond(c, recs, err, errListRecent)
}

func (h *RecordHandler) respond(c echo.Context, recs []model.MirrorRecord, err error, label string) error {
	if err != nil {
		h.Log.Error(label,
			zap.String("method", c.Request().Method),
			zap.String("uri", c.Request().RequestURI),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Success: false,
			Error:   label,
			Message: err.Error(),
		})
	}
	if recs == nil {
		recs = []model.MirrorRecord{}
	}
	return c.JSON(http.StatusOK, RecordsResponse{
		Success: true,
		Data:    recs,
		Count:   len(recs),
	})
}
