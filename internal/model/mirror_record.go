package model

import (
	"encoding/json"
	"time"
)

// MirrorRecord is one snapshot row of the mirror_records table: an emotion
// label, four skin-condition scores, a timestamp and free text.  Rows are
// written by external clients; this service only reads them.
//
// Fields:
//
//	ID          – writer-assigned unique identifier.
//	Image       – stored image reference or data, may be NULL.
//	Timestamp   – capture time; the only sort and "today" filter key.
//	Emotion     – label such as happy, neutral, sad, surprise or angry, may be NULL.
//	Acne, Wrinkles, Pores, DarkCircles – severity scores (0–100 observed).
//	Note        – free text, may be NULL.
type MirrorRecord struct {
	ID          string    `json:"id"`           // mirror_records.id
	Image       *string   `json:"image"`        // mirror_records.image
	Timestamp   time.Time `json:"timestamp"`    // mirror_records.timestamp
	Emotion     *string   `json:"emotion"`      // mirror_records.emotion
	Acne        *float64  `json:"acne"`         // mirror_records.acne
	Wrinkles    *float64  `json:"wrinkles"`     // mirror_records.wrinkles
	Pores       *float64  `json:"pores"`        // mirror_records.pores
	DarkCircles *float64  `json:"dark_circles"` // mirror_records.dark_circles
	Note        *string   `json:"note"`         // mirror_records.note
}

// TimeLayout is the wire format of record and health timestamps: UTC with
// millisecond precision and a Z suffix.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// MarshalJSON encodes Timestamp in TimeLayout whatever zone the driver
// scanned it in.
func (r MirrorRecord) MarshalJSON() ([]byte, error) {
	type plain MirrorRecord
	return json.Marshal(struct {
		plain
		Timestamp string `json:"timestamp"`
	}{plain(r), r.Timestamp.UTC().Format(TimeLayout)})
}
