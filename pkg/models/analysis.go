package models

import (
	"time"

	"github.com/google/uuid"
)

// Analysis is the persisted record of one classified artifact or line,
// keyed uniquely by the content fingerprint of its masked payload.
// Rows are written once and never updated; concurrent analyze requests
// for the same fingerprint may race, and the duplicate write is dropped.
type Analysis struct {
	ID            uuid.UUID            `db:"id"             json:"id"`
	ContentHash   string               `db:"content_hash"   json:"content_hash"`
	InputPreview  string               `db:"input_preview"  json:"input_preview"`
	MaskedPayload string               `db:"masked_payload" json:"masked_payload"`
	Result        ClassificationResult `db:"-"              json:"result"`
	CreatedAt     time.Time            `db:"created_at"     json:"created_at"`
}
