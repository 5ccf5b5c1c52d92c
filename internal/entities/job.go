package entities

import (
	"time"

	"github.com/google/uuid"
)

// Job is one thumbnail conversion unit of work. Rows are created by the
// producer with Pending=true and afterwards mutated only by the worker,
// which only ever moves Pending from true toward false.
type Job struct {
	ID         uuid.UUID `json:"id"`
	SourceKey  string    `json:"source_key"`
	SourceMime string    `json:"source_mime"`
	ThumbKey   *string   `json:"thumb_key,omitempty"`
	Pending    bool      `json:"pending"`
	Attempts   int       `json:"attempts"`
	LastError  string    `json:"last_error,omitempty"`
	Removed    bool      `json:"removed"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Outcome is the field set committed back to the job row after one
// processing attempt. A nil ThumbKey leaves the stored key untouched,
// so a thumb key is never cleared once written.
type Outcome struct {
	ThumbKey  *string
	Pending   bool
	Attempts  int
	LastError string
}
