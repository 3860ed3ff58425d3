// internal/authoring/document.go
//
// Editorial puzzle documents: a daily set plus its workflow state.
//
// Workflow: draft → review → published. Drafts may have empty slots;
// review and published documents must pass the full validation rules.

package authoring

import (
	"errors"
	"time"

	"github.com/robalobadob/hang10/internal/puzzle"
)

// Status is the editorial state of a document.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusReview    Status = "review"
	StatusPublished Status = "published"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusReview, StatusPublished:
		return true
	}
	return false
}

// Document is one date's puzzle set as stored by the portal.
type Document struct {
	puzzle.DailySet
	Status     Status    `json:"status"`
	ApprovedBy string    `json:"approvedBy,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Summary is the calendar view of a document.
type Summary struct {
	Date       string `json:"date"`
	Author     string `json:"author"`
	Status     Status `json:"status"`
	ApprovedBy string `json:"approvedBy,omitempty"`
}

// DefaultAuthor is stored when a document has no author.
const DefaultAuthor = "Anonymous"

var (
	ErrNotFound      = errors.New("puzzle document not found")
	ErrInvalidStatus = errors.New("invalid status")
	ErrInvalidDate   = errors.New("invalid date (want YYYY-MM-DD)")
)
