// Package feedback persists user feedback about the assistant in PostgreSQL.
//
// Feedback is the only database-backed feature of the backend; the upload
// service itself is filesystem-only. The store is optional: when no database
// is configured the API simply does not register the feedback routes.
package feedback

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidRating is returned when the rating is outside 1..5.
	ErrInvalidRating = errors.New("invalid rating")

	// ErrCommentTooLong is returned when the comment exceeds MaxCommentLength.
	ErrCommentTooLong = errors.New("comment too long")
)

// MaxCommentLength bounds feedback comments to keep rows small.
const MaxCommentLength = 4000

// Entry is one piece of user feedback.
type Entry struct {
	ID        uuid.UUID `json:"id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Platform  string    `json:"platform,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks entry fields before persistence.
// Returns sentinel errors that can be checked with errors.Is().
func (e *Entry) Validate() error {
	if e.Rating < 1 || e.Rating > 5 {
		return fmt.Errorf("%w: must be between 1 and 5, got %d", ErrInvalidRating, e.Rating)
	}
	if len(e.Comment) > MaxCommentLength {
		return fmt.Errorf("%w: %d characters exceeds limit of %d",
			ErrCommentTooLong, len(e.Comment), MaxCommentLength)
	}
	e.Comment = strings.TrimSpace(e.Comment)
	return nil
}
