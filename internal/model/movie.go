package model

import (
	"strings"
	"time"

	"github.com/iliyamo/movies-api/internal/failure"
)

// TimestampLayout is the textual form of created_at/updated_at in list and
// detail responses (UTC, seconds precision, no zone suffix).
const TimestampLayout = "2006-01-02 15:04:05"

// Movie represents a row in the `movies` table.  ID and both timestamps are
// assigned by the repository; only Title, Description, Rating and Image are
// settable by clients.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – required, never empty once persisted.
//  Description – optional free text.
//  Rating      – optional score.
//  Image       – optional URI or path of the poster.
//  CreatedAt   – set once on insert.
//  UpdatedAt   – refreshed on every update.
type Movie struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Rating      *float64  `json:"rating"`
	Image       *string   `json:"image"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MovieView is a Movie with its timestamps rendered with TimestampLayout.
type MovieView struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	Rating      *float64 `json:"rating"`
	Image       *string  `json:"image"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

// FormatTimestamp renders t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// View copies every field of m and rewrites the timestamps.
func (m Movie) View() MovieView {
	return MovieView{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Rating:      m.Rating,
		Image:       m.Image,
		CreatedAt:   FormatTimestamp(m.CreatedAt),
		UpdatedAt:   FormatTimestamp(m.UpdatedAt),
	}
}

// MovieFields carries the client-settable columns for create and update.
// Each Field records whether the key was present in the request and, if so,
// whether it was null.
type MovieFields struct {
	Title       Field[string]
	Description Field[string]
	Rating      Field[float64]
	Image       Field[string]
}

func titleNotNull() error {
	return failure.Validation(failure.FieldError{
		Field:   "title",
		Type:    "notNull Violation",
		Message: "Title must not be null",
	})
}

// ValidateCreate checks the fields of a new movie.  Title must be present,
// not null and not blank.
func (f MovieFields) ValidateCreate() error {
	if !f.Title.Set {
		return titleNotNull()
	}
	return f.ValidateUpdate()
}

// ValidateUpdate checks only the fields that are present.  A present title
// may be neither null nor blank.
func (f MovieFields) ValidateUpdate() error {
	if !f.Title.Set {
		return nil
	}
	if f.Title.Null() {
		return titleNotNull()
	}
	if strings.TrimSpace(*f.Title.Value) == "" {
		return failure.Validation(failure.FieldError{
			Field:   "title",
			Type:    "Validation error",
			Message: "Title must not be empty",
		})
	}
	return nil
}
