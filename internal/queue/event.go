// Package queue defines the movie change events exchanged over RabbitMQ and
// the publisher and consumer that move them.
package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/movies-api/internal/model"
)

// MovieEventsQueue is the durable queue movie events are routed to.
const MovieEventsQueue = "movie.events"

// EventType names what happened to a movie.
type EventType string

const (
	MovieCreated EventType = "movie.created"
	MovieUpdated EventType = "movie.updated"
	MovieDeleted EventType = "movie.deleted"
)

// MovieEvent is published after a movie mutation has been committed.  It
// carries enough for downstream consumers to log or index the change
// without querying the primary database.
type MovieEvent struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	MovieID    int64     `json:"movie_id"`
	Title      string    `json:"title,omitempty"`
	OccurredAt string    `json:"occurred_at"`
}

// NewMovieEvent builds an event for m stamped with the current time.
func NewMovieEvent(typ EventType, m model.Movie) MovieEvent {
	return MovieEvent{
		ID:         uuid.NewString(),
		Type:       typ,
		MovieID:    m.ID,
		Title:      m.Title,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
}
