// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

// CatalogEventsQueue is the durable queue carrying catalog change events.
const CatalogEventsQueue = "catalog.events"

// Event types published for movie mutations.
const (
	MovieCreated = "movie.created"
	MovieUpdated = "movie.updated"
	MovieDeleted = "movie.deleted"
)

// MovieEvent is published after a movie write commits.  It carries enough
// for downstream consumers to log or trigger analytics without querying the
// primary database.  Publishing is best-effort and never fails the request.
type MovieEvent struct {
	Type       string `json:"type"`
	MovieID    uint64 `json:"movie_id"`
	Title      string `json:"title,omitempty"`
	Identity   string `json:"identity"`
	OccurredAt string `json:"occurred_at"`
}
