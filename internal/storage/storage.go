package storage

import (
	"context"
	"time"

	"github.com/xaenox/study-buddy/internal/models"
)

// Storage owns all per-session state: identity, conversation turns and the
// academic record. Sessions are created lazily on first access; every other
// component reaches session state only through this interface, so a durable
// backend can replace the in-memory one without touching the mentor.
type Storage interface {
	// GetOrCreate returns the session for id, creating it if unknown, and
	// refreshes its last-used timestamp.
	GetOrCreate(ctx context.Context, id string) (*models.Session, error)

	// SetName stores the display name for a session, creating it if needed.
	SetName(ctx context.Context, id, name string) error

	// UpsertMark writes one subject score, overwriting any previous score
	// for the same subject. Insertion order of subjects is preserved.
	UpsertMark(ctx context.Context, id string, mark models.Mark) error

	// Marks returns the session's academic record in insertion order.
	Marks(ctx context.Context, id string) ([]models.Mark, error)

	// AppendTurn adds one turn to the end of the session's conversation.
	AppendTurn(ctx context.Context, id string, turn models.Turn) error

	// Turns returns the session's conversation in chronological order.
	Turns(ctx context.Context, id string) ([]models.Turn, error)

	// DropOldestTurns removes the n oldest turns of a session.
	DropOldestTurns(ctx context.Context, id string, n int) error

	// EvictIdle deletes sessions idle since before cutoff and reports how
	// many were removed.
	EvictIdle(ctx context.Context, cutoff time.Time) (int, error)

	Close() error
}
