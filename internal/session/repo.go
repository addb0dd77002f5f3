package session

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrDuplicateOpenSession is returned by Create when the partial unique
// index on (table_id, status=open) rejects a second open session for the
// same table.
var ErrDuplicateOpenSession = errors.New("table already has an open session")

type SessionRepo interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id uuid.UUID) (*Session, error)
	GetByNumber(ctx context.Context, number string) (*Session, error)
	List(ctx context.Context) ([]*Session, error)
	ListByStatus(ctx context.Context, status string) ([]*Session, error)
	// FindOpenByTable returns the table's open session, or nil when the
	// table is free.
	FindOpenByTable(ctx context.Context, tableID uuid.UUID) (*Session, error)
	Save(ctx context.Context, s *Session) error
	// NextSequence returns the next per-day tab sequence for a day key in
	// YYYYMMDD form, starting at 1.
	NextSequence(ctx context.Context, day string) (int, error)
}
