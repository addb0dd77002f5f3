package stock

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrDuplicateMovement reports that an equivalent ledger entry already
// exists for the same order and product. Callers treat it as
// "already applied", not as a failure.
var ErrDuplicateMovement = errors.New("duplicate stock movement")

type MovementFilter struct {
	ProductID        *uuid.UUID
	MovementType     *string
	ReferenceOrderID *uuid.UUID
	Limit            int
	Offset           int
}

// MovementRepo is the append-only ledger store. There is no update or delete;
// corrections are new entries.
type MovementRepo interface {
	Insert(ctx context.Context, m *StockMovement) error
	List(ctx context.Context, filter MovementFilter) ([]StockMovement, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID, movementType string) ([]StockMovement, error)
}
