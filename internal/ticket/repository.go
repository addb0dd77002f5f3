package ticket

import "context"

type TicketFilter struct {
	Destination *string
	Status      *string
	OrderID     *OrderID
	OrderItemID *OrderItemID
	Urgent      *bool
	Limit       int
	Offset      int
}

type TicketRepository interface {
	Create(ctx context.Context, t *PrepTicket) error
	Update(ctx context.Context, t *PrepTicket) error
	FindByID(ctx context.Context, id TicketID) (*PrepTicket, error)
	FindByOrderItemID(ctx context.Context, id OrderItemID) (*PrepTicket, error)
	List(ctx context.Context, filter TicketFilter) ([]PrepTicket, error)
}
