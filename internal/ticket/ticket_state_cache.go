package ticket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/events"
	"github.com/google/uuid"

	"github.com/Malon0825/beerhive-sales-system-sub000/pkg/enums/destination"
	"github.com/Malon0825/beerhive-sales-system-sub000/pkg/event"
)

// TicketStateCache maintains an in-memory view of active prep tickets,
// indexed by destination and status so station boards answer without a
// database round trip. It is an idempotent projection: events apply in any
// order and re-application is harmless.
type TicketStateCache struct {
	mu sync.RWMutex
	// tickets indexed by ticket_id
	tickets map[uuid.UUID]*PrepTicket
	// index by destination code -> ticket_id
	byDestination map[string][]uuid.UUID
	// index by status code -> ticket_id
	byStatus map[string][]uuid.UUID

	stream events.StreamConsumer // For event replay on startup
	repo   TicketRepository      // Fallback to MongoDB if stream unavailable
	logger aqm.Logger
}

// NewTicketStateCache creates a new ticket cache.
func NewTicketStateCache(stream events.StreamConsumer, repo TicketRepository, logger aqm.Logger) *TicketStateCache {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &TicketStateCache{
		tickets:       make(map[uuid.UUID]*PrepTicket),
		byDestination: make(map[string][]uuid.UUID),
		byStatus:      make(map[string][]uuid.UUID),
		stream:        stream,
		repo:          repo,
		logger:        logger,
	}
}

// Warm loads tickets into the cache using event replay from the stream,
// falling back to MongoDB if the stream is unavailable.
func (c *TicketStateCache) Warm(ctx context.Context) error {
	if c.stream != nil {
		if err := c.warmFromStream(ctx); err != nil {
			c.logger.Info("stream replay failed, falling back to MongoDB", "error", err)
		} else {
			c.removeServedTickets()
			return nil
		}
	}

	if c.repo == nil {
		c.logger.Info("neither stream nor repo configured, cache remains empty")
		return nil
	}

	return c.warmFromRepo(ctx)
}

func (c *TicketStateCache) warmFromStream(ctx context.Context) error {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Info("stream panic recovered, falling back to MongoDB", "panic", r)
		}
	}()

	c.logger.Info("warming ticket cache from event stream")

	messages, err := c.stream.Fetch(ctx, 10000)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, msg := range messages {
		c.applyEventLocked(msg.Data)
	}

	c.logger.Info("ticket cache warmed from stream", "tickets", len(c.tickets))
	return nil
}

func (c *TicketStateCache) warmFromRepo(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Info("MongoDB panic recovered, cache will remain empty", "panic", r)
			err = nil
		}
	}()

	c.logger.Info("warming ticket cache from MongoDB")

	tickets, dbErr := c.repo.List(ctx, TicketFilter{})
	if dbErr != nil {
		c.logger.Info("failed to warm ticket cache from MongoDB, cache will remain empty", "error", dbErr)
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range tickets {
		if tickets[i].Done() {
			continue
		}
		c.setLocked(&tickets[i])
	}

	c.logger.Info("ticket cache warmed from MongoDB", "count", len(tickets))
	return nil
}

// ApplyEvent processes one raw fan-out event and updates the cache. Unknown
// event types are ignored for forward compatibility.
func (c *TicketStateCache) ApplyEvent(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applyEventLocked(data)
}

func (c *TicketStateCache) applyEventLocked(data []byte) {
	var baseEvent struct {
		EventType string `json:"event_type"`
	}

	if err := json.Unmarshal(data, &baseEvent); err != nil {
		c.logger.Error("failed to unmarshal event type", "error", err)
		return
	}

	switch baseEvent.EventType {
	case event.EventTicketCreated:
		c.handleTicketCreatedLocked(data)
	case event.EventTicketStatusChange:
		c.handleTicketStatusChangedLocked(data)
	}
}

func (c *TicketStateCache) handleTicketCreatedLocked(data []byte) {
	var evt event.TicketCreatedEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		c.logger.Error("failed to unmarshal ticket.created event", "error", err)
		return
	}

	ticketID, _ := uuid.Parse(evt.TicketID)
	orderID, _ := uuid.Parse(evt.OrderID)
	orderItemID, _ := uuid.Parse(evt.OrderItemID)
	productID, _ := uuid.Parse(evt.ProductID)

	t := &PrepTicket{
		ID:                  ticketID,
		OrderID:             orderID,
		OrderItemID:         orderItemID,
		ProductID:           productID,
		ProductName:         evt.ProductName,
		Destination:         evt.Destination,
		Status:              evt.Status,
		Quantity:            evt.Quantity,
		SpecialInstructions: evt.SpecialInstructions,
		Urgent:              evt.Urgent,
		TableNumber:         evt.TableNumber,
		CreatedAt:           evt.OccurredAt,
		UpdatedAt:           evt.OccurredAt,
	}

	c.setLocked(t)
}

func (c *TicketStateCache) handleTicketStatusChangedLocked(data []byte) {
	var evt event.TicketStatusChangedEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		c.logger.Error("failed to unmarshal ticket.status_changed event", "error", err)
		return
	}

	ticketID, _ := uuid.Parse(evt.TicketID)
	t := c.tickets[ticketID]
	if t == nil {
		// Create a minimal entry so late joiners still see the ticket
		orderID, _ := uuid.Parse(evt.OrderID)
		orderItemID, _ := uuid.Parse(evt.OrderItemID)
		productID, _ := uuid.Parse(evt.ProductID)

		t = &PrepTicket{
			ID:          ticketID,
			OrderID:     orderID,
			OrderItemID: orderItemID,
			ProductID:   productID,
			ProductName: evt.ProductName,
			Destination: evt.Destination,
			TableNumber: evt.TableNumber,
		}
	}

	t.Status = evt.NewStatus
	t.SpecialInstructions = evt.SpecialInstructions
	t.UpdatedAt = evt.OccurredAt
	t.StartedAt = evt.StartedAt
	t.ReadyAt = evt.ReadyAt
	t.ServedAt = evt.ServedAt

	c.setLocked(t)
}

// removeServedTickets filters out served tickets after a stream replay so
// the boards show only active work.
func (c *TicketStateCache) removeServedTickets() {
	c.mu.Lock()
	defer c.mu.Unlock()

	var removed int
	for id, t := range c.tickets {
		if t.Done() {
			c.removeFromIndex(c.byDestination, t.Destination, id)
			c.removeFromIndex(c.byStatus, t.Status, id)
			delete(c.tickets, id)
			removed++
		}
	}

	c.logger.Info("removed served tickets from cache", "count", removed)
}

// Set updates or adds a ticket to the cache.
func (c *TicketStateCache) Set(t *PrepTicket) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(t)
}

func (c *TicketStateCache) setLocked(t *PrepTicket) {
	if t == nil {
		return
	}

	if old, exists := c.tickets[t.ID]; exists {
		c.removeFromIndex(c.byDestination, old.Destination, t.ID)
		c.removeFromIndex(c.byStatus, old.Status, t.ID)
	}

	c.tickets[t.ID] = t
	c.addToIndex(c.byDestination, t.Destination, t.ID)
	c.addToIndex(c.byStatus, t.Status, t.ID)
}

// Get retrieves a ticket by ID.
func (c *TicketStateCache) Get(ticketID uuid.UUID) *PrepTicket {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tickets[ticketID]
}

// GetByDestination returns all tickets routed to a destination code. Station
// queries for kitchen or bartender also pick up tickets routed to both.
func (c *TicketStateCache) GetByDestination(dest string) []*PrepTicket {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]*PrepTicket, 0)
	for _, id := range c.destinationIDs(dest) {
		if t := c.tickets[id]; t != nil {
			result = append(result, t)
		}
	}
	return result
}

// destinationIDs merges the "both" bucket into station-specific lookups.
// Callers must hold the read lock.
func (c *TicketStateCache) destinationIDs(dest string) []uuid.UUID {
	ids := c.byDestination[dest]
	bothCode := destination.Destinations.Both.Code()
	if dest == bothCode {
		return ids
	}
	return append(append([]uuid.UUID{}, ids...), c.byDestination[bothCode]...)
}

// GetByStatus returns all tickets with a status code.
func (c *TicketStateCache) GetByStatus(status string) []*PrepTicket {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := c.byStatus[status]
	result := make([]*PrepTicket, 0, len(ids))
	for _, id := range ids {
		if t := c.tickets[id]; t != nil {
			result = append(result, t)
		}
	}
	return result
}

// GetByDestinationAndStatus filters by both codes.
func (c *TicketStateCache) GetByDestinationAndStatus(dest, status string) []*PrepTicket {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]*PrepTicket, 0)
	for _, id := range c.destinationIDs(dest) {
		if t := c.tickets[id]; t != nil && t.Status == status {
			result = append(result, t)
		}
	}
	return result
}

// GetAll returns all cached tickets.
func (c *TicketStateCache) GetAll() []*PrepTicket {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]*PrepTicket, 0, len(c.tickets))
	for _, t := range c.tickets {
		result = append(result, t)
	}
	return result
}

// Remove deletes a ticket from the cache.
func (c *TicketStateCache) Remove(ticketID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.tickets[ticketID]
	if t == nil {
		return
	}

	c.removeFromIndex(c.byDestination, t.Destination, ticketID)
	c.removeFromIndex(c.byStatus, t.Status, ticketID)
	delete(c.tickets, ticketID)
}

// Count returns the number of tickets in the cache
func (c *TicketStateCache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tickets)
}

func (c *TicketStateCache) addToIndex(index map[string][]uuid.UUID, key string, ticketID uuid.UUID) {
	index[key] = append(index[key], ticketID)
}

func (c *TicketStateCache) removeFromIndex(index map[string][]uuid.UUID, key string, ticketID uuid.UUID) {
	ids := index[key]
	for i, id := range ids {
		if id == ticketID {
			index[key] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
}
