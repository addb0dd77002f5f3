package order

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/google/uuid"

	"github.com/Malon0825/beerhive-sales-system-sub000/pkg/enums/orderstatus"
	"github.com/Malon0825/beerhive-sales-system-sub000/pkg/enums/ticketstatus"
	"github.com/Malon0825/beerhive-sales-system-sub000/pkg/event"
)

// TicketStatusSubscriber keeps order items in step with station progress.
// Ticket status changes advance the matching item, then roll up into the
// order status so terminals see a single aggregate state.
type TicketStatusSubscriber struct {
	subscriber events.Subscriber
	orders     OrderRepo
	items      OrderItemRepo
	publisher  events.Publisher
	logger     apt.Logger
}

func NewTicketStatusSubscriber(sub events.Subscriber, orders OrderRepo, items OrderItemRepo, publisher events.Publisher, logger apt.Logger) *TicketStatusSubscriber {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &TicketStatusSubscriber{
		subscriber: sub,
		orders:     orders,
		items:      items,
		publisher:  publisher,
		logger:     logger,
	}
}

func (s *TicketStatusSubscriber) Start(ctx context.Context) error {
	s.log().Info("starting ticket status subscriber", "topic", event.TicketsTopic)
	if s.subscriber == nil {
		return fmt.Errorf("ticket status subscriber not configured")
	}
	return s.subscriber.Subscribe(ctx, event.TicketsTopic, s.handleEvent)
}

func (s *TicketStatusSubscriber) handleEvent(ctx context.Context, msg []byte) error {
	var metadata event.TicketEventMetadata
	if err := json.Unmarshal(msg, &metadata); err != nil {
		s.log().Info("invalid ticket event", "error", err)
		return nil
	}

	switch metadata.EventType {
	case event.EventTicketStatusChange:
		return s.handleStatusChange(ctx, msg)
	case event.EventTicketCreated:
		// Creation was triggered by order confirmation, nothing to sync.
		return nil
	default:
		s.log().Debug("unknown ticket event type", "event_type", metadata.EventType)
		return nil
	}
}

func (s *TicketStatusSubscriber) handleStatusChange(ctx context.Context, msg []byte) error {
	var evt event.TicketStatusChangedEvent
	if err := json.Unmarshal(msg, &evt); err != nil {
		s.log().Info("invalid status change event", "error", err)
		return nil
	}

	if evt.OrderItemID == "" {
		s.logger.Debug("status change event missing order_item_id", "ticket_id", evt.TicketID)
		return nil
	}

	orderItemID, err := uuid.Parse(evt.OrderItemID)
	if err != nil {
		s.logger.Info("invalid order_item_id in event", "order_item_id", evt.OrderItemID)
		return nil
	}

	item, err := s.items.Get(ctx, orderItemID)
	if err != nil || item == nil {
		s.logger.Info("cannot find order item for ticket", "order_item_id", orderItemID, "error", err)
		return nil
	}

	newStatus := mapTicketStatus(evt.NewStatus)
	if newStatus == "" {
		s.logger.Debug("no status mapping for ticket status", "status", evt.NewStatus)
		return nil
	}
	if item.Status == newStatus {
		return nil
	}

	oldStatus := item.Status
	switch newStatus {
	case "preparing":
		item.MarkAsPreparing()
	case "ready":
		item.MarkAsReady()
	case "served":
		item.MarkAsServed()
	}

	if err := s.items.Save(ctx, item); err != nil {
		s.logger.Info("failed to update order item status", "order_item_id", orderItemID, "error", err)
		return err
	}

	s.logger.Info("order item status updated from ticket event",
		"order_item_id", orderItemID,
		"old_status", oldStatus,
		"new_status", newStatus,
		"ticket_id", evt.TicketID,
	)

	s.publishItemStatus(ctx, item, oldStatus)

	if err := s.rollUp(ctx, item.OrderID); err != nil {
		s.logger.Info("failed to roll up order status", "order_id", item.OrderID, "error", err)
	}

	return nil
}

// mapTicketStatus maps prep ticket status codes onto order item statuses.
func mapTicketStatus(ticketStatus string) string {
	switch ticketStatus {
	case ticketstatus.Statuses.Pending.Code():
		return "pending"
	case ticketstatus.Statuses.Preparing.Code():
		return "preparing"
	case ticketstatus.Statuses.Ready.Code():
		return "ready"
	case ticketstatus.Statuses.Served.Code():
		return "served"
	default:
		return ""
	}
}

// rollUp recomputes the aggregate order status from its items: the order is
// served once every item is served, ready once every item is at least ready,
// and preparing as soon as any item left pending. Terminal orders are never
// moved.
func (s *TicketStatusSubscriber) rollUp(ctx context.Context, orderID uuid.UUID) error {
	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return err
	}
	if o == nil || o.Terminal() {
		return nil
	}

	items, err := s.items.ListByOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	newStatus := RollUpStatus(items)
	if newStatus == "" || newStatus == o.Status {
		return nil
	}

	switch newStatus {
	case orderstatus.Statuses.Preparing.Code():
		o.MarkAsPreparing()
	case orderstatus.Statuses.Ready.Code():
		o.MarkAsReady()
	case orderstatus.Statuses.Served.Code():
		o.MarkAsServed()
	default:
		return nil
	}

	if err := s.orders.Save(ctx, o); err != nil {
		return err
	}

	s.publishOrderStatus(ctx, o)
	return nil
}

// RollUpStatus derives the aggregate status from item statuses. It returns
// "" when the items are still all pending and no aggregate change applies.
func RollUpStatus(items []*OrderItem) string {
	allServed := true
	allReady := true
	anyStarted := false

	for _, item := range items {
		switch item.Status {
		case "served":
			anyStarted = true
		case "ready":
			allServed = false
			anyStarted = true
		case "preparing":
			allServed = false
			allReady = false
			anyStarted = true
		default:
			allServed = false
			allReady = false
		}
	}

	switch {
	case allServed:
		return orderstatus.Statuses.Served.Code()
	case allReady:
		return orderstatus.Statuses.Ready.Code()
	case anyStarted:
		return orderstatus.Statuses.Preparing.Code()
	default:
		return ""
	}
}

func (s *TicketStatusSubscriber) publishItemStatus(ctx context.Context, item *OrderItem, previous string) {
	if s.publisher == nil {
		return
	}

	evt := event.OrderItemStatusEvent{
		EventType:      event.EventOrderItemStatus,
		OccurredAt:     time.Now(),
		OrderID:        item.OrderID.String(),
		OrderItemID:    item.ID.String(),
		Status:         item.Status,
		PreviousStatus: previous,
	}

	data, _ := json.Marshal(evt)
	if err := s.publisher.Publish(ctx, event.OrdersTopic, data); err != nil {
		s.logger.Errorf("Failed to publish order item status event: %v", err)
	}
}

func (s *TicketStatusSubscriber) publishOrderStatus(ctx context.Context, o *Order) {
	if s.publisher == nil {
		return
	}

	evt := event.OrderEvent{
		EventType:   event.EventOrderStatus,
		OccurredAt:  time.Now(),
		OrderID:     o.ID.String(),
		TableNumber: o.TableNumber,
		Status:      o.Status,
		Total:       o.Total,
	}
	if o.SessionID != nil {
		evt.SessionID = o.SessionID.String()
	}

	data, _ := json.Marshal(evt)
	if err := s.publisher.Publish(ctx, event.OrdersTopic, data); err != nil {
		s.logger.Errorf("Failed to publish order status event: %v", err)
	}
}

func (s *TicketStatusSubscriber) log() apt.Logger {
	return s.logger.With("component", "TicketStatusSubscriber")
}
