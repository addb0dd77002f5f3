package session

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/google/uuid"

	"github.com/Malon0825/beerhive-sales-system-sub000/internal/fault"
	"github.com/Malon0825/beerhive-sales-system-sub000/internal/order"
	"github.com/Malon0825/beerhive-sales-system-sub000/internal/tables"
	"github.com/Malon0825/beerhive-sales-system-sub000/pkg/event"
)

// DefaultTaxRate applies when billing.tax_rate is not configured.
const DefaultTaxRate = 0.12

// OrderWorkflow is the slice of the order service the session aggregate
// drives: confirming new orders into the tab and settling them on close.
type OrderWorkflow interface {
	Confirm(ctx context.Context, req order.OrderCreateRequest) (*order.Order, error)
	Complete(ctx context.Context, orderID uuid.UUID, performedBy string) (*order.Order, error)
}

// TableCoordinator binds and releases the table occupied by a session.
type TableCoordinator interface {
	Occupy(ctx context.Context, tableID, sessionID uuid.UUID) (*tables.Table, error)
	Release(ctx context.Context, tableID uuid.UUID) (*tables.Table, error)
}

type Service struct {
	sessions    SessionRepo
	orders      order.OrderRepo
	items       order.OrderItemRepo
	workflow    OrderWorkflow
	coordinator TableCoordinator
	publisher   events.Publisher
	logger      apt.Logger
	taxRate     float64
}

type ServiceDeps struct {
	Sessions    SessionRepo
	Orders      order.OrderRepo
	Items       order.OrderItemRepo
	Workflow    OrderWorkflow
	Coordinator TableCoordinator
	Publisher   events.Publisher
	TaxRate     float64
}

func NewService(deps ServiceDeps, logger apt.Logger) *Service {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	taxRate := deps.TaxRate
	if taxRate == 0 {
		taxRate = DefaultTaxRate
	}
	return &Service{
		sessions:    deps.Sessions,
		orders:      deps.Orders,
		items:       deps.Items,
		workflow:    deps.Workflow,
		coordinator: deps.Coordinator,
		publisher:   deps.Publisher,
		logger:      logger,
		taxRate:     taxRate,
	}
}

type OpenRequest struct {
	TableID    uuid.UUID  `json:"table_id"`
	CustomerID *uuid.UUID `json:"customer_id,omitempty"`
	OpenedBy   string     `json:"opened_by"`
	Notes      string     `json:"notes,omitempty"`
}

// Open starts a new tab on a table. The partial unique index on
// (table_id, status=open) is the authority for the one-open-session rule;
// the upfront lookup only produces a friendlier error for the common case.
func (s *Service) Open(ctx context.Context, req OpenRequest) (*Session, error) {
	if req.TableID == uuid.Nil {
		return nil, fault.NewValidation("table_id is required")
	}

	existing, err := s.sessions.FindOpenByTable(ctx, req.TableID)
	if err != nil {
		return nil, fmt.Errorf("cannot check for open session: %w", err)
	}
	if existing != nil {
		return nil, fault.NewConflict("session", fmt.Sprintf("table already has open session %s", existing.SessionNumber))
	}

	sess := NewSession(req.TableID)
	sess.CustomerID = req.CustomerID
	sess.OpenedBy = req.OpenedBy
	sess.Notes = req.Notes

	seq, err := s.sessions.NextSequence(ctx, sess.OpenedAt.Format("20060102"))
	if err != nil {
		return nil, fmt.Errorf("cannot allocate session number: %w", err)
	}
	sess.SessionNumber = SessionNumberFor(sess.OpenedAt, seq)

	table, err := s.coordinator.Occupy(ctx, req.TableID, sess.ID)
	if err != nil {
		return nil, err
	}
	sess.TableNumber = table.Number

	sess.BeforeCreate()
	if err := s.sessions.Create(ctx, sess); err != nil {
		// Lost the race on the unique index: hand the table back.
		if _, releaseErr := s.coordinator.Release(ctx, req.TableID); releaseErr != nil {
			s.logger.Errorf("cannot release table %s after failed session open: %v", req.TableID, releaseErr)
		}
		if err == ErrDuplicateOpenSession {
			return nil, fault.NewConflict("session", "table already has an open session")
		}
		return nil, fmt.Errorf("cannot create session: %w", err)
	}

	s.publishSessionEvent(ctx, event.EventSessionOpened, sess, uuid.Nil)
	return sess, nil
}

// AddOrder confirms an order into an open tab and recomputes the totals.
func (s *Service) AddOrder(ctx context.Context, sessionID uuid.UUID, req order.OrderCreateRequest) (*order.Order, error) {
	sess, err := s.requireSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.Open() {
		return nil, fault.NewNotFound("open session", sessionID.String())
	}

	req.SessionID = &sessionID
	if req.TableID == nil {
		req.TableID = &sess.TableID
	}

	o, err := s.workflow.Confirm(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.recompute(ctx, sess); err != nil {
		return nil, err
	}

	s.publishSessionEvent(ctx, event.EventSessionOrderAdded, sess, o.ID)
	return o, nil
}

// Bill is the read-only preview of a tab: every non-voided order with its
// items, plus the running totals. Safe to call any number of times.
type Bill struct {
	Session *Session    `json:"session"`
	Orders  []BillOrder `json:"orders"`
}

type BillOrder struct {
	Order *order.Order       `json:"order"`
	Items []*order.OrderItem `json:"items"`
}

func (s *Service) PreviewBill(ctx context.Context, sessionID uuid.UUID) (*Bill, error) {
	sess, err := s.requireSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := s.recompute(ctx, sess); err != nil {
		return nil, err
	}

	orders, err := s.orders.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("cannot list session orders: %w", err)
	}

	bill := &Bill{Session: sess, Orders: make([]BillOrder, 0, len(orders))}
	for _, o := range orders {
		if o.Voided() {
			continue
		}
		items, err := s.items.ListByOrder(ctx, o.ID)
		if err != nil {
			return nil, fmt.Errorf("cannot list items for order %s: %w", o.ID, err)
		}
		bill.Orders = append(bill.Orders, BillOrder{Order: o, Items: items})
	}
	return bill, nil
}

type CloseRequest struct {
	PaymentMethod   string  `json:"payment_method"`
	AmountTendered  float64 `json:"amount_tendered,omitempty"`
	ReferenceNumber string  `json:"reference_number,omitempty"`
	ClosedBy        string  `json:"closed_by"`
}

// Close settles the tab: each non-voided order is completed (with its
// idempotent stock deduction), the totals are finalized, the table released
// to cleaning and session.closed published with the receipt payload.
// Per-order settlement failures are logged and audited but never stop the
// close; the session always ends up closed.
func (s *Service) Close(ctx context.Context, sessionID uuid.UUID, req CloseRequest) (*Session, error) {
	if req.PaymentMethod == "" {
		return nil, fault.NewValidation("payment_method is required")
	}

	sess, err := s.requireSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.Open() {
		return nil, fault.NewConflict("session", "session is not open")
	}

	orders, err := s.orders.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("cannot list session orders: %w", err)
	}

	for _, o := range orders {
		if o.Terminal() {
			continue
		}
		if _, err := s.workflow.Complete(ctx, o.ID, req.ClosedBy); err != nil {
			s.logger.Errorf("cannot complete order %s during session close: %v", o.ID, err)
			s.publishReconciliation(ctx, sess, o.ID, err.Error())
		}
	}

	if err := s.recompute(ctx, sess); err != nil {
		return nil, err
	}

	sess.PaymentMethod = req.PaymentMethod
	sess.AmountTendered = req.AmountTendered
	sess.ReferenceNumber = req.ReferenceNumber
	sess.MarkAsClosed(req.ClosedBy)

	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("cannot save session: %w", err)
	}

	s.releaseTable(ctx, sess)
	s.publishSessionEvent(ctx, event.EventSessionClosed, sess, uuid.Nil)
	return sess, nil
}

// Abandon ends the tab administratively (walk-out). No order settlement, no
// deduction; the table is released the same way a close releases it.
func (s *Service) Abandon(ctx context.Context, sessionID uuid.UUID, performedBy string) (*Session, error) {
	sess, err := s.requireSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.Open() {
		return nil, fault.NewConflict("session", "session is not open")
	}

	if err := s.recompute(ctx, sess); err != nil {
		return nil, err
	}

	sess.MarkAsAbandoned(performedBy)
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("cannot save session: %w", err)
	}

	s.releaseTable(ctx, sess)
	s.publishSessionEvent(ctx, event.EventSessionAbandoned, sess, uuid.Nil)
	return sess, nil
}

func (s *Service) Get(ctx context.Context, sessionID uuid.UUID) (*Session, error) {
	return s.sessions.Get(ctx, sessionID)
}

func (s *Service) requireSession(ctx context.Context, sessionID uuid.UUID) (*Session, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("cannot load session: %w", err)
	}
	if sess == nil {
		return nil, fault.NewNotFound("session", sessionID.String())
	}
	return sess, nil
}

// recompute rebuilds the session totals from the non-voided orders and
// persists them. Always a full pass over the orders so a missed event can
// never leave the totals drifted.
func (s *Service) recompute(ctx context.Context, sess *Session) error {
	orders, err := s.orders.ListBySession(ctx, sess.ID)
	if err != nil {
		return fmt.Errorf("cannot list session orders: %w", err)
	}

	var subtotal, discount, net float64
	for _, o := range orders {
		if o.Voided() {
			continue
		}
		subtotal += o.Subtotal
		discount += o.DiscountTotal
		net += o.Total
	}

	sess.Subtotal = subtotal
	sess.DiscountTotal = discount
	sess.TaxTotal = round2(net * s.taxRate)
	sess.Total = round2(net + sess.TaxTotal)
	sess.BeforeUpdate()

	return s.sessions.Save(ctx, sess)
}

// round2 rounds to centavos, half away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (s *Service) releaseTable(ctx context.Context, sess *Session) {
	if _, err := s.coordinator.Release(ctx, sess.TableID); err != nil {
		s.logger.Errorf("cannot release table %s for session %s: %v", sess.TableID, sess.SessionNumber, err)
	}
}

func (s *Service) publishSessionEvent(ctx context.Context, eventType string, sess *Session, orderID uuid.UUID) {
	if s.publisher == nil {
		return
	}

	evt := event.SessionEvent{
		EventType:       eventType,
		OccurredAt:      time.Now(),
		SessionID:       sess.ID.String(),
		SessionNumber:   sess.SessionNumber,
		TableID:         sess.TableID.String(),
		TableNumber:     sess.TableNumber,
		Status:          sess.Status,
		Subtotal:        sess.Subtotal,
		Discount:        sess.DiscountTotal,
		Tax:             sess.TaxTotal,
		Total:           sess.Total,
		PaymentMethod:   sess.PaymentMethod,
		AmountTendered:  sess.AmountTendered,
		ReferenceNumber: sess.ReferenceNumber,
	}
	if orderID != uuid.Nil {
		evt.OrderID = orderID.String()
	}

	data, _ := json.Marshal(evt)
	if err := s.publisher.Publish(ctx, event.SessionsTopic, data); err != nil {
		s.logger.Errorf("Failed to publish %s event: %v", eventType, err)
	}
}

func (s *Service) publishReconciliation(ctx context.Context, sess *Session, orderID uuid.UUID, reason string) {
	if s.publisher == nil {
		return
	}

	evt := event.ReconciliationEvent{
		EventType:  event.EventDeductionFailed,
		OccurredAt: time.Now(),
		OrderID:    orderID.String(),
		SessionID:  sess.ID.String(),
		Reason:     reason,
	}

	data, _ := json.Marshal(evt)
	if err := s.publisher.Publish(ctx, event.AuditTopic, data); err != nil {
		s.logger.Errorf("Failed to publish reconciliation event: %v", err)
	}
}
