package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/Malon0825/beerhive-sales-system-sub000/internal/fault"
	"github.com/Malon0825/beerhive-sales-system-sub000/internal/order"
	"github.com/Malon0825/beerhive-sales-system-sub000/internal/tables"
)

type MockSessionRepo struct {
	mu       sync.Mutex
	Sessions map[uuid.UUID]*Session
	seq      map[string]int

	CreateFunc func(ctx context.Context, s *Session) error
	SaveFunc   func(ctx context.Context, s *Session) error
}

func NewMockSessionRepo() *MockSessionRepo {
	return &MockSessionRepo{
		Sessions: make(map[uuid.UUID]*Session),
		seq:      make(map[string]int),
	}
}

func (m *MockSessionRepo) Create(ctx context.Context, s *Session) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, s)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.Sessions {
		if existing.TableID == s.TableID && existing.Open() {
			return ErrDuplicateOpenSession
		}
	}
	m.Sessions[s.ID] = s
	return nil
}

func (m *MockSessionRepo) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Sessions[id], nil
}

func (m *MockSessionRepo) GetByNumber(ctx context.Context, number string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.Sessions {
		if s.SessionNumber == number {
			return s, nil
		}
	}
	return nil, nil
}

func (m *MockSessionRepo) List(ctx context.Context) ([]*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Session, 0, len(m.Sessions))
	for _, s := range m.Sessions {
		out = append(out, s)
	}
	return out, nil
}

func (m *MockSessionRepo) ListByStatus(ctx context.Context, status string) ([]*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Session
	for _, s := range m.Sessions {
		if s.Status == status {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *MockSessionRepo) FindOpenByTable(ctx context.Context, tableID uuid.UUID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.Sessions {
		if s.TableID == tableID && s.Open() {
			return s, nil
		}
	}
	return nil, nil
}

func (m *MockSessionRepo) Save(ctx context.Context, s *Session) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, s)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sessions[s.ID] = s
	return nil
}

func (m *MockSessionRepo) NextSequence(ctx context.Context, day string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq[day]++
	return m.seq[day], nil
}

type MockOrderRepo struct {
	mu     sync.Mutex
	Orders map[uuid.UUID]*order.Order
}

func NewMockOrderRepo() *MockOrderRepo {
	return &MockOrderRepo{Orders: make(map[uuid.UUID]*order.Order)}
}

func (m *MockOrderRepo) Create(ctx context.Context, o *order.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Orders[o.ID] = o
	return nil
}

func (m *MockOrderRepo) Get(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Orders[id], nil
}

func (m *MockOrderRepo) List(ctx context.Context) ([]*order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*order.Order, 0, len(m.Orders))
	for _, o := range m.Orders {
		out = append(out, o)
	}
	return out, nil
}

func (m *MockOrderRepo) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*order.Order
	for _, o := range m.Orders {
		if o.SessionID != nil && *o.SessionID == sessionID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *MockOrderRepo) ListByStatus(ctx context.Context, status string) ([]*order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*order.Order
	for _, o := range m.Orders {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *MockOrderRepo) Save(ctx context.Context, o *order.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Orders[o.ID] = o
	return nil
}

func (m *MockOrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Orders, id)
	return nil
}

type MockOrderItemRepo struct {
	mu    sync.Mutex
	Items map[uuid.UUID]*order.OrderItem
}

func NewMockOrderItemRepo() *MockOrderItemRepo {
	return &MockOrderItemRepo{Items: make(map[uuid.UUID]*order.OrderItem)}
}

func (m *MockOrderItemRepo) Create(ctx context.Context, item *order.OrderItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Items[item.ID] = item
	return nil
}

func (m *MockOrderItemRepo) Get(ctx context.Context, id uuid.UUID) (*order.OrderItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Items[id], nil
}

func (m *MockOrderItemRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*order.OrderItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*order.OrderItem
	for _, item := range m.Items {
		if item.OrderID == orderID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *MockOrderItemRepo) Save(ctx context.Context, item *order.OrderItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Items[item.ID] = item
	return nil
}

func (m *MockOrderItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Items, id)
	return nil
}

// MockWorkflow stands in for the order service. Confirm persists a simple
// confirmed order with the configured total; Complete flips it to completed.
type MockWorkflow struct {
	orders *MockOrderRepo

	ConfirmTotal float64
	ConfirmFunc  func(ctx context.Context, req order.OrderCreateRequest) (*order.Order, error)
	CompleteFunc func(ctx context.Context, orderID uuid.UUID, performedBy string) (*order.Order, error)

	Completed []uuid.UUID
}

func NewMockWorkflow(orders *MockOrderRepo) *MockWorkflow {
	return &MockWorkflow{orders: orders, ConfirmTotal: 100}
}

func (m *MockWorkflow) Confirm(ctx context.Context, req order.OrderCreateRequest) (*order.Order, error) {
	if m.ConfirmFunc != nil {
		return m.ConfirmFunc(ctx, req)
	}
	o := order.NewOrder()
	o.SessionID = req.SessionID
	o.TableID = req.TableID
	o.CashierID = req.CashierID
	o.MarkAsConfirmed()
	o.Subtotal = m.ConfirmTotal
	o.Total = m.ConfirmTotal
	if err := m.orders.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (m *MockWorkflow) Complete(ctx context.Context, orderID uuid.UUID, performedBy string) (*order.Order, error) {
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, orderID, performedBy)
	}
	o, err := m.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fault.NewNotFound("order", orderID.String())
	}
	o.MarkAsCompleted()
	m.Completed = append(m.Completed, orderID)
	return o, m.orders.Save(ctx, o)
}

type MockCoordinator struct {
	Tables map[uuid.UUID]*tables.Table

	OccupyFunc  func(ctx context.Context, tableID, sessionID uuid.UUID) (*tables.Table, error)
	ReleaseFunc func(ctx context.Context, tableID uuid.UUID) (*tables.Table, error)

	Occupied []uuid.UUID
	Released []uuid.UUID
}

func NewMockCoordinator() *MockCoordinator {
	return &MockCoordinator{Tables: make(map[uuid.UUID]*tables.Table)}
}

func (m *MockCoordinator) AddTable(t *tables.Table) {
	m.Tables[t.ID] = t
}

func (m *MockCoordinator) Occupy(ctx context.Context, tableID, sessionID uuid.UUID) (*tables.Table, error) {
	if m.OccupyFunc != nil {
		return m.OccupyFunc(ctx, tableID, sessionID)
	}
	t, ok := m.Tables[tableID]
	if !ok {
		return nil, fault.NewNotFound("table", tableID.String())
	}
	if !t.Seatable() {
		return nil, fault.NewConflict("table", fmt.Sprintf("table %s is %s", t.Number, t.Status))
	}
	t.Occupy(sessionID)
	m.Occupied = append(m.Occupied, tableID)
	return t, nil
}

func (m *MockCoordinator) Release(ctx context.Context, tableID uuid.UUID) (*tables.Table, error) {
	if m.ReleaseFunc != nil {
		return m.ReleaseFunc(ctx, tableID)
	}
	t, ok := m.Tables[tableID]
	if !ok {
		return nil, fault.NewNotFound("table", tableID.String())
	}
	t.Release()
	m.Released = append(m.Released, tableID)
	return t, nil
}

type PublishedEvent struct {
	Topic string
	Data  []byte
}

type MockPublisher struct {
	mu              sync.Mutex
	PublishedEvents []PublishedEvent
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PublishedEvents = append(m.PublishedEvents, PublishedEvent{Topic: topic, Data: data})
	return nil
}

func (m *MockPublisher) EventsFor(topic string) []PublishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []PublishedEvent
	for _, evt := range m.PublishedEvents {
		if evt.Topic == topic {
			out = append(out, evt)
		}
	}
	return out
}
