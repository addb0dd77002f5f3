package ticket

import (
	"context"
	"errors"

	"github.com/aquamarinepk/aqm/events"
	"github.com/google/uuid"
)

// MockTicketRepository is a test mock for TicketRepository
type MockTicketRepository struct {
	tickets               map[uuid.UUID]*PrepTicket
	byOrderItemID         map[uuid.UUID]*PrepTicket
	CreateFunc            func(ctx context.Context, t *PrepTicket) error
	UpdateFunc            func(ctx context.Context, t *PrepTicket) error
	FindByIDFunc          func(ctx context.Context, id TicketID) (*PrepTicket, error)
	FindByOrderItemIDFunc func(ctx context.Context, id OrderItemID) (*PrepTicket, error)
	ListFunc              func(ctx context.Context, filter TicketFilter) ([]PrepTicket, error)
}

func NewMockTicketRepository() *MockTicketRepository {
	return &MockTicketRepository{
		tickets:       make(map[uuid.UUID]*PrepTicket),
		byOrderItemID: make(map[uuid.UUID]*PrepTicket),
	}
}

func (m *MockTicketRepository) Create(ctx context.Context, t *PrepTicket) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, t)
	}
	m.tickets[t.ID] = t
	m.byOrderItemID[t.OrderItemID] = t
	return nil
}

func (m *MockTicketRepository) Update(ctx context.Context, t *PrepTicket) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, t)
	}
	if _, exists := m.tickets[t.ID]; !exists {
		return errors.New("ticket not found")
	}
	m.tickets[t.ID] = t
	return nil
}

func (m *MockTicketRepository) FindByID(ctx context.Context, id TicketID) (*PrepTicket, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	t, exists := m.tickets[id]
	if !exists {
		return nil, errors.New("ticket not found")
	}
	return t, nil
}

func (m *MockTicketRepository) FindByOrderItemID(ctx context.Context, id OrderItemID) (*PrepTicket, error) {
	if m.FindByOrderItemIDFunc != nil {
		return m.FindByOrderItemIDFunc(ctx, id)
	}
	return m.byOrderItemID[id], nil
}

func (m *MockTicketRepository) List(ctx context.Context, filter TicketFilter) ([]PrepTicket, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	result := make([]PrepTicket, 0, len(m.tickets))
	for _, t := range m.tickets {
		if filter.Destination != nil && t.Destination != *filter.Destination {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.OrderID != nil && t.OrderID != *filter.OrderID {
			continue
		}
		if filter.OrderItemID != nil && t.OrderItemID != *filter.OrderItemID {
			continue
		}
		result = append(result, *t)
	}
	return result, nil
}

// AddTicket is a helper to seed the mock repository
func (m *MockTicketRepository) AddTicket(t *PrepTicket) {
	m.tickets[t.ID] = t
	m.byOrderItemID[t.OrderItemID] = t
}

// MockPublisher is a test mock for events.Publisher
type MockPublisher struct {
	PublishedEvents []PublishedEvent
	PublishFunc     func(ctx context.Context, topic string, data []byte) error
}

type PublishedEvent struct {
	Topic string
	Data  []byte
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{
		PublishedEvents: make([]PublishedEvent, 0),
	}
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, data []byte) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, data)
	}
	m.PublishedEvents = append(m.PublishedEvents, PublishedEvent{Topic: topic, Data: data})
	return nil
}

// MockStreamConsumer is a test mock for events.StreamConsumer
type MockStreamConsumer struct {
	messages            []events.StreamMessage
	FetchFunc           func(ctx context.Context, maxMessages int) ([]events.StreamMessage, error)
	SubscribeStreamFunc func(ctx context.Context, handler events.HandlerFunc) error
}

func NewMockStreamConsumer() *MockStreamConsumer {
	return &MockStreamConsumer{
		messages: make([]events.StreamMessage, 0),
	}
}

func (m *MockStreamConsumer) Fetch(ctx context.Context, maxMessages int) ([]events.StreamMessage, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, maxMessages)
	}
	return m.messages, nil
}

func (m *MockStreamConsumer) SubscribeStream(ctx context.Context, handler events.HandlerFunc) error {
	if m.SubscribeStreamFunc != nil {
		return m.SubscribeStreamFunc(ctx, handler)
	}
	return nil
}

func (m *MockStreamConsumer) AddMessage(data []byte) {
	m.messages = append(m.messages, events.StreamMessage{Data: data})
}

// MockNotifier records waiter notifications
type MockNotifier struct {
	Notifications []Notification
}

type Notification struct {
	Title      string
	Message    string
	TargetRole string
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{Notifications: make([]Notification, 0)}
}

func (m *MockNotifier) Notify(ctx context.Context, title, message, targetRole string) {
	m.Notifications = append(m.Notifications, Notification{Title: title, Message: message, TargetRole: targetRole})
}

// MockSubscriber is a test mock for events.Subscriber
type MockSubscriber struct {
	Handlers      map[string]events.HandlerFunc
	SubscribeFunc func(ctx context.Context, topic string, handler events.HandlerFunc) error
}

func NewMockSubscriber() *MockSubscriber {
	return &MockSubscriber{Handlers: make(map[string]events.HandlerFunc)}
}

func (m *MockSubscriber) Subscribe(ctx context.Context, topic string, handler events.HandlerFunc) error {
	if m.SubscribeFunc != nil {
		return m.SubscribeFunc(ctx, topic, handler)
	}
	m.Handlers[topic] = handler
	return nil
}

// Deliver simulates an incoming message on a subscribed topic.
func (m *MockSubscriber) Deliver(ctx context.Context, topic string, data []byte) error {
	handler, ok := m.Handlers[topic]
	if !ok {
		return errors.New("no handler for topic")
	}
	return handler(ctx, data)
}
