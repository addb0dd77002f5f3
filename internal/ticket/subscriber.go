package ticket

import (
	"context"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/events"

	"github.com/Malon0825/beerhive-sales-system-sub000/pkg/event"
)

// CacheSubscriber keeps a TicketStateCache current by consuming the ticket
// fan-out topic. Delivery is at-least-once; the cache projection tolerates
// duplicates.
type CacheSubscriber struct {
	cache  *TicketStateCache
	sub    events.Subscriber
	logger aqm.Logger
}

func NewCacheSubscriber(cache *TicketStateCache, sub events.Subscriber, logger aqm.Logger) *CacheSubscriber {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &CacheSubscriber{
		cache:  cache,
		sub:    sub,
		logger: logger,
	}
}

// Start subscribes to the tickets topic. It returns once the subscription is
// registered; events apply asynchronously.
func (s *CacheSubscriber) Start(ctx context.Context) error {
	if err := s.sub.Subscribe(ctx, event.TicketsTopic, s.handleEvent); err != nil {
		return err
	}

	s.logger.Info("ticket cache subscriber started", "topic", event.TicketsTopic)
	return nil
}

func (s *CacheSubscriber) handleEvent(ctx context.Context, msg []byte) error {
	s.cache.ApplyEvent(msg)
	return nil
}
