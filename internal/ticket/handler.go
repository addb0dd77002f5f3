package ticket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/events"
	"github.com/aquamarinepk/aqm/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Malon0825/beerhive-sales-system-sub000/pkg/enums/destination"
	"github.com/Malon0825/beerhive-sales-system-sub000/pkg/enums/ticketstatus"
	"github.com/Malon0825/beerhive-sales-system-sub000/pkg/event"
)

const MaxBodyBytes = 1 << 20

// Notifier pushes a human-readable alert to waitstaff devices. Failures are
// logged and never block the ticket workflow.
type Notifier interface {
	Notify(ctx context.Context, title, message, targetRole string)
}

type Handler struct {
	repo      TicketRepository
	cache     *TicketStateCache
	publisher events.Publisher
	notifier  Notifier
	logger    aqm.Logger
	config    *aqm.Config
	tlm       *telemetry.HTTP
}

func NewHandler(repo TicketRepository, cache *TicketStateCache, publisher events.Publisher, notifier Notifier, config *aqm.Config, logger aqm.Logger) *Handler {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Handler{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		notifier:  notifier,
		logger:    logger,
		config:    config,
		tlm:       telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/tickets", func(r chi.Router) {
		r.Get("/", h.ListTickets)
		r.Get("/{id}", h.GetTicket)
		r.Patch("/{id}/start", h.StartTicket)
		r.Patch("/{id}/ready", h.ReadyTicket)
		r.Patch("/{id}/serve", h.ServeTicket)
		r.Patch("/{id}/urgent", h.FlagUrgent)
	})
}

func (h *Handler) log(r *http.Request) aqm.Logger {
	return h.logger.With("request_id", aqm.RequestIDFrom(r.Context()))
}

// ListTickets answers from the in-memory cache when the query only filters
// by destination and status. Order-scoped lookups go to the repository.
func (h *Handler) ListTickets(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListTickets")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	filter := TicketFilter{}

	if dest := r.URL.Query().Get("destination"); dest != "" {
		if destination.ByName(dest) == nil {
			aqm.RespondError(w, http.StatusBadRequest, "Invalid destination")
			return
		}
		filter.Destination = &dest
	}

	if status := r.URL.Query().Get("status"); status != "" {
		if ticketstatus.ByName(status) == nil {
			aqm.RespondError(w, http.StatusBadRequest, "Invalid status")
			return
		}
		filter.Status = &status
	}

	if orderIDStr := r.URL.Query().Get("order_id"); orderIDStr != "" {
		orderID, err := uuid.Parse(orderIDStr)
		if err != nil {
			aqm.RespondError(w, http.StatusBadRequest, "Invalid order ID")
			return
		}
		filter.OrderID = &orderID
	}

	if h.cache != nil && filter.OrderID == nil {
		aqm.Respond(w, http.StatusOK, map[string]interface{}{
			"tickets": h.listFromCache(filter),
		}, nil)
		return
	}

	tickets, err := h.repo.List(ctx, filter)
	if err != nil {
		log.Errorf("cannot list tickets: %v", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not list tickets")
		return
	}

	aqm.Respond(w, http.StatusOK, map[string]interface{}{
		"tickets": tickets,
	}, nil)
}

func (h *Handler) listFromCache(filter TicketFilter) []*PrepTicket {
	switch {
	case filter.Destination != nil && filter.Status != nil:
		return h.cache.GetByDestinationAndStatus(*filter.Destination, *filter.Status)
	case filter.Destination != nil:
		return h.cache.GetByDestination(*filter.Destination)
	case filter.Status != nil:
		return h.cache.GetByStatus(*filter.Status)
	default:
		return h.cache.GetAll()
	}
}

func (h *Handler) GetTicket(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetTicket")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		aqm.RespondError(w, http.StatusBadRequest, "Invalid ticket ID")
		return
	}

	if h.cache != nil {
		if t := h.cache.Get(id); t != nil {
			aqm.Respond(w, http.StatusOK, t, nil)
			return
		}
	}

	ticket, err := h.repo.FindByID(ctx, id)
	if err != nil {
		log.Errorf("cannot find ticket: %v", err)
		aqm.RespondError(w, http.StatusNotFound, "Ticket not found")
		return
	}

	aqm.Respond(w, http.StatusOK, ticket, nil)
}

func (h *Handler) StartTicket(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Start", func(t *PrepTicket) error {
		if t.Status != ticketstatus.Statuses.Pending.Code() {
			return fmt.Errorf("cannot start ticket in status %s", t.Status)
		}
		t.Start()
		return nil
	})
}

func (h *Handler) ReadyTicket(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Ready", func(t *PrepTicket) error {
		if t.Status != ticketstatus.Statuses.Preparing.Code() {
			return fmt.Errorf("cannot mark ready a ticket in status %s", t.Status)
		}
		t.MarkReady()
		return nil
	})
}

func (h *Handler) ServeTicket(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Serve", func(t *PrepTicket) error {
		if t.Status != ticketstatus.Statuses.Ready.Code() {
			return fmt.Errorf("cannot serve ticket in status %s", t.Status)
		}
		t.MarkServed()
		return nil
	})
}

func (h *Handler) FlagUrgent(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.FlagUrgent")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		aqm.RespondError(w, http.StatusBadRequest, "Invalid ticket ID")
		return
	}

	ticket, err := h.repo.FindByID(ctx, id)
	if err != nil {
		log.Errorf("cannot find ticket: %v", err)
		aqm.RespondError(w, http.StatusNotFound, "Ticket not found")
		return
	}

	ticket.MarkUrgent()
	ticket.BeforeUpdate()

	if err := h.repo.Update(ctx, ticket); err != nil {
		log.Errorf("cannot update ticket: %v", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not update ticket")
		return
	}

	if h.cache != nil {
		h.cache.Set(ticket)
	}

	aqm.Respond(w, http.StatusOK, ticket, nil)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, action string, apply func(*PrepTicket) error) {
	w, r, finish := h.tlm.Start(w, r, fmt.Sprintf("Handler.%sTicket", action))
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		aqm.RespondError(w, http.StatusBadRequest, "Invalid ticket ID")
		return
	}

	ticket, err := h.repo.FindByID(ctx, id)
	if err != nil {
		log.Errorf("cannot find ticket: %v", err)
		aqm.RespondError(w, http.StatusNotFound, "Ticket not found")
		return
	}

	previousStatus := ticket.Status
	if err := apply(ticket); err != nil {
		aqm.RespondError(w, http.StatusConflict, err.Error())
		return
	}
	ticket.BeforeUpdate()

	if err := h.repo.Update(ctx, ticket); err != nil {
		log.Errorf("cannot update ticket: %v", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not update ticket")
		return
	}

	if h.cache != nil {
		if ticket.Done() {
			h.cache.Remove(ticket.ID)
		} else {
			h.cache.Set(ticket)
		}
	}

	h.publishStatusChange(ctx, ticket, previousStatus)

	if ticket.Status == ticketstatus.Statuses.Ready.Code() && h.notifier != nil {
		msg := fmt.Sprintf("%s x%d is ready", ticket.ProductName, ticket.Quantity)
		if ticket.TableNumber != "" {
			msg = fmt.Sprintf("%s for table %s", msg, ticket.TableNumber)
		}
		h.notifier.Notify(ctx, "Order ready for pickup", msg, "waiter")
	}

	aqm.Respond(w, http.StatusOK, ticket, nil)
}

func (h *Handler) publishStatusChange(ctx context.Context, t *PrepTicket, previousStatus string) {
	evt := event.TicketStatusChangedEvent{
		TicketEventMetadata: event.TicketEventMetadata{
			EventType:   event.EventTicketStatusChange,
			OccurredAt:  time.Now(),
			TicketID:    t.ID.String(),
			OrderID:     t.OrderID.String(),
			OrderItemID: t.OrderItemID.String(),
			ProductID:   t.ProductID.String(),
			Destination: t.Destination,
			ProductName: t.ProductName,
			TableNumber: t.TableNumber,
		},
		NewStatus:           t.Status,
		PreviousStatus:      previousStatus,
		SpecialInstructions: t.SpecialInstructions,
		StartedAt:           t.StartedAt,
		ReadyAt:             t.ReadyAt,
		ServedAt:            t.ServedAt,
	}

	eventBytes, _ := json.Marshal(evt)
	if err := h.publisher.Publish(ctx, event.TicketsTopic, eventBytes); err != nil {
		h.logger.Errorf("Failed to publish status_changed event: %v", err)
	}
}
