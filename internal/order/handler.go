package order

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Malon0825/beerhive-sales-system-sub000/internal/fault"
	"github.com/Malon0825/beerhive-sales-system-sub000/pkg/enums/orderstatus"
)

const MaxBodyBytes = 1 << 20

type Handler struct {
	service *Service
	orders  OrderRepo
	logger  apt.Logger
	config  *apt.Config
	tlm     *telemetry.HTTP
}

func NewHandler(service *Service, orders OrderRepo, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		service: service,
		orders:  orders,
		logger:  logger,
		config:  config,
		tlm:     telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.CreateOrder)
		r.Get("/", h.ListOrders)
		r.Get("/{id}", h.GetOrder)
		r.Get("/{id}/items", h.ListOrderItems)
		r.Patch("/{id}/complete", h.CompleteOrder)
		r.Post("/{id}/void", h.VoidOrder)
	})
}

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", apt.RequestIDFrom(r.Context()))
}

// CreateOrder confirms a walk-up order in a single request. Orders attached
// to a dining session go through the session endpoints instead.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateOrder")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		apt.RespondError(w, http.StatusBadRequest, "Could not read request body")
		return
	}

	var req OrderCreateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		apt.RespondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	o, err := h.service.Confirm(ctx, req)
	if err != nil {
		h.respondFault(w, log, err, "cannot create order", "Could not create order")
		return
	}

	apt.Respond(w, http.StatusCreated, o, nil)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListOrders")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	var orders []*Order
	var err error

	switch {
	case r.URL.Query().Get("session_id") != "":
		sessionID, parseErr := uuid.Parse(r.URL.Query().Get("session_id"))
		if parseErr != nil {
			apt.RespondError(w, http.StatusBadRequest, "Invalid session ID")
			return
		}
		orders, err = h.orders.ListBySession(ctx, sessionID)
	case r.URL.Query().Get("status") != "":
		status := r.URL.Query().Get("status")
		if orderstatus.ByName(status) == nil {
			apt.RespondError(w, http.StatusBadRequest, "Invalid status")
			return
		}
		orders, err = h.orders.ListByStatus(ctx, status)
	default:
		orders, err = h.orders.List(ctx)
	}

	if err != nil {
		log.Errorf("cannot list orders: %v", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not list orders")
		return
	}

	apt.Respond(w, http.StatusOK, map[string]interface{}{
		"orders": orders,
	}, nil)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetOrder")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apt.RespondError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	o, err := h.service.Get(ctx, id)
	if err != nil {
		log.Errorf("cannot get order %s: %v", id, err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not get order")
		return
	}
	if o == nil {
		apt.RespondError(w, http.StatusNotFound, "Order not found")
		return
	}

	apt.Respond(w, http.StatusOK, o, nil)
}

func (h *Handler) ListOrderItems(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListOrderItems")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apt.RespondError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	items, err := h.service.Items(ctx, id)
	if err != nil {
		log.Errorf("cannot list items for order %s: %v", id, err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not list order items")
		return
	}

	apt.Respond(w, http.StatusOK, map[string]interface{}{
		"items": items,
	}, nil)
}

type CompleteOrderRequest struct {
	PerformedBy string `json:"performed_by"`
}

func (h *Handler) CompleteOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CompleteOrder")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apt.RespondError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		apt.RespondError(w, http.StatusBadRequest, "Could not read request body")
		return
	}

	var req CompleteOrderRequest
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			apt.RespondError(w, http.StatusBadRequest, "Invalid JSON payload")
			return
		}
	}

	o, err := h.service.Complete(ctx, id, req.PerformedBy)
	if err != nil {
		h.respondFault(w, log, err, "cannot complete order", "Could not complete order")
		return
	}

	apt.Respond(w, http.StatusOK, o, nil)
}

func (h *Handler) VoidOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.VoidOrder")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apt.RespondError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		apt.RespondError(w, http.StatusBadRequest, "Could not read request body")
		return
	}

	var req OrderVoidRequest
	if err := json.Unmarshal(body, &req); err != nil {
		apt.RespondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	o, err := h.service.Void(ctx, id, req.Reason, req.PerformedBy)
	if err != nil {
		h.respondFault(w, log, err, "cannot void order", "Could not void order")
		return
	}

	apt.Respond(w, http.StatusOK, o, nil)
}

func (h *Handler) respondFault(w http.ResponseWriter, log apt.Logger, err error, logMsg, userMsg string) {
	switch {
	case fault.IsValidation(err):
		apt.Respond(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"violations": fault.Violations(err),
		}, nil)
	case fault.IsNotFound(err):
		apt.RespondError(w, http.StatusNotFound, err.Error())
	case fault.IsConflict(err):
		apt.RespondError(w, http.StatusConflict, err.Error())
	default:
		log.Errorf("%s: %v", logMsg, err)
		apt.RespondError(w, http.StatusInternalServerError, userMsg)
	}
}
