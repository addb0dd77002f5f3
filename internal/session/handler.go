package session

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Malon0825/beerhive-sales-system-sub000/internal/fault"
	"github.com/Malon0825/beerhive-sales-system-sub000/internal/order"
	"github.com/Malon0825/beerhive-sales-system-sub000/pkg/enums/sessionstatus"
)

const MaxBodyBytes = 1 << 20

type Handler struct {
	service  *Service
	sessions SessionRepo
	logger   apt.Logger
	config   *apt.Config
	tlm      *telemetry.HTTP
}

func NewHandler(service *Service, sessions SessionRepo, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		service:  service,
		sessions: sessions,
		logger:   logger,
		config:   config,
		tlm:      telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.OpenSession)
		r.Get("/", h.ListSessions)
		r.Get("/{id}", h.GetSession)
		r.Get("/{id}/bill", h.PreviewBill)
		r.Post("/{id}/orders", h.AddOrder)
		r.Post("/{id}/close", h.CloseSession)
		r.Post("/{id}/abandon", h.AbandonSession)
	})
}

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", apt.RequestIDFrom(r.Context()))
}

func (h *Handler) OpenSession(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.OpenSession")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		apt.RespondError(w, http.StatusBadRequest, "Could not read request body")
		return
	}

	var req OpenRequest
	if err := json.Unmarshal(body, &req); err != nil {
		apt.RespondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	sess, err := h.service.Open(ctx, req)
	if err != nil {
		h.respondFault(w, log, err, "cannot open session", "Could not open session")
		return
	}

	apt.Respond(w, http.StatusCreated, sess, nil)
}

func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListSessions")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	var sessions []*Session
	var err error

	if status := r.URL.Query().Get("status"); status != "" {
		if sessionstatus.ByName(status) == nil {
			apt.RespondError(w, http.StatusBadRequest, "Invalid status")
			return
		}
		sessions, err = h.sessions.ListByStatus(ctx, status)
	} else {
		sessions, err = h.sessions.List(ctx)
	}

	if err != nil {
		log.Errorf("cannot list sessions: %v", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not list sessions")
		return
	}

	apt.Respond(w, http.StatusOK, map[string]interface{}{
		"sessions": sessions,
	}, nil)
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetSession")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apt.RespondError(w, http.StatusBadRequest, "Invalid session ID")
		return
	}

	sess, err := h.service.Get(ctx, id)
	if err != nil {
		log.Errorf("cannot get session %s: %v", id, err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not get session")
		return
	}
	if sess == nil {
		apt.RespondError(w, http.StatusNotFound, "Session not found")
		return
	}

	apt.Respond(w, http.StatusOK, sess, nil)
}

func (h *Handler) PreviewBill(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.PreviewBill")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apt.RespondError(w, http.StatusBadRequest, "Invalid session ID")
		return
	}

	bill, err := h.service.PreviewBill(ctx, id)
	if err != nil {
		h.respondFault(w, log, err, "cannot preview bill", "Could not preview bill")
		return
	}

	apt.Respond(w, http.StatusOK, bill, nil)
}

func (h *Handler) AddOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AddOrder")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apt.RespondError(w, http.StatusBadRequest, "Invalid session ID")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		apt.RespondError(w, http.StatusBadRequest, "Could not read request body")
		return
	}

	var req order.OrderCreateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		apt.RespondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	o, err := h.service.AddOrder(ctx, id, req)
	if err != nil {
		h.respondFault(w, log, err, "cannot add order to session", "Could not add order to session")
		return
	}

	apt.Respond(w, http.StatusCreated, o, nil)
}

func (h *Handler) CloseSession(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CloseSession")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apt.RespondError(w, http.StatusBadRequest, "Invalid session ID")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		apt.RespondError(w, http.StatusBadRequest, "Could not read request body")
		return
	}

	var req CloseRequest
	if err := json.Unmarshal(body, &req); err != nil {
		apt.RespondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	sess, err := h.service.Close(ctx, id, req)
	if err != nil {
		h.respondFault(w, log, err, "cannot close session", "Could not close session")
		return
	}

	apt.Respond(w, http.StatusOK, sess, nil)
}

type AbandonRequest struct {
	PerformedBy string `json:"performed_by"`
}

func (h *Handler) AbandonSession(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AbandonSession")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apt.RespondError(w, http.StatusBadRequest, "Invalid session ID")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		apt.RespondError(w, http.StatusBadRequest, "Could not read request body")
		return
	}

	var req AbandonRequest
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			apt.RespondError(w, http.StatusBadRequest, "Invalid JSON payload")
			return
		}
	}

	sess, err := h.service.Abandon(ctx, id, req.PerformedBy)
	if err != nil {
		h.respondFault(w, log, err, "cannot abandon session", "Could not abandon session")
		return
	}

	apt.Respond(w, http.StatusOK, sess, nil)
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
