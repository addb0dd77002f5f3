package tables

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Malon0825/beerhive-sales-system-sub000/internal/fault"
)

const MaxBodyBytes = 1 << 20

type Handler struct {
	repo        TableRepo
	coordinator *Coordinator
	logger      aqm.Logger
	config      *aqm.Config
	tlm         *telemetry.HTTP
}

func NewHandler(repo TableRepo, coordinator *Coordinator, config *aqm.Config, logger aqm.Logger) *Handler {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Handler{
		repo:        repo,
		coordinator: coordinator,
		logger:      logger,
		config:      config,
		tlm:         telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/tables", func(r chi.Router) {
		r.Post("/", h.CreateTable)
		r.Get("/", h.ListTables)
		r.Get("/{id}", h.GetTable)
		r.Put("/{id}", h.UpdateTable)
		r.Delete("/{id}", h.DeleteTable)
		r.Patch("/{id}/reserve", h.ReserveTable)
		r.Patch("/{id}/cancel-reservation", h.CancelReservation)
		r.Patch("/{id}/clean-done", h.FinishCleaning)
	})
}

func (h *Handler) log(r *http.Request) aqm.Logger {
	return h.logger.With("request_id", aqm.RequestIDFrom(r.Context()))
}

type TableCreateRequest struct {
	Number   string `json:"number"`
	Capacity int    `json:"capacity"`
	Area     string `json:"area"`
}

func (h *Handler) CreateTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateTable")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		aqm.RespondError(w, http.StatusBadRequest, "Could not read request body")
		return
	}

	var req TableCreateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		aqm.RespondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if req.Number == "" {
		aqm.RespondError(w, http.StatusBadRequest, "Table number is required")
		return
	}

	existing, err := h.repo.GetByNumber(ctx, req.Number)
	if err != nil {
		log.Errorf("cannot check table number: %v", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not create table")
		return
	}
	if existing != nil {
		aqm.RespondError(w, http.StatusConflict, "Table number already exists")
		return
	}

	table := NewTable(req.Number, req.Capacity)
	table.Area = req.Area
	table.BeforeCreate()

	if err := h.repo.Create(ctx, table); err != nil {
		log.Errorf("cannot create table: %v", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not create table")
		return
	}

	aqm.Respond(w, http.StatusCreated, table, nil)
}

func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListTables")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	var tables []*Table
	var err error

	if status := r.URL.Query().Get("status"); status != "" {
		switch status {
		case StatusAvailable, StatusReserved, StatusOccupied, StatusCleaning:
		default:
			aqm.RespondError(w, http.StatusBadRequest, "Invalid status")
			return
		}
		tables, err = h.repo.ListByStatus(ctx, status)
	} else {
		tables, err = h.repo.List(ctx)
	}

	if err != nil {
		log.Errorf("cannot list tables: %v", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not list tables")
		return
	}

	aqm.Respond(w, http.StatusOK, map[string]interface{}{
		"tables": tables,
	}, nil)
}

func (h *Handler) GetTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetTable")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		aqm.RespondError(w, http.StatusBadRequest, "Invalid table ID")
		return
	}

	table, err := h.repo.Get(ctx, id)
	if err != nil {
		log.Errorf("cannot get table: %v", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not get table")
		return
	}
	if table == nil {
		aqm.RespondError(w, http.StatusNotFound, "Table not found")
		return
	}

	aqm.Respond(w, http.StatusOK, table, nil)
}

type TableUpdateRequest struct {
	Number   *string `json:"number"`
	Capacity *int    `json:"capacity"`
	Area     *string `json:"area"`
	IsActive *bool   `json:"is_active"`
}

func (h *Handler) UpdateTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateTable")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		aqm.RespondError(w, http.StatusBadRequest, "Invalid table ID")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		aqm.RespondError(w, http.StatusBadRequest, "Could not read request body")
		return
	}

	var req TableUpdateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		aqm.RespondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	table, err := h.repo.Get(ctx, id)
	if err != nil {
		log.Errorf("cannot get table: %v", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not update table")
		return
	}
	if table == nil {
		aqm.RespondError(w, http.StatusNotFound, "Table not found")
		return
	}

	if req.Number != nil {
		table.Number = *req.Number
	}
	if req.Capacity != nil {
		table.Capacity = *req.Capacity
	}
	if req.Area != nil {
		table.Area = *req.Area
	}
	if req.IsActive != nil {
		table.IsActive = *req.IsActive
	}
	table.BeforeUpdate()

	if err := h.repo.Save(ctx, table); err != nil {
		log.Errorf("cannot save table: %v", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not update table")
		return
	}

	aqm.Respond(w, http.StatusOK, table, nil)
}

func (h *Handler) DeleteTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteTable")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		aqm.RespondError(w, http.StatusBadRequest, "Invalid table ID")
		return
	}

	table, err := h.repo.Get(ctx, id)
	if err != nil {
		log.Errorf("cannot get table: %v", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not delete table")
		return
	}
	if table == nil {
		aqm.RespondError(w, http.StatusNotFound, "Table not found")
		return
	}
	if table.Status == StatusOccupied {
		aqm.RespondError(w, http.StatusConflict, "Cannot delete an occupied table")
		return
	}

	if err := h.repo.Delete(ctx, id); err != nil {
		log.Errorf("cannot delete table: %v", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not delete table")
		return
	}

	aqm.Respond(w, http.StatusNoContent, nil, nil)
}

func (h *Handler) ReserveTable(w http.ResponseWriter, r *http.Request) {
	h.coordinate(w, r, "Reserve", h.coordinator.Reserve)
}

func (h *Handler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	h.coordinate(w, r, "CancelReservation", h.coordinator.CancelReservation)
}

func (h *Handler) FinishCleaning(w http.ResponseWriter, r *http.Request) {
	h.coordinate(w, r, "FinishCleaning", h.coordinator.FinishCleaning)
}

func (h *Handler) coordinate(w http.ResponseWriter, r *http.Request, action string, apply func(ctx context.Context, tableID uuid.UUID) (*Table, error)) {
	w, r, finish := h.tlm.Start(w, r, "Handler."+action)
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		aqm.RespondError(w, http.StatusBadRequest, "Invalid table ID")
		return
	}

	table, err := apply(ctx, id)
	if err != nil {
		switch {
		case fault.IsNotFound(err):
			aqm.RespondError(w, http.StatusNotFound, "Table not found")
		case fault.IsConflict(err):
			aqm.RespondError(w, http.StatusConflict, err.Error())
		default:
			log.Errorf("cannot %s table: %v", action, err)
			aqm.RespondError(w, http.StatusInternalServerError, "Could not update table")
		}
		return
	}

	aqm.Respond(w, http.StatusOK, table, nil)
}
