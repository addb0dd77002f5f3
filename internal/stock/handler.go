package stock

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Malon0825/beerhive-sales-system-sub000/internal/catalog"
	"github.com/Malon0825/beerhive-sales-system-sub000/internal/fault"
)

const MaxBodyBytes = 1 << 20

type Handler struct {
	ledger     *Ledger
	products   catalog.ProductRepo
	categories catalog.CategoryRepo
	logger     apt.Logger
	config     *apt.Config
	tlm        *telemetry.HTTP
}

func NewHandler(ledger *Ledger, products catalog.ProductRepo, categories catalog.CategoryRepo, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		ledger:     ledger,
		products:   products,
		categories: categories,
		logger:     logger,
		config:     config,
		tlm:        telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/stock", func(r chi.Router) {
		r.Post("/validate", h.ValidateStock)
		r.Get("/movements", h.ListMovements)
		r.Post("/adjustments", h.CreateAdjustment)
		r.Get("/products/available", h.ListAvailableProducts)
	})
}

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", apt.RequestIDFrom(r.Context()))
}

type ValidateStockRequest struct {
	Lines []ValidateStockLine `json:"lines"`
}

type ValidateStockLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// ValidateStock dry-runs the demand against current stock without touching
// the ledger. Terminals call it before confirming an order.
func (h *Handler) ValidateStock(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ValidateStock")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		apt.RespondError(w, http.StatusBadRequest, "Could not read request body")
		return
	}

	var req ValidateStockRequest
	if err := json.Unmarshal(body, &req); err != nil {
		apt.RespondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if len(req.Lines) == 0 {
		apt.RespondError(w, http.StatusBadRequest, "At least one line is required")
		return
	}

	lines := make([]Line, 0, len(req.Lines))
	for _, l := range req.Lines {
		productID, err := uuid.Parse(l.ProductID)
		if err != nil {
			apt.RespondError(w, http.StatusBadRequest, "Invalid product ID")
			return
		}
		if l.Quantity <= 0 {
			apt.RespondError(w, http.StatusBadRequest, "Quantity must be positive")
			return
		}
		lines = append(lines, Line{ProductID: productID, Quantity: l.Quantity})
	}

	warnings, err := h.ledger.Validate(ctx, lines)
	if err != nil {
		if fault.IsValidation(err) {
			apt.Respond(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"valid":      false,
				"violations": fault.Violations(err),
				"warnings":   warnings,
			}, nil)
			return
		}
		if fault.IsNotFound(err) {
			apt.RespondError(w, http.StatusNotFound, err.Error())
			return
		}
		log.Errorf("cannot validate stock: %v", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not validate stock")
		return
	}

	apt.Respond(w, http.StatusOK, map[string]interface{}{
		"valid":    true,
		"warnings": warnings,
	}, nil)
}

// ListMovements returns ledger history, newest first.
func (h *Handler) ListMovements(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListMovements")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	filter := MovementFilter{}

	if productIDStr := r.URL.Query().Get("product_id"); productIDStr != "" {
		productID, err := uuid.Parse(productIDStr)
		if err != nil {
			apt.RespondError(w, http.StatusBadRequest, "Invalid product ID")
			return
		}
		filter.ProductID = &productID
	}

	if orderIDStr := r.URL.Query().Get("order_id"); orderIDStr != "" {
		orderID, err := uuid.Parse(orderIDStr)
		if err != nil {
			apt.RespondError(w, http.StatusBadRequest, "Invalid order ID")
			return
		}
		filter.ReferenceOrderID = &orderID
	}

	if movementType := r.URL.Query().Get("type"); movementType != "" {
		if movementType != MovementSale && movementType != MovementReturn && movementType != MovementAdjustment {
			apt.RespondError(w, http.StatusBadRequest, "Invalid movement type")
			return
		}
		filter.MovementType = &movementType
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			apt.RespondError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		filter.Limit = limit
	}

	movements, err := h.ledger.Movements(ctx, filter)
	if err != nil {
		log.Errorf("cannot list stock movements: %v", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not list stock movements")
		return
	}

	apt.Respond(w, http.StatusOK, map[string]interface{}{
		"movements": movements,
	}, nil)
}

type AdjustmentRequest struct {
	ProductID   string `json:"product_id"`
	Delta       int    `json:"delta"`
	Reason      string `json:"reason"`
	PerformedBy string `json:"performed_by"`
}

// CreateAdjustment records a manual stock correction.
func (h *Handler) CreateAdjustment(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateAdjustment")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		apt.RespondError(w, http.StatusBadRequest, "Could not read request body")
		return
	}

	var req AdjustmentRequest
	if err := json.Unmarshal(body, &req); err != nil {
		apt.RespondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		apt.RespondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	movement, err := h.ledger.Adjust(ctx, productID, req.Delta, req.Reason, req.PerformedBy)
	if err != nil {
		switch {
		case fault.IsValidation(err):
			apt.Respond(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"violations": fault.Violations(err),
			}, nil)
		case fault.IsNotFound(err):
			apt.RespondError(w, http.StatusNotFound, err.Error())
		default:
			log.Errorf("cannot create adjustment: %v", err)
			apt.RespondError(w, http.StatusInternalServerError, "Could not create adjustment")
		}
		return
	}

	apt.Respond(w, http.StatusCreated, movement, nil)
}

// ListAvailableProducts returns the orderable menu view: strict categories
// hide out-of-stock products, flexible ones keep them with a low/out flag.
func (h *Handler) ListAvailableProducts(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListAvailableProducts")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	products, err := h.products.List(ctx)
	if err != nil {
		log.Errorf("cannot list products: %v", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not list products")
		return
	}

	categories, err := h.categories.List(ctx)
	if err != nil {
		log.Errorf("cannot list categories: %v", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not list categories")
		return
	}

	entries := catalog.AvailableProducts(products, categories)

	apt.Respond(w, http.StatusOK, map[string]interface{}{
		"products": entries,
	}, nil)
}
