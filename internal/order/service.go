package order

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/google/uuid"

	"github.com/Malon0825/beerhive-sales-system-sub000/internal/catalog"
	"github.com/Malon0825/beerhive-sales-system-sub000/internal/fault"
	"github.com/Malon0825/beerhive-sales-system-sub000/internal/routing"
	"github.com/Malon0825/beerhive-sales-system-sub000/internal/stock"
	"github.com/Malon0825/beerhive-sales-system-sub000/internal/tables"
	"github.com/Malon0825/beerhive-sales-system-sub000/internal/ticket"
	"github.com/Malon0825/beerhive-sales-system-sub000/pkg/enums/orderstatus"
	"github.com/Malon0825/beerhive-sales-system-sub000/pkg/event"
)

// Notifier pushes a human-readable alert to staff devices. Failures are
// logged and never block the order workflow.
type Notifier interface {
	Notify(ctx context.Context, title, message, targetRole string)
}

// CustomerDirectory answers whether an optional customer reference resolves.
// A lookup failure counts as unresolved; the reference is cleared with a
// warning, never blocking the sale.
type CustomerDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type Service struct {
	orders     OrderRepo
	items      OrderItemRepo
	products   catalog.ProductRepo
	categories catalog.CategoryRepo
	packages   catalog.PackageRepo
	tableRepo  tables.TableRepo
	customers  CustomerDirectory
	ledger     *stock.Ledger
	tickets    ticket.TicketRepository
	publisher  events.Publisher
	notifier   Notifier
	logger     apt.Logger
}

type ServiceDeps struct {
	Orders     OrderRepo
	Items      OrderItemRepo
	Products   catalog.ProductRepo
	Categories catalog.CategoryRepo
	Packages   catalog.PackageRepo
	Tables     tables.TableRepo
	Customers  CustomerDirectory
	Ledger     *stock.Ledger
	Tickets    ticket.TicketRepository
	Publisher  events.Publisher
	Notifier   Notifier
}

func NewService(deps ServiceDeps, logger apt.Logger) *Service {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Service{
		orders:     deps.Orders,
		items:      deps.Items,
		products:   deps.Products,
		categories: deps.Categories,
		packages:   deps.Packages,
		tableRepo:  deps.Tables,
		customers:  deps.Customers,
		ledger:     deps.Ledger,
		tickets:    deps.Tickets,
		publisher:  deps.Publisher,
		notifier:   deps.Notifier,
		logger:     logger,
	}
}

// Confirm turns a create request into a confirmed order: validate the
// payload, resolve optional references, pre-validate stock, persist, route
// tickets, compute totals and fan out. Ticket routing failures never undo
// the confirmation; they are logged and surfaced on the audit topic.
func (s *Service) Confirm(ctx context.Context, req OrderCreateRequest) (*Order, error) {
	if violations := ValidateOrderCreate(ctx, req); len(violations) > 0 {
		return nil, fault.NewValidation(violations...)
	}

	o := NewOrder()
	o.SessionID = req.SessionID
	o.CashierID = req.CashierID
	o.CreatedBy = req.CashierID

	warnings := s.resolveOptionalRefs(ctx, o, req)

	lines, routed, err := s.expand(ctx, o, req.Items)
	if err != nil {
		return nil, err
	}

	demand := aggregateDemand(routed)
	stockWarnings, err := s.ledger.Validate(ctx, demand)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, stockWarnings...)

	o.MarkAsConfirmed()
	o.Warnings = warnings
	computeTotals(o, lines)
	o.BeforeCreate()

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("cannot create order: %w", err)
	}

	for _, item := range lines {
		item.OrderID = o.ID
		item.CreatedBy = req.CashierID
		item.BeforeCreate()
		if err := s.items.Create(ctx, item); err != nil {
			return nil, fmt.Errorf("cannot create order item: %w", err)
		}
	}

	ticketCount := s.createTickets(ctx, o, routed)

	s.publishOrderEvent(ctx, event.EventOrderCreated, o, len(lines), ticketCount)

	if s.notifier != nil {
		s.notifier.Notify(ctx, "New order", fmt.Sprintf("Order for table %s confirmed", orDash(o.TableNumber)), "waiter")
	}

	return o, nil
}

// resolveOptionalRefs verifies the table and customer references. Missing
// ones are cleared with an operator warning; only product references block.
func (s *Service) resolveOptionalRefs(ctx context.Context, o *Order, req OrderCreateRequest) []string {
	var warnings []string

	if req.TableID != nil {
		table, err := s.tableRepo.Get(ctx, *req.TableID)
		if err != nil || table == nil {
			warnings = append(warnings, fmt.Sprintf("table %s not found, reference cleared", req.TableID))
			s.publishRefDiscarded(ctx, o, "table", req.TableID.String())
		} else {
			o.TableID = req.TableID
			o.TableNumber = table.Number
		}
	}

	if req.CustomerID != nil {
		exists := false
		if s.customers != nil {
			var err error
			exists, err = s.customers.Exists(ctx, *req.CustomerID)
			if err != nil {
				s.logger.Infof("customer lookup failed for %s: %v", req.CustomerID, err)
				exists = false
			}
		}
		if exists {
			o.CustomerID = req.CustomerID
		} else {
			warnings = append(warnings, fmt.Sprintf("customer %s not found, reference cleared", req.CustomerID))
			s.publishRefDiscarded(ctx, o, "customer", req.CustomerID.String())
		}
	}

	return warnings
}

// expand resolves every request line against the catalog, producing the
// persisted items plus the routed ticket entries. Missing products or
// packages block the whole order.
func (s *Service) expand(ctx context.Context, o *Order, reqs []OrderItemCreateRequest) ([]*OrderItem, []routing.RoutedItem, error) {
	lookup := routing.Catalog{
		Products:   make(map[uuid.UUID]*catalog.Product),
		Categories: make(map[uuid.UUID]*catalog.Category),
	}

	loadProduct := func(id uuid.UUID) (*catalog.Product, error) {
		if p, ok := lookup.Products[id]; ok {
			return p, nil
		}
		p, err := s.products.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("cannot load product %s: %w", id, err)
		}
		if p == nil {
			return nil, fault.NewNotFound("product", id.String())
		}
		lookup.Products[id] = p
		if _, ok := lookup.Categories[p.CategoryID]; !ok && p.CategoryID != uuid.Nil {
			c, err := s.categories.Get(ctx, p.CategoryID)
			if err != nil {
				return nil, fmt.Errorf("cannot load category for %s: %w", p.Name, err)
			}
			if c != nil {
				lookup.Categories[p.CategoryID] = c
			}
		}
		return p, nil
	}

	items := make([]*OrderItem, 0, len(reqs))
	var routed []routing.RoutedItem

	for _, req := range reqs {
		item := NewOrderItem()
		item.Quantity = req.Quantity
		item.Discount = req.Discount
		item.Complimentary = req.Complimentary
		item.Notes = req.Notes

		switch {
		case req.ProductID != nil:
			product, err := loadProduct(*req.ProductID)
			if err != nil {
				return nil, nil, err
			}
			item.ProductID = req.ProductID
			item.Name = product.Name
			item.UnitPrice = product.UnitPrice

			entries, err := routing.ExpandProduct(item.ID, product.ID, req.Quantity, req.Notes, lookup)
			if err != nil {
				return nil, nil, err
			}
			routed = append(routed, entries...)

		case req.PackageID != nil:
			pkg, err := s.packages.Get(ctx, *req.PackageID)
			if err != nil {
				return nil, nil, fmt.Errorf("cannot load package %s: %w", req.PackageID, err)
			}
			if pkg == nil {
				return nil, nil, fault.NewNotFound("package", req.PackageID.String())
			}
			item.PackageID = req.PackageID
			item.Name = pkg.Name
			item.UnitPrice = pkg.Price

			for _, pi := range pkg.Items {
				if _, err := loadProduct(pi.ProductID); err != nil {
					return nil, nil, err
				}
			}

			entries, err := routing.ExpandPackage(item.ID, pkg, req.Quantity, req.Notes, lookup)
			if err != nil {
				return nil, nil, err
			}
			routed = append(routed, entries...)
		}

		items = append(items, item)
	}

	return items, routed, nil
}

// createTickets writes one prep ticket per routed entry. A failed write is
// logged and reported on the audit topic; the order stays confirmed because
// the guest has already committed to paying.
func (s *Service) createTickets(ctx context.Context, o *Order, routed []routing.RoutedItem) int {
	created := 0
	for _, entry := range routed {
		t := ticket.NewPrepTicket()
		t.OrderID = o.ID
		t.OrderItemID = entry.OrderItemID
		t.ProductID = entry.ProductID
		t.ProductName = entry.ProductName
		t.Destination = entry.Destination
		t.Quantity = entry.Quantity
		t.SpecialInstructions = entry.Instructions
		t.TableNumber = o.TableNumber
		t.BeforeCreate()

		if err := s.tickets.Create(ctx, t); err != nil {
			s.logger.Errorf("cannot create prep ticket for order %s product %s: %v", o.ID, entry.ProductName, err)
			s.publishReconciliation(ctx, event.EventRoutingFailed, o, entry.ProductID.String(),
				fmt.Sprintf("ticket write failed for %s: %v", entry.ProductName, err))
			continue
		}
		created++

		s.publishTicketCreated(ctx, o, t)
	}
	return created
}

// Complete finalizes payment for an order and deducts stock. The deduction
// is idempotent per (order, product), so retrying a completed order never
// double-deducts; a deduction failure is logged and audited but the order
// still completes because the money already changed hands.
func (s *Service) Complete(ctx context.Context, orderID uuid.UUID, performedBy string) (*Order, error) {
	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("cannot load order: %w", err)
	}
	if o == nil {
		return nil, fault.NewNotFound("order", orderID.String())
	}
	if o.Voided() {
		return nil, fault.NewConflict("order", "cannot complete a voided order")
	}

	failures, err := s.deductFor(ctx, o, performedBy)
	if err != nil {
		s.logger.Errorf("stock deduction failed for order %s: %v", o.ID, err)
		s.publishReconciliation(ctx, event.EventDeductionFailed, o, "", err.Error())
	}
	for _, failure := range failures {
		s.logger.Errorf("stock deduction failed for order %s product %s: %v", o.ID, failure.ProductID, failure.Err)
		s.publishReconciliation(ctx, event.EventDeductionFailed, o, failure.ProductID.String(), failure.Err.Error())
	}

	if o.Status == orderstatus.Statuses.Completed.Code() {
		return o, nil
	}

	o.MarkAsCompleted()
	o.UpdatedBy = performedBy
	o.BeforeUpdate()

	if err := s.orders.Save(ctx, o); err != nil {
		return nil, fmt.Errorf("cannot save order: %w", err)
	}

	s.publishOrderEvent(ctx, event.EventOrderCompleted, o, 0, 0)

	if s.notifier != nil {
		s.notifier.Notify(ctx, "Order completed", fmt.Sprintf("Order %s settled", o.ID), "cashier")
	}

	return o, nil
}

func (s *Service) deductFor(ctx context.Context, o *Order, performedBy string) ([]stock.LineFailure, error) {
	items, err := s.items.ListByOrder(ctx, o.ID)
	if err != nil {
		return nil, fmt.Errorf("cannot list order items: %w", err)
	}

	demand, err := s.demandFor(ctx, items)
	if err != nil {
		return nil, err
	}

	return s.ledger.Deduct(ctx, o.ID, demand, performedBy), nil
}

// demandFor rebuilds the per-product demand from persisted items, expanding
// packages by their current definition.
func (s *Service) demandFor(ctx context.Context, items []*OrderItem) ([]stock.Line, error) {
	totals := make(map[uuid.UUID]int)
	var order []uuid.UUID

	add := func(productID uuid.UUID, qty int) {
		if _, seen := totals[productID]; !seen {
			order = append(order, productID)
		}
		totals[productID] += qty
	}

	for _, item := range items {
		switch {
		case item.ProductID != nil:
			add(*item.ProductID, item.Quantity)
		case item.PackageID != nil:
			pkg, err := s.packages.Get(ctx, *item.PackageID)
			if err != nil {
				return nil, fmt.Errorf("cannot load package %s: %w", item.PackageID, err)
			}
			if pkg == nil {
				return nil, fault.NewNotFound("package", item.PackageID.String())
			}
			for _, pi := range pkg.Items {
				add(pi.ProductID, item.Quantity*pi.Quantity)
			}
		}
	}

	lines := make([]stock.Line, 0, len(order))
	for _, id := range order {
		lines = append(lines, stock.Line{ProductID: id, Quantity: totals[id]})
	}
	return lines, nil
}

// Void cancels an order and restores any stock the ledger already deducted.
// Voiding is idempotent; a second void returns the order unchanged.
func (s *Service) Void(ctx context.Context, orderID uuid.UUID, reason, performedBy string) (*Order, error) {
	if reason == "" {
		return nil, fault.NewValidation("reason is required")
	}

	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("cannot load order: %w", err)
	}
	if o == nil {
		return nil, fault.NewNotFound("order", orderID.String())
	}
	if o.Voided() {
		return o, nil
	}

	if err := s.ledger.Reverse(ctx, o.ID, performedBy); err != nil {
		return nil, fmt.Errorf("cannot reverse stock for order %s: %w", o.ID, err)
	}

	o.MarkAsVoided(reason, performedBy)
	o.BeforeUpdate()

	if err := s.orders.Save(ctx, o); err != nil {
		return nil, fmt.Errorf("cannot save order: %w", err)
	}

	s.publishOrderEvent(ctx, event.EventOrderVoided, o, 0, 0)
	return o, nil
}

func (s *Service) Get(ctx context.Context, orderID uuid.UUID) (*Order, error) {
	return s.orders.Get(ctx, orderID)
}

func (s *Service) Items(ctx context.Context, orderID uuid.UUID) ([]*OrderItem, error) {
	return s.items.ListByOrder(ctx, orderID)
}

func computeTotals(o *Order, items []*OrderItem) {
	var subtotal, discount, total float64
	for _, item := range items {
		subtotal += item.GrossTotal()
		discount += item.LineDiscount()
		total += item.LineTotal()
	}
	o.Subtotal = subtotal
	o.DiscountTotal = discount
	o.Total = total
}

func aggregateDemand(routed []routing.RoutedItem) []stock.Line {
	totals := make(map[uuid.UUID]int)
	var order []uuid.UUID
	for _, entry := range routed {
		if _, seen := totals[entry.ProductID]; !seen {
			order = append(order, entry.ProductID)
		}
		totals[entry.ProductID] += entry.Quantity
	}

	lines := make([]stock.Line, 0, len(order))
	for _, id := range order {
		lines = append(lines, stock.Line{ProductID: id, Quantity: totals[id]})
	}
	return lines
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func (s *Service) publishOrderEvent(ctx context.Context, eventType string, o *Order, itemCount, ticketCount int) {
	if s.publisher == nil {
		return
	}

	evt := event.OrderEvent{
		EventType:   eventType,
		OccurredAt:  time.Now(),
		OrderID:     o.ID.String(),
		TableNumber: o.TableNumber,
		Status:      o.Status,
		Total:       o.Total,
		ItemCount:   itemCount,
		TicketCount: ticketCount,
		Warnings:    o.Warnings,
	}
	if o.SessionID != nil {
		evt.SessionID = o.SessionID.String()
	}
	if o.TableID != nil {
		evt.TableID = o.TableID.String()
	}

	data, _ := json.Marshal(evt)
	if err := s.publisher.Publish(ctx, event.OrdersTopic, data); err != nil {
		s.logger.Errorf("Failed to publish %s event: %v", eventType, err)
	}
}

func (s *Service) publishTicketCreated(ctx context.Context, o *Order, t *ticket.PrepTicket) {
	if s.publisher == nil {
		return
	}

	evt := event.TicketCreatedEvent{
		TicketEventMetadata: event.TicketEventMetadata{
			EventType:   event.EventTicketCreated,
			OccurredAt:  time.Now(),
			TicketID:    t.ID.String(),
			OrderID:     o.ID.String(),
			OrderItemID: t.OrderItemID.String(),
			ProductID:   t.ProductID.String(),
			Destination: t.Destination,
			ProductName: t.ProductName,
			TableNumber: t.TableNumber,
		},
		Status:              t.Status,
		Quantity:            t.Quantity,
		SpecialInstructions: t.SpecialInstructions,
		Urgent:              t.Urgent,
	}

	data, _ := json.Marshal(evt)
	if err := s.publisher.Publish(ctx, event.TicketsTopic, data); err != nil {
		s.logger.Errorf("Failed to publish ticket.created event: %v", err)
	}
}

func (s *Service) publishReconciliation(ctx context.Context, eventType string, o *Order, productID, reason string) {
	if s.publisher == nil {
		return
	}

	evt := event.ReconciliationEvent{
		EventType:  eventType,
		OccurredAt: time.Now(),
		OrderID:    o.ID.String(),
		ProductID:  productID,
		Reason:     reason,
	}
	if o.SessionID != nil {
		evt.SessionID = o.SessionID.String()
	}

	data, _ := json.Marshal(evt)
	if err := s.publisher.Publish(ctx, event.AuditTopic, data); err != nil {
		s.logger.Errorf("Failed to publish %s event: %v", eventType, err)
	}
}

func (s *Service) publishRefDiscarded(ctx context.Context, o *Order, resource, id string) {
	if s.publisher == nil {
		return
	}

	evt := event.ReconciliationEvent{
		EventType:  event.EventOptionalRefDiscarded,
		OccurredAt: time.Now(),
		OrderID:    o.ID.String(),
		Reason:     fmt.Sprintf("%s %s not found, reference cleared", resource, id),
	}

	data, _ := json.Marshal(evt)
	if err := s.publisher.Publish(ctx, event.AuditTopic, data); err != nil {
		s.logger.Errorf("Failed to publish optional_ref_discarded event: %v", err)
	}
}
