package stock

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
	"github.com/Malon0825/beerhive-sales-system-sub000/pkg/event"
)

// Line is one product demand against the ledger, already expanded from
// packages to constituent products.
type Line struct {
	ProductID uuid.UUID
	Quantity  int
}

// Ledger owns every stock mutation. Counts never change outside of it: each
// adjustment pairs an atomic counter update with an append-only movement
// entry keyed for idempotent replay.
type Ledger struct {
	products   catalog.ProductRepo
	categories catalog.CategoryRepo
	movements  MovementRepo
	publisher  events.Publisher
	logger     apt.Logger
}

func NewLedger(products catalog.ProductRepo, categories catalog.CategoryRepo, movements MovementRepo, publisher events.Publisher, logger apt.Logger) *Ledger {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Ledger{
		products:   products,
		categories: categories,
		movements:  movements,
		publisher:  publisher,
		logger:     logger,
	}
}

// Validate checks the demand lines against current stock. Insufficient stock
// on a strict-category product is a blocking violation; on a flexible one it
// is only a warning (the kitchen may still be able to cook it). All lines are
// checked so the caller gets the complete picture in one pass.
func (l *Ledger) Validate(ctx context.Context, lines []Line) ([]string, error) {
	var violations []string
	var warnings []string

	for _, line := range lines {
		product, err := l.products.Get(ctx, line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("cannot load product %s: %w", line.ProductID, err)
		}
		if product == nil {
			return nil, fault.NewNotFound("product", line.ProductID.String())
		}

		if product.CurrentStock >= line.Quantity {
			continue
		}

		msg := fmt.Sprintf("%s: requested %d, available %d", product.Name, line.Quantity, product.CurrentStock)

		strict := true
		if product.CategoryID != uuid.Nil {
			category, err := l.categories.Get(ctx, product.CategoryID)
			if err != nil {
				return nil, fmt.Errorf("cannot load category for product %s: %w", product.Name, err)
			}
			if category != nil {
				strict = category.Strict()
			}
		}

		if strict {
			violations = append(violations, msg)
		} else {
			warnings = append(warnings, msg)
		}
	}

	if len(violations) > 0 {
		return warnings, fault.NewValidation(violations...)
	}
	return warnings, nil
}

// LineFailure records one demand line the ledger could not apply.
type LineFailure struct {
	ProductID uuid.UUID
	Err       error
}

// Deduct applies the sale for an order to the ledger. It is idempotent per
// (order, product): a second call for the same order skips lines that already
// have a sale entry, so a retried completion never double-deducts. Stock may
// go negative for flexible goods; the count records reality, not permission.
// A failure on one line never stops the rest: every line is attempted and
// the failures are returned for the caller to audit, since the order is
// already paid and a partial count beats losing the other movements too. A
// retry settles the returned failures without touching applied lines.
func (l *Ledger) Deduct(ctx context.Context, orderID uuid.UUID, lines []Line, performedBy string) []LineFailure {
	var failures []LineFailure
	for _, line := range lines {
		if err := l.deductLine(ctx, orderID, line, performedBy); err != nil {
			l.logger.Errorf("cannot deduct order %s product %s: %v", orderID, line.ProductID, err)
			failures = append(failures, LineFailure{ProductID: line.ProductID, Err: err})
		}
	}
	return failures
}

func (l *Ledger) deductLine(ctx context.Context, orderID uuid.UUID, line Line, performedBy string) error {
	product, err := l.products.Get(ctx, line.ProductID)
	if err != nil {
		return fmt.Errorf("cannot load product %s: %w", line.ProductID, err)
	}
	if product == nil {
		return fault.NewNotFound("product", line.ProductID.String())
	}

	refOrderID := orderID
	movement := &StockMovement{
		ProductID:        line.ProductID,
		MovementType:     MovementSale,
		Quantity:         line.Quantity,
		ReferenceOrderID: &refOrderID,
		PerformedBy:      performedBy,
		StockBefore:      product.CurrentStock,
		StockAfter:       product.CurrentStock - line.Quantity,
	}
	movement.BeforeCreate()

	// The movement insert is the idempotency gate. A duplicate means this
	// order already deducted this product, so the counter must not move again.
	if err := l.movements.Insert(ctx, movement); err != nil {
		if err == ErrDuplicateMovement {
			l.logger.Infof("sale movement already applied for order %s product %s, skipping", orderID, product.Name)
			return nil
		}
		return fmt.Errorf("cannot record sale movement: %w", err)
	}

	newStock, err := l.products.AdjustStock(ctx, line.ProductID, -line.Quantity)
	if err != nil {
		return fmt.Errorf("cannot adjust stock for %s: %w", product.Name, err)
	}

	l.publishMovement(ctx, event.EventStockDeducted, movement, product.Name, -line.Quantity, newStock)
	l.checkLowStock(ctx, product, newStock)
	return nil
}

// Reverse restores stock for a voided order by appending a return entry per
// sale entry found. Like Deduct it is idempotent per (order, product); an
// order without sale entries is a no-op.
func (l *Ledger) Reverse(ctx context.Context, orderID uuid.UUID, performedBy string) error {
	sales, err := l.movements.ListByOrder(ctx, orderID, MovementSale)
	if err != nil {
		return fmt.Errorf("cannot list sale movements for order %s: %w", orderID, err)
	}

	for _, sale := range sales {
		product, err := l.products.Get(ctx, sale.ProductID)
		if err != nil {
			return fmt.Errorf("cannot load product %s: %w", sale.ProductID, err)
		}

		refOrderID := orderID
		movement := &StockMovement{
			ProductID:        sale.ProductID,
			MovementType:     MovementReturn,
			Quantity:         sale.Quantity,
			ReferenceOrderID: &refOrderID,
			PerformedBy:      performedBy,
			Reason:           "order voided",
		}
		if product != nil {
			movement.StockBefore = product.CurrentStock
			movement.StockAfter = product.CurrentStock + sale.Quantity
		}
		movement.BeforeCreate()

		if err := l.movements.Insert(ctx, movement); err != nil {
			if err == ErrDuplicateMovement {
				l.logger.Infof("return movement already applied for order %s product %s, skipping", orderID, sale.ProductID)
				continue
			}
			return fmt.Errorf("cannot record return movement: %w", err)
		}

		newStock, err := l.products.AdjustStock(ctx, sale.ProductID, sale.Quantity)
		if err != nil {
			return fmt.Errorf("cannot restore stock for product %s: %w", sale.ProductID, err)
		}

		name := ""
		if product != nil {
			name = product.Name
		}
		l.publishMovement(ctx, event.EventStockReturned, movement, name, sale.Quantity, newStock)
	}

	return nil
}

// Adjust records a manual correction (spoilage, delivery, recount). Delta may
// be negative; reason is required.
func (l *Ledger) Adjust(ctx context.Context, productID uuid.UUID, delta int, reason, performedBy string) (*StockMovement, error) {
	var violations []string
	if delta == 0 {
		violations = append(violations, "delta must be non-zero")
	}
	if reason == "" {
		violations = append(violations, "reason is required")
	}
	if len(violations) > 0 {
		return nil, fault.NewValidation(violations...)
	}

	product, err := l.products.Get(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("cannot load product %s: %w", productID, err)
	}
	if product == nil {
		return nil, fault.NewNotFound("product", productID.String())
	}

	quantity := delta
	if quantity < 0 {
		quantity = -quantity
	}

	movement := &StockMovement{
		ProductID:    productID,
		MovementType: MovementAdjustment,
		Quantity:     quantity,
		Reason:       reason,
		PerformedBy:  performedBy,
		StockBefore:  product.CurrentStock,
		StockAfter:   product.CurrentStock + delta,
	}
	movement.BeforeCreate()

	if err := l.movements.Insert(ctx, movement); err != nil {
		return nil, fmt.Errorf("cannot record adjustment movement: %w", err)
	}

	newStock, err := l.products.AdjustStock(ctx, productID, delta)
	if err != nil {
		return nil, fmt.Errorf("cannot adjust stock for %s: %w", product.Name, err)
	}
	movement.StockAfter = newStock

	l.publishMovement(ctx, event.EventStockAdjusted, movement, product.Name, delta, newStock)
	l.checkLowStock(ctx, product, newStock)
	return movement, nil
}

// Movements exposes ledger history reads for audit endpoints.
func (l *Ledger) Movements(ctx context.Context, filter MovementFilter) ([]StockMovement, error) {
	return l.movements.List(ctx, filter)
}

func (l *Ledger) publishMovement(ctx context.Context, eventType string, m *StockMovement, productName string, delta, stockAfter int) {
	if l.publisher == nil {
		return
	}

	evt := event.StockMovementEvent{
		EventType:     eventType,
		OccurredAt:    time.Now(),
		MovementID:    m.ID.String(),
		ProductID:     m.ProductID.String(),
		ProductName:   productName,
		MovementType:  m.MovementType,
		QuantityDelta: delta,
		StockAfter:    stockAfter,
	}
	if m.ReferenceOrderID != nil {
		evt.OrderID = m.ReferenceOrderID.String()
	}

	data, _ := json.Marshal(evt)
	if err := l.publisher.Publish(ctx, event.StockTopic, data); err != nil {
		l.logger.Errorf("Failed to publish %s event: %v", eventType, err)
	}
}

func (l *Ledger) checkLowStock(ctx context.Context, product *catalog.Product, newStock int) {
	if l.publisher == nil {
		return
	}
	if product.ReorderPoint <= 0 || newStock > product.ReorderPoint {
		return
	}

	evt := event.StockLowEvent{
		EventType:    event.EventStockLow,
		OccurredAt:   time.Now(),
		ProductID:    product.ID.String(),
		ProductName:  product.Name,
		CurrentStock: newStock,
		ReorderPoint: product.ReorderPoint,
	}

	data, _ := json.Marshal(evt)
	if err := l.publisher.Publish(ctx, event.StockTopic, data); err != nil {
		l.logger.Errorf("Failed to publish stock.low event: %v", err)
	}
}
