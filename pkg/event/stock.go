package event

import "time"

const (
	StockTopic         = "stock.movements"
	EventStockDeducted = "stock.deducted"
	EventStockReturned = "stock.returned"
	EventStockAdjusted = "stock.adjusted"
	EventStockLow      = "stock.low"

	// AuditTopic carries non-fatal bookkeeping failures (routing, deduction)
	// surfaced for manual reconciliation. Consumers aggregate; the engine
	// itself never escalates.
	AuditTopic                = "audit.reconciliation"
	EventRoutingFailed        = "audit.routing_failed"
	EventDeductionFailed      = "audit.deduction_failed"
	EventOptionalRefDiscarded = "audit.optional_ref_discarded"
)

type StockMovementEvent struct {
	EventType     string    `json:"event_type"`
	OccurredAt    time.Time `json:"occurred_at"`
	MovementID    string    `json:"movement_id"`
	ProductID     string    `json:"product_id"`
	ProductName   string    `json:"product_name,omitempty"`
	MovementType  string    `json:"movement_type"`
	QuantityDelta int       `json:"quantity_delta"`
	StockAfter    int       `json:"stock_after"`
	OrderID       string    `json:"reference_order_id,omitempty"`
}

type StockLowEvent struct {
	EventType    string    `json:"event_type"`
	OccurredAt   time.Time `json:"occurred_at"`
	ProductID    string    `json:"product_id"`
	ProductName  string    `json:"product_name,omitempty"`
	CurrentStock int       `json:"current_stock"`
	ReorderPoint int       `json:"reorder_point"`
}

// ReconciliationEvent records a soft failure that did not block the paid
// transaction and needs operator attention.
type ReconciliationEvent struct {
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	OrderID    string    `json:"order_id,omitempty"`
	SessionID  string    `json:"session_id,omitempty"`
	ProductID  string    `json:"product_id,omitempty"`
	Reason     string    `json:"reason"`
}
