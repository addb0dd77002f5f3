package order

import "github.com/google/uuid"

type OrderCreateRequest struct {
	SessionID  *uuid.UUID               `json:"session_id,omitempty"`
	TableID    *uuid.UUID               `json:"table_id,omitempty"`
	CustomerID *uuid.UUID               `json:"customer_id,omitempty"`
	CashierID  string                   `json:"cashier_id"`
	Items      []OrderItemCreateRequest `json:"items"`
}

type OrderItemCreateRequest struct {
	ProductID     *uuid.UUID `json:"product_id,omitempty"`
	PackageID     *uuid.UUID `json:"package_id,omitempty"`
	Quantity      int        `json:"quantity"`
	Discount      float64    `json:"discount,omitempty"`
	Complimentary bool       `json:"complimentary,omitempty"`
	Notes         string     `json:"notes,omitempty"`
}

type OrderVoidRequest struct {
	Reason      string `json:"reason"`
	PerformedBy string `json:"performed_by"`
}
