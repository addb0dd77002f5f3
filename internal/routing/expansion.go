package routing

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Malon0825/beerhive-sales-system-sub000/internal/catalog"
	"github.com/Malon0825/beerhive-sales-system-sub000/internal/fault"
)

// RoutedItem is a ticket-ready record produced by expansion + resolution.
// It always names the concrete product; the originating package survives only
// inside Instructions, which is what a prep station displays.
type RoutedItem struct {
	OrderItemID  uuid.UUID
	ProductID    uuid.UUID
	ProductName  string
	Quantity     int
	Destination  string
	Instructions string
}

// Catalog is the read-only lookup surface expansion needs. The order service
// preloads the referenced entities so this package stays pure.
type Catalog struct {
	Products   map[uuid.UUID]*catalog.Product
	Categories map[uuid.UUID]*catalog.Category
}

func (c Catalog) product(id uuid.UUID) *catalog.Product {
	if c.Products == nil {
		return nil
	}
	return c.Products[id]
}

func (c Catalog) categoryFor(p *catalog.Product) *catalog.Category {
	if p == nil || c.Categories == nil {
		return nil
	}
	return c.Categories[p.CategoryID]
}

// ExpandProduct routes a plain product line into a single entry.
func ExpandProduct(orderItemID uuid.UUID, productID uuid.UUID, quantity int, notes string, lookup Catalog) ([]RoutedItem, error) {
	product := lookup.product(productID)
	if product == nil {
		return nil, fault.NewNotFound("product", productID.String())
	}

	entry := RoutedItem{
		OrderItemID:  orderItemID,
		ProductID:    product.ID,
		ProductName:  product.Name,
		Quantity:     quantity,
		Destination:  ResolveDestination(product, lookup.categoryFor(product)),
		Instructions: strings.TrimSpace(notes),
	}
	return []RoutedItem{entry}, nil
}

// ExpandPackage expands a package line into one entry per constituent
// product. Quantities stay proportional: a package ordered N times with item
// ratio R yields N x R of that product, and the instructions carry the
// package name with that expanded quantity so the station sees the context
// without ever losing the product name.
func ExpandPackage(orderItemID uuid.UUID, pkg *catalog.Package, orderQty int, notes string, lookup Catalog) ([]RoutedItem, error) {
	if pkg == nil {
		return nil, fault.NewNotFound("package", "")
	}
	if orderQty <= 0 {
		return nil, fault.NewValidation("package quantity must be greater than 0")
	}

	entries := make([]RoutedItem, 0, len(pkg.Items))
	for _, item := range pkg.Items {
		product := lookup.product(item.ProductID)
		if product == nil {
			return nil, fault.NewNotFound("product", item.ProductID.String())
		}

		expandedQty := orderQty * item.Quantity
		instructions := fmt.Sprintf("Package: %s (x%d)", pkg.Name, expandedQty)
		if trimmed := strings.TrimSpace(notes); trimmed != "" {
			instructions = instructions + "; " + trimmed
		}

		entries = append(entries, RoutedItem{
			OrderItemID:  orderItemID,
			ProductID:    product.ID,
			ProductName:  product.Name,
			Quantity:     expandedQty,
			Destination:  ResolveDestination(product, lookup.categoryFor(product)),
			Instructions: instructions,
		})
	}
	return entries, nil
}
