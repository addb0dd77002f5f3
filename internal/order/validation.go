package order

import (
	"context"
	"fmt"
	"strings"
)

// ValidateOrderCreate checks the payload shape before any catalog or stock
// lookup. All violations are collected so the terminal can show the full
// list at once.
func ValidateOrderCreate(ctx context.Context, req OrderCreateRequest) []string {
	var errors []string

	if strings.TrimSpace(req.CashierID) == "" {
		errors = append(errors, "cashier_id is required")
	}

	if len(req.Items) == 0 {
		errors = append(errors, "at least one item is required")
	}

	for i, item := range req.Items {
		prefix := fmt.Sprintf("items[%d]", i)

		hasProduct := item.ProductID != nil
		hasPackage := item.PackageID != nil
		switch {
		case !hasProduct && !hasPackage:
			errors = append(errors, prefix+": product_id or package_id is required")
		case hasProduct && hasPackage:
			errors = append(errors, prefix+": product_id and package_id are mutually exclusive")
		}

		if item.Quantity <= 0 {
			errors = append(errors, prefix+": quantity must be greater than 0")
		}

		if item.Discount < 0 {
			errors = append(errors, prefix+": discount cannot be negative")
		}

		if item.Complimentary && item.Discount > 0 {
			errors = append(errors, prefix+": complimentary items cannot carry a discount")
		}
	}

	return errors
}
