package catalog

import "github.com/google/uuid"

// MenuEntry is one line of the "available to order" listing a terminal shows.
type MenuEntry struct {
	Product      *Product `json:"product"`
	CategoryName string   `json:"category_name"`
	LowStock     bool     `json:"low_stock"`
	OutOfStock   bool     `json:"out_of_stock"`
}

// AvailableProducts filters products for the order screen. Strict-category
// products with no stock are omitted entirely; flexible products stay listed
// with a low/zero-stock indicator so staff can confirm verbally. Inactive
// products never appear. A product whose category cannot be resolved counts
// as strict, matching how the stock ledger validates it.
func AvailableProducts(products []*Product, categories []*Category) []MenuEntry {
	byID := make(map[uuid.UUID]*Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	entries := make([]MenuEntry, 0, len(products))
	for _, p := range products {
		if !p.IsActive {
			continue
		}

		category := byID[p.CategoryID]
		strict := category == nil || category.Strict()
		if strict && p.CurrentStock <= 0 {
			continue
		}

		entry := MenuEntry{
			Product:    p,
			LowStock:   p.LowStock(),
			OutOfStock: p.CurrentStock <= 0,
		}
		if category != nil {
			entry.CategoryName = category.Name
		}
		entries = append(entries, entry)
	}
	return entries
}
