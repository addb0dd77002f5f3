package routing

import (
	"strings"

	"github.com/Malon0825/beerhive-sales-system-sub000/internal/catalog"
	"github.com/Malon0825/beerhive-sales-system-sub000/pkg/enums/destination"
)

// Strategy inspects a product and its category and either picks a
// destination code or returns "" to pass the decision down the chain.
type Strategy func(p *catalog.Product, c *catalog.Category) string

// DefaultChain is the production resolution order: explicit category
// configuration wins, then a keyword match on the product name, then the
// kitchen catch-all. Every chain must end in a strategy that always decides,
// a persisted ticket never has an empty destination.
var DefaultChain = []Strategy{
	CategoryDefault,
	KeywordMatch,
	KitchenFallback,
}

// ResolveDestination walks the default chain and returns the first decision.
func ResolveDestination(p *catalog.Product, c *catalog.Category) string {
	return Resolve(DefaultChain, p, c)
}

// Resolve walks an explicit chain. Exposed so tests and future station types
// can compose their own order without touching callers.
func Resolve(chain []Strategy, p *catalog.Product, c *catalog.Category) string {
	for _, strategy := range chain {
		if dest := strategy(p, c); dest != "" {
			return dest
		}
	}
	return destination.Destinations.Kitchen.Code()
}

// CategoryDefault uses the category's configured destination when present.
func CategoryDefault(p *catalog.Product, c *catalog.Category) string {
	if c == nil {
		return ""
	}
	configured := strings.TrimSpace(c.DefaultDestination)
	if configured == "" {
		return ""
	}
	if d := destination.ByName(configured); d != nil {
		return d.Code()
	}
	return ""
}

// Keyword sets for the name-matching fallback. Drink tokens route to the
// bartender, food tokens to the kitchen.
var bartenderKeywords = []string{
	"beer", "lager", "ale", "stout", "pilsner",
	"vodka", "rum", "gin", "whiskey", "whisky", "tequila", "brandy", "soju",
	"wine", "cocktail", "mojito", "margarita", "sangria",
	"soda", "cola", "juice", "shake", "smoothie", "iced tea", "lemonade",
	"tower", "pitcher", "bucket", "bottle", "draft",
}

var kitchenKeywords = []string{
	"sisig", "silog", "rice", "fries", "wings", "burger", "sandwich",
	"pasta", "noodle", "soup", "salad", "grill", "bbq", "barbecue",
	"platter", "pulutan", "calamari", "lumpia", "nachos", "steak",
}

// KeywordMatch infers a destination from the product name. Bartender tokens
// are checked first so that combos like "beer platter" stay with the bar,
// which owns the upsell items it bundles.
func KeywordMatch(p *catalog.Product, c *catalog.Category) string {
	if p == nil {
		return ""
	}
	name := strings.ToLower(p.Name)
	for _, kw := range bartenderKeywords {
		if strings.Contains(name, kw) {
			return destination.Destinations.Bartender.Code()
		}
	}
	for _, kw := range kitchenKeywords {
		if strings.Contains(name, kw) {
			return destination.Destinations.Kitchen.Code()
		}
	}
	return ""
}

// KitchenFallback always decides. Unrecognized products go to the kitchen,
// the station staffed to triage anything.
func KitchenFallback(p *catalog.Product, c *catalog.Category) string {
	return destination.Destinations.Kitchen.Code()
}
