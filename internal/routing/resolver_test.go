package routing

import (
	"testing"

	"github.com/google/uuid"

	"github.com/Malon0825/beerhive-sales-system-sub000/internal/catalog"
)

func TestResolveDestination(t *testing.T) {
	tests := []struct {
		name        string
		productName string
		category    *catalog.Category
		want        string
	}{
		{
			name:        "category default wins over keywords",
			productName: "Sisig",
			category:    &catalog.Category{Name: "Specials", DefaultDestination: "bartender"},
			want:        "bartender",
		},
		{
			name:        "both is a valid configured destination",
			productName: "Boodle Fight Set",
			category:    &catalog.Category{Name: "Combos", DefaultDestination: "both"},
			want:        "both",
		},
		{
			name:        "unknown configured destination falls through to keywords",
			productName: "Red Horse",
			category:    &catalog.Category{Name: "Beer", DefaultDestination: "rooftop"},
			want:        "bartender",
		},
		{
			name:        "drink keyword routes to bartender",
			productName: "Mango Shake",
			category:    &catalog.Category{Name: "Misc"},
			want:        "bartender",
		},
		{
			name:        "food keyword routes to kitchen",
			productName: "Pork Sisig",
			category:    &catalog.Category{Name: "Misc"},
			want:        "kitchen",
		},
		{
			name:        "drink token beats food token",
			productName: "Beer Platter",
			category:    &catalog.Category{Name: "Misc"},
			want:        "bartender",
		},
		{
			name:        "keyword match is case insensitive",
			productName: "LEMONADE PITCHER",
			category:    nil,
			want:        "bartender",
		},
		{
			name:        "no match defaults to kitchen",
			productName: "Mystery Special",
			category:    &catalog.Category{Name: "Misc"},
			want:        "kitchen",
		},
		{
			name:        "nil category still resolves",
			productName: "House Blend",
			category:    nil,
			want:        "kitchen",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &catalog.Product{ID: uuid.New(), Name: tt.productName}
			got := ResolveDestination(p, tt.category)
			if got != tt.want {
				t.Errorf("ResolveDestination(%q) = %q, want %q", tt.productName, got, tt.want)
			}
		})
	}
}

func TestResolveCustomChain(t *testing.T) {
	p := &catalog.Product{ID: uuid.New(), Name: "Calamares"}

	always := func(dest string) Strategy {
		return func(*catalog.Product, *catalog.Category) string { return dest }
	}
	undecided := func(*catalog.Product, *catalog.Category) string { return "" }

	got := Resolve([]Strategy{undecided, always("bartender"), always("kitchen")}, p, nil)
	if got != "bartender" {
		t.Errorf("first deciding strategy should win, got %q", got)
	}

	// A chain where nothing decides still produces a concrete destination.
	got = Resolve([]Strategy{undecided}, p, nil)
	if got != "kitchen" {
		t.Errorf("empty decision should default to kitchen, got %q", got)
	}
}
