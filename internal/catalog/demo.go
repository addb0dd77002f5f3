package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/seed"
	"go.mongodb.org/mongo-driver/mongo"
)

const catalogDemoSeedApplication = "catalog_demo"

// DemoRepos bundles the repositories demo seeding writes through.
type DemoRepos struct {
	Products   ProductRepo
	Categories CategoryRepo
	Packages   PackageRepo
}

// ApplyDemoSeeds creates a small beer hall menu: a strict beverage category,
// a flexible food category, products for both stations and one bundled
// package. Seeds are tracked per ID so restarts do not duplicate data.
func ApplyDemoSeeds(ctx context.Context, repos DemoRepos, db *mongo.Database, logger aqm.Logger) error {
	if db == nil {
		return errors.New("database is required for demo seeding")
	}

	demoSeeds := []seed.Seed{
		{
			ID:          "2026-08-01_demo_catalog_v1",
			Description: "Create demo categories, products and the bucket package",
			Run: func(ctx context.Context) error {
				return seedDemoCatalog(ctx, repos, logger)
			},
		},
	}

	tracker := seed.NewMongoTracker(db)

	logger.Info("Applying demo catalog seeds")
	if err := seed.Apply(ctx, tracker, demoSeeds, catalogDemoSeedApplication); err != nil {
		return err
	}
	logger.Info("Demo catalog seeds applied successfully")
	return nil
}

func seedDemoCatalog(ctx context.Context, repos DemoRepos, logger aqm.Logger) error {
	beer := NewCategory("Beer", StrictnessStrict)
	beer.DefaultDestination = "bartender"
	beer.CreatedBy = "seed:demo"
	beer.UpdatedBy = "seed:demo"
	if err := repos.Categories.Create(ctx, beer); err != nil {
		return fmt.Errorf("create category %s: %w", beer.Name, err)
	}

	food := NewCategory("Food", StrictnessFlexible)
	food.DefaultDestination = "kitchen"
	food.CreatedBy = "seed:demo"
	food.UpdatedBy = "seed:demo"
	if err := repos.Categories.Create(ctx, food); err != nil {
		return fmt.Errorf("create category %s: %w", food.Name, err)
	}

	type productSeed struct {
		category  *Category
		name      string
		sku       string
		price     float64
		stock     int
		reorderAt int
	}

	seeds := []productSeed{
		{beer, "San Miguel Pale Pilsen", "BEER-SMPP", 85, 240, 48},
		{beer, "Red Horse", "BEER-RH", 95, 180, 48},
		{beer, "San Miguel Light", "BEER-SML", 90, 120, 24},
		{food, "Sisig", "FOOD-SISIG", 195, 40, 10},
		{food, "Calamares", "FOOD-CALAM", 180, 30, 10},
		{food, "Crispy Pata", "FOOD-PATA", 495, 12, 4},
	}

	products := make(map[string]*Product, len(seeds))
	for _, ps := range seeds {
		p := NewProduct(ps.category.ID, ps.name, ps.price)
		p.SKU = ps.sku
		p.CurrentStock = ps.stock
		p.ReorderPoint = ps.reorderAt
		p.CreatedBy = "seed:demo"
		p.UpdatedBy = "seed:demo"
		if err := repos.Products.Create(ctx, p); err != nil {
			return fmt.Errorf("create product %s: %w", ps.name, err)
		}
		products[ps.name] = p
	}

	bucket := NewPackage("Party Bucket", 1200)
	bucket.Items = []PackageItem{
		{ProductID: products["San Miguel Pale Pilsen"].ID, Quantity: 6},
		{ProductID: products["Red Horse"].ID, Quantity: 6},
		{ProductID: products["Sisig"].ID, Quantity: 1},
	}
	bucket.CreatedBy = "seed:demo"
	bucket.UpdatedBy = "seed:demo"
	if err := repos.Packages.Create(ctx, bucket); err != nil {
		return fmt.Errorf("create package %s: %w", bucket.Name, err)
	}

	logger.Info("Demo catalog created",
		"categories", 2,
		"products", len(seeds),
		"packages", 1,
	)
	return nil
}

// DemoSeedingFunc returns a lifecycle OnStart-compatible function that runs
// demo seeding in the background so startup is not blocked on it.
func DemoSeedingFunc(seedCtx context.Context, repos DemoRepos, db *mongo.Database, logger aqm.Logger) func(ctx context.Context) error {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}

	return func(ctx context.Context) error {
		logger.Info("Starting demo catalog seeding in background")
		go func() {
			if err := ApplyDemoSeeds(seedCtx, repos, db, logger); err != nil && !errors.Is(err, context.Canceled) {
				logger.Errorf("Demo catalog seeds failed: %v", err)
			}
		}()
		return nil
	}
}
