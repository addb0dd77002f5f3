package tables

import (
	"context"
	"errors"
	"fmt"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/seed"
	"go.mongodb.org/mongo-driver/mongo"
)

const tablesDemoSeedApplication = "tables_demo"

// ApplyDemoSeeds creates the floor layout used for demos and local
// development. Seeds are tracked per ID so restarts do not duplicate data.
func ApplyDemoSeeds(ctx context.Context, repo TableRepo, db *mongo.Database, logger aqm.Logger) error {
	if db == nil {
		return errors.New("database is required for demo seeding")
	}

	demoSeeds := []seed.Seed{
		{
			ID:          "2026-08-01_demo_tables_v1",
			Description: "Create the demo floor layout",
			Run: func(ctx context.Context) error {
				return seedDemoTables(ctx, repo, logger)
			},
		},
	}

	tracker := seed.NewMongoTracker(db)

	logger.Info("Applying demo table seeds")
	if err := seed.Apply(ctx, tracker, demoSeeds, tablesDemoSeedApplication); err != nil {
		return err
	}
	logger.Info("Demo table seeds applied successfully")
	return nil
}

func seedDemoTables(ctx context.Context, repo TableRepo, logger aqm.Logger) error {
	type tableSeed struct {
		number   string
		area     string
		capacity int
	}

	seeds := []tableSeed{
		{"T-01", "main hall", 4},
		{"T-02", "main hall", 4},
		{"T-03", "main hall", 6},
		{"T-04", "main hall", 6},
		{"B-01", "bar", 2},
		{"B-02", "bar", 2},
		{"P-01", "patio", 8},
		{"P-02", "patio", 8},
	}

	for _, ts := range seeds {
		table := NewTable(ts.number, ts.capacity)
		table.Area = ts.area
		table.CreatedBy = "seed:demo"
		table.UpdatedBy = "seed:demo"
		if err := repo.Create(ctx, table); err != nil {
			return fmt.Errorf("create table %s: %w", ts.number, err)
		}
	}

	logger.Info("Demo floor layout created", "tables", len(seeds))
	return nil
}

// DemoSeedingFunc returns a lifecycle OnStart-compatible function that runs
// demo seeding in the background so startup is not blocked on it.
func DemoSeedingFunc(seedCtx context.Context, repo TableRepo, db *mongo.Database, logger aqm.Logger) func(ctx context.Context) error {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}

	return func(ctx context.Context) error {
		logger.Info("Starting demo table seeding in background")
		go func() {
			if err := ApplyDemoSeeds(seedCtx, repo, db, logger); err != nil && !errors.Is(err, context.Canceled) {
				logger.Errorf("Demo table seeds failed: %v", err)
			}
		}()
		return nil
	}
}
