package commands

import (
	"context"
	"fmt"

	"github.com/appetiteclub/apt"
	"go.mongodb.org/mongo-driver/bson"
)

// demoCollections lists every collection demo seeding writes to.
var demoCollections = []string{
	"categories",
	"products",
	"packages",
	"tables",
}

// demoSeedIDs are the tracker entries the seed runner records, removed here
// so seeding can be re-applied after a clear.
var demoSeedIDs = []string{
	"2026-08-01_demo_catalog_v1",
	"2026-08-01_demo_tables_v1",
}

// ClearDemo removes all demo data created by seed-demo or the service's
// seeding.demo mode. Operational data (sessions, orders, movements) is left
// untouched.
func ClearDemo(ctx context.Context, config *apt.Config, logger apt.Logger) error {
	logger.Info("Starting demo data cleanup...")

	client, db, err := connect(ctx, config)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	logger.Info("Connected to MongoDB")

	for _, name := range demoCollections {
		result, err := db.Collection(name).DeleteMany(ctx, bson.M{"created_by": "seed:demo"})
		if err != nil {
			return fmt.Errorf("delete demo %s: %w", name, err)
		}
		logger.Info("Deleted demo documents", "collection", name, "count", result.DeletedCount)
	}

	seeds := db.Collection("_seeds")
	for _, id := range demoSeedIDs {
		result, err := seeds.DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			return fmt.Errorf("delete seed tracker %s: %w", id, err)
		}
		logger.Info("Cleared seed tracker", "seed", id, "deleted", result.DeletedCount)
	}

	return nil
}
