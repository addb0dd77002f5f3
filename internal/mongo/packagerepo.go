package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Malon0825/beerhive-sales-system-sub000/internal/catalog"
)

type PackageRepo struct {
	collection *mongo.Collection
}

func NewPackageRepo(db *mongo.Database) *PackageRepo {
	return &PackageRepo{
		collection: db.Collection("packages"),
	}
}

func (r *PackageRepo) Create(ctx context.Context, p *catalog.Package) error {
	if p == nil {
		return fmt.Errorf("package is nil")
	}

	if _, err := r.collection.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("cannot create package: %w", err)
	}

	return nil
}

func (r *PackageRepo) Get(ctx context.Context, id uuid.UUID) (*catalog.Package, error) {
	var p catalog.Package
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get package: %w", err)
	}
	return &p, nil
}

func (r *PackageRepo) List(ctx context.Context) ([]*catalog.Package, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("cannot list packages: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*catalog.Package
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("cannot decode packages: %w", err)
	}

	return result, nil
}

func (r *PackageRepo) Save(ctx context.Context, p *catalog.Package) error {
	if p == nil {
		return fmt.Errorf("package is nil")
	}

	filter := bson.M{"_id": p.ID}
	update := bson.M{"$set": p}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("cannot update package: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("package not found")
	}

	return nil
}

func (r *PackageRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("cannot delete package: %w", err)
	}

	if result.DeletedCount == 0 {
		return fmt.Errorf("package not found")
	}

	return nil
}
