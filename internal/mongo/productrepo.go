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

type ProductRepo struct {
	collection *mongo.Collection
}

func NewProductRepo(db *mongo.Database) *ProductRepo {
	return &ProductRepo{
		collection: db.Collection("products"),
	}
}

func (r *ProductRepo) EnsureIndexes(ctx context.Context) error {
	categoryIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "category_id", Value: 1}},
	}
	if _, err := r.collection.Indexes().CreateOne(ctx, categoryIndex); err != nil {
		return fmt.Errorf("cannot create category_id index: %w", err)
	}

	skuIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "sku", Value: 1}},
		Options: options.Index().SetUnique(true).
			SetPartialFilterExpression(bson.M{"sku": bson.M{"$type": "string", "$gt": ""}}),
	}
	if _, err := r.collection.Indexes().CreateOne(ctx, skuIndex); err != nil {
		return fmt.Errorf("cannot create sku index: %w", err)
	}

	return nil
}

func (r *ProductRepo) Create(ctx context.Context, p *catalog.Product) error {
	if p == nil {
		return fmt.Errorf("product is nil")
	}

	if _, err := r.collection.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("cannot create product: %w", err)
	}

	return nil
}

func (r *ProductRepo) Get(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var p catalog.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get product: %w", err)
	}
	return &p, nil
}

func (r *ProductRepo) List(ctx context.Context) ([]*catalog.Product, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("cannot list products: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*catalog.Product
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("cannot decode products: %w", err)
	}

	return result, nil
}

func (r *ProductRepo) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*catalog.Product, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"category_id": categoryID})
	if err != nil {
		return nil, fmt.Errorf("cannot list products by category: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*catalog.Product
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("cannot decode products: %w", err)
	}

	return result, nil
}

func (r *ProductRepo) Save(ctx context.Context, p *catalog.Product) error {
	if p == nil {
		return fmt.Errorf("product is nil")
	}

	filter := bson.M{"_id": p.ID}
	update := bson.M{"$set": p}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("cannot update product: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("product not found")
	}

	return nil
}

// AdjustStock atomically applies delta to current_stock and returns the
// resulting level. The $inc keeps concurrent deductions consistent without
// a read-modify-write cycle.
func (r *ProductRepo) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (int, error) {
	filter := bson.M{"_id": id}
	update := bson.M{
		"$inc": bson.M{"current_stock": delta},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var p catalog.Product
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&p)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, fmt.Errorf("product %s not found", id)
		}
		return 0, fmt.Errorf("cannot adjust stock: %w", err)
	}

	return p.CurrentStock, nil
}

func (r *ProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("cannot delete product: %w", err)
	}

	if result.DeletedCount == 0 {
		return fmt.Errorf("product not found")
	}

	return nil
}
