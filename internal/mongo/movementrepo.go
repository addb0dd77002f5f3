package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Malon0825/beerhive-sales-system-sub000/internal/stock"
)

// MovementRepo persists the append-only stock ledger. There is deliberately
// no update or delete path; corrections happen through new adjustment rows.
type MovementRepo struct {
	collection *mongo.Collection
}

func NewMovementRepo(db *mongo.Database) *MovementRepo {
	return &MovementRepo{
		collection: db.Collection("stock_movements"),
	}
}

// EnsureIndexes creates the partial unique indexes that make sale deduction
// and return reversal at-most-once per (order, product) pair. The index is
// the authority; the ledger treats a duplicate key as already-applied.
func (r *MovementRepo) EnsureIndexes(ctx context.Context) error {
	saleIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "reference_order_id", Value: 1},
			{Key: "product_id", Value: 1},
		},
		Options: options.Index().SetUnique(true).SetName("uniq_sale_per_order_product").
			SetPartialFilterExpression(bson.M{"movement_type": stock.MovementSale}),
	}
	if _, err := r.collection.Indexes().CreateOne(ctx, saleIndex); err != nil {
		return fmt.Errorf("cannot create sale movement index: %w", err)
	}

	returnIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "reference_order_id", Value: 1},
			{Key: "product_id", Value: 1},
		},
		Options: options.Index().SetUnique(true).SetName("uniq_return_per_order_product").
			SetPartialFilterExpression(bson.M{"movement_type": stock.MovementReturn}),
	}
	if _, err := r.collection.Indexes().CreateOne(ctx, returnIndex); err != nil {
		return fmt.Errorf("cannot create return movement index: %w", err)
	}

	productIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "product_id", Value: 1}, {Key: "created_at", Value: -1}},
	}
	if _, err := r.collection.Indexes().CreateOne(ctx, productIndex); err != nil {
		return fmt.Errorf("cannot create product movement index: %w", err)
	}

	return nil
}

func (r *MovementRepo) Insert(ctx context.Context, movement *stock.StockMovement) error {
	if movement == nil {
		return fmt.Errorf("movement is nil")
	}

	if _, err := r.collection.InsertOne(ctx, movement); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return stock.ErrDuplicateMovement
		}
		return fmt.Errorf("cannot insert stock movement: %w", err)
	}

	return nil
}

func (r *MovementRepo) List(ctx context.Context, filter stock.MovementFilter) ([]stock.StockMovement, error) {
	query := bson.M{}
	if filter.ProductID != nil {
		query["product_id"] = *filter.ProductID
	}
	if filter.MovementType != nil {
		query["movement_type"] = *filter.MovementType
	}
	if filter.ReferenceOrderID != nil {
		query["reference_order_id"] = *filter.ReferenceOrderID
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filter.Limit > 0 {
		opts = opts.SetLimit(int64(filter.Limit))
	}
	if filter.Offset > 0 {
		opts = opts.SetSkip(int64(filter.Offset))
	}

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("cannot list stock movements: %w", err)
	}
	defer cursor.Close(ctx)

	var result []stock.StockMovement
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("cannot decode stock movements: %w", err)
	}

	return result, nil
}

func (r *MovementRepo) ListByOrder(ctx context.Context, orderID uuid.UUID, movementType string) ([]stock.StockMovement, error) {
	cursor, err := r.collection.Find(ctx, bson.M{
		"reference_order_id": orderID,
		"movement_type":      movementType,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot list stock movements by order: %w", err)
	}
	defer cursor.Close(ctx)

	var result []stock.StockMovement
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("cannot decode stock movements: %w", err)
	}

	return result, nil
}
