package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Malon0825/beerhive-sales-system-sub000/internal/ticket"
	"github.com/Malon0825/beerhive-sales-system-sub000/pkg/enums/destination"
)

type TicketRepo struct {
	collection *mongo.Collection
}

func NewTicketRepo(db *mongo.Database) *TicketRepo {
	return &TicketRepo{
		collection: db.Collection("prep_tickets"),
	}
}

// EnsureIndexes creates the station and lookup indexes. The order_item_id
// index is deliberately non-unique: a package line produces one ticket per
// constituent product, all sharing the order item.
func (r *TicketRepo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "order_item_id", Value: 1}}},
		{Keys: bson.D{{Key: "order_id", Value: 1}}},
		{Keys: bson.D{{Key: "destination", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}
	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("cannot create ticket indexes: %w", err)
	}
	return nil
}

func (r *TicketRepo) Create(ctx context.Context, t *ticket.PrepTicket) error {
	t.CreatedAt = time.Now()
	t.UpdatedAt = time.Now()
	t.ModelVersion = 1

	_, err := r.collection.InsertOne(ctx, t)
	if err != nil {
		return fmt.Errorf("cannot insert ticket: %w", err)
	}
	return nil
}

func (r *TicketRepo) Update(ctx context.Context, t *ticket.PrepTicket) error {
	t.UpdatedAt = time.Now()

	filter := bson.M{"_id": t.ID}
	update := bson.M{"$set": t}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("cannot update ticket: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("ticket not found")
	}

	return nil
}

func (r *TicketRepo) FindByID(ctx context.Context, id ticket.TicketID) (*ticket.PrepTicket, error) {
	var t ticket.PrepTicket
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("ticket not found")
		}
		return nil, fmt.Errorf("cannot find ticket: %w", err)
	}
	return &t, nil
}

func (r *TicketRepo) FindByOrderItemID(ctx context.Context, id ticket.OrderItemID) (*ticket.PrepTicket, error) {
	var t ticket.PrepTicket
	err := r.collection.FindOne(ctx, bson.M{"order_item_id": id}).Decode(&t)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot find ticket by order_item_id: %w", err)
	}
	return &t, nil
}

func (r *TicketRepo) List(ctx context.Context, filter ticket.TicketFilter) ([]ticket.PrepTicket, error) {
	query := bson.M{}

	if filter.Destination != nil {
		query["destination"] = destinationQuery(*filter.Destination)
	}

	if filter.Status != nil {
		query["status"] = *filter.Status
	}

	if filter.OrderID != nil {
		query["order_id"] = *filter.OrderID
	}

	if filter.OrderItemID != nil {
		query["order_item_id"] = *filter.OrderItemID
	}

	if filter.Urgent != nil {
		query["urgent"] = *filter.Urgent
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	if filter.Offset > 0 {
		opts.SetSkip(int64(filter.Offset))
	}

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("cannot find tickets: %w", err)
	}
	defer cursor.Close(ctx)

	var tickets []ticket.PrepTicket
	if err := cursor.All(ctx, &tickets); err != nil {
		return nil, fmt.Errorf("cannot decode tickets: %w", err)
	}

	return tickets, nil
}

// destinationQuery widens kitchen and bartender station queries so tickets
// routed to both stations show up on each of them.
func destinationQuery(dest string) interface{} {
	both := destination.Destinations.Both.Code()
	if dest == destination.Destinations.Kitchen.Code() || dest == destination.Destinations.Bartender.Code() {
		return bson.M{"$in": []string{dest, both}}
	}
	return dest
}
