package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Malon0825/beerhive-sales-system-sub000/internal/session"
	"github.com/Malon0825/beerhive-sales-system-sub000/pkg/enums/sessionstatus"
)

type SessionRepo struct {
	collection *mongo.Collection
	counters   *mongo.Collection
}

func NewSessionRepo(db *mongo.Database) *SessionRepo {
	return &SessionRepo{
		collection: db.Collection("sessions"),
		counters:   db.Collection("counters"),
	}
}

// EnsureIndexes creates the partial unique index that enforces at most one
// open session per table across all service instances.
func (r *SessionRepo) EnsureIndexes(ctx context.Context) error {
	openIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "table_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_open_session_per_table").
			SetPartialFilterExpression(bson.M{"status": sessionstatus.Statuses.Open.Code()}),
	}
	if _, err := r.collection.Indexes().CreateOne(ctx, openIndex); err != nil {
		return fmt.Errorf("cannot create open session index: %w", err)
	}

	numberIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "session_number", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := r.collection.Indexes().CreateOne(ctx, numberIndex); err != nil {
		return fmt.Errorf("cannot create session number index: %w", err)
	}

	return nil
}

func (r *SessionRepo) Create(ctx context.Context, s *session.Session) error {
	if s == nil {
		return fmt.Errorf("session is nil")
	}

	if _, err := r.collection.InsertOne(ctx, s); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return session.ErrDuplicateOpenSession
		}
		return fmt.Errorf("cannot create session: %w", err)
	}

	return nil
}

func (r *SessionRepo) Get(ctx context.Context, id uuid.UUID) (*session.Session, error) {
	var s session.Session
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get session: %w", err)
	}
	return &s, nil
}

func (r *SessionRepo) GetByNumber(ctx context.Context, number string) (*session.Session, error) {
	var s session.Session
	err := r.collection.FindOne(ctx, bson.M{"session_number": number}).Decode(&s)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get session by number: %w", err)
	}
	return &s, nil
}

func (r *SessionRepo) List(ctx context.Context) ([]*session.Session, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "opened_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("cannot list sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*session.Session
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("cannot decode sessions: %w", err)
	}

	return result, nil
}

func (r *SessionRepo) ListByStatus(ctx context.Context, status string) ([]*session.Session, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"status": status})
	if err != nil {
		return nil, fmt.Errorf("cannot list sessions by status: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*session.Session
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("cannot decode sessions: %w", err)
	}

	return result, nil
}

func (r *SessionRepo) FindOpenByTable(ctx context.Context, tableID uuid.UUID) (*session.Session, error) {
	var s session.Session
	err := r.collection.FindOne(ctx, bson.M{
		"table_id": tableID,
		"status":   sessionstatus.Statuses.Open.Code(),
	}).Decode(&s)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot find open session: %w", err)
	}
	return &s, nil
}

func (r *SessionRepo) Save(ctx context.Context, s *session.Session) error {
	if s == nil {
		return fmt.Errorf("session is nil")
	}

	filter := bson.M{"_id": s.ID}
	update := bson.M{"$set": s}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("cannot update session: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("session not found")
	}

	return nil
}

// NextSequence allocates the next per-day tab sequence through an atomic
// counter upsert, so numbers stay gapless-per-instance and unique across
// concurrent opens.
func (r *SessionRepo) NextSequence(ctx context.Context, day string) (int, error) {
	filter := bson.M{"_id": "session-" + day}
	update := bson.M{"$inc": bson.M{"value": 1}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var counter struct {
		Value int `bson:"value"`
	}
	if err := r.counters.FindOneAndUpdate(ctx, filter, update, opts).Decode(&counter); err != nil {
		return 0, fmt.Errorf("cannot allocate session sequence: %w", err)
	}

	return counter.Value, nil
}
