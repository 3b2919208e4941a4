package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionCounters = "issue_counters"

// CounterRepository allocates per-project sequential issue keys through an
// atomic findAndModify increment, so concurrent creates never collide.
type CounterRepository struct {
	col *mongo.Collection
}

func NewCounterRepository(db *mongo.Database) *CounterRepository {
	return &CounterRepository{col: db.Collection(collectionCounters)}
}

// NextKey returns the next key for projectKey, e.g. "PAY-42".
func (r *CounterRepository) NextKey(ctx context.Context, projectKey string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := r.col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": projectKey},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&doc)
	if err != nil {
		return "", fmt.Errorf("allocate issue key: %w", err)
	}

	return fmt.Sprintf("%s-%d", projectKey, doc.Seq), nil
}
