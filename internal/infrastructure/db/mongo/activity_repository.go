package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tracklight/tracklight/internal/core/domain"
)

const collectionActivity = "issue_activity"

// ActivityRepository persists the append-only audit trail.
type ActivityRepository struct {
	col *mongo.Collection
}

func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{col: db.Collection(collectionActivity)}
}

func (r *ActivityRepository) Insert(ctx context.Context, record *domain.ActivityRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, record)
	return err
}

// ListByIssueKey returns records for one issue ordered by timestamp.
func (r *ActivityRepository) ListByIssueKey(ctx context.Context, issueKey string) ([]domain.ActivityRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"issue_key": issueKey}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var records []domain.ActivityRecord
	if err := cur.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
