package mongodb

import (
	"context"
	"time"

	"github.com/hivebuzz/hivebuzz/internal/domain/contract"
	"github.com/hivebuzz/hivebuzz/internal/domain/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ActivityRepository struct {
	collection *mongo.Collection
}

func NewActivityRepository(collection *mongo.Collection) *ActivityRepository {
	return &ActivityRepository{collection: collection}
}

// check in compile time if ActivityRepository implements IActivityRepository
var _ contract.IActivityRepository = (*ActivityRepository)(nil)

func (r *ActivityRepository) LogActivity(ctx context.Context, activity *entity.Activity) error {
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, activity)
	return err
}

func (r *ActivityRepository) GetRecentActivity(ctx context.Context, username string, limit int) ([]entity.Activity, error) {
	if limit <= 0 {
		limit = 20
	}
	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, bson.M{"username": username}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var activities []entity.Activity
	if err := cursor.All(ctx, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}
