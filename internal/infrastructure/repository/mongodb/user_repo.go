package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/hivebuzz/hivebuzz/internal/domain/contract"
	"github.com/hivebuzz/hivebuzz/internal/domain/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrUserNotFound is returned when a user lookup matches nothing.
var ErrUserNotFound = errors.New("user not found")

type MongoUserRepository struct {
	collection *mongo.Collection
}

func NewMongoUserRepository(collection *mongo.Collection) *MongoUserRepository {
	return &MongoUserRepository{collection: collection}
}

// check in compile time if MongoUserRepository implements IUserRepository
var _ contract.IUserRepository = (*MongoUserRepository)(nil)

func (r *MongoUserRepository) GetUserByUsername(ctx context.Context, username string) (*entity.User, error) {
	var user entity.User
	err := r.collection.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpsertUser inserts the user if unknown, otherwise only bumps the update
// timestamp. Profile fields are never overwritten here; UpdatePreferences
// and future profile edits own those.
func (r *MongoUserRepository) UpsertUser(ctx context.Context, user *entity.User) error {
	user.UpdatedAt = time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = user.UpdatedAt
	}
	if user.ID == "" {
		// Account names are unique on chain, so they double as ids.
		user.ID = user.Username
	}
	filter := bson.M{"username": user.Username}
	update := bson.M{
		"$set": bson.M{
			"username":   user.Username,
			"updated_at": user.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"_id":          user.ID,
			"display_name": user.DisplayName,
			"about":        user.About,
			"avatar_url":   user.AvatarURL,
			"preferences":  user.Preferences,
			"created_at":   user.CreatedAt,
		},
	}
	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *MongoUserRepository) UpdatePreferences(ctx context.Context, username string, prefs map[string]string) error {
	filter := bson.M{"username": username}
	update := bson.M{"$set": bson.M{"preferences": prefs, "updated_at": time.Now()}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *MongoUserRepository) TouchLastLogin(ctx context.Context, username string) error {
	now := time.Now()
	filter := bson.M{"username": username}
	update := bson.M{"$set": bson.M{"last_login_at": now, "updated_at": now}}
	_, err := r.collection.UpdateOne(ctx, filter, update)
	return err
}
