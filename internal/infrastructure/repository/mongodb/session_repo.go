package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/hivebuzz/hivebuzz/internal/domain/contract"
	"github.com/hivebuzz/hivebuzz/internal/domain/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrSessionNotFound is returned when a session lookup matches nothing.
var ErrSessionNotFound = errors.New("session not found")

type SessionRepository struct {
	collection *mongo.Collection
}

func NewSessionRepository(collection *mongo.Collection) *SessionRepository {
	return &SessionRepository{collection: collection}
}

// check in compile time if SessionRepository implements ISessionRepository
var _ contract.ISessionRepository = (*SessionRepository)(nil)

func (r *SessionRepository) CreateSession(ctx context.Context, session *entity.Session) error {
	_, err := r.collection.InsertOne(ctx, session)
	return err
}

func (r *SessionRepository) GetSession(ctx context.Context, sessionID string) (*entity.Session, error) {
	var session entity.Session
	err := r.collection.FindOne(ctx, bson.M{"_id": sessionID}).Decode(&session)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) DeleteSession(ctx context.Context, sessionID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": sessionID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// DeleteExpiredSessions removes every session past its expiry time and
// returns the number deleted.
func (r *SessionRepository) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lt": time.Now()}})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
