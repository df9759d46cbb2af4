package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrAlreadyExists = errors.New("user already exists")
	ErrInvalidInput  = errors.New("invalid user input")
)

// UserRepository defines persistence operations for users
type UserRepository interface {
	Get(ctx context.Context, id string) (*models.User, error)
	Insert(ctx context.Context, u *models.User) error
	SetCalendar(ctx context.Context, id string, cal *models.CalendarIntegration) error
	UnsetCalendar(ctx context.Context, id string) error
	AddCoins(ctx context.Context, id string, delta int64) error
}

// MongoUserRepository implements UserRepository using MongoDB
type MongoUserRepository struct {
	col *mongo.Collection
}

// NewMongoUserRepository creates a new repository for the given collection
func NewMongoUserRepository(col *mongo.Collection) *MongoUserRepository {
	return &MongoUserRepository{col: col}
}

// Get returns nil, nil when the user does not exist.
func (r *MongoUserRepository) Get(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (r *MongoUserRepository) Insert(ctx context.Context, u *models.User) error {
	if _, err := r.col.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *MongoUserRepository) SetCalendar(ctx context.Context, id string, cal *models.CalendarIntegration) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"googleCalendar": cal,
		"updatedAt":      time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("set calendar: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UnsetCalendar removes the calendar sub-record; an absent user or field is a no-op.
func (r *MongoUserRepository) UnsetCalendar(ctx context.Context, id string) error {
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$unset": bson.M{"googleCalendar": ""}})
	if err != nil {
		return fmt.Errorf("unset calendar: %w", err)
	}
	return nil
}

func (r *MongoUserRepository) AddCoins(ctx context.Context, id string, delta int64) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"coins": delta},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("add coins: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
