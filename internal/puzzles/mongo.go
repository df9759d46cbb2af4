package puzzles

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo implements Repository on the sudoku_levels collection.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	return &MongoRepo{col: col}
}

func (m *MongoRepo) Get(ctx context.Context, id string) (*Puzzle, error) {
	var p Puzzle
	if err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find puzzle: %w", err)
	}
	return &p, nil
}

func (m *MongoRepo) Insert(ctx context.Context, p *Puzzle) error {
	if _, err := m.col.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("insert puzzle: %w", err)
	}
	return nil
}

func (m *MongoRepo) List(ctx context.Context) ([]*Puzzle, error) {
	return m.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "variationNo", Value: 1}, {Key: "_id", Value: 1}}))
}

func (m *MongoRepo) ListVisible(ctx context.Context) ([]*Puzzle, error) {
	return m.find(ctx, bson.M{"isVisibleToUser": true}, nil)
}

func (m *MongoRepo) FindUnassigned(ctx context.Context, d Difficulty, limit int) ([]*Puzzle, error) {
	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return m.find(ctx, bson.M{"difficulty": d, "isAssigned": false}, opts)
}

func (m *MongoRepo) ListByVariation(ctx context.Context, variationNo int) ([]*Puzzle, error) {
	return m.find(ctx, bson.M{"variationNo": variationNo}, nil)
}

// Assign is a single conditional update, so two admins racing for the same candidate cannot
// both win.
func (m *MongoRepo) Assign(ctx context.Context, id string, at time.Time) error {
	res, err := m.col.UpdateOne(ctx,
		bson.M{"_id": id, "isAssigned": false},
		bson.M{"$set": bson.M{"isAssigned": true, "isVisibleToUser": true, "assignedAt": at}},
	)
	if err != nil {
		return fmt.Errorf("assign puzzle: %w", err)
	}
	if res.MatchedCount == 1 {
		return nil
	}
	n, err := m.col.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("assign puzzle: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrAlreadyAssigned
}

func (m *MongoRepo) Unpublish(ctx context.Context, id string) error {
	res, err := m.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"isVisibleToUser": false,
		"isAssigned":      false,
		"assignedAt":      nil,
	}})
	if err != nil {
		return fmt.Errorf("unpublish puzzle: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*Puzzle, error) {
	var (
		cur *mongo.Cursor
		err error
	)
	if opts != nil {
		cur, err = m.col.Find(ctx, filter, opts)
	} else {
		cur, err = m.col.Find(ctx, filter)
	}
	if err != nil {
		return nil, fmt.Errorf("find puzzles: %w", err)
	}
	defer cur.Close(ctx)
	out := []*Puzzle{}
	for cur.Next(ctx) {
		var p Puzzle
		if err := cur.Decode(&p); err != nil {
			return nil, fmt.Errorf("decode puzzle: %w", err)
		}
		out = append(out, &p)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate puzzles: %w", err)
	}
	return out, nil
}
