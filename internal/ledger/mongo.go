package ledger

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo implements Repository on the game_history and wallet_history collections.
type MongoRepo struct {
	games  *mongo.Collection
	wallet *mongo.Collection
}

func NewMongoRepo(games, wallet *mongo.Collection) *MongoRepo {
	return &MongoRepo{games: games, wallet: wallet}
}

func (m *MongoRepo) AppendGame(ctx context.Context, r *GameRecord) error {
	if _, err := m.games.InsertOne(ctx, r); err != nil {
		return fmt.Errorf("insert game record: %w", err)
	}
	return nil
}

func (m *MongoRepo) ListGames(ctx context.Context, userID string) ([]*GameRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "startedAt", Value: -1}})
	cur, err := m.games.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find game records: %w", err)
	}
	out := []*GameRecord{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode game records: %w", err)
	}
	return out, nil
}

func (m *MongoRepo) AppendWallet(ctx context.Context, r *WalletRecord) error {
	if _, err := m.wallet.InsertOne(ctx, r); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateRecord
		}
		return fmt.Errorf("insert wallet record: %w", err)
	}
	return nil
}

func (m *MongoRepo) ListWallet(ctx context.Context, userID string, limit int) ([]*WalletRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := m.wallet.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find wallet records: %w", err)
	}
	out := []*WalletRecord{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode wallet records: %w", err)
	}
	return out, nil
}
