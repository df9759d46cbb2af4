package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names shared by the repositories and the CLI.
const (
	CollectionPuzzles       = "sudoku_levels"
	CollectionUsers         = "users"
	CollectionGameHistory   = "game_history"
	CollectionWalletHistory = "wallet_history"
	CollectionPuzzleImports = "puzzle_imports"
)

// EnsureIndexes creates the indexes backing the catalog filters and the per-user ledger reads.
// CreateMany is idempotent for identical specs.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		CollectionPuzzles: {
			{Keys: bson.D{{Key: "difficulty", Value: 1}, {Key: "isAssigned", Value: 1}}},
			{Keys: bson.D{{Key: "isVisibleToUser", Value: 1}}},
			{Keys: bson.D{{Key: "variationNo", Value: 1}}},
		},
		CollectionGameHistory: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "startedAt", Value: -1}}},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "levelId", Value: 1}, {Key: "solved", Value: 1}}},
		},
		CollectionWalletHistory: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		CollectionPuzzleImports: {
			{Keys: bson.D{{Key: "startedAt", Value: -1}}},
		},
		CollectionUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetSparse(true)},
		},
	}
	for name, models := range specs {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}
