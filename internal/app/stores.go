package app

import (
	"context"
	"fmt"

	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/config"
	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/database"
	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/imports"
	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/ledger"
	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/puzzles"
	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/users"
	"github.com/joyjuncture/joyjuncture/backend/go-services/pkg/logger"
	"go.mongodb.org/mongo-driver/mongo"
)

// Stores bundles the repositories of one storage backend.
type Stores struct {
	Driver  string
	Puzzles puzzles.Repository
	Users   users.UserRepository
	Ledger  ledger.Repository
	Runs    imports.RunStore

	client *mongo.Client
}

// OpenStores connects the configured backend. The Mongo backend also ensures indexes.
func OpenStores(ctx context.Context, cfg *config.Config) (*Stores, error) {
	switch cfg.Store.Driver {
	case config.StoreMemory:
		logger.Warnf("using in-memory stores; data is lost on restart")
		return MemoryStores(), nil
	case config.StoreMongo:
		client, err := database.ConnectWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, cfg.MongoDB.Attempts)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.MongoDB.Database)
		if err := database.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		logger.Infof("connected to MongoDB database %s", cfg.MongoDB.Database)
		return &Stores{
			Driver:  config.StoreMongo,
			Puzzles: puzzles.NewMongoRepo(db.Collection(database.CollectionPuzzles)),
			Users:   users.NewMongoUserRepository(db.Collection(database.CollectionUsers)),
			Ledger: ledger.NewMongoRepo(
				db.Collection(database.CollectionGameHistory),
				db.Collection(database.CollectionWalletHistory),
			),
			Runs:   imports.NewMongoRunStore(db.Collection(database.CollectionPuzzleImports)),
			client: client,
		}, nil
	}
	return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
}

// MemoryStores returns empty in-process repositories.
func MemoryStores() *Stores {
	return &Stores{
		Driver:  config.StoreMemory,
		Puzzles: puzzles.NewMemoryRepo(),
		Users:   users.NewMemoryUserRepository(),
		Ledger:  ledger.NewMemoryRepo(),
		Runs:    imports.NewMemoryRunStore(),
	}
}

// Ping reports whether the backend is reachable.
func (s *Stores) Ping(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Ping(ctx, nil)
}

// Close disconnects the backend.
func (s *Stores) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
