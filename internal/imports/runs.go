package imports

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Run is the persisted summary of one pack import.
type Run struct {
	ID         string       `bson:"_id" json:"id"`
	Source     string       `bson:"source" json:"source"`
	StartedAt  time.Time    `bson:"startedAt" json:"startedAt"`
	FinishedAt time.Time    `bson:"finishedAt" json:"finishedAt"`
	Total      int          `bson:"total" json:"total"`
	Created    int          `bson:"created" json:"created"`
	Skipped    int          `bson:"skipped" json:"skipped"`
	Failed     int          `bson:"failed" json:"failed"`
	Errors     []EntryError `bson:"errors,omitempty" json:"errors,omitempty"`
}

// EntryError records why one pack entry was rejected.
type EntryError struct {
	Index   int    `bson:"index" json:"index"`
	LevelID string `bson:"levelId,omitempty" json:"levelId,omitempty"`
	Error   string `bson:"error" json:"error"`
}

// RunStore persists import runs.
type RunStore interface {
	Save(ctx context.Context, r *Run) error
	// Get returns nil, nil when the run does not exist.
	Get(ctx context.Context, id string) (*Run, error)
	// Recent returns up to limit runs, newest first.
	Recent(ctx context.Context, limit int) ([]*Run, error)
}

// MongoRunStore keeps runs in the puzzle_imports collection.
type MongoRunStore struct {
	col *mongo.Collection
}

func NewMongoRunStore(col *mongo.Collection) *MongoRunStore {
	return &MongoRunStore{col: col}
}

// Save upserts the run by id.
func (m *MongoRunStore) Save(ctx context.Context, r *Run) error {
	opts := options.Update().SetUpsert(true)
	if _, err := m.col.UpdateOne(ctx, bson.M{"_id": r.ID}, bson.M{"$set": r}, opts); err != nil {
		return fmt.Errorf("save import run: %w", err)
	}
	return nil
}

func (m *MongoRunStore) Get(ctx context.Context, id string) (*Run, error) {
	var r Run
	if err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find import run: %w", err)
	}
	return &r, nil
}

func (m *MongoRunStore) Recent(ctx context.Context, limit int) ([]*Run, error) {
	opts := options.Find().SetSort(bson.D{{Key: "startedAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := m.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find import runs: %w", err)
	}
	out := []*Run{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode import runs: %w", err)
	}
	return out, nil
}

// MemoryRunStore is the in-process RunStore.
type MemoryRunStore struct {
	mu   sync.RWMutex
	runs map[string]Run
}

func NewMemoryRunStore() *MemoryRunStore {
	return &MemoryRunStore{runs: make(map[string]Run)}
}

func (m *MemoryRunStore) Save(ctx context.Context, r *Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	cp.Errors = slices.Clone(r.Errors)
	m.runs[r.ID] = cp
	return nil
}

func (m *MemoryRunStore) Get(ctx context.Context, id string) (*Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.runs[id]
	if !ok {
		return nil, nil
	}
	r.Errors = slices.Clone(r.Errors)
	return &r, nil
}

func (m *MemoryRunStore) Recent(ctx context.Context, limit int) ([]*Run, error) {
	m.mu.RLock()
	out := make([]*Run, 0, len(m.runs))
	for _, r := range m.runs {
		r.Errors = slices.Clone(r.Errors)
		out = append(out, &r)
	}
	m.mu.RUnlock()
	slices.SortFunc(out, func(a, b *Run) int { return b.StartedAt.Compare(a.StartedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
