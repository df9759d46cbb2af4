package imports

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/puzzles"
	"github.com/joyjuncture/joyjuncture/backend/go-services/pkg/logger"
)

var (
	// ErrNoObjectStore is returned by object operations when no object storage is configured.
	ErrNoObjectStore = errors.New("object storage is not configured")
	ErrRunNotFound   = errors.New("import run not found")
)

// ExportURLTTL is how long an export download link stays valid.
const ExportURLTTL = 15 * time.Minute

// Catalog is the part of the puzzle service the importer drives.
type Catalog interface {
	Create(ctx context.Context, p *puzzles.Puzzle) (*puzzles.Puzzle, error)
	List(ctx context.Context) ([]*puzzles.Puzzle, error)
}

// ObjectStore is satisfied by storage.MinIOStorage.
type ObjectStore interface {
	UploadFile(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	DownloadFile(ctx context.Context, key string) (io.ReadCloser, error)
	GetPresignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

// Importer loads puzzle packs into the catalog and exports the catalog as a pack.
type Importer struct {
	catalog Catalog
	runs    RunStore
	objects ObjectStore
	now     func() time.Time
}

// NewImporter builds an importer. objects may be nil; object operations then fail with
// ErrNoObjectStore.
func NewImporter(catalog Catalog, runs RunStore, objects ObjectStore) *Importer {
	return &Importer{
		catalog: catalog,
		runs:    runs,
		objects: objects,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// HasObjectStore reports whether object import/export is available.
func (i *Importer) HasObjectStore() bool { return i.objects != nil }

// Import creates every valid entry of the pack. Entries whose id already exists are skipped;
// invalid entries are counted and described in the run record. A store failure aborts the run.
func (i *Importer) Import(ctx context.Context, source string, pack *Pack) (*Run, error) {
	run := &Run{
		ID:        uuid.NewString(),
		Source:    source,
		StartedAt: i.now(),
		Total:     len(pack.Puzzles),
	}
	for idx, e := range pack.Puzzles {
		_, err := i.catalog.Create(ctx, e.puzzle())
		switch {
		case err == nil:
			run.Created++
		case errors.Is(err, puzzles.ErrAlreadyExists):
			run.Skipped++
		case errors.Is(err, puzzles.ErrInvalidDifficulty),
			errors.Is(err, puzzles.ErrInvalidGrid),
			errors.Is(err, puzzles.ErrInvalidPuzzle):
			run.Failed++
			run.Errors = append(run.Errors, EntryError{Index: idx, LevelID: e.LevelID, Error: err.Error()})
		default:
			return nil, fmt.Errorf("import entry %d: %w", idx, err)
		}
	}
	run.FinishedAt = i.now()
	if err := i.runs.Save(ctx, run); err != nil {
		return nil, err
	}
	logger.Infof("imports: run %s from %s: total=%d created=%d skipped=%d failed=%d",
		run.ID, source, run.Total, run.Created, run.Skipped, run.Failed)
	return run, nil
}

// ImportFile imports a pack from the local filesystem.
func (i *Importer) ImportFile(ctx context.Context, path string) (*Run, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	pack, err := ParsePack(f)
	if err != nil {
		return nil, err
	}
	return i.Import(ctx, "file:"+path, pack)
}

// ImportObject imports a pack stored under key in the object store.
func (i *Importer) ImportObject(ctx context.Context, key string) (*Run, error) {
	if i.objects == nil {
		return nil, ErrNoObjectStore
	}
	rc, err := i.objects.DownloadFile(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", key, err)
	}
	defer rc.Close()
	pack, err := ParsePack(rc)
	if err != nil {
		return nil, err
	}
	return i.Import(ctx, "object:"+key, pack)
}

// ExportResult locates an exported pack.
type ExportResult struct {
	Key   string `json:"key"`
	URL   string `json:"url"`
	Count int    `json:"count"`
}

// Export uploads the whole catalog as a pack and returns a presigned download link.
func (i *Importer) Export(ctx context.Context) (*ExportResult, error) {
	if i.objects == nil {
		return nil, ErrNoObjectStore
	}
	list, err := i.catalog.List(ctx)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(Snapshot(list))
	if err != nil {
		return nil, fmt.Errorf("encode pack: %w", err)
	}
	key := fmt.Sprintf("exports/puzzles-%s.json", i.now().Format("20060102T150405Z"))
	if err := i.objects.UploadFile(ctx, key, bytes.NewReader(data), int64(len(data)), "application/json"); err != nil {
		return nil, fmt.Errorf("upload %s: %w", key, err)
	}
	url, err := i.objects.GetPresignedURL(ctx, key, ExportURLTTL)
	if err != nil {
		return nil, fmt.Errorf("presign %s: %w", key, err)
	}
	return &ExportResult{Key: key, URL: url, Count: len(list)}, nil
}

// Run returns one import run by id.
func (i *Importer) Run(ctx context.Context, id string) (*Run, error) {
	r, err := i.runs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return r, nil
}

// Runs returns the most recent import runs.
func (i *Importer) Runs(ctx context.Context, limit int) ([]*Run, error) {
	return i.runs.Recent(ctx, limit)
}
