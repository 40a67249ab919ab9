// Package jsonfile stores every collection as one JSON document in a directory.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cotisations/backend/pkg/models"
	"github.com/cotisations/backend/pkg/store"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	NeighborsFile     = "neighbors.json"
	ContributionsFile = "contributions.json"
	PaymentsFile      = "payments.json"
)

// Store is a store.Store backed by JSON files.
type Store struct {
	dir string
}

var _ store.Store = (*Store)(nil)

// New returns a store for the directory, creating it if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("could not create data directory: %w", err)
	}

	return &Store{dir: dir}, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

// LoadAll reads the three documents concurrently.
func (s *Store) LoadAll(ctx context.Context) (models.Snapshot, error) {
	var snapshot models.Snapshot
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		snapshot.Neighbors, err = load(ctx, s.path(NeighborsFile), legacyNeighbors)
		return
	})

	g.Go(func() (err error) {
		snapshot.Contributions, err = load(ctx, s.path(ContributionsFile), legacyContributions)
		return
	})

	g.Go(func() (err error) {
		snapshot.Payments, err = load(ctx, s.path(PaymentsFile), legacyPayments)
		return
	})

	if err := g.Wait(); err != nil {
		return models.Snapshot{}, err
	}

	return snapshot, nil
}

func (s *Store) SaveNeighbors(ctx context.Context, c models.Collection[models.Neighbor]) error {
	return save(ctx, s.path(NeighborsFile), c)
}

func (s *Store) SaveContributions(ctx context.Context, c models.Collection[models.Contribution]) error {
	return save(ctx, s.path(ContributionsFile), c)
}

func (s *Store) SavePayments(ctx context.Context, c models.Collection[models.Payment]) error {
	return save(ctx, s.path(PaymentsFile), c)
}

// Ping verifies that the data directory still exists.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("data directory not accessible: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("data directory %s is not a directory", s.dir)
	}

	return nil
}

// Close is a no-op, files are closed after every operation.
func (s *Store) Close() error {
	return nil
}

// load reads one document. A missing or empty file is an empty collection,
// a bare array is parsed with the legacy decoder.
func load[T models.Record](ctx context.Context, path string, legacy func([]byte) ([]T, error)) (models.Collection[T], error) {
	if err := ctx.Err(); err != nil {
		return models.Collection[T]{}, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return models.NewCollection[T](), nil
	} else if err != nil {
		return models.Collection[T]{}, fmt.Errorf("could not read %s: %w", path, err)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return models.NewCollection[T](), nil
	}

	if data[0] == '[' {
		records, err := legacy(data)
		if err != nil {
			return models.Collection[T]{}, fmt.Errorf("could not parse legacy document %s: %w", path, err)
		}

		log.Info().Str("file", path).Int("records", len(records)).Msg("converting legacy document, it is rewritten on the next save")
		return models.NewCollection(records...), nil
	}

	var c models.Collection[T]
	if err := json.Unmarshal(data, &c); err != nil {
		return models.Collection[T]{}, fmt.Errorf("could not parse %s: %w", path, err)
	}

	// A counter behind the records would hand out IDs twice
	repaired := models.NewCollection(c.Records...)
	if c.NextID < repaired.NextID {
		log.Warn().Str("file", path).Uint64("nextId", c.NextID).Uint64("repaired", repaired.NextID).Msg("ID counter is behind the records, repairing")
		c.NextID = repaired.NextID
	}

	if c.Records == nil {
		c.Records = []T{}
	}

	return c, nil
}

// save writes the collection to a temporary file in the same directory and
// renames it over the target so that readers never see a partial document.
func save[T models.Record](ctx context.Context, path string, c models.Collection[T]) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	if c.Records == nil {
		c.Records = []T{}
	}
	c.NextID = c.NextIdentifier()

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("could not create temporary file for %s: %w", path, err)
	}

	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("could not write %s: %w", tmp.Name(), err)
	}

	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("could not sync %s: %w", tmp.Name(), err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("could not close %s: %w", tmp.Name(), err)
	}

	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("could not replace %s: %w", path, err)
	}

	return nil
}
