// Package store defines how the three collections of the ledger are persisted.
//
// Every save overwrites the complete collection including its ID counter.
package store

import (
	"context"
	"errors"

	"github.com/cotisations/backend/pkg/models"
)

type Backend string

const (
	BackendJSON   Backend = "json"
	BackendSQLite Backend = "sqlite"
)

var ErrUnknownBackend = errors.New("unknown storage backend")

// Store loads and saves the collections.
type Store interface {
	// LoadAll reads all collections. Collections that have never been
	// saved are returned empty.
	LoadAll(ctx context.Context) (models.Snapshot, error)
	SaveNeighbors(ctx context.Context, c models.Collection[models.Neighbor]) error
	SaveContributions(ctx context.Context, c models.Collection[models.Contribution]) error
	SavePayments(ctx context.Context, c models.Collection[models.Payment]) error

	// Ping verifies that the storage is reachable.
	Ping(ctx context.Context) error
	Close() error
}
