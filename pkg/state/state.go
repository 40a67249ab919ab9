// Package state holds the application state: the collections currently in
// use and the store they are persisted to.
//
// All methods of State are serialized, every action runs to completion
// before the next one starts. Mutations validate their input, persist the
// changed collection and return it. If persisting fails, the in-memory state
// is left unchanged and the error wraps ErrSave.
package state

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cotisations/backend/pkg/ledger"
	"github.com/cotisations/backend/pkg/models"
	"github.com/cotisations/backend/pkg/store"
	"github.com/rs/zerolog/log"
)

var (
	ErrSave                = errors.New("the changes could not be saved")
	ErrUnknownDeletePolicy = errors.New("unknown delete policy")
)

// DeletePolicy defines what happens to payments when the neighbor or
// contribution they reference is deleted.
type DeletePolicy string

const (
	// DeleteBlock refuses to delete referenced neighbors and contributions.
	DeleteBlock DeletePolicy = "block"

	// DeleteCascade deletes the referencing payments, too.
	DeleteCascade DeletePolicy = "cascade"
)

// ParseDeletePolicy returns the policy for its name.
func ParseDeletePolicy(s string) (DeletePolicy, error) {
	switch p := DeletePolicy(s); p {
	case DeleteBlock, DeleteCascade:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDeletePolicy, s)
}

type Options struct {
	DeletePolicy    DeletePolicy
	LeaderboardSize int
}

type State struct {
	mu              sync.Mutex
	store           store.Store
	data            models.Snapshot
	policy          DeletePolicy
	leaderboardSize int
}

// New loads all collections from the store.
func New(ctx context.Context, s store.Store, opts Options) (*State, error) {
	data, err := s.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not load data: %w", err)
	}

	if opts.DeletePolicy == "" {
		opts.DeletePolicy = DeleteBlock
	}

	if opts.LeaderboardSize <= 0 {
		opts.LeaderboardSize = ledger.DefaultLeaderboardSize
	}

	l := ledger.FromSnapshot(data)
	if l.Orphans() > 0 {
		log.Warn().Int("payments", l.Orphans()).Msg("payments reference missing neighbors or contributions, they are ignored in reports")
	}

	log.Info().
		Int("neighbors", data.Neighbors.Len()).
		Int("contributions", data.Contributions.Len()).
		Int("payments", data.Payments.Len()).
		Str("deletePolicy", string(opts.DeletePolicy)).
		Msg("data loaded")

	return &State{
		store:           s,
		data:            data,
		policy:          opts.DeletePolicy,
		leaderboardSize: opts.LeaderboardSize,
	}, nil
}

// DeletePolicy returns the configured delete policy.
func (s *State) DeletePolicy() DeletePolicy {
	return s.policy
}

// LeaderboardSize returns the configured default size of the leaderboard.
func (s *State) LeaderboardSize() int {
	return s.leaderboardSize
}

// Ledger returns a ledger over the current collections.
func (s *State) Ledger() ledger.Ledger {
	s.mu.Lock()
	defer s.mu.Unlock()

	return ledger.FromSnapshot(s.data)
}

// Snapshot returns the current collections.
func (s *State) Snapshot() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.data
}

// Ping verifies that the store is reachable.
func (s *State) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.Ping(ctx)
}

func saveError(err error) error {
	log.Error().Err(err).Msg("saving failed")
	return fmt.Errorf("%w: %w", ErrSave, err)
}

func now() time.Time {
	return time.Now().Truncate(time.Second)
}
