package state

import (
	"context"

	"github.com/cotisations/backend/internal/types"
	"github.com/cotisations/backend/pkg/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

// NeighborPatch holds the fields of a neighbor that are changed. Nil fields are kept.
type NeighborPatch struct {
	Floor *int    `json:"floor"`
	Unit  *string `json:"unit"`
	Name  *string `json:"name"`
}

// Neighbors returns all neighbors.
func (s *State) Neighbors() models.Collection[models.Neighbor] {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.data.Neighbors
}

// Neighbor returns the neighbor with the ID.
func (s *State) Neighbor(id uint64) (models.Neighbor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.data.Neighbors.Find(id)
	if !ok {
		return models.Neighbor{}, models.ErrNeighborNotFound
	}
	return n, nil
}

// checkUnique verifies that no other neighbor has the same floor and unit.
func (s *State) checkUnique(n models.Neighbor) error {
	if slices.ContainsFunc(s.data.Neighbors.Records, func(o models.Neighbor) bool {
		return o.ID != n.ID && o.SameUnit(n)
	}) {
		return models.ErrNeighborNotUnique
	}
	return nil
}

// CreateNeighbor adds a neighbor. The ID is assigned, a missing name and date are set to their defaults.
func (s *State) CreateNeighbor(ctx context.Context, n models.Neighbor) (models.Neighbor, models.Collection[models.Neighbor], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n = n.Normalize()
	n.ID = s.data.Neighbors.NextIdentifier()
	if n.DateAdded.IsZero() {
		n.DateAdded = types.Today()
	}

	if err := n.Validate(); err != nil {
		return models.Neighbor{}, s.data.Neighbors, err
	}

	if err := s.checkUnique(n); err != nil {
		return models.Neighbor{}, s.data.Neighbors, err
	}

	updated := s.data.Neighbors.With(n)
	if err := s.store.SaveNeighbors(ctx, updated); err != nil {
		return models.Neighbor{}, s.data.Neighbors, saveError(err)
	}

	s.data.Neighbors = updated
	log.Info().Str("collection", "neighbors").Uint64("id", n.ID).Msg("created")

	return n, updated, nil
}

// UpdateNeighbor changes floor, unit or name of a neighbor.
func (s *State) UpdateNeighbor(ctx context.Context, id uint64, patch NeighborPatch) (models.Neighbor, models.Collection[models.Neighbor], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.data.Neighbors.Find(id)
	if !ok {
		return models.Neighbor{}, s.data.Neighbors, models.ErrNeighborNotFound
	}

	if patch.Floor != nil {
		n.Floor = *patch.Floor
	}

	if patch.Unit != nil {
		n.Unit = *patch.Unit
	}

	if patch.Name != nil {
		n.Name = *patch.Name
	}

	n = n.Normalize()
	if err := n.Validate(); err != nil {
		return models.Neighbor{}, s.data.Neighbors, err
	}

	if err := s.checkUnique(n); err != nil {
		return models.Neighbor{}, s.data.Neighbors, err
	}

	updated, _ := s.data.Neighbors.Replace(n)
	if err := s.store.SaveNeighbors(ctx, updated); err != nil {
		return models.Neighbor{}, s.data.Neighbors, saveError(err)
	}

	s.data.Neighbors = updated
	log.Info().Str("collection", "neighbors").Uint64("id", n.ID).Msg("updated")

	return n, updated, nil
}

// DeleteNeighbor deletes a neighbor. Its payments are handled according to the delete policy.
func (s *State) DeleteNeighbor(ctx context.Context, id uint64) (models.Collection[models.Neighbor], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data.Neighbors.Find(id); !ok {
		return s.data.Neighbors, models.ErrNeighborNotFound
	}

	payments, removed, err := s.paymentsWithout(func(p models.Payment) bool { return p.NeighborID == id })
	if err != nil {
		return s.data.Neighbors, err
	}

	updated, _ := s.data.Neighbors.Without(func(n models.Neighbor) bool { return n.ID == id })
	err = s.saveCascade(ctx, payments, removed, func() error { return s.store.SaveNeighbors(ctx, updated) })
	if err != nil {
		return s.data.Neighbors, err
	}

	s.data.Neighbors = updated
	log.Info().Str("collection", "neighbors").Uint64("id", id).Msg("deleted")

	return updated, nil
}

// paymentsWithout applies the delete policy to the payments matching del and
// returns the payments that are kept.
//
// With DeleteBlock, ErrReferenced is returned if any payment matches.
func (s *State) paymentsWithout(del func(models.Payment) bool) (models.Collection[models.Payment], int, error) {
	if !slices.ContainsFunc(s.data.Payments.Records, del) {
		return s.data.Payments, 0, nil
	}

	if s.policy != DeleteCascade {
		return s.data.Payments, 0, models.ErrReferenced
	}

	payments, removed := s.data.Payments.Without(del)
	return payments, removed, nil
}

// saveCascade persists the payments left by a delete, then the parent
// collection with saveParent. If the parent cannot be saved, the previous
// payments are written back and the in-memory payments are not changed.
func (s *State) saveCascade(ctx context.Context, payments models.Collection[models.Payment], removed int, saveParent func() error) error {
	if removed > 0 {
		if err := s.store.SavePayments(ctx, payments); err != nil {
			return saveError(err)
		}
	}

	if err := saveParent(); err != nil {
		if removed > 0 {
			if rerr := s.store.SavePayments(ctx, s.data.Payments); rerr != nil {
				log.Error().Err(rerr).Str("collection", "payments").Msg("could not restore payments after failed delete")
			}
		}
		return saveError(err)
	}

	if removed > 0 {
		s.data.Payments = payments
		log.Info().Str("collection", "payments").Int("count", removed).Msg("deleted with referenced resource")
	}

	return nil
}
