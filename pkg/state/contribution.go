package state

import (
	"context"

	"github.com/cotisations/backend/internal/types"
	"github.com/cotisations/backend/pkg/models"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ContributionPatch holds the fields of a contribution that are changed. Nil fields are kept.
//
// Changing the amount does not change the amount due that existing payments recorded.
type ContributionPatch struct {
	Title         *string                  `json:"title"`
	AmountPerUnit *decimal.Decimal         `json:"amountPerUnit"`
	Kind          *models.ContributionKind `json:"kind"`
	Description   *string                  `json:"description"`
	EffectiveDate *types.Date              `json:"effectiveDate"`
}

func (s *State) Contributions() models.Collection[models.Contribution] {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.data.Contributions
}

func (s *State) Contribution(id uint64) (models.Contribution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.data.Contributions.Find(id)
	if !ok {
		return models.Contribution{}, models.ErrContributionNotFound
	}
	return c, nil
}

// CreateContribution adds a contribution that every neighbor owes.
func (s *State) CreateContribution(ctx context.Context, c models.Contribution) (models.Contribution, models.Collection[models.Contribution], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c = c.Normalize()
	c.ID = s.data.Contributions.NextIdentifier()
	c.CreatedAt = now()
	if c.EffectiveDate.IsZero() {
		c.EffectiveDate = types.Today()
	}

	if err := c.Validate(); err != nil {
		return models.Contribution{}, s.data.Contributions, err
	}

	updated := s.data.Contributions.With(c)
	if err := s.store.SaveContributions(ctx, updated); err != nil {
		return models.Contribution{}, s.data.Contributions, saveError(err)
	}

	s.data.Contributions = updated
	log.Info().Str("collection", "contributions").Uint64("id", c.ID).Str("amount", c.AmountPerUnit.String()).Msg("created")

	return c, updated, nil
}

func (s *State) UpdateContribution(ctx context.Context, id uint64, patch ContributionPatch) (models.Contribution, models.Collection[models.Contribution], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.data.Contributions.Find(id)
	if !ok {
		return models.Contribution{}, s.data.Contributions, models.ErrContributionNotFound
	}

	if patch.Title != nil {
		c.Title = *patch.Title
	}

	if patch.AmountPerUnit != nil {
		c.AmountPerUnit = *patch.AmountPerUnit
	}

	if patch.Kind != nil {
		c.Kind = *patch.Kind
	}

	if patch.Description != nil {
		c.Description = *patch.Description
	}

	if patch.EffectiveDate != nil && !patch.EffectiveDate.IsZero() {
		c.EffectiveDate = *patch.EffectiveDate
	}

	c = c.Normalize()
	if err := c.Validate(); err != nil {
		return models.Contribution{}, s.data.Contributions, err
	}

	updated, _ := s.data.Contributions.Replace(c)
	if err := s.store.SaveContributions(ctx, updated); err != nil {
		return models.Contribution{}, s.data.Contributions, saveError(err)
	}

	s.data.Contributions = updated
	log.Info().Str("collection", "contributions").Uint64("id", c.ID).Msg("updated")

	return c, updated, nil
}

// DeleteContribution deletes a contribution. Its payments are handled according to the delete policy.
func (s *State) DeleteContribution(ctx context.Context, id uint64) (models.Collection[models.Contribution], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data.Contributions.Find(id); !ok {
		return s.data.Contributions, models.ErrContributionNotFound
	}

	payments, removed, err := s.paymentsWithout(func(p models.Payment) bool { return p.ContributionID == id })
	if err != nil {
		return s.data.Contributions, err
	}

	updated, _ := s.data.Contributions.Without(func(c models.Contribution) bool { return c.ID == id })
	err = s.saveCascade(ctx, payments, removed, func() error { return s.store.SaveContributions(ctx, updated) })
	if err != nil {
		return s.data.Contributions, err
	}

	s.data.Contributions = updated
	log.Info().Str("collection", "contributions").Uint64("id", id).Msg("deleted")

	return updated, nil
}
