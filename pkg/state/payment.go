package state

import (
	"context"

	"github.com/cotisations/backend/internal/types"
	"github.com/cotisations/backend/pkg/models"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// PaymentPatch holds the fields of a payment that are changed. Nil fields are kept.
type PaymentPatch struct {
	AmountPaid  *decimal.Decimal      `json:"amountPaid"`
	PaymentDate *types.Date           `json:"paymentDate"`
	Method      *models.PaymentMethod `json:"method"`
	Note        *string               `json:"note"`
}

func (s *State) Payments() models.Collection[models.Payment] {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.data.Payments
}

func (s *State) Payment(id uint64) (models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.data.Payments.Find(id)
	if !ok {
		return models.Payment{}, models.ErrPaymentNotFound
	}
	return p, nil
}

// CreatePayment records a payment of a neighbor for a contribution.
//
// The neighbor and the contribution must exist and the amount must be
// positive. The amount due is set to the current amount of the contribution.
func (s *State) CreatePayment(ctx context.Context, p models.Payment) (models.Payment, models.Collection[models.Payment], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data.Neighbors.Find(p.NeighborID); !ok {
		return models.Payment{}, s.data.Payments, models.ErrNeighborNotFound
	}

	contribution, ok := s.data.Contributions.Find(p.ContributionID)
	if !ok {
		return models.Payment{}, s.data.Payments, models.ErrContributionNotFound
	}

	if !p.AmountPaid.IsPositive() {
		return models.Payment{}, s.data.Payments, models.ErrPaymentAmountNotPositive
	}

	p = p.Normalize()
	p.ID = s.data.Payments.NextIdentifier()
	p.AmountDue = contribution.AmountPerUnit
	p.RecordedAt = now()
	if p.PaymentDate.IsZero() {
		p.PaymentDate = types.Today()
	}

	if err := p.Validate(); err != nil {
		return models.Payment{}, s.data.Payments, err
	}

	updated := s.data.Payments.With(p)
	if err := s.store.SavePayments(ctx, updated); err != nil {
		return models.Payment{}, s.data.Payments, saveError(err)
	}

	s.data.Payments = updated
	log.Info().
		Str("collection", "payments").
		Uint64("id", p.ID).
		Uint64("neighbor", p.NeighborID).
		Uint64("contribution", p.ContributionID).
		Str("amount", p.AmountPaid.String()).
		Msg("created")

	return p, updated, nil
}

// UpdatePayment changes amount, date, method or note of a payment. The amount due is never changed.
func (s *State) UpdatePayment(ctx context.Context, id uint64, patch PaymentPatch) (models.Payment, models.Collection[models.Payment], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.data.Payments.Find(id)
	if !ok {
		return models.Payment{}, s.data.Payments, models.ErrPaymentNotFound
	}

	if patch.AmountPaid != nil {
		p.AmountPaid = *patch.AmountPaid
	}

	if patch.PaymentDate != nil && !patch.PaymentDate.IsZero() {
		p.PaymentDate = *patch.PaymentDate
	}

	if patch.Method != nil {
		p.Method = *patch.Method
	}

	if patch.Note != nil {
		p.Note = *patch.Note
	}

	p = p.Normalize()
	if err := p.Validate(); err != nil {
		return models.Payment{}, s.data.Payments, err
	}

	updated, _ := s.data.Payments.Replace(p)
	if err := s.store.SavePayments(ctx, updated); err != nil {
		return models.Payment{}, s.data.Payments, saveError(err)
	}

	s.data.Payments = updated
	log.Info().Str("collection", "payments").Uint64("id", p.ID).Msg("updated")

	return p, updated, nil
}

func (s *State) DeletePayment(ctx context.Context, id uint64) (models.Collection[models.Payment], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data.Payments.Find(id); !ok {
		return s.data.Payments, models.ErrPaymentNotFound
	}

	updated, _ := s.data.Payments.Without(func(p models.Payment) bool { return p.ID == id })
	if err := s.store.SavePayments(ctx, updated); err != nil {
		return s.data.Payments, saveError(err)
	}

	s.data.Payments = updated
	log.Info().Str("collection", "payments").Uint64("id", id).Msg("deleted")

	return updated, nil
}
