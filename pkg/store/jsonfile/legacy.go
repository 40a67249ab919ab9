package jsonfile

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cotisations/backend/internal/types"
	"github.com/cotisations/backend/pkg/models"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Documents written before the nextId counter existed are bare arrays with French keys.

const legacyTimestampLayout = "2006-01-02 15:04"

type legacyNeighbor struct {
	ID        uint64 `json:"id"`
	Floor     int    `json:"etage"`
	Unit      string `json:"numero_appt"`
	Name      string `json:"nom"`
	DateAdded string `json:"date_ajout"`
}

type legacyContribution struct {
	ID            uint64          `json:"id"`
	Title         string          `json:"titre"`
	AmountPerUnit decimal.Decimal `json:"montant"`
	Kind          string          `json:"type"`
	Description   string          `json:"description"`
	Date          string          `json:"date"`
	CreatedAt     string          `json:"date_creation"`
}

type legacyPayment struct {
	ID             uint64          `json:"id"`
	NeighborID     uint64          `json:"voisin_id"`
	ContributionID uint64          `json:"cotisation_id"`
	AmountPaid     decimal.Decimal `json:"montant_paye"`
	AmountDue      decimal.Decimal `json:"montant_du"`
	PaymentDate    string          `json:"date_paiement"`
	Method         string          `json:"mode_paiement"`
	Note           string          `json:"note"`
	RecordedAt     string          `json:"date_enregistrement"`
}

func legacyNeighbors(data []byte) ([]models.Neighbor, error) {
	var legacy []legacyNeighbor
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, err
	}

	ids := uniqueIDs("neighbors", legacy, func(l legacyNeighbor) uint64 { return l.ID })

	neighbors := make([]models.Neighbor, 0, len(legacy))
	for i, l := range legacy {
		date, err := legacyDate(l.DateAdded)
		if err != nil {
			return nil, fmt.Errorf("neighbor %d: %w", l.ID, err)
		}

		neighbors = append(neighbors, models.Neighbor{
			ID:        ids[i],
			Floor:     l.Floor,
			Unit:      l.Unit,
			Name:      l.Name,
			DateAdded: date,
		}.Normalize())
	}

	return neighbors, nil
}

func legacyContributions(data []byte) ([]models.Contribution, error) {
	var legacy []legacyContribution
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, err
	}

	ids := uniqueIDs("contributions", legacy, func(l legacyContribution) uint64 { return l.ID })

	contributions := make([]models.Contribution, 0, len(legacy))
	for i, l := range legacy {
		date, err := legacyDate(l.Date)
		if err != nil {
			return nil, fmt.Errorf("contribution %d: %w", l.ID, err)
		}

		createdAt, err := legacyTimestamp(l.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("contribution %d: %w", l.ID, err)
		}

		contributions = append(contributions, models.Contribution{
			ID:            ids[i],
			Title:         l.Title,
			AmountPerUnit: l.AmountPerUnit,
			Kind:          legacyKind(l.Kind),
			Description:   l.Description,
			EffectiveDate: date,
			CreatedAt:     createdAt,
		}.Normalize())
	}

	return contributions, nil
}

func legacyPayments(data []byte) ([]models.Payment, error) {
	var legacy []legacyPayment
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, err
	}

	ids := uniqueIDs("payments", legacy, func(l legacyPayment) uint64 { return l.ID })

	payments := make([]models.Payment, 0, len(legacy))
	for i, l := range legacy {
		date, err := legacyDate(l.PaymentDate)
		if err != nil {
			return nil, fmt.Errorf("payment %d: %w", l.ID, err)
		}

		recordedAt, err := legacyTimestamp(l.RecordedAt)
		if err != nil {
			return nil, fmt.Errorf("payment %d: %w", l.ID, err)
		}

		payments = append(payments, models.Payment{
			ID:             ids[i],
			NeighborID:     l.NeighborID,
			ContributionID: l.ContributionID,
			AmountPaid:     l.AmountPaid,
			AmountDue:      l.AmountDue,
			PaymentDate:    date,
			Method:         legacyMethod(l.Method),
			Note:           l.Note,
			RecordedAt:     recordedAt,
		}.Normalize())
	}

	return payments, nil
}

// uniqueIDs returns the record IDs with every repeated ID replaced by a new
// one past the highest ID. The first record with an ID keeps it, so references
// to a repeated ID resolve to that record.
func uniqueIDs[T any](collection string, records []T, id func(T) uint64) []uint64 {
	var highest uint64
	for _, r := range records {
		highest = max(highest, id(r))
	}

	ids := make([]uint64, len(records))
	seen := make(map[uint64]bool, len(records))
	for i, r := range records {
		ids[i] = id(r)
		if !seen[ids[i]] {
			seen[ids[i]] = true
			continue
		}

		highest++
		log.Warn().Str("collection", collection).Uint64("id", ids[i]).Uint64("new", highest).Msg("duplicate id in legacy document, assigning a new one")
		ids[i] = highest
		seen[highest] = true
	}

	return ids
}

func legacyDate(s string) (types.Date, error) {
	if strings.TrimSpace(s) == "" {
		return types.Date{}, nil
	}
	return types.ParseDate(s)
}

func legacyTimestamp(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, nil
	}

	t, err := time.ParseInLocation(legacyTimestampLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}

func legacyKind(s string) models.ContributionKind {
	if strings.EqualFold(strings.TrimSpace(s), "service") {
		return models.KindService
	}
	return models.KindPurchase
}

func legacyMethod(s string) models.PaymentMethod {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "virement":
		return models.MethodTransfer
	case "chèque", "cheque":
		return models.MethodCheck
	default:
		return models.MethodCash
	}
}
