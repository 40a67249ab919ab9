package models

import (
	"time"

	"github.com/cotisations/backend/internal/types"
	"github.com/shopspring/decimal"
)

type ContributionKind string

const (
	KindPurchase ContributionKind = "purchase"
	KindService  ContributionKind = "service"
)

// Contribution is a charge owed by every neighbor with the same amount.
type Contribution struct {
	ID            uint64           `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Title         string           `json:"title" validate:"required"`
	AmountPerUnit decimal.Decimal  `json:"amountPerUnit" gorm:"type:DECIMAL(20,8)" validate:"positive"`
	Kind          ContributionKind `json:"kind" validate:"oneof=purchase service"`
	Description   string           `json:"description"`
	EffectiveDate types.Date       `json:"effectiveDate"`
	CreatedAt     time.Time        `json:"createdAt"`
}

func (c Contribution) Identifier() uint64 {
	return c.ID
}

// Normalize trims the strings and defaults the kind to purchase.
func (c Contribution) Normalize() Contribution {
	c.Title = normalize(c.Title)
	c.Description = normalize(c.Description)

	if c.Kind == "" {
		c.Kind = KindPurchase
	}

	return c
}

func (c Contribution) Validate() error {
	return validateStruct(c, map[string]error{
		"Title":         ErrTitleRequired,
		"AmountPerUnit": ErrAmountNotPositive,
		"Kind":          ErrInvalidKind,
	})
}
