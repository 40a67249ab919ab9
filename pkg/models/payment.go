package models

import (
	"time"

	"github.com/cotisations/backend/internal/types"
	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	MethodCash     PaymentMethod = "cash"
	MethodTransfer PaymentMethod = "transfer"
	MethodCheck    PaymentMethod = "check"
)

// Payment is money a neighbor paid towards one contribution.
//
// AmountDue is the contribution's amount per unit at the time the payment
// was recorded. It is kept for reference only and never updated.
type Payment struct {
	ID             uint64          `json:"id" gorm:"primaryKey;autoIncrement:false"`
	NeighborID     uint64          `json:"neighborId" gorm:"index"`
	ContributionID uint64          `json:"contributionId" gorm:"index"`
	AmountPaid     decimal.Decimal `json:"amountPaid" gorm:"type:DECIMAL(20,8)" validate:"nonnegative"`
	AmountDue      decimal.Decimal `json:"amountDue" gorm:"type:DECIMAL(20,8)"`
	PaymentDate    types.Date      `json:"paymentDate"`
	Method         PaymentMethod   `json:"method" validate:"oneof=cash transfer check"`
	Note           string          `json:"note"`
	RecordedAt     time.Time       `json:"recordedAt"`
}

func (p Payment) Identifier() uint64 {
	return p.ID
}

// Normalize trims the note and defaults the method to cash.
func (p Payment) Normalize() Payment {
	p.Note = normalize(p.Note)

	if p.Method == "" {
		p.Method = MethodCash
	}

	return p
}

// Validate verifies the fields of the payment. A zero amount passes, the
// check for a positive amount on creation is up to the caller.
func (p Payment) Validate() error {
	return validateStruct(p, map[string]error{
		"AmountPaid": ErrPaymentAmountNegative,
		"Method":     ErrInvalidMethod,
	})
}
