package models

import (
	"errors"
	"fmt"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")
	ErrInvalid          = errors.New("the data you sent is not valid")
	ErrReferenced       = errors.New("the resource is still referenced by payments")
)

var (
	ErrNeighborNotFound     = fmt.Errorf("%w neighbor matching your query", ErrResourceNotFound)
	ErrContributionNotFound = fmt.Errorf("%w contribution matching your query", ErrResourceNotFound)
	ErrPaymentNotFound      = fmt.Errorf("%w payment matching your query", ErrResourceNotFound)
)

// Neighbor errors
var (
	ErrUnitRequired      = fmt.Errorf("%w: the unit number is required", ErrInvalid)
	ErrFloorNegative     = fmt.Errorf("%w: the floor must not be negative", ErrInvalid)
	ErrNeighborNotUnique = fmt.Errorf("%w: this unit already exists on this floor", ErrInvalid)
)

// Contribution errors
var (
	ErrTitleRequired     = fmt.Errorf("%w: the title is required", ErrInvalid)
	ErrAmountNotPositive = fmt.Errorf("%w: the amount per unit must be larger than zero", ErrInvalid)
	ErrInvalidKind       = fmt.Errorf("%w: the kind must be one of 'purchase', 'service'", ErrInvalid)
)

// Payment errors
var (
	ErrPaymentAmountNotPositive = fmt.Errorf("%w: the amount paid must be larger than zero", ErrInvalid)
	ErrPaymentAmountNegative    = fmt.Errorf("%w: the amount paid must not be negative", ErrInvalid)
	ErrInvalidMethod            = fmt.Errorf("%w: the method must be one of 'cash', 'transfer', 'check'", ErrInvalid)
)
