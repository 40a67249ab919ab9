package httputil

import (
	"errors"

	"golang.org/x/exp/slices"
)

var (
	ErrInvalidBody      = errors.New("the body of your request contains invalid or un-parseable data. Please check and try again")
	ErrRequestBodyEmpty = errors.New("the request body must not be empty")
	ErrInvalidID        = errors.New("the specified resource ID is not a valid ID")
	ErrInvalidQuery     = errors.New("the query string of your request contains invalid values")
)

// requestErrors are caused by the request itself, not by the resources it refers to.
var requestErrors = []error{ErrInvalidBody, ErrRequestBodyEmpty, ErrInvalidID, ErrInvalidQuery}

// IsRequestError reports whether err wraps one of the errors for malformed requests.
func IsRequestError(err error) bool {
	return slices.ContainsFunc(requestErrors, func(target error) bool {
		return errors.Is(err, target)
	})
}

// HTTPError is the body of responses that only carry an error.
type HTTPError struct {
	Error string `json:"error" example:"An ID specified in the query string was not a valid ID"`
}
