package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cotisations/backend/pkg/models"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// BindData binds the JSON body of the request to data, which must be a pointer.
//
// Failed binding tag validations are returned wrapped in models.ErrInvalid.
func BindData(c *gin.Context, data any) error {
	if err := c.ShouldBindJSON(data); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrRequestBodyEmpty
		}

		var jsonUnmarshalTypeError *json.UnmarshalTypeError
		if errors.As(err, &jsonUnmarshalTypeError) {
			return fmt.Errorf("%w: %s", ErrInvalidBody, jsonUnmarshalTypeError.Error())
		}

		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return validationError(validationErrors)
		}

		// Arrays are validated per element
		var sliceErrors binding.SliceValidationError
		if errors.As(err, &sliceErrors) {
			var all validator.ValidationErrors
			for _, e := range sliceErrors {
				var elementErrors validator.ValidationErrors
				if errors.As(e, &elementErrors) {
					all = append(all, elementErrors...)
				}
			}

			if len(all) > 0 {
				return validationError(all)
			}
		}

		log.Error().Str("request-id", requestid.Get(c)).Msgf("%T: %v", err, err.Error())
		return ErrInvalidBody
	}

	return nil
}

// BindQuery binds the query string of the request to the filter.
func BindQuery(c *gin.Context, filter any) error {
	if err := c.ShouldBindQuery(filter); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return validationError(validationErrors)
		}

		log.Debug().Str("request-id", requestid.Get(c)).Msgf("%T: %v", err, err.Error())
		return fmt.Errorf("%w: %s", ErrInvalidQuery, err.Error())
	}

	return nil
}

func validationError(errs validator.ValidationErrors) error {
	texts := make([]string, 0, len(errs))
	for _, e := range errs {
		texts = append(texts, models.ValidationErrorToText(e))
	}

	return fmt.Errorf("%w: %s", models.ErrInvalid, strings.Join(texts, ", "))
}
