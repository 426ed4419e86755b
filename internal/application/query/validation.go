package query

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/alem-hub/mentorship-engine/internal/domain/shared"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateStruct runs the struct tags of q and reports the first failing
// field as an ErrValidation domain error.
func validateStruct(op string, q any) error {
	err := validate.Struct(q)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return shared.NewDomainError("query", op, shared.ErrValidation,
			strings.ToLower(fe.Field())+" failed on '"+fe.Tag()+"'")
	}
	return shared.WrapError("query", op, shared.ErrValidation, "invalid query", err)
}
