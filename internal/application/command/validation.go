// Package command contains write operations (CQRS - Commands).
package command

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/alem-hub/mentorship-engine/internal/domain/shared"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateStruct runs the struct tags of cmd and reports the first failing
// field as an ErrValidation domain error.
func validateStruct(op string, cmd any) error {
	err := validate.Struct(cmd)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return shared.NewDomainError("command", op, shared.ErrValidation,
			strings.ToLower(fe.Field())+" failed on '"+fe.Tag()+"'")
	}
	return shared.WrapError("command", op, shared.ErrValidation, "invalid command", err)
}
