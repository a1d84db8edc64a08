// Package forms validates user input before any network call is made.
// Validation failures are reported inline to the caller; the remote service
// never sees an incomplete form.
package forms

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/user/eventify/internal/types"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Accepts any of the event wire timestamp formats.
	_ = v.RegisterValidation("eventtime", func(fl validator.FieldLevel) bool {
		_, ok := types.ParseDateTime(fl.Field().String())
		return ok
	})
	return v
}

// RegisterForm is the input to account creation.
type RegisterForm struct {
	Username string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
	PhotoURL string `validate:"omitempty,url"`
}

// LoginForm is the input to sign-in.
type LoginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// EventForm is the input to event create and update.
type EventForm struct {
	Title       string `validate:"required"`
	DateTime    string `validate:"required,eventtime"`
	Location    string `validate:"required"`
	Description string `validate:"required"`
}

// Check validates a form and returns a user-facing error for the first
// failing field, or nil.
func Check(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var ferrs validator.ValidationErrors
	if !errors.As(err, &ferrs) || len(ferrs) == 0 {
		return err
	}
	fe := ferrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", field)
	case "email":
		return fmt.Errorf("%s must be a valid email address", field)
	case "min":
		return fmt.Errorf("%s must be at least %s characters", field, fe.Param())
	case "url":
		return fmt.Errorf("%s must be a valid URL", field)
	case "eventtime":
		return fmt.Errorf("%s must be a valid date-time (e.g. 2006-01-02T15:04)", field)
	default:
		return fmt.Errorf("%s is invalid", field)
	}
}
