package auth

import (
	"errors"

	"github.com/heartmarshall/microblog-backend/internal/domain"
)

// RegisterInput holds parameters for the register operation.
type RegisterInput struct {
	Email      string
	ScreenName string
	Password   string
}

// Validate validates the register input. Email and screen name are
// expected to be normalized before this is called.
func (i RegisterInput) Validate() error {
	var errs []domain.FieldError

	errs = appendFieldErrors(errs, domain.ValidateEmail(i.Email))
	errs = appendFieldErrors(errs, domain.ValidateScreenName(i.ScreenName))
	errs = appendFieldErrors(errs, domain.ValidatePassword(i.Password))

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// LoginInput holds parameters for the login operation.
type LoginInput struct {
	Email    string
	Password string
}

// Validate validates the login input.
func (i LoginInput) Validate() error {
	var errs []domain.FieldError

	if i.Email == "" {
		errs = append(errs, domain.FieldError{Field: "email", Message: "required"})
	}
	if i.Password == "" {
		errs = append(errs, domain.FieldError{Field: "password", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// RefreshInput holds parameters for the token refresh operation.
type RefreshInput struct {
	RefreshToken string
}

// Validate validates the refresh input.
func (i RefreshInput) Validate() error {
	var errs []domain.FieldError

	if i.RefreshToken == "" {
		errs = append(errs, domain.FieldError{Field: "refresh_token", Message: "required"})
	} else if len(i.RefreshToken) > 512 {
		errs = append(errs, domain.FieldError{Field: "refresh_token", Message: "too long"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// appendFieldErrors flattens a domain validation error into the field list.
func appendFieldErrors(errs []domain.FieldError, err error) []domain.FieldError {
	if err == nil {
		return errs
	}
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		return append(errs, vErr.Errors...)
	}
	return append(errs, domain.FieldError{Field: "", Message: err.Error()})
}
