package utils

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

// RequestValidator wraps go-playground/validator for request DTOs.
type RequestValidator struct {
	validate *validator.Validate
}

var (
	validatorOnce sync.Once
	requestValid  *RequestValidator
)

// GetValidator returns the shared request validator.
func GetValidator() *RequestValidator {
	validatorOnce.Do(func() {
		requestValid = &RequestValidator{validate: validator.New()}
	})
	return requestValid
}

// Validate checks the struct's validate tags.
func (v *RequestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}
