package handler

import (
    "net/http"

    "github.com/go-playground/validator/v10"
    "github.com/labstack/echo/v4"
)

// RequestValidator adapts go-playground/validator to Echo's Validator
// interface so handlers can call c.Validate on bound request structs.
type RequestValidator struct {
    v *validator.Validate
}

// NewRequestValidator returns a validator using struct tag rules.
func NewRequestValidator() *RequestValidator {
    return &RequestValidator{v: validator.New()}
}

// Validate implements echo.Validator.  Failures surface as 422 so clients
// can tell malformed JSON (400) apart from rule violations.
func (rv *RequestValidator) Validate(i interface{}) error {
    if err := rv.v.Struct(i); err != nil {
        return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
    }
    return nil
}
