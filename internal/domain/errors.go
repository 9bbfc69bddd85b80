package domain

import (
	"errors"
	"fmt"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

// ValidationError carries per-field messages so handlers can return a
// structured errors map alongside the top-level message.
type ValidationError struct {
	Field  string
	Msg    string
	Fields map[string]string
	Err    error
}

func (e ValidationError) Error() string {
	switch {
	case e.Msg != "" && e.Field != "":
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Field != "":
		return fmt.Sprintf("invalid %s", e.Field)
	case len(e.Fields) > 0:
		return "validation failed"
	default:
		return "validation error"
	}
}

func (e ValidationError) Unwrap() error { return e.Err }

// FieldMap normalizes single-field and multi-field validation errors.
func (e ValidationError) FieldMap() map[string]string {
	if len(e.Fields) > 0 {
		return e.Fields
	}
	if e.Field != "" {
		msg := e.Msg
		if msg == "" {
			msg = "invalid value"
		}
		return map[string]string{e.Field: msg}
	}
	return nil
}

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

type UnauthorizedError struct {
	Msg string
	Err error
}

func (e UnauthorizedError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "unauthorized"
}

func (e UnauthorizedError) Unwrap() error { return e.Err }

type ForbiddenError struct {
	Msg string
	Err error
}

func (e ForbiddenError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "forbidden"
}

func (e ForbiddenError) Unwrap() error { return e.Err }

// PaymentError maps to 402 when the gateway declines a charge.
type PaymentError struct {
	Msg string
	Err error
}

func (e PaymentError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "payment failed"
}

func (e PaymentError) Unwrap() error { return e.Err }

type RateLimitError struct {
	Msg string
}

func (e RateLimitError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "too many requests"
}

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsUnauthorized(err error) bool {
	var target UnauthorizedError
	return errors.As(err, &target)
}

func IsForbidden(err error) bool {
	var target ForbiddenError
	return errors.As(err, &target)
}

func IsPayment(err error) bool {
	var target PaymentError
	return errors.As(err, &target)
}

func IsRateLimit(err error) bool {
	var target RateLimitError
	return errors.As(err, &target)
}
