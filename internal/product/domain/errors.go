package domain

import (
	"errors"
	"fmt"
)

// JSON names of the product fields, used in FieldError.
const (
	FieldID         = "id"
	FieldCategoryID = "category_id"
	FieldName       = "product_name"
	FieldStock      = "product_stock"
	FieldPrice      = "product_price"
)

var (
	// ErrInvalidProduct matches every FieldError.
	ErrInvalidProduct = errors.New("invalid product")

	ErrRequired   = errors.New("is required")
	ErrNegative   = errors.New("must not be negative")
	ErrTooPrecise = errors.New("must have at most 2 decimal places")
	ErrTooLarge   = errors.New("must be less than 10000000000")
)

// FieldError reports why one field of a product was rejected.
type FieldError struct {
	Field string
	Value any
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

func (e *FieldError) Is(target error) bool { return target == ErrInvalidProduct }

// FieldErrors flattens err (including errors.Join trees) into its field errors.
func FieldErrors(err error) []*FieldError {
	var out []*FieldError
	var walk func(error)
	walk = func(e error) {
		if e == nil {
			return
		}
		if fe, ok := e.(*FieldError); ok {
			out = append(out, fe)
			return
		}
		switch u := e.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(u.Unwrap())
		}
	}
	walk(err)
	return out
}
