package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrSchema       = errors.New("schema mismatch")
)

// SchemaError reports a required canonical column that no source column maps
// to. It aborts the run; tables loaded by earlier steps stay committed.
type SchemaError struct {
	Sheet  string
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("sheet %q: required column %q not found", e.Sheet, e.Column)
}

func (e *SchemaError) Unwrap() error {
	return ErrSchema
}
