package store

import "errors"

var (
	// ErrEmptyField indicates a record is missing a required field.
	ErrEmptyField = errors.New("store: required field is empty")
)
