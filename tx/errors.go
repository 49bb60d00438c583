package tx

import "errors"

var (
	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("tx: required parameter is nil")

	// ErrNoRecipients indicates a transfer request has an empty recipient list.
	ErrNoRecipients = errors.New("tx: no recipients")

	// ErrInvalidAmount indicates a recipient or change amount is unusable.
	ErrInvalidAmount = errors.New("tx: invalid amount")

	// ErrUnbalanced indicates an assembled transaction violates asset
	// conservation. This guards against assembly defects; it never occurs
	// for a correct selection.
	ErrUnbalanced = errors.New("tx: unbalanced transaction")

	// ErrSigningFailed indicates transaction signing failed.
	ErrSigningFailed = errors.New("tx: signing failed")
)
