package cell

import "errors"

var (
	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("cell: required parameter is nil")

	// ErrInvalidHash indicates a hash string is malformed or has the wrong length.
	ErrInvalidHash = errors.New("cell: invalid hash")

	// ErrInvalidJSON indicates a hex-encoded JSON value is malformed.
	ErrInvalidJSON = errors.New("cell: invalid hex JSON value")

	// ErrInvalidAmount indicates a token amount is negative or otherwise unusable.
	ErrInvalidAmount = errors.New("cell: invalid amount")

	// ErrAmountOverflow indicates a token amount exceeds the 128-bit encoding.
	ErrAmountOverflow = errors.New("cell: amount exceeds 128 bits")

	// ErrInsufficientFunds indicates the available cells cannot cover a
	// selection target.
	ErrInsufficientFunds = errors.New("cell: insufficient funds")
)
