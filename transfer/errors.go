package transfer

import "errors"

var (
	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("transfer: required parameter is nil")

	// ErrTokenNotConfigured indicates a token operation was requested but
	// the configuration carries no token script identity.
	ErrTokenNotConfigured = errors.New("transfer: token script not configured")
)
