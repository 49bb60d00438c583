package network

import "errors"

var (
	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("network: required parameter is nil")

	// ErrConnectionFailed indicates the client could not reach the node.
	ErrConnectionFailed = errors.New("network: connection failed")

	// ErrInvalidResponse indicates the node returned a malformed or
	// unexpected response.
	ErrInvalidResponse = errors.New("network: invalid response")

	// ErrBlockNotFound indicates the requested block does not exist.
	ErrBlockNotFound = errors.New("network: block not found")

	// ErrBroadcastRejected indicates the node rejected the submitted
	// transaction.
	ErrBroadcastRejected = errors.New("network: broadcast rejected")
)
