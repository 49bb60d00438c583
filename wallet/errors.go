package wallet

import "errors"

var (
	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("wallet: required parameter is nil")

	// ErrInvalidKey indicates the private key hex is malformed or has the
	// wrong length.
	ErrInvalidKey = errors.New("wallet: invalid private key")

	// ErrKeyFileRead indicates the key file could not be read.
	ErrKeyFileRead = errors.New("wallet: key file read failed")

	// ErrDecryptionFailed indicates wrong password or corrupted key file.
	ErrDecryptionFailed = errors.New("wallet: key decryption failed (wrong password or corrupted data)")
)
