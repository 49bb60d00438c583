package cell

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// The CKB JSON-RPC encodes every integer as a 0x-prefixed hex string and
// every byte blob as 0x-prefixed hex. Uint32, Uint64, and Bytes carry that
// wire representation so the rest of the module can use plain Go types.

// Uint32 is a uint32 that marshals to 0x-hex in JSON.
type Uint32 uint32

// MarshalJSON encodes the value as a 0x-prefixed hex string.
func (u Uint32) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`"0x%x"`, uint32(u))), nil
}

// UnmarshalJSON decodes a 0x-prefixed hex string.
func (u *Uint32) UnmarshalJSON(data []byte) error {
	v, err := parseHexUint(data, 32)
	if err != nil {
		return err
	}
	*u = Uint32(v)
	return nil
}

// Uint64 is a uint64 that marshals to 0x-hex in JSON.
type Uint64 uint64

// MarshalJSON encodes the value as a 0x-prefixed hex string.
func (u Uint64) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`"0x%x"`, uint64(u))), nil
}

// UnmarshalJSON decodes a 0x-prefixed hex string.
func (u *Uint64) UnmarshalJSON(data []byte) error {
	v, err := parseHexUint(data, 64)
	if err != nil {
		return err
	}
	*u = Uint64(v)
	return nil
}

// Bytes is a byte slice that marshals to 0x-prefixed hex in JSON.
// An empty slice marshals to "0x".
type Bytes []byte

// MarshalJSON encodes the bytes as a 0x-prefixed hex string.
func (b Bytes) MarshalJSON() ([]byte, error) {
	return []byte(`"0x` + hex.EncodeToString(b) + `"`), nil
}

// UnmarshalJSON decodes a 0x-prefixed hex string.
func (b *Bytes) UnmarshalJSON(data []byte) error {
	s, err := unquote(data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	raw, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	*b = raw
	return nil
}

// String returns the 0x-prefixed hex form.
func (b Bytes) String() string {
	return "0x" + hex.EncodeToString(b)
}

// unquote strips the surrounding quotes from a JSON string literal.
func unquote(data []byte) (string, error) {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return "", fmt.Errorf("not a JSON string: %s", data)
	}
	return string(data[1 : len(data)-1]), nil
}

// parseHexUint parses a quoted 0x-prefixed hex number of the given bit size.
func parseHexUint(data []byte, bits int) (uint64, error) {
	s, err := unquote(data)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if !strings.HasPrefix(s, "0x") {
		return 0, fmt.Errorf("%w: number %q lacks 0x prefix", ErrInvalidJSON, s)
	}
	v, err := strconv.ParseUint(s[2:], 16, bits)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return v, nil
}
