// Package cell defines the CKB cell data model -- hashes, scripts, out
// points, and live cells -- together with the token amount codec and the
// coin selector used to fund transfers.
package cell

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	// HashLen is the length of a CKB hash (transaction hash, code hash).
	HashLen = 32

	// LockArgsLen is the length of a sighash-all lock script's args:
	// blake2b-160 of the owner's compressed public key.
	LockArgsLen = 20
)

// Hash is a 32-byte CKB hash. It marshals to 0x-prefixed hex in JSON,
// matching the node's RPC representation.
type Hash [HashLen]byte

// HashFromHex parses a 0x-prefixed (or bare) hex string into a Hash.
func HashFromHex(s string) (Hash, error) {
	var h Hash
	raw, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return h, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
	if len(raw) != HashLen {
		return h, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidHash, HashLen, len(raw))
	}
	copy(h[:], raw)
	return h, nil
}

// String returns the 0x-prefixed hex form.
func (h Hash) String() string {
	return "0x" + hex.EncodeToString(h[:])
}

// MarshalJSON encodes the hash as a 0x-prefixed hex string.
func (h Hash) MarshalJSON() ([]byte, error) {
	return []byte(`"` + h.String() + `"`), nil
}

// UnmarshalJSON decodes a 0x-prefixed hex string.
func (h *Hash) UnmarshalJSON(data []byte) error {
	s, err := unquote(data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
	parsed, err := HashFromHex(s)
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// ScriptHashType tells the chain how a script's code hash is matched
// against deployed code cells.
type ScriptHashType string

const (
	// HashTypeData matches the code cell by data hash (blake2b of the code).
	HashTypeData ScriptHashType = "data"

	// HashTypeType matches the code cell by its type script hash.
	HashTypeType ScriptHashType = "type"

	// HashTypeData1 matches by data hash under the CKB-VM v1 semantics.
	HashTypeData1 ScriptHashType = "data1"
)

// Script is a CKB script reference: the program it points at plus the
// arguments passed to it. A cell's lock script is its authorization
// program; an optional type script defines a non-native asset.
type Script struct {
	CodeHash Hash           `json:"code_hash"`
	HashType ScriptHashType `json:"hash_type"`
	Args     Bytes          `json:"args"`
}

// Equal reports whether two scripts are identical field-for-field.
func (s Script) Equal(other Script) bool {
	return s.CodeHash == other.CodeHash &&
		s.HashType == other.HashType &&
		bytes.Equal(s.Args, other.Args)
}

// OutPoint locates a cell by the transaction that created it and the
// output index within that transaction.
type OutPoint struct {
	TxHash Hash   `json:"tx_hash"`
	Index  Uint32 `json:"index"`
}

// Equal reports whether two out points reference the same cell.
func (o OutPoint) Equal(other OutPoint) bool {
	return o.TxHash == other.TxHash && o.Index == other.Index
}

// LiveCell is a spendable cell as enumerated from the ledger: its locating
// out point, its capacity in shannons, its lock script, an optional type
// script (present iff the cell carries a token), and its raw payload data.
// A LiveCell is immutable once enumerated; it is either converted into a
// transaction input or discarded.
type LiveCell struct {
	OutPoint OutPoint
	Capacity uint64
	Lock     Script
	Type     *Script
	Data     []byte
}

// IsTokenCell reports whether the cell carries a token (has a type script).
func (c *LiveCell) IsTokenCell() bool {
	return c.Type != nil
}
