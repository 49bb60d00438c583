package cell

import (
	"fmt"
	"math/big"
)

// AmountLen is the width of an encoded token amount: a 16-byte
// little-endian unsigned integer carried as the cell's payload.
const AmountLen = 16

// maxAmountBits is the largest representable token amount width.
const maxAmountBits = AmountLen * 8

// DecodeAmount interprets the first 16 bytes of a cell payload as an
// unsigned little-endian token amount. Payloads shorter than 16 bytes
// decode to zero: a malformed or empty token cell carries no value rather
// than being an error. Extra payload bytes beyond the amount are ignored.
func DecodeAmount(data []byte) *big.Int {
	if len(data) < AmountLen {
		return new(big.Int)
	}
	be := make([]byte, AmountLen)
	for i := 0; i < AmountLen; i++ {
		be[AmountLen-1-i] = data[i]
	}
	return new(big.Int).SetBytes(be)
}

// EncodeAmount produces the exact 16-byte little-endian encoding of a
// token amount, used verbatim as a cell's payload. The amount must be
// non-negative and fit in 128 bits.
func EncodeAmount(amount *big.Int) (Bytes, error) {
	if amount == nil {
		return nil, fmt.Errorf("%w: amount", ErrNilParam)
	}
	if amount.Sign() < 0 {
		return nil, fmt.Errorf("%w: negative amount %s", ErrInvalidAmount, amount)
	}
	if amount.BitLen() > maxAmountBits {
		return nil, fmt.Errorf("%w: %s", ErrAmountOverflow, amount)
	}
	be := amount.FillBytes(make([]byte, AmountLen))
	le := make(Bytes, AmountLen)
	for i := 0; i < AmountLen; i++ {
		le[i] = be[AmountLen-1-i]
	}
	return le, nil
}
