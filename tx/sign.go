package tx

import (
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"

	"github.com/ckbfund/libckbfund-go/cell"
)

// witnessLockLen is the length of a sighash-all recoverable signature:
// r (32) || s (32) || recovery id (1).
const witnessLockLen = 65

// Sign fills the witness placeholders of an assembled transaction with a
// sighash-all signature from key.
//
// All inputs must be locked by key's lock script: they form a single
// script group, so one signature in the first witness's lock field covers
// the whole transaction and the remaining witnesses stay empty
// placeholders. The signing message is the CKB-personalized blake2b-256
// of the transaction hash followed by every group witness, each prefixed
// with its little-endian u64 length; the first witness is hashed with a
// zero-filled 65-byte lock field so the signed and final sizes agree.
func Sign(t *Transaction, key *btcec.PrivateKey) error {
	if t == nil {
		return fmt.Errorf("%w: transaction", ErrNilParam)
	}
	if key == nil {
		return fmt.Errorf("%w: key", ErrNilParam)
	}
	if len(t.Inputs) == 0 {
		return fmt.Errorf("%w: transaction has no inputs", ErrSigningFailed)
	}
	if len(t.Witnesses) != len(t.Inputs) {
		return fmt.Errorf("%w: %d witnesses for %d inputs",
			ErrSigningFailed, len(t.Witnesses), len(t.Inputs))
	}

	txHash := t.Hash()
	placeholder := SerializeWitnessArgs(make([]byte, witnessLockLen), nil, nil)

	pieces := [][]byte{txHash[:], witnessLen(placeholder), placeholder}
	for _, w := range t.Witnesses[1:] {
		pieces = append(pieces, witnessLen(w), w)
	}
	message := cell.Blake256(pieces...)

	sig := ecdsa.SignCompact(key, message[:], true)
	if len(sig) != witnessLockLen {
		return fmt.Errorf("%w: unexpected signature length %d", ErrSigningFailed, len(sig))
	}

	// SignCompact puts the recovery header first; CKB wants r||s||recid.
	lock := make([]byte, witnessLockLen)
	copy(lock, sig[1:])
	lock[witnessLockLen-1] = sig[0] - 27 - 4

	t.Witnesses[0] = SerializeWitnessArgs(lock, nil, nil)
	return nil
}

// witnessLen encodes a witness length as the u64-le prefix the sighash
// message requires.
func witnessLen(w []byte) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, uint64(len(w)))
	return b
}
