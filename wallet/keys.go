// Package wallet handles the owner side of a transfer: loading secp256k1
// private keys from key files and deriving the lock script that
// authorizes spending the owner's cells.
package wallet

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/ckbfund/libckbfund-go/cell"
)

// privateKeyLen is the length of a raw secp256k1 private key.
const privateKeyLen = 32

// SighashAllCodeHash is the type script hash of the secp256k1
// blake160 sighash-all lock, identical on every CKB chain.
var SighashAllCodeHash = mustHash("0x9bd7e06f3ecf4be0f2fcd2188b23f1b9fcc88e5d4b65a8637b17723bbda3cce8")

func mustHash(s string) cell.Hash {
	h, err := cell.HashFromHex(s)
	if err != nil {
		panic("wallet: bad built-in hash: " + err.Error())
	}
	return h
}

// ParsePrivateKey parses a hex-encoded (optionally 0x-prefixed)
// secp256k1 private key.
func ParsePrivateKey(hexKey string) (*btcec.PrivateKey, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if len(raw) != privateKeyLen {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidKey, privateKeyLen, len(raw))
	}
	key, _ := btcec.PrivKeyFromBytes(raw)
	return key, nil
}

// LoadKeyFile reads a hex-encoded private key from a plaintext key file.
// Surrounding whitespace (including the trailing newline key generators
// emit) is ignored.
func LoadKeyFile(path string) (*btcec.PrivateKey, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrKeyFileRead, path, err)
	}
	key, err := ParsePrivateKey(string(content))
	if err != nil {
		return nil, fmt.Errorf("wallet: key file %s: %w", path, err)
	}
	return key, nil
}

// LockScript derives the sighash-all lock script owned by pub: the
// well-known code hash with args blake2b-160 of the compressed public key.
// The derivation is pure; the same key always yields the same script.
func LockScript(pub *btcec.PublicKey) cell.Script {
	return cell.Script{
		CodeHash: SighashAllCodeHash,
		HashType: cell.HashTypeType,
		Args:     cell.Blake160(pub.SerializeCompressed()),
	}
}
