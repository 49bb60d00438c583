package cell

import (
	"github.com/minio/blake2b-simd"
)

// hashPersonalization is the CKB blake2b personalization. Every hash on
// the chain (transaction hashes, script hashes, lock args) uses it.
const hashPersonalization = "ckb-default-hash"

// Blake256 returns the CKB-personalized blake2b-256 hash of the
// concatenation of the given byte slices.
func Blake256(data ...[]byte) Hash {
	h, err := blake2b.New(&blake2b.Config{
		Size:   HashLen,
		Person: []byte(hashPersonalization),
	})
	if err != nil {
		// Static, valid config; New only fails on bad parameters.
		panic("cell: blake2b config: " + err.Error())
	}
	for _, d := range data {
		_, _ = h.Write(d)
	}
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

// Blake160 returns the first 20 bytes of Blake256(data). It is the
// standard derivation of sighash-all lock args from a compressed public key.
func Blake160(data []byte) []byte {
	full := Blake256(data)
	out := make([]byte, LockArgsLen)
	copy(out, full[:LockArgsLen])
	return out
}
