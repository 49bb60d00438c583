package cell

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	maxU128 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

	values := []*big.Int{
		big.NewInt(0),
		big.NewInt(1),
		big.NewInt(150),
		big.NewInt(1_000_000_000),
		new(big.Int).SetUint64(^uint64(0)),
		new(big.Int).Lsh(big.NewInt(1), 64), // first value needing the high half
		new(big.Int).Lsh(big.NewInt(1), 127),
		maxU128,
	}
	for _, v := range values {
		encoded, err := EncodeAmount(v)
		require.NoError(t, err)
		assert.Len(t, []byte(encoded), AmountLen)
		assert.Equal(t, 0, DecodeAmount(encoded).Cmp(v), "round trip of %s", v)
	}
}

func TestEncodeAmountLittleEndian(t *testing.T) {
	encoded, err := EncodeAmount(big.NewInt(0x0102))
	require.NoError(t, err)
	assert.Equal(t, byte(0x02), encoded[0])
	assert.Equal(t, byte(0x01), encoded[1])
	for _, b := range encoded[2:] {
		assert.Equal(t, byte(0), b)
	}
}

func TestDecodeAmountShortPayload(t *testing.T) {
	// Anything shorter than the full width carries no token value.
	assert.Equal(t, 0, DecodeAmount(nil).Sign())
	assert.Equal(t, 0, DecodeAmount([]byte{}).Sign())
	assert.Equal(t, 0, DecodeAmount([]byte{0xff}).Sign())
	assert.Equal(t, 0, DecodeAmount(make([]byte, AmountLen-1)).Sign())
}

func TestDecodeAmountIgnoresTrailingBytes(t *testing.T) {
	encoded, err := EncodeAmount(big.NewInt(42))
	require.NoError(t, err)
	padded := append([]byte(encoded), 0xde, 0xad)
	assert.Equal(t, int64(42), DecodeAmount(padded).Int64())
}

func TestEncodeAmountNil(t *testing.T) {
	_, err := EncodeAmount(nil)
	assert.ErrorIs(t, err, ErrNilParam)
}

func TestEncodeAmountNegative(t *testing.T) {
	_, err := EncodeAmount(big.NewInt(-1))
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestEncodeAmountOverflow(t *testing.T) {
	_, err := EncodeAmount(new(big.Int).Lsh(big.NewInt(1), 128))
	assert.ErrorIs(t, err, ErrAmountOverflow)
}
