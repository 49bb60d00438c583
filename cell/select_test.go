package cell

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capacityCell builds a pure-capacity cell with a distinguishable out point.
func capacityCell(index uint32, capacity uint64) *LiveCell {
	return &LiveCell{
		OutPoint: OutPoint{Index: Uint32(index)},
		Capacity: capacity,
	}
}

// tokenCell builds a token-bearing cell with the given capacity and amount.
func tokenCell(t *testing.T, index uint32, capacity uint64, amount int64) *LiveCell {
	t.Helper()
	data, err := EncodeAmount(big.NewInt(amount))
	require.NoError(t, err)
	return &LiveCell{
		OutPoint: OutPoint{Index: Uint32(index)},
		Capacity: capacity,
		Type:     &Script{HashType: HashTypeData},
		Data:     data,
	}
}

func TestSelectGreedyPrefix(t *testing.T) {
	cells := []*LiveCell{
		capacityCell(0, 100),
		capacityCell(1, 200),
		capacityCell(2, 300),
		capacityCell(3, 400),
	}

	sel, err := Select(cells, big.NewInt(250), CapacityValue)
	require.NoError(t, err)

	// First-fit stops at the first prefix reaching the target.
	assert.Len(t, sel.Cells, 2)
	assert.Equal(t, uint64(300), sel.Capacity)
	assert.Equal(t, int64(300), sel.Value.Int64())
	assert.Equal(t, Uint32(0), sel.Cells[0].OutPoint.Index)
	assert.Equal(t, Uint32(1), sel.Cells[1].OutPoint.Index)
}

func TestSelectExactTarget(t *testing.T) {
	cells := []*LiveCell{capacityCell(0, 500)}

	sel, err := Select(cells, big.NewInt(500), CapacityValue)
	require.NoError(t, err)
	assert.Len(t, sel.Cells, 1)
	assert.Equal(t, int64(500), sel.Value.Int64())
}

func TestSelectInsufficient(t *testing.T) {
	cells := []*LiveCell{
		capacityCell(0, 100),
		capacityCell(1, 100),
	}

	sel, err := Select(cells, big.NewInt(500), CapacityValue)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Nil(t, sel, "no partial selection on insufficiency")
	assert.Contains(t, err.Error(), "300") // shortfall is reported
	assert.Contains(t, err.Error(), "2 cells")
}

func TestSelectSufficiencyMonotonicity(t *testing.T) {
	base := []*LiveCell{
		capacityCell(0, 100),
		capacityCell(1, 200),
		capacityCell(2, 300),
	}
	target := big.NewInt(550)

	sel, err := Select(base, target, CapacityValue)
	require.NoError(t, err)
	k := len(sel.Cells)

	// Appending cells never pushes the satisfying prefix further out.
	superset := append(append([]*LiveCell{}, base...), capacityCell(3, 1000))
	selSuper, err := Select(superset, target, CapacityValue)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(selSuper.Cells), k)
}

func TestSelectTokenValueAccumulatesCapacity(t *testing.T) {
	cells := []*LiveCell{
		tokenCell(t, 0, 1_000, 60),
		tokenCell(t, 1, 2_000, 60),
		tokenCell(t, 2, 4_000, 60),
	}

	sel, err := Select(cells, big.NewInt(100), TokenValue)
	require.NoError(t, err)
	assert.Len(t, sel.Cells, 2)
	assert.Equal(t, int64(120), sel.Value.Int64())
	// Capacity riding on the token cells is tracked alongside.
	assert.Equal(t, uint64(3_000), sel.Capacity)
}

func TestSelectZeroTarget(t *testing.T) {
	sel, err := Select(nil, big.NewInt(0), CapacityValue)
	require.NoError(t, err)
	assert.Empty(t, sel.Cells)
	assert.Equal(t, 0, sel.Value.Sign())
}

func TestSelectNilArgs(t *testing.T) {
	_, err := Select(nil, nil, CapacityValue)
	assert.ErrorIs(t, err, ErrNilParam)

	_, err = Select(nil, big.NewInt(1), nil)
	assert.ErrorIs(t, err, ErrNilParam)
}

func TestSelectNegativeTarget(t *testing.T) {
	_, err := Select(nil, big.NewInt(-5), CapacityValue)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}
