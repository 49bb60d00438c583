package cell

import (
	"fmt"
	"math/big"
)

// ValueFunc extracts the value a selection pass accumulates from a cell:
// its capacity for native transfers, its decoded token amount for token
// transfers. Supplying the extractor as a parameter keeps the selection
// strategy pluggable without touching the assembler.
type ValueFunc func(*LiveCell) *big.Int

// CapacityValue values a cell by its native capacity.
func CapacityValue(c *LiveCell) *big.Int {
	return new(big.Int).SetUint64(c.Capacity)
}

// TokenValue values a cell by the token amount decoded from its payload.
func TokenValue(c *LiveCell) *big.Int {
	return DecodeAmount(c.Data)
}

// Selection is the outcome of one selection pass: the chosen cells in
// ledger order, their summed capacity, and their summed extracted value.
// For capacity selections Value and Capacity coincide.
type Selection struct {
	Cells    []*LiveCell
	Capacity uint64
	Value    *big.Int
}

// Select accumulates a prefix of cells sufficient to cover target.
//
// The strategy is greedy first-fit: cells are taken in the order given
// (the ledger view's stable enumeration order) and the scan stops as soon
// as the running total reaches the target. This intentionally favors a
// deterministic, auditable selection over minimizing input count or
// fragmentation.
//
// If the scan exhausts every cell without reaching the target, Select
// returns ErrInsufficientFunds reporting the shortfall and the number of
// cells examined; no partial selection is returned.
func Select(cells []*LiveCell, target *big.Int, valueOf ValueFunc) (*Selection, error) {
	if target == nil {
		return nil, fmt.Errorf("%w: target", ErrNilParam)
	}
	if valueOf == nil {
		return nil, fmt.Errorf("%w: valueOf", ErrNilParam)
	}
	if target.Sign() < 0 {
		return nil, fmt.Errorf("%w: negative target %s", ErrInvalidAmount, target)
	}

	sel := &Selection{Value: new(big.Int)}
	for _, c := range cells {
		sel.Cells = append(sel.Cells, c)
		sel.Capacity += c.Capacity
		sel.Value.Add(sel.Value, valueOf(c))
		if sel.Value.Cmp(target) >= 0 {
			return sel, nil
		}
	}
	if sel.Value.Cmp(target) >= 0 {
		// Zero target with no cells.
		return sel, nil
	}

	short := new(big.Int).Sub(target, sel.Value)
	return nil, fmt.Errorf("%w: short %s after examining %d cells (need %s, have %s)",
		ErrInsufficientFunds, short, len(cells), target, sel.Value)
}
