package tx

import (
	"fmt"
	"math/big"

	"github.com/ckbfund/libckbfund-go/cell"
)

// Recipient is one (lock script, capacity amount) pair of a native
// transfer. Amounts are in shannons and must be strictly positive.
type Recipient struct {
	Lock   cell.Script
	Amount uint64
}

// TokenRecipient is one (lock script, token amount) pair of a token
// transfer. Amounts must be strictly positive.
type TokenRecipient struct {
	Lock   cell.Script
	Amount *big.Int
}

// NativeTransferParams holds the inputs to BuildNativeTransfer.
type NativeTransferParams struct {
	Cells      []*cell.LiveCell // pure-capacity candidates, ledger order
	Recipients []Recipient      // paid in order, never merged or reordered
	ChangeLock cell.Script      // sender's lock, receives any remainder
	Fee        uint64           // fixed fee in shannons
	SecpDep    CellDep          // sighash-all dep group
}

// BuildNativeTransfer assembles an unsigned capacity transfer.
//
// Selection target is the recipient sum plus the fee. One output is
// created per recipient in request order, then exactly one change output
// iff the selected capacity exceeds the target; a zero remainder produces
// no change output. Every input gets an empty WitnessArgs placeholder.
func BuildNativeTransfer(params *NativeTransferParams) (*Transaction, error) {
	if params == nil {
		return nil, fmt.Errorf("%w: params", ErrNilParam)
	}
	if len(params.Recipients) == 0 {
		return nil, ErrNoRecipients
	}

	target := new(big.Int).SetUint64(params.Fee)
	for i, r := range params.Recipients {
		if r.Amount == 0 {
			return nil, fmt.Errorf("%w: recipient[%d] amount is zero", ErrInvalidAmount, i)
		}
		target.Add(target, new(big.Int).SetUint64(r.Amount))
	}

	sel, err := cell.Select(params.Cells, target, cell.CapacityValue)
	if err != nil {
		return nil, fmt.Errorf("tx: native selection: %w", err)
	}

	t := newTransaction(sel.Cells, nil)
	for _, r := range params.Recipients {
		t.Outputs = append(t.Outputs, CellOutput{
			Capacity: cell.Uint64(r.Amount),
			Lock:     r.Lock,
		})
		t.OutputsData = append(t.OutputsData, cell.Bytes{})
	}

	change := new(big.Int).SetUint64(sel.Capacity)
	change.Sub(change, target)
	if change.Sign() > 0 {
		if !change.IsUint64() {
			return nil, fmt.Errorf("%w: change %s", ErrInvalidAmount, change)
		}
		t.Outputs = append(t.Outputs, CellOutput{
			Capacity: cell.Uint64(change.Uint64()),
			Lock:     params.ChangeLock,
		})
		t.OutputsData = append(t.OutputsData, cell.Bytes{})
	}

	t.CellDeps = appendCellDep(t.CellDeps, params.SecpDep)

	if err := verifyCapacityBalance(sel.Capacity, t.Outputs, params.Fee, 0); err != nil {
		return nil, err
	}
	return t, nil
}

// TokenTransferParams holds the inputs to BuildTokenTransfer.
type TokenTransferParams struct {
	TokenCells    []*cell.LiveCell // token-bearing candidates, ledger order
	CapacityCells []*cell.LiveCell // pure-capacity candidates for the top-up pass
	Recipients    []TokenRecipient // paid in order, never merged or reordered
	TokenScript   cell.Script      // type script identifying the token
	ChangeLock    cell.Script      // sender's lock, receives change
	Fee           uint64           // fixed fee in shannons
	CapacityFloor uint64           // capacity of every token-bearing output
	DustThreshold uint64           // below this, capacity change is forfeited
	SecpDep       CellDep          // sighash-all dep group
	TokenDep      CellDep          // token code cell
}

// BuildTokenTransfer assembles an unsigned dual-asset transfer.
//
// Token-bearing cells are selected against the recipient token sum; the
// capacity riding on those cells counts toward the required output
// capacity (recipients times the floor, plus the fee, plus one floor
// reserved for a possible token-change output). When it falls short, a
// second independent selection pass over pure-capacity cells appends
// inputs strictly after the token inputs -- witness placeholders are
// positional, so input order is load-bearing.
//
// Change policy, in order: a token-change output at the capacity floor
// when tokens are left over, then a pure-capacity change output for any
// remainder strictly above the dust threshold. A remainder at or below
// the threshold is forfeited to the fee rather than forming a dust cell.
func BuildTokenTransfer(params *TokenTransferParams) (*Transaction, error) {
	if params == nil {
		return nil, fmt.Errorf("%w: params", ErrNilParam)
	}
	if len(params.Recipients) == 0 {
		return nil, ErrNoRecipients
	}
	if params.CapacityFloor == 0 {
		return nil, fmt.Errorf("%w: capacity floor is zero", ErrInvalidAmount)
	}

	tokenTarget := new(big.Int)
	for i, r := range params.Recipients {
		if r.Amount == nil {
			return nil, fmt.Errorf("%w: recipient[%d] amount", ErrNilParam, i)
		}
		if r.Amount.Sign() <= 0 {
			return nil, fmt.Errorf("%w: recipient[%d] amount %s", ErrInvalidAmount, i, r.Amount)
		}
		tokenTarget.Add(tokenTarget, r.Amount)
	}

	tokSel, err := cell.Select(params.TokenCells, tokenTarget, cell.TokenValue)
	if err != nil {
		return nil, fmt.Errorf("tx: token selection: %w", err)
	}

	floor := new(big.Int).SetUint64(params.CapacityFloor)
	// recipients*floor + fee + one floor reserved for token change.
	required := new(big.Int).Mul(floor, big.NewInt(int64(len(params.Recipients))))
	required.Add(required, new(big.Int).SetUint64(params.Fee))
	required.Add(required, floor)

	inputCapacity := new(big.Int).SetUint64(tokSel.Capacity)
	var capCells []*cell.LiveCell
	if inputCapacity.Cmp(required) < 0 {
		capTarget := new(big.Int).Sub(required, inputCapacity)
		capSel, err := cell.Select(params.CapacityCells, capTarget, cell.CapacityValue)
		if err != nil {
			return nil, fmt.Errorf("tx: capacity top-up selection: %w", err)
		}
		capCells = capSel.Cells
		inputCapacity.Add(inputCapacity, new(big.Int).SetUint64(capSel.Capacity))
	}

	t := newTransaction(tokSel.Cells, capCells)
	tokenScript := params.TokenScript
	for _, r := range params.Recipients {
		data, err := cell.EncodeAmount(r.Amount)
		if err != nil {
			return nil, fmt.Errorf("tx: encode recipient amount: %w", err)
		}
		outType := tokenScript
		t.Outputs = append(t.Outputs, CellOutput{
			Capacity: cell.Uint64(params.CapacityFloor),
			Lock:     r.Lock,
			Type:     &outType,
		})
		t.OutputsData = append(t.OutputsData, data)
	}

	// Capacity left after the recipient outputs and the fee.
	changeCapacity := new(big.Int).Set(inputCapacity)
	changeCapacity.Sub(changeCapacity, new(big.Int).Mul(floor, big.NewInt(int64(len(params.Recipients)))))
	changeCapacity.Sub(changeCapacity, new(big.Int).SetUint64(params.Fee))

	dust := new(big.Int).SetUint64(params.DustThreshold)
	tokenChange := new(big.Int).Sub(tokSel.Value, tokenTarget)
	if tokenChange.Sign() > 0 {
		data, err := cell.EncodeAmount(tokenChange)
		if err != nil {
			return nil, fmt.Errorf("tx: encode token change: %w", err)
		}
		changeType := tokenScript
		t.Outputs = append(t.Outputs, CellOutput{
			Capacity: cell.Uint64(params.CapacityFloor),
			Lock:     params.ChangeLock,
			Type:     &changeType,
		})
		t.OutputsData = append(t.OutputsData, data)

		remaining := new(big.Int).Sub(changeCapacity, floor)
		if remaining.Cmp(dust) > 0 {
			if err := appendCapacityChange(t, params.ChangeLock, remaining); err != nil {
				return nil, err
			}
		}
	} else if changeCapacity.Cmp(dust) > 0 {
		if err := appendCapacityChange(t, params.ChangeLock, changeCapacity); err != nil {
			return nil, err
		}
	}

	t.CellDeps = appendCellDep(t.CellDeps, params.SecpDep)
	t.CellDeps = appendCellDep(t.CellDeps, params.TokenDep)

	if !inputCapacity.IsUint64() {
		return nil, fmt.Errorf("%w: input capacity %s", ErrInvalidAmount, inputCapacity)
	}
	if err := verifyCapacityBalance(inputCapacity.Uint64(), t.Outputs, params.Fee, params.DustThreshold); err != nil {
		return nil, err
	}
	if err := verifyTokenBalance(tokSel.Value, t); err != nil {
		return nil, err
	}
	return t, nil
}

// newTransaction creates the template skeleton: token inputs first, then
// capacity top-up inputs, one empty witness placeholder per input.
func newTransaction(primary, topUp []*cell.LiveCell) *Transaction {
	t := &Transaction{
		HeaderDeps:  []cell.Hash{},
		Outputs:     []CellOutput{},
		OutputsData: []cell.Bytes{},
	}
	for _, c := range primary {
		t.Inputs = append(t.Inputs, CellInput{PreviousOutput: c.OutPoint})
	}
	for _, c := range topUp {
		t.Inputs = append(t.Inputs, CellInput{PreviousOutput: c.OutPoint})
	}
	placeholder := cell.Bytes(SerializeWitnessArgs(nil, nil, nil))
	for range t.Inputs {
		t.Witnesses = append(t.Witnesses, placeholder)
	}
	return t
}

// appendCapacityChange adds a bare capacity change output.
func appendCapacityChange(t *Transaction, lock cell.Script, amount *big.Int) error {
	if !amount.IsUint64() {
		return fmt.Errorf("%w: change %s", ErrInvalidAmount, amount)
	}
	t.Outputs = append(t.Outputs, CellOutput{
		Capacity: cell.Uint64(amount.Uint64()),
		Lock:     lock,
	})
	t.OutputsData = append(t.OutputsData, cell.Bytes{})
	return nil
}

// verifyCapacityBalance checks the native ledger: input capacity must
// cover outputs plus fee exactly, except that up to maxForfeit shannons
// may be left to the fee when no change output was worth creating. A
// violation is a programming defect in assembly, never corrected silently.
func verifyCapacityBalance(inCapacity uint64, outputs []CellOutput, fee, maxForfeit uint64) error {
	var out big.Int
	for _, o := range outputs {
		out.Add(&out, new(big.Int).SetUint64(uint64(o.Capacity)))
	}
	in := new(big.Int).SetUint64(inCapacity)
	out.Add(&out, new(big.Int).SetUint64(fee))
	diff := new(big.Int).Sub(in, &out)
	if diff.Sign() < 0 || diff.Cmp(new(big.Int).SetUint64(maxForfeit)) > 0 {
		return fmt.Errorf("%w: capacity in %d, out+fee %s", ErrUnbalanced, inCapacity, &out)
	}
	return nil
}

// verifyTokenBalance checks the token ledger: amounts over token-bearing
// outputs must equal the selected input amount exactly.
func verifyTokenBalance(inAmount *big.Int, t *Transaction) error {
	out := new(big.Int)
	for i, o := range t.Outputs {
		if o.Type != nil {
			out.Add(out, cell.DecodeAmount(t.OutputsData[i]))
		}
	}
	if out.Cmp(inAmount) != 0 {
		return fmt.Errorf("%w: token in %s, out %s", ErrUnbalanced, inAmount, out)
	}
	return nil
}
