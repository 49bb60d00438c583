// Package transfer drives one logical transfer end to end: enumerate the
// sender's cells, select inputs, assemble the unsigned transaction, sign
// it, and hand it to the broadcaster. The engine is synchronous and
// stateless between calls; a transfer either completes or aborts on the
// first failure, and nothing is persisted until broadcast.
package transfer

import (
	"context"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/ckbfund/libckbfund-go/cell"
	"github.com/ckbfund/libckbfund-go/config"
	"github.com/ckbfund/libckbfund-go/network"
	"github.com/ckbfund/libckbfund-go/tx"
	"github.com/ckbfund/libckbfund-go/wallet"
)

// Engine assembles and submits transfers against one ledger and one
// configuration. It holds no per-transfer state and does not reserve
// cells between calls: callers issuing multiple transfers that might
// consume overlapping cells must serialize them and wait for commitment.
type Engine struct {
	ledger network.LedgerService
	cfg    config.Config
	deps   *network.GenesisDeps
}

// NewEngine creates an engine over the given ledger. The configuration is
// validated up front so every later failure is a transfer-level one.
func NewEngine(ledger network.LedgerService, cfg config.Config) (*Engine, error) {
	if ledger == nil {
		return nil, fmt.Errorf("%w: ledger", ErrNilParam)
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return &Engine{ledger: ledger, cfg: cfg}, nil
}

// cellDeps resolves the genesis cell deps on first use and caches them;
// they are constants for the engine's network.
func (e *Engine) cellDeps(ctx context.Context) (*network.GenesisDeps, error) {
	if e.deps != nil {
		return e.deps, nil
	}
	deps, err := network.ResolveGenesisDeps(ctx, e.ledger, e.cfg.TokenDepTxIndex, e.cfg.TokenDepOutputIndex)
	if err != nil {
		return nil, err
	}
	e.deps = deps
	return deps, nil
}

// TransferNative pays each recipient the requested capacity from key's
// pure-capacity cells and submits the signed transaction. The recipient
// list is honored in order and never merged.
func (e *Engine) TransferNative(ctx context.Context, key *btcec.PrivateKey, recipients []tx.Recipient) (cell.Hash, error) {
	if key == nil {
		return cell.Hash{}, fmt.Errorf("%w: key", ErrNilParam)
	}
	deps, err := e.cellDeps(ctx)
	if err != nil {
		return cell.Hash{}, err
	}

	lock := wallet.LockScript(key.PubKey())
	cells, err := e.ledger.ListCells(ctx, lock, network.CellFilter{PureCapacity: true})
	if err != nil {
		return cell.Hash{}, err
	}

	built, err := tx.BuildNativeTransfer(&tx.NativeTransferParams{
		Cells:      cells,
		Recipients: recipients,
		ChangeLock: lock,
		Fee:        e.cfg.Fee,
		SecpDep:    deps.Secp,
	})
	if err != nil {
		return cell.Hash{}, err
	}

	return e.signAndSubmit(ctx, built, key)
}

// TransferToken pays each recipient the requested token amount from key's
// token-bearing cells, topping up native capacity from pure-capacity
// cells when the token inputs do not carry enough, and submits the signed
// transaction.
func (e *Engine) TransferToken(ctx context.Context, key *btcec.PrivateKey, recipients []tx.TokenRecipient) (cell.Hash, error) {
	if key == nil {
		return cell.Hash{}, fmt.Errorf("%w: key", ErrNilParam)
	}
	if e.cfg.TokenCodeHash == "" {
		return cell.Hash{}, ErrTokenNotConfigured
	}
	tokenScript, err := e.cfg.TokenScript()
	if err != nil {
		return cell.Hash{}, err
	}
	deps, err := e.cellDeps(ctx)
	if err != nil {
		return cell.Hash{}, err
	}

	lock := wallet.LockScript(key.PubKey())
	tokenCells, err := e.ledger.ListCells(ctx, lock, network.CellFilter{TokenScript: &tokenScript})
	if err != nil {
		return cell.Hash{}, err
	}
	capacityCells, err := e.ledger.ListCells(ctx, lock, network.CellFilter{PureCapacity: true})
	if err != nil {
		return cell.Hash{}, err
	}

	built, err := tx.BuildTokenTransfer(&tx.TokenTransferParams{
		TokenCells:    tokenCells,
		CapacityCells: capacityCells,
		Recipients:    recipients,
		TokenScript:   tokenScript,
		ChangeLock:    lock,
		Fee:           e.cfg.Fee,
		CapacityFloor: e.cfg.TokenCellCapacity,
		DustThreshold: e.cfg.DustThreshold,
		SecpDep:       deps.Secp,
		TokenDep:      deps.Token,
	})
	if err != nil {
		return cell.Hash{}, err
	}

	return e.signAndSubmit(ctx, built, key)
}

// signAndSubmit hands the assembled template to the signer and then the
// broadcaster. Failures surface verbatim; the engine never retries.
func (e *Engine) signAndSubmit(ctx context.Context, built *tx.Transaction, key *btcec.PrivateKey) (cell.Hash, error) {
	if err := tx.Sign(built, key); err != nil {
		return cell.Hash{}, err
	}
	return e.ledger.SendTransaction(ctx, built)
}

// NativeBalance sums the capacity of lock's pure-capacity cells.
func (e *Engine) NativeBalance(ctx context.Context, lock cell.Script) (uint64, error) {
	cells, err := e.ledger.ListCells(ctx, lock, network.CellFilter{PureCapacity: true})
	if err != nil {
		return 0, err
	}
	var total uint64
	for _, c := range cells {
		total += c.Capacity
	}
	return total, nil
}

// TokenBalance sums the token amounts of lock's token-bearing cells.
func (e *Engine) TokenBalance(ctx context.Context, lock cell.Script) (*big.Int, error) {
	if e.cfg.TokenCodeHash == "" {
		return nil, ErrTokenNotConfigured
	}
	tokenScript, err := e.cfg.TokenScript()
	if err != nil {
		return nil, err
	}
	cells, err := e.ledger.ListCells(ctx, lock, network.CellFilter{TokenScript: &tokenScript})
	if err != nil {
		return nil, err
	}
	total := new(big.Int)
	for _, c := range cells {
		total.Add(total, cell.TokenValue(c))
	}
	return total, nil
}
