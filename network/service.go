package network

import (
	"context"

	"github.com/ckbfund/libckbfund-go/cell"
	"github.com/ckbfund/libckbfund-go/tx"
)

// CellFilter restricts which live cells ListCells returns. Exactly one
// mode should be set: PureCapacity for cells without a type script, or
// TokenScript for cells whose type script matches exactly. The zero
// filter returns every cell under the lock.
type CellFilter struct {
	PureCapacity bool
	TokenScript  *cell.Script
}

// LedgerService is the interface the transfer engine consumes: read-only
// cell enumeration, genesis lookup for cell-dep resolution, and
// transaction broadcast. RPCClient is the production implementation;
// MockLedgerService is the test double.
type LedgerService interface {
	// ListCells exhaustively enumerates the live cells locked by lock,
	// following pagination cursors until the source reports an empty
	// page. Cells come back in the source's stable ascending order.
	ListCells(ctx context.Context, lock cell.Script, filter CellFilter) ([]*cell.LiveCell, error)

	// GetBlockTxHashes returns the transaction hashes of the block at the
	// given number, in block order.
	GetBlockTxHashes(ctx context.Context, blockNumber uint64) ([]cell.Hash, error)

	// SendTransaction submits a signed transaction and returns its hash,
	// or ErrBroadcastRejected if the node refuses it.
	SendTransaction(ctx context.Context, t *tx.Transaction) (cell.Hash, error)
}

// Compile-time interface check.
var _ LedgerService = (*RPCClient)(nil)
