package network

import (
	"context"

	"github.com/ckbfund/libckbfund-go/cell"
	"github.com/ckbfund/libckbfund-go/tx"
)

// MockLedgerService is a test double for LedgerService.
// All function fields must be set before the corresponding method is called.
type MockLedgerService struct {
	ListCellsFn        func(ctx context.Context, lock cell.Script, filter CellFilter) ([]*cell.LiveCell, error)
	GetBlockTxHashesFn func(ctx context.Context, blockNumber uint64) ([]cell.Hash, error)
	SendTransactionFn  func(ctx context.Context, t *tx.Transaction) (cell.Hash, error)
}

// Compile-time interface check.
var _ LedgerService = (*MockLedgerService)(nil)

func (m *MockLedgerService) ListCells(ctx context.Context, lock cell.Script, filter CellFilter) ([]*cell.LiveCell, error) {
	return m.ListCellsFn(ctx, lock, filter)
}

func (m *MockLedgerService) GetBlockTxHashes(ctx context.Context, blockNumber uint64) ([]cell.Hash, error) {
	return m.GetBlockTxHashesFn(ctx, blockNumber)
}

func (m *MockLedgerService) SendTransaction(ctx context.Context, t *tx.Transaction) (cell.Hash, error) {
	return m.SendTransactionFn(ctx, t)
}
