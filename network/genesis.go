package network

import (
	"context"
	"fmt"

	"github.com/ckbfund/libckbfund-go/cell"
	"github.com/ckbfund/libckbfund-go/tx"
)

// Genesis block layout constants for the sighash-all dep group: the
// second genesis transaction's first output groups the secp256k1 code
// cells on every CKB chain.
const (
	secpDepTxIndex     = 1
	secpDepOutputIndex = 0
)

// GenesisDeps are the external code locations transfer transactions
// reference: the sighash-all dep group every input needs, and the token
// code cell token-bearing outputs need. They are constants for a given
// network and are resolved once per engine.
type GenesisDeps struct {
	Secp  tx.CellDep
	Token tx.CellDep
}

// ResolveGenesisDeps reads the genesis block and locates the sighash-all
// dep group and the token code cell. tokenTxIndex and tokenOutputIndex
// give the token code cell's position within the genesis block; they vary
// per chain configuration.
func ResolveGenesisDeps(ctx context.Context, svc LedgerService, tokenTxIndex, tokenOutputIndex uint32) (*GenesisDeps, error) {
	if svc == nil {
		return nil, fmt.Errorf("%w: ledger service", ErrNilParam)
	}
	hashes, err := svc.GetBlockTxHashes(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("network: resolve genesis deps: %w", err)
	}
	if len(hashes) <= secpDepTxIndex || uint32(len(hashes)) <= tokenTxIndex {
		return nil, fmt.Errorf("%w: genesis block has only %d transactions",
			ErrInvalidResponse, len(hashes))
	}
	return &GenesisDeps{
		Secp: tx.CellDep{
			OutPoint: cell.OutPoint{TxHash: hashes[secpDepTxIndex], Index: secpDepOutputIndex},
			DepType:  tx.DepTypeDepGroup,
		},
		Token: tx.CellDep{
			OutPoint: cell.OutPoint{TxHash: hashes[tokenTxIndex], Index: cell.Uint32(tokenOutputIndex)},
			DepType:  tx.DepTypeCode,
		},
	}, nil
}
