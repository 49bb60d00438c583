package network

import (
	"context"
	"fmt"

	"github.com/ckbfund/libckbfund-go/cell"
	"github.com/ckbfund/libckbfund-go/tx"
)

// pageLimit is the get_cells page size.
const pageLimit = 100

// searchKey is the indexer's get_cells query: the lock script to match
// plus optional output filters.
type searchKey struct {
	Script           cell.Script      `json:"script"`
	ScriptType       string           `json:"script_type"`
	ScriptSearchMode string           `json:"script_search_mode,omitempty"`
	Filter           *searchKeyFilter `json:"filter,omitempty"`
	WithData         bool             `json:"with_data"`
}

// searchKeyFilter narrows get_cells results by type script. ScriptLenRange
// [0, 1) keeps only cells with no type script at all.
type searchKeyFilter struct {
	Script         *cell.Script  `json:"script,omitempty"`
	ScriptLenRange []cell.Uint64 `json:"script_len_range,omitempty"`
}

// indexerCell is one get_cells result object.
type indexerCell struct {
	OutPoint cell.OutPoint `json:"out_point"`
	Output   struct {
		Capacity cell.Uint64  `json:"capacity"`
		Lock     cell.Script  `json:"lock"`
		Type     *cell.Script `json:"type"`
	} `json:"output"`
	OutputData cell.Bytes `json:"output_data"`
}

// getCellsResult is one get_cells page.
type getCellsResult struct {
	Objects    []indexerCell `json:"objects"`
	LastCursor string        `json:"last_cursor"`
}

// ListCells exhaustively enumerates the live cells locked by lock. Pages
// of 100 are fetched in ascending order, following last_cursor until an
// empty page. The indexer's type-script filter is a prefix match, so the
// exact-match constraints are re-checked client-side before a cell is
// accepted.
func (c *RPCClient) ListCells(ctx context.Context, lock cell.Script, filter CellFilter) ([]*cell.LiveCell, error) {
	key := searchKey{
		Script:           lock,
		ScriptType:       "lock",
		ScriptSearchMode: "exact",
		WithData:         true,
	}
	switch {
	case filter.PureCapacity:
		key.Filter = &searchKeyFilter{ScriptLenRange: []cell.Uint64{0, 1}}
	case filter.TokenScript != nil:
		key.Filter = &searchKeyFilter{Script: filter.TokenScript}
	}

	var cells []*cell.LiveCell
	var cursor interface{}
	for {
		params := []interface{}{key, "asc", cell.Uint64(pageLimit), cursor}
		var page getCellsResult
		if err := c.Call(ctx, "get_cells", params, &page); err != nil {
			return nil, fmt.Errorf("network: get_cells: %w", err)
		}
		if len(page.Objects) == 0 {
			break
		}
		for _, obj := range page.Objects {
			if !matchesFilter(obj.Output.Type, filter) {
				continue
			}
			cells = append(cells, &cell.LiveCell{
				OutPoint: obj.OutPoint,
				Capacity: uint64(obj.Output.Capacity),
				Lock:     obj.Output.Lock,
				Type:     obj.Output.Type,
				Data:     obj.OutputData,
			})
		}
		if page.LastCursor == "" {
			return nil, fmt.Errorf("%w: get_cells page missing last_cursor", ErrInvalidResponse)
		}
		cursor = page.LastCursor
	}
	return cells, nil
}

// matchesFilter applies the exact filter semantics the indexer only
// approximates.
func matchesFilter(typeScript *cell.Script, filter CellFilter) bool {
	switch {
	case filter.PureCapacity:
		return typeScript == nil
	case filter.TokenScript != nil:
		return typeScript != nil && typeScript.Equal(*filter.TokenScript)
	default:
		return true
	}
}

// blockTxHashes maps the subset of get_block_by_number needed for cell-dep
// resolution.
type blockTxHashes struct {
	Transactions []struct {
		Hash cell.Hash `json:"hash"`
	} `json:"transactions"`
}

// GetBlockTxHashes returns the transaction hashes of the block at the
// given number, in block order.
func (c *RPCClient) GetBlockTxHashes(ctx context.Context, blockNumber uint64) ([]cell.Hash, error) {
	params := []interface{}{cell.Uint64(blockNumber)}
	var block *blockTxHashes
	if err := c.Call(ctx, "get_block_by_number", params, &block); err != nil {
		return nil, fmt.Errorf("network: get_block_by_number: %w", err)
	}
	if block == nil {
		return nil, fmt.Errorf("%w: block %d", ErrBlockNotFound, blockNumber)
	}
	hashes := make([]cell.Hash, len(block.Transactions))
	for i, t := range block.Transactions {
		hashes[i] = t.Hash
	}
	return hashes, nil
}

// SendTransaction submits a signed transaction with the passthrough
// outputs validator (required for outputs carrying custom token scripts)
// and returns the transaction hash assigned by the node.
func (c *RPCClient) SendTransaction(ctx context.Context, t *tx.Transaction) (cell.Hash, error) {
	if t == nil {
		return cell.Hash{}, fmt.Errorf("%w: transaction", ErrNilParam)
	}
	params := []interface{}{t, "passthrough"}
	var hash cell.Hash
	if err := c.Call(ctx, "send_transaction", params, &hash); err != nil {
		return cell.Hash{}, fmt.Errorf("%w: %w", ErrBroadcastRejected, err)
	}
	return hash, nil
}
