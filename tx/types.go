// Package tx assembles, hashes, and signs CKB transactions: native
// capacity transfers and dual-asset token transfers over selected live
// cells, with witness placeholders and deduplicated cell deps.
package tx

import (
	"github.com/ckbfund/libckbfund-go/cell"
)

// DepType tells the chain how to interpret a cell dep.
type DepType string

const (
	// DepTypeCode references a single code cell directly.
	DepTypeCode DepType = "code"

	// DepTypeDepGroup references a group cell whose payload lists the
	// actual code cells.
	DepTypeDepGroup DepType = "dep_group"
)

// CellDep references external program code an output's lock or type
// script requires to validate. Each distinct dep appears at most once per
// transaction.
type CellDep struct {
	OutPoint cell.OutPoint `json:"out_point"`
	DepType  DepType       `json:"dep_type"`
}

// Equal reports whether two cell deps reference the same code location.
func (d CellDep) Equal(other CellDep) bool {
	return d.OutPoint.Equal(other.OutPoint) && d.DepType == other.DepType
}

// CellInput consumes a live cell by reference. Since is the consensus
// maturity field and is always zero for plain transfers.
type CellInput struct {
	Since          cell.Uint64   `json:"since"`
	PreviousOutput cell.OutPoint `json:"previous_output"`
}

// CellOutput is a created cell: its capacity, its lock script, and an
// optional type script marking it as token-bearing.
type CellOutput struct {
	Capacity cell.Uint64  `json:"capacity"`
	Lock     cell.Script  `json:"lock"`
	Type     *cell.Script `json:"type"`
}

// Transaction is an assembled transaction in the node's JSON wire form.
// Outputs and OutputsData are paired 1:1, and Witnesses are paired 1:1
// with Inputs. Until signing, every witness is an empty WitnessArgs
// placeholder.
type Transaction struct {
	Version     cell.Uint32  `json:"version"`
	CellDeps    []CellDep    `json:"cell_deps"`
	HeaderDeps  []cell.Hash  `json:"header_deps"`
	Inputs      []CellInput  `json:"inputs"`
	Outputs     []CellOutput `json:"outputs"`
	OutputsData []cell.Bytes `json:"outputs_data"`
	Witnesses   []cell.Bytes `json:"witnesses"`
}

// Hash returns the transaction hash: the CKB-personalized blake2b-256 of
// the molecule-serialized raw transaction (witnesses excluded).
func (t *Transaction) Hash() cell.Hash {
	return cell.Blake256(SerializeRawTransaction(t))
}

// appendCellDep appends dep unless an equal dep is already present.
func appendCellDep(deps []CellDep, dep CellDep) []CellDep {
	for _, d := range deps {
		if d.Equal(dep) {
			return deps
		}
	}
	return append(deps, dep)
}
