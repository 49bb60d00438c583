package tx

import (
	"encoding/binary"

	"github.com/ckbfund/libckbfund-go/cell"
)

// Molecule serialization of the transaction structures that feed the
// transaction hash and the signing message. Only the encoding side is
// needed: this module builds transactions, it never parses them off-chain.
//
// Molecule primer: fixed-width structs are raw concatenations; "fixvec"
// is a u32-le item count followed by fixed-size items; tables and
// "dynvec" are a u32-le full size, one u32-le offset per field, then the
// fields themselves.

func putUint32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func putUint64(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

// serializeBytes encodes a molecule Bytes: item count + raw bytes.
func serializeBytes(b []byte) []byte {
	out := make([]byte, 0, 4+len(b))
	out = append(out, putUint32(uint32(len(b)))...)
	return append(out, b...)
}

// serializeFixVec encodes a fixvec of equally-sized items.
func serializeFixVec(items [][]byte) []byte {
	out := putUint32(uint32(len(items)))
	for _, it := range items {
		out = append(out, it...)
	}
	return out
}

// serializeTable encodes a molecule table (and dynvec, which shares the
// layout): full size, per-field offsets, fields.
func serializeTable(fields [][]byte) []byte {
	header := 4 + 4*len(fields)
	full := header
	for _, f := range fields {
		full += len(f)
	}
	out := make([]byte, 0, full)
	out = append(out, putUint32(uint32(full))...)
	offset := header
	for _, f := range fields {
		out = append(out, putUint32(uint32(offset))...)
		offset += len(f)
	}
	for _, f := range fields {
		out = append(out, f...)
	}
	return out
}

// serializeDynVec encodes a dynvec of variable-size items.
func serializeDynVec(items [][]byte) []byte {
	return serializeTable(items)
}

// hashTypeByte maps the JSON hash type to its molecule byte.
func hashTypeByte(ht cell.ScriptHashType) byte {
	switch ht {
	case cell.HashTypeData:
		return 0
	case cell.HashTypeType:
		return 1
	case cell.HashTypeData1:
		return 2
	default:
		return 0
	}
}

func serializeScript(s cell.Script) []byte {
	return serializeTable([][]byte{
		s.CodeHash[:],
		{hashTypeByte(s.HashType)},
		serializeBytes(s.Args),
	})
}

// serializeScriptOpt encodes an optional script; absence is zero bytes.
func serializeScriptOpt(s *cell.Script) []byte {
	if s == nil {
		return nil
	}
	return serializeScript(*s)
}

func serializeOutPoint(o cell.OutPoint) []byte {
	out := make([]byte, 0, 36)
	out = append(out, o.TxHash[:]...)
	return append(out, putUint32(uint32(o.Index))...)
}

func serializeCellInput(in CellInput) []byte {
	out := make([]byte, 0, 44)
	out = append(out, putUint64(uint64(in.Since))...)
	return append(out, serializeOutPoint(in.PreviousOutput)...)
}

// depTypeByte maps the JSON dep type to its molecule byte.
func depTypeByte(dt DepType) byte {
	if dt == DepTypeDepGroup {
		return 1
	}
	return 0
}

func serializeCellDep(d CellDep) []byte {
	out := serializeOutPoint(d.OutPoint)
	return append(out, depTypeByte(d.DepType))
}

func serializeCellOutput(o CellOutput) []byte {
	return serializeTable([][]byte{
		putUint64(uint64(o.Capacity)),
		serializeScript(o.Lock),
		serializeScriptOpt(o.Type),
	})
}

// SerializeRawTransaction encodes the raw transaction (the hashed region:
// everything except witnesses) as a molecule table.
func SerializeRawTransaction(t *Transaction) []byte {
	deps := make([][]byte, len(t.CellDeps))
	for i, d := range t.CellDeps {
		deps[i] = serializeCellDep(d)
	}
	headerDeps := make([][]byte, len(t.HeaderDeps))
	for i, h := range t.HeaderDeps {
		headerDeps[i] = h[:]
	}
	inputs := make([][]byte, len(t.Inputs))
	for i, in := range t.Inputs {
		inputs[i] = serializeCellInput(in)
	}
	outputs := make([][]byte, len(t.Outputs))
	for i, o := range t.Outputs {
		outputs[i] = serializeCellOutput(o)
	}
	outputsData := make([][]byte, len(t.OutputsData))
	for i, d := range t.OutputsData {
		outputsData[i] = serializeBytes(d)
	}

	return serializeTable([][]byte{
		putUint32(uint32(t.Version)),
		serializeFixVec(deps),
		serializeFixVec(headerDeps),
		serializeFixVec(inputs),
		serializeDynVec(outputs),
		serializeDynVec(outputsData),
	})
}

// SerializeWitnessArgs encodes a WitnessArgs table. Nil fields are absent
// options; SerializeWitnessArgs(nil, nil, nil) is the 16-byte empty
// placeholder attached to every input at assembly time.
func SerializeWitnessArgs(lock, inputType, outputType []byte) []byte {
	opt := func(b []byte) []byte {
		if b == nil {
			return nil
		}
		return serializeBytes(b)
	}
	return serializeTable([][]byte{opt(lock), opt(inputType), opt(outputType)})
}
