package transfer

import (
	"context"
	"math/big"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ckbfund/libckbfund-go/cell"
	"github.com/ckbfund/libckbfund-go/config"
	"github.com/ckbfund/libckbfund-go/network"
	"github.com/ckbfund/libckbfund-go/tx"
	"github.com/ckbfund/libckbfund-go/wallet"
)

// testConfig uses small round numbers so the capacity arithmetic in the
// assertions stays readable.
func testConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.Fee = 5
	cfg.DustThreshold = 61
	cfg.TokenCellCapacity = 142
	return cfg
}

// testLedger is a mock ledger over fixed cell populations. Pure-capacity
// queries return capCells, token queries return tokenCells.
type testLedger struct {
	network.MockLedgerService

	capCells     []*cell.LiveCell
	tokenCells   []*cell.LiveCell
	genesisCalls int
	sent         *tx.Transaction
}

func newTestLedger(t *testing.T) *testLedger {
	t.Helper()
	l := &testLedger{}
	l.ListCellsFn = func(ctx context.Context, lock cell.Script, filter network.CellFilter) ([]*cell.LiveCell, error) {
		if filter.PureCapacity {
			return l.capCells, nil
		}
		require.NotNil(t, filter.TokenScript)
		return l.tokenCells, nil
	}
	l.GetBlockTxHashesFn = func(ctx context.Context, blockNumber uint64) ([]cell.Hash, error) {
		require.Equal(t, uint64(0), blockNumber)
		l.genesisCalls++
		return []cell.Hash{
			cell.Blake256([]byte("genesis tx 0")),
			cell.Blake256([]byte("genesis tx 1")),
		}, nil
	}
	l.SendTransactionFn = func(ctx context.Context, built *tx.Transaction) (cell.Hash, error) {
		l.sent = built
		return built.Hash(), nil
	}
	return l
}

func newTestKey(t *testing.T) *btcec.PrivateKey {
	t.Helper()
	key, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	return key
}

func capCell(index uint32, capacity uint64, lock cell.Script) *cell.LiveCell {
	return &cell.LiveCell{
		OutPoint: cell.OutPoint{Index: cell.Uint32(index)},
		Capacity: capacity,
		Lock:     lock,
	}
}

func tokCell(t *testing.T, index uint32, capacity uint64, amount int64, lock cell.Script) *cell.LiveCell {
	t.Helper()
	data, err := cell.EncodeAmount(big.NewInt(amount))
	require.NoError(t, err)
	return &cell.LiveCell{
		OutPoint: cell.OutPoint{Index: cell.Uint32(index)},
		Capacity: capacity,
		Lock:     lock,
		Type:     &cell.Script{HashType: cell.HashTypeData},
		Data:     data,
	}
}

func TestNewEngineErrors(t *testing.T) {
	_, err := NewEngine(nil, testConfig())
	assert.ErrorIs(t, err, ErrNilParam)

	cfg := testConfig()
	cfg.RPCURL = ""
	_, err = NewEngine(newTestLedger(t), cfg)
	assert.ErrorIs(t, err, config.ErrEmptyRPCURL)
}

func TestTransferNative(t *testing.T) {
	key := newTestKey(t)
	lock := wallet.LockScript(key.PubKey())

	ledger := newTestLedger(t)
	ledger.capCells = []*cell.LiveCell{capCell(0, 1000, lock)}

	engine, err := NewEngine(ledger, testConfig())
	require.NoError(t, err)

	other := newTestKey(t)
	hash, err := engine.TransferNative(context.Background(), key, []tx.Recipient{
		{Lock: wallet.LockScript(other.PubKey()), Amount: 100},
		{Lock: wallet.LockScript(other.PubKey()), Amount: 100},
	})
	require.NoError(t, err)

	require.NotNil(t, ledger.sent)
	assert.Equal(t, ledger.sent.Hash(), hash)

	// 1000 in: two 100 payments, 795 change, 5 fee.
	require.Len(t, ledger.sent.Outputs, 3)
	assert.Equal(t, cell.Uint64(795), ledger.sent.Outputs[2].Capacity)
	assert.True(t, lock.Equal(ledger.sent.Outputs[2].Lock))

	// The submitted transaction is signed.
	require.Len(t, ledger.sent.Witnesses, 1)
	assert.Len(t, ledger.sent.Witnesses[0], 85)
}

func TestTransferNativeInsufficientAbortsBeforeBroadcast(t *testing.T) {
	key := newTestKey(t)
	ledger := newTestLedger(t)
	ledger.capCells = []*cell.LiveCell{capCell(0, 50, wallet.LockScript(key.PubKey()))}

	engine, err := NewEngine(ledger, testConfig())
	require.NoError(t, err)

	_, err = engine.TransferNative(context.Background(), key, []tx.Recipient{
		{Lock: wallet.LockScript(newTestKey(t).PubKey()), Amount: 100},
	})
	assert.ErrorIs(t, err, cell.ErrInsufficientFunds)
	assert.Nil(t, ledger.sent, "nothing reaches the node on a failed assembly")
}

func TestTransferToken(t *testing.T) {
	key := newTestKey(t)
	lock := wallet.LockScript(key.PubKey())

	ledger := newTestLedger(t)
	ledger.tokenCells = []*cell.LiveCell{tokCell(t, 0, 200, 150, lock)}
	ledger.capCells = []*cell.LiveCell{capCell(1, 300, lock)}

	engine, err := NewEngine(ledger, testConfig())
	require.NoError(t, err)

	_, err = engine.TransferToken(context.Background(), key, []tx.TokenRecipient{
		{Lock: wallet.LockScript(newTestKey(t).PubKey()), Amount: big.NewInt(100)},
	})
	require.NoError(t, err)

	// The token cell's 200 does not cover 142 + 5 + a reserved 142, so the
	// capacity cell is pulled in after it.
	require.NotNil(t, ledger.sent)
	require.Len(t, ledger.sent.Inputs, 2)
	assert.Equal(t, cell.Uint32(0), ledger.sent.Inputs[0].PreviousOutput.Index)
	assert.Equal(t, cell.Uint32(1), ledger.sent.Inputs[1].PreviousOutput.Index)

	// Recipient output, token change of 50, capacity change.
	require.Len(t, ledger.sent.Outputs, 3)
	assert.Equal(t, int64(100), cell.DecodeAmount(ledger.sent.OutputsData[0]).Int64())
	assert.Equal(t, int64(50), cell.DecodeAmount(ledger.sent.OutputsData[1]).Int64())
	assert.Nil(t, ledger.sent.Outputs[2].Type)

	assert.Len(t, ledger.sent.Witnesses[0], 85)
	assert.Equal(t, cell.Bytes(tx.SerializeWitnessArgs(nil, nil, nil)), ledger.sent.Witnesses[1])
}

func TestTransferTokenNotConfigured(t *testing.T) {
	cfg := testConfig()
	cfg.TokenCodeHash = ""

	engine, err := NewEngine(newTestLedger(t), cfg)
	require.NoError(t, err)

	_, err = engine.TransferToken(context.Background(), newTestKey(t), []tx.TokenRecipient{
		{Amount: big.NewInt(1)},
	})
	assert.ErrorIs(t, err, ErrTokenNotConfigured)
}

func TestGenesisDepsResolvedOnce(t *testing.T) {
	key := newTestKey(t)
	lock := wallet.LockScript(key.PubKey())

	ledger := newTestLedger(t)
	ledger.capCells = []*cell.LiveCell{capCell(0, 1000, lock), capCell(1, 1000, lock)}

	engine, err := NewEngine(ledger, testConfig())
	require.NoError(t, err)

	recipients := []tx.Recipient{{Lock: wallet.LockScript(newTestKey(t).PubKey()), Amount: 100}}
	_, err = engine.TransferNative(context.Background(), key, recipients)
	require.NoError(t, err)
	_, err = engine.TransferNative(context.Background(), key, recipients)
	require.NoError(t, err)

	assert.Equal(t, 1, ledger.genesisCalls)
}

func TestNativeBalance(t *testing.T) {
	key := newTestKey(t)
	lock := wallet.LockScript(key.PubKey())

	ledger := newTestLedger(t)
	ledger.capCells = []*cell.LiveCell{capCell(0, 300, lock), capCell(1, 200, lock)}

	engine, err := NewEngine(ledger, testConfig())
	require.NoError(t, err)

	balance, err := engine.NativeBalance(context.Background(), lock)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), balance)
}

func TestTokenBalance(t *testing.T) {
	key := newTestKey(t)
	lock := wallet.LockScript(key.PubKey())

	ledger := newTestLedger(t)
	ledger.tokenCells = []*cell.LiveCell{
		tokCell(t, 0, 142, 30, lock),
		tokCell(t, 1, 142, 70, lock),
	}

	engine, err := NewEngine(ledger, testConfig())
	require.NoError(t, err)

	balance, err := engine.TokenBalance(context.Background(), lock)
	require.NoError(t, err)
	assert.Equal(t, int64(100), balance.Int64())

	cfg := testConfig()
	cfg.TokenCodeHash = ""
	engine, err = NewEngine(ledger, cfg)
	require.NoError(t, err)
	_, err = engine.TokenBalance(context.Background(), lock)
	assert.ErrorIs(t, err, ErrTokenNotConfigured)
}

func TestTransferNilKey(t *testing.T) {
	engine, err := NewEngine(newTestLedger(t), testConfig())
	require.NoError(t, err)

	_, err = engine.TransferNative(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrNilParam)

	_, err = engine.TransferToken(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrNilParam)
}
