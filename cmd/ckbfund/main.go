// Command ckbfund funds a set of node accounts from one source account:
// a capacity transfer to every node, then a token transfer, mirroring the
// startup funding round of a local multi-node deployment.
package main

import (
	"context"
	"encoding/hex"
	"math/big"
	"os"
	"strconv"
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"

	"github.com/ckbfund/libckbfund-go/config"
	"github.com/ckbfund/libckbfund-go/network"
	"github.com/ckbfund/libckbfund-go/store"
	"github.com/ckbfund/libckbfund-go/transfer"
	"github.com/ckbfund/libckbfund-go/tx"
	"github.com/ckbfund/libckbfund-go/wallet"
)

var opts struct {
	RPCURL      string   `long:"rpc-url" env:"CKBFUND_RPC_URL" description:"CKB node JSON-RPC endpoint"`
	Network     string   `long:"network" env:"CKBFUND_NETWORK" description:"network preset" default:"devnet"`
	SourceKey   string   `long:"source-key" env:"CKBFUND_SOURCE_KEY" description:"path to the source account key file" required:"true"`
	NodeKeys    []string `long:"node-key" description:"path to a node key file (repeatable)" required:"true"`
	CKBAmount   uint64   `long:"ckb-amount" description:"capacity per node in shannons" default:"100000000000000000"`
	TokenAmount string   `long:"token-amount" description:"token amount per node (decimal, 0 to skip)" default:"1000000000"`
	Wait        uint     `long:"wait" description:"seconds to wait for the capacity transfer to commit" default:"10"`
	StorePath   string   `long:"store" description:"optional bbolt transfer log path"`
}

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if _, err := flags.ParseArgs(&opts, os.Args); err != nil {
		if flags.WroteHelp(err) {
			return
		}
		logger.Fatal("Failed to parse arguments", zap.Error(err))
	}

	cfg, err := config.ResolveConfig(&config.Config{RPCURL: opts.RPCURL}, envMap(), opts.Network)
	if err != nil {
		logger.Fatal("Failed to resolve configuration", zap.Error(err))
	}

	client := network.NewRPCClient(cfg.RPCURL)
	engine, err := transfer.NewEngine(client, *cfg)
	if err != nil {
		logger.Fatal("Failed to create transfer engine", zap.Error(err))
	}

	var log *store.TransferLog
	if opts.StorePath != "" {
		log, err = store.OpenTransferLog(opts.StorePath)
		if err != nil {
			logger.Fatal("Failed to open transfer log", zap.Error(err))
		}
		defer func() { _ = log.Close() }()
	}

	sourceKey, err := wallet.LoadKeyFile(opts.SourceKey)
	if err != nil {
		logger.Fatal("Failed to load source key", zap.Error(err))
	}

	nodeKeys := make([]*btcec.PrivateKey, len(opts.NodeKeys))
	for i, path := range opts.NodeKeys {
		key, err := wallet.LoadKeyFile(path)
		if err != nil {
			logger.Fatal("Failed to load node key", zap.String("path", path), zap.Error(err))
		}
		nodeKeys[i] = key
		lock := wallet.LockScript(key.PubKey())
		logger.Info("Loaded node account",
			zap.String("path", path),
			zap.String("lock_args", "0x"+hex.EncodeToString(lock.Args)))
	}

	ctx := context.Background()
	sourceLock := wallet.LockScript(sourceKey.PubKey())

	ckbBalance, err := engine.NativeBalance(ctx, sourceLock)
	if err != nil {
		logger.Fatal("Failed to query source CKB balance", zap.Error(err))
	}
	logger.Info("Source CKB balance", zap.Uint64("shannons", ckbBalance))

	tokenAmount, ok := new(big.Int).SetString(opts.TokenAmount, 10)
	if !ok || tokenAmount.Sign() < 0 {
		logger.Fatal("Invalid token amount", zap.String("value", opts.TokenAmount))
	}
	if tokenAmount.Sign() > 0 {
		tokenBalance, err := engine.TokenBalance(ctx, sourceLock)
		if err != nil {
			logger.Fatal("Failed to query source token balance", zap.Error(err))
		}
		logger.Info("Source token balance", zap.String("amount", tokenBalance.String()))
	}

	// Capacity first: the token round needs committed capacity cells for
	// its top-up pass.
	recipients := make([]tx.Recipient, len(nodeKeys))
	var ckbTotal uint64
	for i, key := range nodeKeys {
		recipients[i] = tx.Recipient{Lock: wallet.LockScript(key.PubKey()), Amount: opts.CKBAmount}
		ckbTotal += opts.CKBAmount
	}
	txHash, err := engine.TransferNative(ctx, sourceKey, recipients)
	if err != nil {
		logger.Fatal("CKB transfer failed", zap.Error(err))
	}
	logger.Info("CKB transfer submitted", zap.String("tx_hash", txHash.String()))
	record(logger, log, store.Record{
		TxHash:     txHash.String(),
		Asset:      "native",
		Total:      strconv.FormatUint(ckbTotal, 10),
		Recipients: len(recipients),
		Network:    cfg.Network,
		SubmitAt:   time.Now(),
	})

	if tokenAmount.Sign() == 0 {
		logger.Info("Token transfer skipped")
		return
	}

	logger.Info("Waiting for CKB transfer to commit", zap.Uint("seconds", opts.Wait))
	time.Sleep(time.Duration(opts.Wait) * time.Second)

	tokenRecipients := make([]tx.TokenRecipient, len(nodeKeys))
	tokenTotal := new(big.Int)
	for i, key := range nodeKeys {
		tokenRecipients[i] = tx.TokenRecipient{Lock: wallet.LockScript(key.PubKey()), Amount: tokenAmount}
		tokenTotal.Add(tokenTotal, tokenAmount)
	}
	txHash, err = engine.TransferToken(ctx, sourceKey, tokenRecipients)
	if err != nil {
		logger.Fatal("Token transfer failed", zap.Error(err))
	}
	logger.Info("Token transfer submitted", zap.String("tx_hash", txHash.String()))
	record(logger, log, store.Record{
		TxHash:     txHash.String(),
		Asset:      "token",
		Total:      tokenTotal.String(),
		Recipients: len(tokenRecipients),
		Network:    cfg.Network,
		SubmitAt:   time.Now(),
	})

	logger.Info("All transfers complete")
}

// record appends to the transfer log when one is configured.
func record(logger *zap.Logger, log *store.TransferLog, rec store.Record) {
	if log == nil {
		return
	}
	if err := log.Append(rec); err != nil {
		logger.Warn("Failed to record transfer", zap.Error(err))
	}
}

// envMap collects the environment variables the config layer reads.
func envMap() map[string]string {
	env := make(map[string]string)
	for _, key := range []string{"CKBFUND_RPC_URL", "CKBFUND_NETWORK"} {
		if v := os.Getenv(key); v != "" {
			env[key] = v
		}
	}
	return env
}
