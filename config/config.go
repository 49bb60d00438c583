// Package config holds the transfer engine's configuration: node
// endpoint, fee and dust policy, and the token identity. Values layer
// from network presets, environment variables, and explicit overrides,
// and can be persisted as a line-based key=value file.
package config

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/ckbfund/libckbfund-go/cell"
)

// Config is the explicit configuration passed into the transfer engine.
// Every chain- or policy-dependent constant lives here rather than being
// compiled in, so multiple networks and token deployments can share the
// same engine code.
type Config struct {
	// RPCURL is the CKB node's JSON-RPC endpoint.
	RPCURL string

	// Network names the chain this configuration targets.
	Network string

	// Fee is the fixed transaction fee in shannons, always deducted from
	// the native capacity ledger.
	Fee uint64

	// DustThreshold is the capacity below which a bare change cell is not
	// worth creating; such remainders are forfeited to the fee.
	DustThreshold uint64

	// TokenCellCapacity is the capacity floor of every token-bearing
	// output, sized to cover the storage cost of the type script and the
	// 16-byte amount payload.
	TokenCellCapacity uint64

	// TokenCodeHash, TokenHashType, and TokenArgs identify the token's
	// type script, hex-encoded for config-file friendliness.
	TokenCodeHash string
	TokenHashType string
	TokenArgs     string

	// TokenDepTxIndex and TokenDepOutputIndex locate the token code cell
	// within the genesis block.
	TokenDepTxIndex     uint32
	TokenDepOutputIndex uint32
}

// Presets contains default configurations for known networks. Mainnet is
// intentionally omitted to require explicit configuration.
var Presets = map[string]Config{
	"devnet": {
		RPCURL:              "http://127.0.0.1:8114",
		Network:             "devnet",
		Fee:                 100_000,
		DustThreshold:       61_0000_0000,
		TokenCellCapacity:   142_0000_0000,
		TokenCodeHash:       "0xe1e354d6d643ad42724d40967e334984534e0367405c5ae42a9d7d63d77df419",
		TokenHashType:       "data",
		TokenArgs:           "0xc219351b150b900e50a7039f1e448b844110927e5fd9bd30425806cb8ddff1fd",
		TokenDepTxIndex:     0,
		TokenDepOutputIndex: 8,
	},
	"testnet": {
		RPCURL:            "http://127.0.0.1:8114",
		Network:           "testnet",
		Fee:               100_000,
		DustThreshold:     61_0000_0000,
		TokenCellCapacity: 142_0000_0000,
		TokenHashType:     "type",
	},
}

// DefaultConfig returns the devnet preset.
func DefaultConfig() Config {
	return Presets["devnet"]
}

// TokenScript assembles the token type script from the configured
// identity fields.
func (c Config) TokenScript() (cell.Script, error) {
	codeHash, err := cell.HashFromHex(c.TokenCodeHash)
	if err != nil {
		return cell.Script{}, fmt.Errorf("%w: token code hash: %v", ErrInvalidTokenScript, err)
	}
	var args cell.Bytes
	if err := args.UnmarshalJSON([]byte(`"` + c.TokenArgs + `"`)); err != nil {
		return cell.Script{}, fmt.Errorf("%w: token args: %v", ErrInvalidTokenScript, err)
	}
	return cell.Script{
		CodeHash: codeHash,
		HashType: cell.ScriptHashType(c.TokenHashType),
		Args:     args,
	}, nil
}

// ResolveConfig merges configuration from three sources with decreasing
// priority:
//  1. explicit overrides (highest priority; nil to skip)
//  2. environment variables (CKBFUND_RPC_URL, CKBFUND_NETWORK)
//  3. network presets (lowest priority; devnet and testnet only)
//
// For mainnet, explicit configuration is required -- there is no preset.
func ResolveConfig(overrides *Config, env map[string]string, network string) (*Config, error) {
	result := Config{Network: network}

	if preset, ok := Presets[network]; ok {
		result = preset
		result.Network = network
	}

	if env != nil {
		if v, ok := env["CKBFUND_RPC_URL"]; ok && v != "" {
			result.RPCURL = v
		}
		if v, ok := env["CKBFUND_NETWORK"]; ok && v != "" {
			result.Network = v
		}
	}

	if overrides != nil {
		if overrides.RPCURL != "" {
			result.RPCURL = overrides.RPCURL
		}
		if overrides.Fee != 0 {
			result.Fee = overrides.Fee
		}
		if overrides.DustThreshold != 0 {
			result.DustThreshold = overrides.DustThreshold
		}
		if overrides.TokenCellCapacity != 0 {
			result.TokenCellCapacity = overrides.TokenCellCapacity
		}
		if overrides.TokenCodeHash != "" {
			result.TokenCodeHash = overrides.TokenCodeHash
			result.TokenHashType = overrides.TokenHashType
			result.TokenArgs = overrides.TokenArgs
			result.TokenDepTxIndex = overrides.TokenDepTxIndex
			result.TokenDepOutputIndex = overrides.TokenDepOutputIndex
		}
	}

	if result.RPCURL == "" {
		return nil, fmt.Errorf("config: %s requires explicit RPC configuration (set CKBFUND_RPC_URL or pass overrides)", network)
	}

	return &result, nil
}

// LoadConfig reads a key=value config file. Blank lines and lines
// starting with '#' are ignored.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return cfg, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return cfg, fmt.Errorf("%w: line %d: %q", ErrInvalidConfigLine, lineNo, line)
		}
		if err := cfg.set(strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
			return cfg, fmt.Errorf("config: line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig writes the config as a key=value file.
func SaveConfig(path string, cfg Config) error {
	entries := cfg.entries()
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, entries[k])
	}
	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// set assigns one key=value pair onto the config.
func (c *Config) set(key, value string) error {
	switch key {
	case "rpc_url":
		c.RPCURL = value
	case "network":
		c.Network = value
	case "fee":
		return setUint64(&c.Fee, key, value)
	case "dust_threshold":
		return setUint64(&c.DustThreshold, key, value)
	case "token_cell_capacity":
		return setUint64(&c.TokenCellCapacity, key, value)
	case "token_code_hash":
		c.TokenCodeHash = value
	case "token_hash_type":
		c.TokenHashType = value
	case "token_args":
		c.TokenArgs = value
	case "token_dep_tx_index":
		return setUint32(&c.TokenDepTxIndex, key, value)
	case "token_dep_output_index":
		return setUint32(&c.TokenDepOutputIndex, key, value)
	default:
		return fmt.Errorf("%w: unknown key %q", ErrInvalidConfigLine, key)
	}
	return nil
}

// entries returns the config as key=value pairs, the inverse of set.
func (c Config) entries() map[string]string {
	return map[string]string{
		"rpc_url":                c.RPCURL,
		"network":                c.Network,
		"fee":                    strconv.FormatUint(c.Fee, 10),
		"dust_threshold":         strconv.FormatUint(c.DustThreshold, 10),
		"token_cell_capacity":    strconv.FormatUint(c.TokenCellCapacity, 10),
		"token_code_hash":        c.TokenCodeHash,
		"token_hash_type":        c.TokenHashType,
		"token_args":             c.TokenArgs,
		"token_dep_tx_index":     strconv.FormatUint(uint64(c.TokenDepTxIndex), 10),
		"token_dep_output_index": strconv.FormatUint(uint64(c.TokenDepOutputIndex), 10),
	}
}

func setUint64(dst *uint64, key, value string) error {
	v, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %s=%q", ErrInvalidConfigLine, key, value)
	}
	*dst = v
	return nil
}

func setUint32(dst *uint32, key, value string) error {
	v, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return fmt.Errorf("%w: %s=%q", ErrInvalidConfigLine, key, value)
	}
	*dst = uint32(v)
	return nil
}
