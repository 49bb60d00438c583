package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ckbfund/libckbfund-go/cell"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, ValidateConfig(cfg))
	assert.Equal(t, "devnet", cfg.Network)
	assert.Equal(t, uint64(100_000), cfg.Fee)
}

func TestTokenScript(t *testing.T) {
	cfg := DefaultConfig()
	script, err := cfg.TokenScript()
	require.NoError(t, err)

	assert.Equal(t, cfg.TokenCodeHash, script.CodeHash.String())
	assert.Equal(t, cell.HashTypeData, script.HashType)
	assert.Len(t, script.Args, 32)

	cfg.TokenCodeHash = "0x1234"
	_, err = cfg.TokenScript()
	assert.ErrorIs(t, err, ErrInvalidTokenScript)
}

func TestValidateConfig(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"empty rpc url", func(c *Config) { c.RPCURL = "" }, ErrEmptyRPCURL},
		{"bad rpc url", func(c *Config) { c.RPCURL = "not a url" }, ErrInvalidRPCURL},
		{"empty network", func(c *Config) { c.Network = "" }, ErrEmptyNetwork},
		{"zero dust", func(c *Config) { c.DustThreshold = 0 }, ErrInvalidDustThreshold},
		{"floor below dust", func(c *Config) { c.TokenCellCapacity = c.DustThreshold - 1 }, ErrInvalidTokenCapacity},
		{"bad hash type", func(c *Config) { c.TokenHashType = "data2" }, ErrInvalidTokenScript},
		{"bad token args", func(c *Config) { c.TokenArgs = "zz" }, ErrInvalidTokenScript},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			assert.ErrorIs(t, ValidateConfig(cfg), tc.want)
		})
	}
}

func TestValidateConfigTokenFieldsOptional(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TokenCodeHash = ""
	cfg.TokenHashType = ""
	cfg.TokenArgs = ""
	assert.NoError(t, ValidateConfig(cfg))
}

func TestResolveConfigPreset(t *testing.T) {
	cfg, err := ResolveConfig(nil, nil, "devnet")
	require.NoError(t, err)
	assert.Equal(t, Presets["devnet"], *cfg)
}

func TestResolveConfigEnvOverridesPreset(t *testing.T) {
	env := map[string]string{"CKBFUND_RPC_URL": "http://10.0.0.5:8114"}
	cfg, err := ResolveConfig(nil, env, "devnet")
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.5:8114", cfg.RPCURL)
	assert.Equal(t, "devnet", cfg.Network)
}

func TestResolveConfigOverridesWinOverEnv(t *testing.T) {
	env := map[string]string{"CKBFUND_RPC_URL": "http://10.0.0.5:8114"}
	overrides := &Config{RPCURL: "http://10.0.0.9:8114", Fee: 42}
	cfg, err := ResolveConfig(overrides, env, "devnet")
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.9:8114", cfg.RPCURL)
	assert.Equal(t, uint64(42), cfg.Fee)
}

func TestResolveConfigMainnetRequiresExplicit(t *testing.T) {
	_, err := ResolveConfig(nil, nil, "mainnet")
	require.Error(t, err)

	cfg, err := ResolveConfig(&Config{RPCURL: "http://mainnet-node:8114"}, nil, "mainnet")
	require.NoError(t, err)
	assert.Equal(t, "mainnet", cfg.Network)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ckbfund.conf")

	want := DefaultConfig()
	want.RPCURL = "http://192.168.1.10:8114"
	want.Fee = 200_000
	require.NoError(t, SaveConfig(path, want))

	got, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadConfigSkipsCommentsAndBlanks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ckbfund.conf")
	content := "# transfer engine settings\n\nrpc_url = http://127.0.0.1:8114\nfee=77\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8114", cfg.RPCURL)
	assert.Equal(t, uint64(77), cfg.Fee)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.conf"))
	assert.ErrorIs(t, err, ErrConfigNotFound)

	path := filepath.Join(t.TempDir(), "bad.conf")
	require.NoError(t, os.WriteFile(path, []byte("no equals sign\n"), 0600))
	_, err = LoadConfig(path)
	assert.ErrorIs(t, err, ErrInvalidConfigLine)

	require.NoError(t, os.WriteFile(path, []byte("unknown_key=1\n"), 0600))
	_, err = LoadConfig(path)
	assert.ErrorIs(t, err, ErrInvalidConfigLine)

	require.NoError(t, os.WriteFile(path, []byte("fee=abc\n"), 0600))
	_, err = LoadConfig(path)
	assert.ErrorIs(t, err, ErrInvalidConfigLine)
}
