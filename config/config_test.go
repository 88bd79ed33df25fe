package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cuyfi.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
hub_chain_id = 30101
fee_bps = 250
settlement_window = "48h"

[[routes]]
chain_id = 30102
fee = 1500
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint16(250), cfg.FeeBps)
	assert.Equal(t, 48*time.Hour, cfg.SettlementWindow.Duration)
	require.Len(t, cfg.Routes, 1)
	assert.Equal(t, uint64(1500), cfg.Routes[0].Fee)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("CUYFI_FEE_BPS", "500")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, uint16(500), cfg.FeeBps)
}

func TestValidateRejects(t *testing.T) {
	cfg := Default()
	cfg.FeeBps = 2_001
	assert.ErrorIs(t, cfg.Validate(), ErrInvalid)

	cfg = Default()
	cfg.Owner = ""
	assert.ErrorIs(t, cfg.Validate(), ErrInvalid)

	cfg = Default()
	cfg.Routes = []Route{{ChainID: cfg.HubChainID}}
	assert.ErrorIs(t, cfg.Validate(), ErrInvalid)

	cfg = Default()
	cfg.Routes = []Route{{ChainID: 30102}, {ChainID: 30102}}
	assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
}
