// Package config loads the node configuration from a TOML file with
// environment-variable overrides.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

var ErrInvalid = errors.New("invalid configuration")

// Duration wraps time.Duration so TOML and env values like "168h" parse.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Route opens one destination chain with its transport fee.
type Route struct {
	ChainID uint32 `toml:"chain_id"`
	Fee     uint64 `toml:"fee"`
}

// Config is the full node configuration.
type Config struct {
	HubChainID   uint32 `toml:"hub_chain_id" env:"CUYFI_HUB_CHAIN_ID"`
	VaultName    string `toml:"vault_name" env:"CUYFI_VAULT_NAME"`
	VaultSymbol  string `toml:"vault_symbol" env:"CUYFI_VAULT_SYMBOL"`
	AssetTicker  string `toml:"asset_ticker" env:"CUYFI_ASSET_TICKER"`
	FeeBps       uint16 `toml:"fee_bps" env:"CUYFI_FEE_BPS"`
	FeeRecipient string `toml:"fee_recipient" env:"CUYFI_FEE_RECIPIENT"`
	Owner        string `toml:"owner" env:"CUYFI_OWNER"`
	Agent        string `toml:"agent" env:"CUYFI_AGENT"`

	// SettlementWindow bounds how long a pending settlement stays
	// finalizable.
	SettlementWindow Duration `toml:"settlement_window" env:"CUYFI_SETTLEMENT_WINDOW"`

	// DataDir is the pebble journal location; empty means in-memory only.
	DataDir string `toml:"data_dir" env:"CUYFI_DATA_DIR"`

	Routes []Route `toml:"routes"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		HubChainID:       30101,
		VaultName:        "CuyFI Vault",
		VaultSymbol:      "cuyUSDC",
		AssetTicker:      "USDC",
		FeeBps:           100,
		FeeRecipient:     "treasury",
		Owner:            "owner",
		Agent:            "agent",
		SettlementWindow: Duration{7 * 24 * time.Hour},
	}
}

// Load reads the TOML file at path (skipped when empty), applies environment
// overrides, and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode %s: %w", path, err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate enforces the same identity and cap rules the components do, so a
// bad file fails at startup rather than first use.
func (c Config) Validate() error {
	if c.Owner == "" || c.Agent == "" || c.FeeRecipient == "" {
		return fmt.Errorf("owner, agent and fee_recipient must be set: %w", ErrInvalid)
	}
	if c.FeeBps > 2_000 {
		return fmt.Errorf("fee_bps %d above 20%% cap: %w", c.FeeBps, ErrInvalid)
	}
	if c.SettlementWindow.Duration <= 0 {
		return fmt.Errorf("settlement_window must be positive: %w", ErrInvalid)
	}
	seen := make(map[uint32]bool)
	for _, r := range c.Routes {
		if r.ChainID == c.HubChainID {
			return fmt.Errorf("route %d targets the hub itself: %w", r.ChainID, ErrInvalid)
		}
		if seen[r.ChainID] {
			return fmt.Errorf("duplicate route %d: %w", r.ChainID, ErrInvalid)
		}
		seen[r.ChainID] = true
	}
	return nil
}
