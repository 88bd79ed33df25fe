package main

import (
	"fmt"

	"github.com/ManuelElias1999/CuyFI/adapters/mock"
	"github.com/ManuelElias1999/CuyFI/composer"
	"github.com/ManuelElias1999/CuyFI/config"
	"github.com/ManuelElias1999/CuyFI/domain"
	"github.com/ManuelElias1999/CuyFI/registry"
	"github.com/ManuelElias1999/CuyFI/store"
	"github.com/ManuelElias1999/CuyFI/strategy"
	"github.com/ManuelElias1999/CuyFI/token"
	"github.com/ManuelElias1999/CuyFI/vault"
)

// node is a fully wired in-process hub built from one Config.
type node struct {
	cfg      config.Config
	registry *registry.Registry
	asset    *token.Token
	vault    *vault.Vault
	bridge   *mock.Bridge
	composer *composer.Composer
	executor *strategy.Executor

	kv store.KVStore
}

// buildNode wires a hub the same way the tests do, with a pebble-backed
// journal when data_dir is configured and an in-memory one otherwise.
func buildNode(cfg config.Config) (*node, error) {
	reg, err := registry.New(domain.Address(cfg.Owner), domain.Address(cfg.Agent))
	if err != nil {
		return nil, err
	}
	asset := token.New(domain.Asset{Ticker: cfg.AssetTicker, Decimals: 6})
	v := vault.New("vault", reg)
	if err := v.Initialize(cfg.VaultName, cfg.VaultSymbol, asset, domain.Address(cfg.FeeRecipient), cfg.FeeBps, "composer"); err != nil {
		return nil, err
	}

	bridge := mock.NewBridge("bridge")
	for _, r := range cfg.Routes {
		bridge.SetRouteFee(domain.ChainID(r.ChainID), r.Fee)
		bridge.RegisterShareBook(domain.ChainID(r.ChainID), token.New(domain.Asset{Ticker: cfg.VaultSymbol, Decimals: 6}))
	}
	if err := reg.SetTransport(domain.Address(cfg.Owner), bridge.Address(), true); err != nil {
		return nil, err
	}

	var kv store.KVStore
	if cfg.DataDir != "" {
		kv, err = store.NewPebbleStore(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open journal at %s: %w", cfg.DataDir, err)
		}
	} else {
		kv = store.NewMemoryStore()
	}
	journal := store.NewJournal(kv)

	comp, err := composer.New("composer", domain.ChainID(cfg.HubChainID), reg, v, bridge, bridge.Address(), journal,
		composer.WithExpiryWindow(cfg.SettlementWindow.Duration),
	)
	if err != nil {
		return nil, err
	}
	bridge.BindHub(comp, asset, comp.Address())

	tracker, err := strategy.NewTracker(journal)
	if err != nil {
		return nil, err
	}
	if err := v.Bind(tracker, comp, "strategy"); err != nil {
		return nil, err
	}
	exec, err := strategy.NewExecutor("strategy", reg, v, tracker, bridge)
	if err != nil {
		return nil, err
	}

	return &node{
		cfg:      cfg,
		registry: reg,
		asset:    asset,
		vault:    v,
		bridge:   bridge,
		composer: comp,
		executor: exec,
		kv:       kv,
	}, nil
}

func (n *node) Close() error {
	return n.kv.Close()
}

// firstRoute returns the first configured spoke route, which the demos use
// as their remote chain.
func (n *node) firstRoute() (config.Route, error) {
	if len(n.cfg.Routes) == 0 {
		return config.Route{}, fmt.Errorf("no routes configured; add a [[routes]] entry")
	}
	return n.cfg.Routes[0], nil
}
