package composer_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelElias1999/CuyFI/adapters/mock"
	"github.com/ManuelElias1999/CuyFI/composer"
	"github.com/ManuelElias1999/CuyFI/domain"
	"github.com/ManuelElias1999/CuyFI/registry"
	"github.com/ManuelElias1999/CuyFI/store"
	"github.com/ManuelElias1999/CuyFI/strategy"
	"github.com/ManuelElias1999/CuyFI/token"
	"github.com/ManuelElias1999/CuyFI/vault"
)

const (
	owner    = domain.Address("owner")
	agent    = domain.Address("agent")
	alice    = domain.Address("alice")
	bob      = domain.Address("bob")
	treasury = domain.Address("treasury")
	vaultAdr = domain.Address("vault")
	compAdr  = domain.Address("composer")
	execAdr  = domain.Address("strategy")

	hubID   = domain.ChainID(30101)
	spokeID = domain.ChainID(30102)

	spokeFee = uint64(100)
)

type fixture struct {
	reg    *registry.Registry
	usdc   *token.Token
	shares *token.Token // spoke-side share book
	vault  *vault.Vault
	bridge *mock.Bridge
	comp   *composer.Composer
	exec   *strategy.Executor
}

func newFixture(t *testing.T, journal composer.SettlementJournal, opts ...composer.Option) *fixture {
	t.Helper()
	reg, err := registry.New(owner, agent)
	require.NoError(t, err)

	usdc := token.New(domain.Asset{Ticker: "USDC", Decimals: 6})
	v := vault.New(vaultAdr, reg)
	require.NoError(t, v.Initialize("CuyFI Vault", "cuyUSDC", usdc, treasury, 0, compAdr))

	bridge := mock.NewBridge("bridge")
	bridge.SetRouteFee(spokeID, spokeFee)
	spokeShares := token.New(domain.Asset{Ticker: "cuyUSDC", Decimals: 6})
	bridge.RegisterShareBook(spokeID, spokeShares)
	require.NoError(t, reg.SetTransport(owner, bridge.Address(), true))

	comp, err := composer.New(compAdr, hubID, reg, v, bridge, bridge.Address(), journal, opts...)
	require.NoError(t, err)
	bridge.BindHub(comp, usdc, comp.Address())

	tracker, err := strategy.NewTracker(nil)
	require.NoError(t, err)
	require.NoError(t, v.Bind(tracker, comp, execAdr))
	exec, err := strategy.NewExecutor(execAdr, reg, v, tracker, bridge)
	require.NoError(t, err)

	return &fixture{reg: reg, usdc: usdc, shares: spokeShares, vault: v, bridge: bridge, comp: comp, exec: exec}
}

func instruction(dst domain.ChainID, recipient domain.Address, minShares, minFee uint64) domain.DepositInstruction {
	return domain.DepositInstruction{
		Return:    domain.SendParams{DstChain: dst, Recipient: recipient},
		MinShares: minShares,
		MinFee:    minFee,
	}
}

func TestInboundCrossChainCompletes(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	guid, err := f.bridge.InjectDeposit(ctx, spokeID, alice, 500_000, instruction(spokeID, alice, 500_000, spokeFee))
	require.NoError(t, err)

	rec, err := f.comp.Settlement(guid)
	require.NoError(t, err)
	assert.Equal(t, domain.SettlementStatusCompleted, rec.Status)
	assert.Equal(t, uint64(500_000), rec.Shares)

	// Shares sit in transport escrow on the hub and appear on the spoke book.
	assert.Equal(t, uint64(500_000), f.vault.BalanceOf(f.bridge.Address()))
	assert.Equal(t, uint64(500_000), f.shares.BalanceOf(alice))
	assert.Equal(t, 0, f.comp.PendingCount())

	// The deposited value is in the ledger's custody.
	assert.Equal(t, uint64(500_000), f.usdc.BalanceOf(vaultAdr))
}

func TestInboundHubChainDeliversLocally(t *testing.T) {
	f := newFixture(t, nil)

	guid, err := f.bridge.InjectDeposit(context.Background(), spokeID, alice, 250_000, instruction(hubID, bob, 0, 0))
	require.NoError(t, err)

	rec, err := f.comp.Settlement(guid)
	require.NoError(t, err)
	assert.Equal(t, domain.SettlementStatusCompleted, rec.Status)
	// Local delivery is a direct ledger transfer, no transport leg.
	assert.Equal(t, uint64(250_000), f.vault.BalanceOf(bob))
	assert.Empty(t, f.bridge.Outbox())
}

func TestUndersizedFeeParksThenFinalizes(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	guid, err := f.bridge.InjectDeposit(ctx, spokeID, alice, 100_000, instruction(spokeID, alice, 0, spokeFee-1))
	require.NoError(t, err)

	// Value was kept and shares minted to the composer, but delivery waits.
	rec, err := f.comp.Settlement(guid)
	require.NoError(t, err)
	assert.Equal(t, domain.SettlementStatusPending, rec.Status)
	assert.Equal(t, uint64(100_000), f.vault.BalanceOf(compAdr))
	assert.Equal(t, uint64(0), f.shares.BalanceOf(alice))
	assert.Equal(t, 1, f.comp.PendingCount())

	require.NoError(t, f.comp.FinalizeDeposit(ctx, guid, spokeFee))
	assert.Equal(t, uint64(100_000), f.shares.BalanceOf(alice))
	assert.Equal(t, 0, f.comp.PendingCount())

	err = f.comp.FinalizeDeposit(ctx, guid, spokeFee)
	assert.ErrorIs(t, err, composer.ErrAlreadyCompleted)
}

func TestMinSharesBoundParks(t *testing.T) {
	f := newFixture(t, nil)

	// An impossible slippage bound demotes the message even with a full fee.
	guid, err := f.bridge.InjectDeposit(context.Background(), spokeID, alice, 100_000, instruction(spokeID, alice, 100_001, spokeFee))
	require.NoError(t, err)

	rec, err := f.comp.Settlement(guid)
	require.NoError(t, err)
	assert.Equal(t, domain.SettlementStatusPending, rec.Status)
	assert.Equal(t, uint64(0), f.shares.BalanceOf(alice))
}

func TestTransportFailureParks(t *testing.T) {
	f := newFixture(t, nil)

	f.bridge.FailNextSend(errors.New("relayer outage"))
	guid, err := f.bridge.InjectDeposit(context.Background(), spokeID, alice, 100_000, instruction(spokeID, alice, 0, spokeFee))
	require.NoError(t, err)

	rec, err := f.comp.Settlement(guid)
	require.NoError(t, err)
	assert.Equal(t, domain.SettlementStatusPending, rec.Status)
	// The share escrow was unwound back to the composer.
	assert.Equal(t, uint64(100_000), f.vault.BalanceOf(compAdr))
	assert.Equal(t, uint64(0), f.vault.BalanceOf(f.bridge.Address()))
}

func TestExpiryWindow(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	now := base
	f := newFixture(t, nil,
		composer.WithExpiryWindow(48*time.Hour),
		composer.WithClock(func() time.Time { return now }),
	)
	ctx := context.Background()

	guid, err := f.bridge.InjectDeposit(ctx, spokeID, alice, 100_000, instruction(spokeID, alice, 0, 0))
	require.NoError(t, err)

	// Exactly at the window boundary the settlement is still live.
	now = base.Add(48 * time.Hour)
	require.NoError(t, f.comp.FinalizeDeposit(ctx, guid, spokeFee))

	// A second message left past the window is dead, with no recovery path.
	guid2, err := f.bridge.InjectDeposit(ctx, spokeID, bob, 100_000, instruction(spokeID, bob, 0, 0))
	require.NoError(t, err)
	now = now.Add(48*time.Hour + time.Second)
	err = f.comp.FinalizeDeposit(ctx, guid2, spokeFee)
	assert.ErrorIs(t, err, composer.ErrSettlementExpired)
	rec, err := f.comp.Settlement(guid2)
	require.NoError(t, err)
	assert.Equal(t, domain.SettlementStatusExpired, rec.Status)

	err = f.comp.FinalizeDeposit(ctx, guid2, spokeFee)
	assert.ErrorIs(t, err, composer.ErrSettlementExpired)
}

func TestInboundGating(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	msg := domain.InboundMessage{
		GUID: "msg-1", SrcChain: spokeID, Sender: alice, Amount: 1,
		Instruction: instruction(hubID, alice, 0, 0),
	}
	err := f.comp.HandleInbound(ctx, "mallory", msg)
	assert.ErrorIs(t, err, composer.ErrUntrustedEndpoint)

	// Endpoint identity without registry approval is also rejected.
	require.NoError(t, f.reg.SetTransport(owner, f.bridge.Address(), false))
	err = f.comp.HandleInbound(ctx, f.bridge.Address(), msg)
	assert.ErrorIs(t, err, composer.ErrChannelNotAllowed)
	require.NoError(t, f.reg.SetTransport(owner, f.bridge.Address(), true))

	zero := msg
	zero.Amount = 0
	assert.ErrorIs(t, f.comp.HandleInbound(ctx, f.bridge.Address(), zero), composer.ErrZeroAmount)

	noRecipient := msg
	noRecipient.Instruction.Return.Recipient = domain.ZeroAddress
	assert.ErrorIs(t, f.comp.HandleInbound(ctx, f.bridge.Address(), noRecipient), composer.ErrZeroAddress)
}

func TestDuplicateMessageRejected(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	require.NoError(t, f.usdc.Mint(compAdr, 200))
	msg := domain.InboundMessage{
		GUID: "msg-dup", SrcChain: spokeID, Sender: alice, Amount: 100,
		Instruction: instruction(hubID, alice, 0, 0),
	}
	require.NoError(t, f.comp.HandleInbound(ctx, f.bridge.Address(), msg))
	err := f.comp.HandleInbound(ctx, f.bridge.Address(), msg)
	assert.ErrorIs(t, err, composer.ErrDuplicateMessage)
}

func TestRejectedDepositLeavesNoState(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.vault.Pause(agent))

	_, err := f.bridge.InjectDeposit(context.Background(), spokeID, alice, 100_000, instruction(spokeID, alice, 0, spokeFee))
	require.Error(t, err)
	// The simulated value credit was unwound; nothing to finalize later.
	assert.Equal(t, uint64(0), f.usdc.BalanceOf(compAdr))
	assert.Equal(t, 0, f.comp.PendingCount())
}

func TestDepositAndSendIsVaultOnly(t *testing.T) {
	f := newFixture(t, nil)
	err := f.comp.DepositAndSend(context.Background(), alice, 1, domain.SendParams{DstChain: spokeID, Recipient: alice}, spokeFee)
	assert.ErrorIs(t, err, composer.ErrNotVault)
}

func TestQuotes(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	fee, err := f.comp.QuoteDeposit(domain.SendParams{DstChain: hubID, Recipient: alice}, 100_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), fee)

	fee, err = f.comp.QuoteDeposit(domain.SendParams{DstChain: spokeID, Recipient: alice}, 100_000)
	require.NoError(t, err)
	assert.Equal(t, spokeFee, fee)

	_, err = f.comp.QuoteFinalize("missing")
	assert.ErrorIs(t, err, composer.ErrSettlementNotFound)

	guid, err := f.bridge.InjectDeposit(ctx, spokeID, alice, 100_000, instruction(spokeID, alice, 0, 0))
	require.NoError(t, err)
	fee, err = f.comp.QuoteFinalize(guid)
	require.NoError(t, err)
	assert.Equal(t, spokeFee, fee)
}

func TestJournalRestoresPending(t *testing.T) {
	kv := store.NewMemoryStore()
	journal := store.NewJournal(kv)
	f := newFixture(t, journal)
	ctx := context.Background()

	guid, err := f.bridge.InjectDeposit(ctx, spokeID, alice, 100_000, instruction(spokeID, alice, 0, 0))
	require.NoError(t, err)

	// A rebuilt composer over the same journal sees the pending settlement
	// and can finalize it against the surviving ledger.
	comp2, err := composer.New(compAdr, hubID, f.reg, f.vault, f.bridge, f.bridge.Address(), journal)
	require.NoError(t, err)
	assert.Equal(t, 1, comp2.PendingCount())
	require.NoError(t, comp2.FinalizeDeposit(ctx, guid, spokeFee))
	assert.Equal(t, uint64(100_000), f.shares.BalanceOf(alice))
}

// Full lifecycle: hub deposit, capital deployment, yield reconciliation,
// capital return, and a redeem that pays out the grown position.
func TestHubSpokeLifecycle(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	require.NoError(t, f.usdc.Mint(alice, 1_000_000))
	shares, err := f.vault.Deposit(alice, 1_000_000, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000), shares)

	// Deploy 600k to the spoke. Hand-off leaves totalAssets unchanged.
	id, err := f.exec.DeployToChain(ctx, agent, spokeID, "spoke-vault", 600_000, spokeFee)
	require.NoError(t, err)
	total, err := f.vault.TotalAssets()
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000), total)
	assert.Equal(t, uint64(400_000), f.usdc.BalanceOf(vaultAdr))

	// Agent reconciles 10% remote yield; share price rises for everyone.
	require.NoError(t, f.exec.UpdateDeploymentAmount(agent, id, 660_000))
	total, err = f.vault.TotalAssets()
	require.NoError(t, err)
	assert.Equal(t, uint64(1_060_000), total)
	preview, err := f.vault.PreviewRedeem(1_000_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_060_000), preview)

	// Capital comes home: the deployed principal returns through the bridge
	// and the yield materializes as fresh local balance.
	require.NoError(t, f.exec.WithdrawFromChain(ctx, agent, id, 660_000))
	require.NoError(t, f.usdc.Transfer(f.bridge.Address(), vaultAdr, 600_000))
	require.NoError(t, f.usdc.Mint(vaultAdr, 60_000))

	total, err = f.vault.TotalAssets()
	require.NoError(t, err)
	assert.Equal(t, uint64(1_060_000), total)

	assets, err := f.vault.Redeem(alice, 1_000_000, alice, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_060_000), assets)
	assert.Equal(t, uint64(1_060_000), f.usdc.BalanceOf(alice))
	assert.Equal(t, uint64(0), f.vault.TotalSupply())
}
