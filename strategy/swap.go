package strategy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ManuelElias1999/CuyFI/domain"
	"github.com/ManuelElias1999/CuyFI/safemath"
	"github.com/ManuelElias1999/CuyFI/token"
)

// SwapTarget is an approved external DEX invoked with opaque caller-supplied
// calldata. The executor never interprets the target's behavior; correctness
// is verified purely through balance-delta observation.
type SwapTarget interface {
	Address() domain.Address
	Execute(ctx context.Context, calldata []byte) error
}

// ExecuteSwap runs an approved-target swap out of the executor's custody:
// the input token must decrease by exactly amountIn and the output token must
// increase by at least minOut, or the call is rejected. Agent-only.
func (e *Executor) ExecuteSwap(ctx context.Context, caller domain.Address, target SwapTarget, tokenIn, tokenOut *token.Token, amountIn, minOut uint64, calldata []byte) (uint64, error) {
	if err := e.reg.RequireAgent(caller); err != nil {
		return 0, err
	}
	if err := e.g.Enter(); err != nil {
		return 0, err
	}
	defer e.g.Exit()

	if target == nil || tokenIn == nil || tokenOut == nil {
		return 0, ErrZeroAddress
	}
	if tokenIn == tokenOut {
		return 0, ErrSameToken
	}
	if amountIn == 0 {
		return 0, ErrZeroAmount
	}
	if !e.reg.IsApprovedSwapTarget(target.Address()) {
		return 0, fmt.Errorf("%s: %w", target.Address(), ErrTargetNotApproved)
	}

	inBefore := tokenIn.BalanceOf(e.addr)
	outBefore := tokenOut.BalanceOf(e.addr)

	if err := target.Execute(ctx, calldata); err != nil {
		return 0, fmt.Errorf("swap target: %w", err)
	}

	inAfter := tokenIn.BalanceOf(e.addr)
	outAfter := tokenOut.BalanceOf(e.addr)

	spent, ok := safemath.Sub64(inBefore, inAfter)
	if !ok {
		return 0, fmt.Errorf("input balance grew by %d: %w", inAfter-inBefore, ErrBalanceMismatch)
	}
	if spent != amountIn {
		return 0, fmt.Errorf("spent %d, declared %d: %w", spent, amountIn, ErrBalanceMismatch)
	}
	received, ok := safemath.Sub64(outAfter, outBefore)
	if !ok {
		return 0, fmt.Errorf("output balance shrank by %d: %w", outBefore-outAfter, ErrBalanceMismatch)
	}
	if received < minOut {
		return 0, fmt.Errorf("received %d, min %d: %w", received, minOut, ErrSlippage)
	}

	slog.Info("📡 [Strategy] Swap executed",
		"target", target.Address(),
		"in", tokenIn.Asset().Ticker,
		"out", tokenOut.Asset().Ticker,
		"amount_in", amountIn,
		"received", received,
	)
	return received, nil
}
