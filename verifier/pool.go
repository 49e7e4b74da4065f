// Copyright 2026 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package verifier

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"

	"github.com/optyfi/adapterharness/balance"
	"github.com/optyfi/adapterharness/contracts"
)

// Revert reasons the pool adapter is expected to produce.
const (
	ReasonImbalancedPool  = "!imbalanced pool"
	ReasonNotRiskOperator = "caller is not the riskOperator"
)

// PoolConfig tunes the pool protocol. Zero fields take the defaults.
type PoolConfig struct {
	Amount       string   // underlying injected into the proxy, whole tokens
	SandwichPool string   // name of the only pool the sandwich check runs on
	AttackAmount string   // other-token swapped by the attacker, whole tokens
	ShareAmount  string   // share tokens injected before the withdraw attack
	Tolerance    *big.Int // tolerance the risk operator sets, basis points
}

// DefaultPoolConfig is the configuration the matrix runs with.
var DefaultPoolConfig = PoolConfig{
	Amount:       "20",
	SandwichPool: "WMATIC-USDC",
	AttackAmount: "30000",
	ShareAmount:  "20",
	Tolerance:    big.NewInt(200),
}

// attackDeadline is far enough in the future for any fork.
var attackDeadline = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

func (c PoolConfig) withDefaults() PoolConfig {
	d := DefaultPoolConfig
	if c.Amount == "" {
		c.Amount = d.Amount
	}
	if c.SandwichPool == "" {
		c.SandwichPool = d.SandwichPool
	}
	if c.AttackAmount == "" {
		c.AttackAmount = d.AttackAmount
	}
	if c.ShareAmount == "" {
		c.ShareAmount = d.ShareAmount
	}
	if c.Tolerance == nil {
		c.Tolerance = d.Tolerance
	}
	return c
}

// PoolVerifier checks a pool adapter against one (underlying, pool) pair
// per Run.
type PoolVerifier struct {
	env *Env
	cfg PoolConfig
}

func NewPoolVerifier(env *Env, cfg PoolConfig) *PoolVerifier {
	return &PoolVerifier{env: env, cfg: cfg.withDefaults()}
}

// poolRun carries the addresses and observations of one Run.
type poolRun struct {
	pool       Pool
	underlying common.Address
	other      common.Address
	reserveIn  *big.Int // other token's reserve
	reserveOut *big.Int // underlying's reserve
}

// Run deposits into and withdraws from pool through the proxy and checks
// the adapter's accounting, the payout floor, the sandwich protection and
// tolerance access control.
func (v *PoolVerifier) Run(ctx context.Context, symbol string, pool Pool) error {
	if pool.Deprecated {
		return Skip("pool %s is deprecated", pool.Name)
	}
	underlying, ok := v.env.Symbols[symbol]
	if !ok {
		return fmt.Errorf("unknown token symbol %q", symbol)
	}
	other, ok := pool.Other(underlying)
	if !ok {
		return fmt.Errorf("%s is not a constituent of pool %s", symbol, pool.Name)
	}
	reserves, err := v.env.Exchange.Reserves(ctx, pool.Address)
	if err != nil {
		return fmt.Errorf("read reserves of %s: %w", pool.Name, err)
	}
	r := &poolRun{pool: pool, underlying: underlying, other: other}
	if underlying == pool.Token0 {
		r.reserveOut, r.reserveIn = reserves.Reserve0, reserves.Reserve1
	} else {
		r.reserveOut, r.reserveIn = reserves.Reserve1, reserves.Reserve0
	}
	logger := log.New("underlying", symbol, "pool", pool.Name)

	proxy := v.env.Proxy.Address()
	if err := v.env.Injector.SetBalance(ctx, underlying, proxy, v.cfg.Amount); err != nil {
		return stepError(1, "inject underlying", err)
	}
	if err := v.deposit(ctx, r); err != nil {
		return stepError(2, "deposit", err)
	}
	lpAfterDeposit, err := v.checkShares(ctx, r)
	if err != nil {
		return stepError(2, "share balance after deposit", err)
	}
	if _, err := v.checkUnderlying(ctx, r); err != nil {
		return stepError(3, "underlying balance after deposit", err)
	}

	remaining, err := v.env.Tokens.BalanceOf(ctx, underlying, proxy)
	if err != nil {
		return stepError(4, "underlying remaining", err)
	}
	valuation, err := v.env.PoolAdapter.GetAllAmountInToken(ctx, proxy, underlying, pool.Address)
	if err != nil {
		return stepError(4, "valuation", err)
	}
	otherBalance, err := v.env.Proxy.GetERC20TokenBalance(ctx, other, proxy)
	if err != nil {
		return stepError(4, "other token balance", err)
	}
	logger.Debug("Deposited", "shares", lpAfterDeposit, "valuation", valuation, "remaining", remaining, "other", otherBalance)

	if err := v.withdraw(ctx, r); err != nil {
		return stepError(5, "withdraw", err)
	}
	if _, err := v.checkShares(ctx, r); err != nil {
		return stepError(6, "share balance after withdraw", err)
	}
	payout, err := v.checkUnderlying(ctx, r)
	if err != nil {
		return stepError(6, "underlying balance after withdraw", err)
	}

	floor, err := v.payoutFloor(ctx, r, lpAfterDeposit, otherBalance, remaining)
	if err != nil {
		return stepError(7, "payout floor", err)
	}
	if err := expectAtLeast("underlying after withdraw", payout, floor); err != nil {
		return stepError(7, "payout floor", err)
	}
	logger.Debug("Withdrew", "payout", payout, "floor", floor)

	if pool.Name == v.cfg.SandwichPool {
		if err := v.sandwich(ctx, r); err != nil {
			return stepError(8, "sandwich protection", err)
		}
	}
	if err := v.tolerance(ctx, pool.Address); err != nil {
		return stepError(9, "tolerance access control", err)
	}
	return nil
}

func (v *PoolVerifier) deposit(ctx context.Context, r *poolRun) error {
	return v.env.Proxy.TestGetDepositAllCodes(ctx, v.env.opts(v.env.Signers.Owner), r.underlying, r.pool.Address, v.env.PoolAdapter.Address())
}

func (v *PoolVerifier) withdraw(ctx context.Context, r *poolRun) error {
	return v.env.Proxy.TestGetWithdrawAllCodes(ctx, v.env.opts(v.env.Signers.Owner), r.underlying, r.pool.Address, v.env.PoolAdapter.Address())
}

// checkShares compares the adapter's share balance of the proxy with the
// pool's own balanceOf and returns it. The proxy doubles as the underlying
// placeholder.
func (v *PoolVerifier) checkShares(ctx context.Context, r *poolRun) (*big.Int, error) {
	proxy := v.env.Proxy.Address()
	got, err := v.env.PoolAdapter.GetLiquidityPoolTokenBalance(ctx, proxy, proxy, r.pool.Address)
	if err != nil {
		return nil, err
	}
	want, err := v.env.Tokens.BalanceOf(ctx, r.pool.Address, proxy)
	if err != nil {
		return nil, err
	}
	return got, expectEqual("share balance", got, want)
}

// checkUnderlying compares the proxy's view of its underlying balance with
// the token's own balanceOf and returns it.
func (v *PoolVerifier) checkUnderlying(ctx context.Context, r *poolRun) (*big.Int, error) {
	proxy := v.env.Proxy.Address()
	got, err := v.env.Proxy.GetERC20TokenBalance(ctx, r.underlying, proxy)
	if err != nil {
		return nil, err
	}
	want, err := v.env.Tokens.BalanceOf(ctx, r.underlying, proxy)
	if err != nil {
		return nil, err
	}
	return got, expectEqual("underlying balance", got, want)
}

func (v *PoolVerifier) payoutFloor(ctx context.Context, r *poolRun, shares, otherBalance, remaining *big.Int) (*big.Int, error) {
	slippage, err := v.env.PoolAdapter.Slippage(ctx, r.pool.Address, r.underlying)
	if err != nil {
		return nil, err
	}
	if r.pool.Slippage != 0 && slippage.Uint64() != r.pool.Slippage {
		log.Warn("Adapter slippage differs from pool descriptor", "pool", r.pool.Name, "adapter", slippage, "descriptor", r.pool.Slippage)
	}
	amountOut, err := v.env.PoolAdapter.GetSomeAmountInToken(ctx, r.underlying, r.pool.Address, shares)
	if err != nil {
		return nil, err
	}
	otherInUnderlying := new(big.Int)
	if otherBalance.Sign() > 0 {
		otherInUnderlying, err = v.env.Exchange.GetAmountOut(ctx, otherBalance, r.reserveIn, r.reserveOut)
		if err != nil {
			return nil, err
		}
	}
	return MinimumPayout(amountOut, otherInUnderlying, slippage, remaining), nil
}

// sandwich skews the pool with a large one-sided swap and expects the
// adapter to refuse both deposit and withdraw.
func (v *PoolVerifier) sandwich(ctx context.Context, r *poolRun) error {
	env := v.env
	attacker := env.Signers.Attacker

	decimals, err := env.Tokens.Decimals(ctx, r.other)
	if err != nil {
		return err
	}
	amount, err := balance.ToBaseUnits(v.cfg.AttackAmount, decimals)
	if err != nil {
		return err
	}
	if err := env.Injector.SetBalance(ctx, r.other, attacker, v.cfg.AttackAmount); err != nil {
		return fmt.Errorf("fund attacker: %w", err)
	}
	if err := env.Tokens.Approve(ctx, env.opts(attacker), r.other, env.Exchange.Address(), amount); err != nil {
		return fmt.Errorf("approve router: %w", err)
	}
	path := []common.Address{r.other, r.underlying}
	if err := env.Exchange.SwapExactTokensForTokens(ctx, env.opts(attacker), amount, new(big.Int), path, attacker, attackDeadline); err != nil {
		return fmt.Errorf("attacker swap: %w", err)
	}
	if err := ExpectRevert(v.deposit(ctx, r), ReasonImbalancedPool); err != nil {
		return fmt.Errorf("deposit: %w", err)
	}
	if err := env.Injector.SetBalance(ctx, r.pool.Address, env.Proxy.Address(), v.cfg.ShareAmount); err != nil {
		return fmt.Errorf("fund proxy with shares: %w", err)
	}
	if err := ExpectRevert(v.withdraw(ctx, r), ReasonImbalancedPool); err != nil {
		return fmt.Errorf("withdraw: %w", err)
	}
	return nil
}

// tolerance expects only the risk operator to be able to change the
// tolerance of pool.
func (v *PoolVerifier) tolerance(ctx context.Context, pool common.Address) error {
	env := v.env
	update := []contracts.Tolerance{{LiquidityPool: pool, Tolerance: v.cfg.Tolerance}}

	err := env.PoolAdapter.SetTolerances(ctx, env.opts(env.Signers.Attacker), update)
	if err := ExpectRevert(err, ReasonNotRiskOperator); err != nil {
		return err
	}
	if err := env.PoolAdapter.SetTolerances(ctx, env.opts(env.Signers.RiskOperator), update); err != nil {
		return fmt.Errorf("risk operator update: %w", err)
	}
	got, err := env.PoolAdapter.Tolerance(ctx, pool)
	if err != nil {
		return err
	}
	return expectEqual("tolerance", got, v.cfg.Tolerance)
}
