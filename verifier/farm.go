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

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
)

// FarmVerifier checks a farm adapter staking the LP token of a token pair.
type FarmVerifier struct {
	env    *Env
	amount string
}

// NewFarmVerifier returns a verifier staking amount whole LP tokens per run.
// An empty amount means DefaultPoolConfig.Amount.
func NewFarmVerifier(env *Env, amount string) *FarmVerifier {
	if amount == "" {
		amount = DefaultPoolConfig.Amount
	}
	return &FarmVerifier{env: env, amount: amount}
}

// Run stakes the pair LP of symbolA and symbolB into its farm through the
// proxy, unstakes it again and checks the adapter against the farm's and the
// pair's own balances.
func (v *FarmVerifier) Run(ctx context.Context, symbolA, symbolB string) error {
	env := v.env
	tokenA, ok := env.Symbols[symbolA]
	if !ok {
		return fmt.Errorf("unknown token symbol %q", symbolA)
	}
	tokenB, ok := env.Symbols[symbolB]
	if !ok {
		return fmt.Errorf("unknown token symbol %q", symbolB)
	}
	pair, err := env.Exchange.GetPair(ctx, tokenA, tokenB)
	if err != nil {
		return fmt.Errorf("resolve pair: %w", err)
	}
	if pair == (common.Address{}) {
		return Skip("no %s-%s pair", symbolA, symbolB)
	}
	farm, err := env.Exchange.StakingRewards(ctx, pair)
	if err != nil {
		return fmt.Errorf("resolve farm: %w", err)
	}
	if farm == (common.Address{}) {
		return Skip("no farm for the %s-%s pair %s", symbolA, symbolB, pair)
	}
	logger := log.New("pair", symbolA+"-"+symbolB, "lp", pair, "farm", farm)

	proxy := env.Proxy.Address()
	if err := env.Injector.SetBalance(ctx, pair, proxy, v.amount); err != nil {
		return stepError(1, "inject LP", err)
	}
	staked, err := env.Tokens.BalanceOf(ctx, pair, proxy)
	if err != nil {
		return stepError(1, "inject LP", err)
	}

	owner := env.opts(env.Signers.Owner)
	if err := env.Proxy.TestGetDepositAllCodes(ctx, owner, pair, farm, env.FarmAdapter.Address()); err != nil {
		return stepError(2, "stake", err)
	}
	if err := v.check(ctx, pair, farm); err != nil {
		return stepError(3, "balances after stake", err)
	}
	logger.Debug("Staked", "amount", staked)

	if err := env.Proxy.TestGetWithdrawAllCodes(ctx, owner, pair, farm, env.FarmAdapter.Address()); err != nil {
		return stepError(4, "unstake", err)
	}
	if err := v.check(ctx, pair, farm); err != nil {
		return stepError(5, "balances after unstake", err)
	}
	unstaked, err := env.Tokens.BalanceOf(ctx, pair, proxy)
	if err != nil {
		return stepError(5, "balances after unstake", err)
	}
	if err := expectEqual("LP returned by farm", unstaked, staked); err != nil {
		return stepError(5, "balances after unstake", err)
	}
	return nil
}

// check compares the adapter's staked balance with the farm's balanceOf and
// the proxy's LP balance with the pair's balanceOf.
func (v *FarmVerifier) check(ctx context.Context, pair, farm common.Address) error {
	env := v.env
	proxy := env.Proxy.Address()

	got, err := env.FarmAdapter.GetLiquidityPoolTokenBalance(ctx, proxy, pair, farm)
	if err != nil {
		return err
	}
	want, err := env.Tokens.BalanceOf(ctx, farm, proxy)
	if err != nil {
		return err
	}
	if err := expectEqual("staked balance", got, want); err != nil {
		return err
	}
	if got, err = env.Proxy.GetERC20TokenBalance(ctx, pair, proxy); err != nil {
		return err
	}
	if want, err = env.Tokens.BalanceOf(ctx, pair, proxy); err != nil {
		return err
	}
	return expectEqual("LP balance", got, want)
}
