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

package contracts

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/optyfi/adapterharness/ledger"
)

// QuickSwap deployments on Polygon.
var (
	QuickSwapRouter                = common.HexToAddress("0xa5E0829CaCEd8fFDD4De3c43696c57F7D7A678ff")
	QuickSwapStakingRewardsFactory = common.HexToAddress("0x5eec262B05A57da9beb5FE96a34aa4eD0C5e029f")
)

// Reserves are the pair reserves as returned by getReserves.
type Reserves struct {
	Reserve0           *big.Int
	Reserve1           *big.Int
	BlockTimestampLast uint32
}

// Pair is a bound UniswapV2 pair. The pair is itself the LP token.
type Pair struct {
	ERC20
}

func NewPair(address common.Address, backend ledger.Ledger) *Pair {
	return &Pair{ERC20{newBound(address, pairABI, backend)}}
}

func (p *Pair) Token0(ctx context.Context) (common.Address, error) {
	return p.callAddress(ctx, "token0")
}

func (p *Pair) Token1(ctx context.Context) (common.Address, error) {
	return p.callAddress(ctx, "token1")
}

func (p *Pair) GetReserves(ctx context.Context) (Reserves, error) {
	out, err := p.call(ctx, "getReserves")
	if err != nil {
		return Reserves{}, err
	}
	return Reserves{
		Reserve0:           *abi.ConvertType(out[0], new(*big.Int)).(**big.Int),
		Reserve1:           *abi.ConvertType(out[1], new(*big.Int)).(**big.Int),
		BlockTimestampLast: *abi.ConvertType(out[2], new(uint32)).(*uint32),
	}, nil
}

// Router is a bound UniswapV2Router02.
type Router struct {
	bound
}

func NewRouter(address common.Address, backend ledger.Ledger) *Router {
	return &Router{newBound(address, routerABI, backend)}
}

func (r *Router) Factory(ctx context.Context) (common.Address, error) {
	return r.callAddress(ctx, "factory")
}

// GetAmountOut quotes the output of a single-hop swap for the given reserves.
func (r *Router) GetAmountOut(ctx context.Context, amountIn, reserveIn, reserveOut *big.Int) (*big.Int, error) {
	return r.callUint(ctx, "getAmountOut", amountIn, reserveIn, reserveOut)
}

func (r *Router) SwapExactTokensForTokens(ctx context.Context, opts ledger.TxOpts, amountIn, amountOutMin *big.Int, path []common.Address, to common.Address, deadline *big.Int) error {
	_, err := r.transact(ctx, opts, "swapExactTokensForTokens", amountIn, amountOutMin, path, to, deadline)
	return err
}

// SwapETHForExactTokens buys exactly amountOut of the last token in path,
// paying with opts.Value of native currency. Unspent value is refunded.
func (r *Router) SwapETHForExactTokens(ctx context.Context, opts ledger.TxOpts, amountOut *big.Int, path []common.Address, to common.Address, deadline *big.Int) error {
	_, err := r.transact(ctx, opts, "swapETHForExactTokens", amountOut, path, to, deadline)
	return err
}

// Factory is a bound UniswapV2Factory.
type Factory struct {
	bound
}

func NewFactory(address common.Address, backend ledger.Ledger) *Factory {
	return &Factory{newBound(address, factoryABI, backend)}
}

// GetPair returns the pair of tokenA and tokenB, or the zero address.
func (f *Factory) GetPair(ctx context.Context, tokenA, tokenB common.Address) (common.Address, error) {
	return f.callAddress(ctx, "getPair", tokenA, tokenB)
}

// StakingRewardsFactory is a bound QuickSwap StakingRewardsFactory.
type StakingRewardsFactory struct {
	bound
}

func NewStakingRewardsFactory(address common.Address, backend ledger.Ledger) *StakingRewardsFactory {
	return &StakingRewardsFactory{newBound(address, stakingFactoryABI, backend)}
}

// StakingRewards returns the farm accepting stakingToken, or the zero address.
func (f *StakingRewardsFactory) StakingRewards(ctx context.Context, stakingToken common.Address) (common.Address, error) {
	return f.callAddress(ctx, "stakingRewardsInfoByStakingToken", stakingToken)
}

// Exchange is a router together with the factory it trades through and the
// staking rewards factory of its farms.
type Exchange struct {
	*Router
	backend ledger.Ledger
	factory *Factory
	staking *StakingRewardsFactory
}

// NewExchange binds router and stakingFactory, resolving the router's
// factory on the ledger.
func NewExchange(ctx context.Context, backend ledger.Ledger, router, stakingFactory common.Address) (*Exchange, error) {
	r := NewRouter(router, backend)
	factory, err := r.Factory(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve factory of router %s: %w", router, err)
	}
	return &Exchange{
		Router:  r,
		backend: backend,
		factory: NewFactory(factory, backend),
		staking: NewStakingRewardsFactory(stakingFactory, backend),
	}, nil
}

// Reserves returns the reserves of pair.
func (e *Exchange) Reserves(ctx context.Context, pair common.Address) (Reserves, error) {
	return NewPair(pair, e.backend).GetReserves(ctx)
}

// GetPair returns the pair of tokenA and tokenB, or the zero address.
func (e *Exchange) GetPair(ctx context.Context, tokenA, tokenB common.Address) (common.Address, error) {
	return e.factory.GetPair(ctx, tokenA, tokenB)
}

// StakingRewards returns the farm accepting stakingToken, or the zero address.
func (e *Exchange) StakingRewards(ctx context.Context, stakingToken common.Address) (common.Address, error) {
	return e.staking.StakingRewards(ctx, stakingToken)
}
