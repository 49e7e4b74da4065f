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
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/optyfi/adapterharness/ledger"
)

// Proxy is a bound TestDeFiAdapter: it holds funds and executes the deposit
// and withdraw codes an adapter produces.
type Proxy struct {
	bound
}

func NewProxy(address common.Address, backend ledger.Ledger) *Proxy {
	return &Proxy{newBound(address, proxyABI, backend)}
}

// TestGetDepositAllCodes deposits the proxy's whole underlying balance into
// pool through adapter.
func (p *Proxy) TestGetDepositAllCodes(ctx context.Context, opts ledger.TxOpts, underlying, pool, adapter common.Address) error {
	_, err := p.transact(ctx, opts, "testGetDepositAllCodes", underlying, pool, adapter)
	return err
}

// TestGetWithdrawAllCodes withdraws the proxy's whole position in pool
// through adapter.
func (p *Proxy) TestGetWithdrawAllCodes(ctx context.Context, opts ledger.TxOpts, underlying, pool, adapter common.Address) error {
	_, err := p.transact(ctx, opts, "testGetWithdrawAllCodes", underlying, pool, adapter)
	return err
}

func (p *Proxy) GetERC20TokenBalance(ctx context.Context, token, account common.Address) (*big.Int, error) {
	return p.callUint(ctx, "getERC20TokenBalance", token, account)
}

// Tolerance is one entry of setLiquidityPoolToTolerance.
type Tolerance struct {
	LiquidityPool common.Address
	Tolerance     *big.Int
}

// Adapter is a bound protocol adapter.
type Adapter struct {
	bound
}

func NewAdapter(address common.Address, backend ledger.Ledger) *Adapter {
	return &Adapter{newBound(address, adapterABI, backend)}
}

// GetLiquidityPoolTokenBalance returns the share tokens vault holds in pool.
// underlying is ignored by pool adapters and is usually a placeholder.
func (a *Adapter) GetLiquidityPoolTokenBalance(ctx context.Context, vault, underlying, pool common.Address) (*big.Int, error) {
	return a.callUint(ctx, "getLiquidityPoolTokenBalance", vault, underlying, pool)
}

// GetAllAmountInToken values vault's whole position in pool in underlying.
func (a *Adapter) GetAllAmountInToken(ctx context.Context, vault, underlying, pool common.Address) (*big.Int, error) {
	return a.callUint(ctx, "getAllAmountInToken", vault, underlying, pool)
}

// GetSomeAmountInToken values amount share tokens of pool in underlying.
func (a *Adapter) GetSomeAmountInToken(ctx context.Context, underlying, pool common.Address, amount *big.Int) (*big.Int, error) {
	return a.callUint(ctx, "getSomeAmountInToken", underlying, pool, amount)
}

// Slippage returns the configured slippage of pool for want, in basis points.
func (a *Adapter) Slippage(ctx context.Context, pool, want common.Address) (*big.Int, error) {
	return a.callUint(ctx, "liquidityPoolToWantTokenToSlippage", pool, want)
}

// Tolerance returns the imbalance tolerance of pool.
func (a *Adapter) Tolerance(ctx context.Context, pool common.Address) (*big.Int, error) {
	return a.callUint(ctx, "liquidityPoolToTolerance", pool)
}

// SetTolerances updates pool tolerances. Only the risk operator may call it.
func (a *Adapter) SetTolerances(ctx context.Context, opts ledger.TxOpts, tolerances []Tolerance) error {
	_, err := a.transact(ctx, opts, "setLiquidityPoolToTolerance", tolerances)
	return err
}
