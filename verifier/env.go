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

// Package verifier runs the behavioural checks of adapters against a forked
// ledger: deposit and withdraw round trips through the test proxy,
// cross-checked against the pools' and tokens' own accounting.
package verifier

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/optyfi/adapterharness/contracts"
	"github.com/optyfi/adapterharness/ledger"
)

// Proxy executes adapter codes on behalf of a vault. contracts.Proxy
// implements it.
type Proxy interface {
	Address() common.Address
	TestGetDepositAllCodes(ctx context.Context, opts ledger.TxOpts, underlying, pool, adapter common.Address) error
	TestGetWithdrawAllCodes(ctx context.Context, opts ledger.TxOpts, underlying, pool, adapter common.Address) error
	GetERC20TokenBalance(ctx context.Context, token, account common.Address) (*big.Int, error)
}

// Adapter is the read side every adapter shares.
type Adapter interface {
	Address() common.Address
	GetLiquidityPoolTokenBalance(ctx context.Context, vault, underlying, pool common.Address) (*big.Int, error)
}

// PoolAdapter is an adapter over liquidity pools with slippage and imbalance
// protection. contracts.Adapter implements it.
type PoolAdapter interface {
	Adapter
	GetAllAmountInToken(ctx context.Context, vault, underlying, pool common.Address) (*big.Int, error)
	GetSomeAmountInToken(ctx context.Context, underlying, pool common.Address, amount *big.Int) (*big.Int, error)
	Slippage(ctx context.Context, pool, want common.Address) (*big.Int, error)
	Tolerance(ctx context.Context, pool common.Address) (*big.Int, error)
	SetTolerances(ctx context.Context, opts ledger.TxOpts, tolerances []contracts.Tolerance) error
}

// Exchange is the AMM the pools belong to. contracts.Exchange implements it.
type Exchange interface {
	Address() common.Address
	Reserves(ctx context.Context, pair common.Address) (contracts.Reserves, error)
	GetAmountOut(ctx context.Context, amountIn, reserveIn, reserveOut *big.Int) (*big.Int, error)
	SwapExactTokensForTokens(ctx context.Context, opts ledger.TxOpts, amountIn, amountOutMin *big.Int, path []common.Address, to common.Address, deadline *big.Int) error
	GetPair(ctx context.Context, tokenA, tokenB common.Address) (common.Address, error)
	StakingRewards(ctx context.Context, stakingToken common.Address) (common.Address, error)
}

// Tokens reads and approves any ERC-20. contracts.Tokens implements it.
type Tokens interface {
	BalanceOf(ctx context.Context, token, account common.Address) (*big.Int, error)
	Decimals(ctx context.Context, token common.Address) (uint8, error)
	Approve(ctx context.Context, opts ledger.TxOpts, token, spender common.Address, amount *big.Int) error
}

// Injector forges token balances. balance.Injector implements it.
type Injector interface {
	SetBalance(ctx context.Context, token, account common.Address, amount string) error
}

// Signers are the accounts scenarios act as.
type Signers struct {
	Admin        common.Address
	Owner        common.Address // drives the proxy
	Deployer     common.Address
	Alice        common.Address
	Operator     common.Address
	RiskOperator common.Address // the only account allowed to change tolerances
	Attacker     common.Address
}

// Env is the state shared by every scenario of a run. Scenarios mutate the
// same ledger, so later scenarios observe earlier ones' transfers.
type Env struct {
	Signers     Signers
	Proxy       Proxy
	PoolAdapter PoolAdapter
	FarmAdapter Adapter
	Exchange    Exchange
	Tokens      Tokens
	Injector    Injector

	// Symbols maps token symbols to addresses.
	Symbols map[string]common.Address

	// GasPrice is attached to every transaction; nil lets the ledger choose.
	GasPrice *big.Int
}

func (env *Env) opts(from common.Address) ledger.TxOpts {
	return ledger.TxOpts{From: from, GasPrice: env.GasPrice}
}

// Pool describes a liquidity pool under test.
type Pool struct {
	Name       string
	Address    common.Address
	Token0     common.Address
	Token1     common.Address
	Deprecated bool
	Slippage   uint64 // expected slippage, basis points
}

// Other returns the constituent of p that is not token.
func (p Pool) Other(token common.Address) (common.Address, bool) {
	switch token {
	case p.Token0:
		return p.Token1, true
	case p.Token1:
		return p.Token0, true
	default:
		return common.Address{}, false
	}
}
