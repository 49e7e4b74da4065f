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

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/optyfi/adapterharness/ledger"
)

// ERC20 is a bound ERC-20 token.
type ERC20 struct {
	bound
}

func NewERC20(address common.Address, backend ledger.Ledger) *ERC20 {
	return &ERC20{newBound(address, erc20ABI, backend)}
}

func (t *ERC20) BalanceOf(ctx context.Context, account common.Address) (*big.Int, error) {
	return t.callUint(ctx, "balanceOf", account)
}

func (t *ERC20) Decimals(ctx context.Context) (uint8, error) {
	out, err := t.call(ctx, "decimals")
	if err != nil {
		return 0, err
	}
	return *abi.ConvertType(out[0], new(uint8)).(*uint8), nil
}

func (t *ERC20) Symbol(ctx context.Context) (string, error) {
	out, err := t.call(ctx, "symbol")
	if err != nil {
		return "", err
	}
	return *abi.ConvertType(out[0], new(string)).(*string), nil
}

func (t *ERC20) Approve(ctx context.Context, opts ledger.TxOpts, spender common.Address, amount *big.Int) error {
	_, err := t.transact(ctx, opts, "approve", spender, amount)
	return err
}

// Tokens reads any ERC-20 on a ledger by address.
type Tokens struct {
	backend ledger.Ledger
}

func NewTokens(backend ledger.Ledger) *Tokens {
	return &Tokens{backend: backend}
}

// At binds the token at address.
func (ts *Tokens) At(address common.Address) *ERC20 {
	return NewERC20(address, ts.backend)
}

func (ts *Tokens) BalanceOf(ctx context.Context, token, account common.Address) (*big.Int, error) {
	return ts.At(token).BalanceOf(ctx, account)
}

func (ts *Tokens) Decimals(ctx context.Context, token common.Address) (uint8, error) {
	return ts.At(token).Decimals(ctx)
}

func (ts *Tokens) Symbol(ctx context.Context, token common.Address) (string, error) {
	return ts.At(token).Symbol(ctx)
}

func (ts *Tokens) Approve(ctx context.Context, opts ledger.TxOpts, token, spender common.Address, amount *big.Int) error {
	return ts.At(token).Approve(ctx, opts, spender, amount)
}
