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

// Package contracts binds the on-chain contracts the harness talks to onto a
// ledger.Ledger: tokens, the QuickSwap router, factory and farms, the test
// proxy, the adapters under test and the registry stand-in.
package contracts

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/optyfi/adapterharness/ledger"
)

// bound is a contract address with its ABI and the ledger it lives on.
type bound struct {
	address common.Address
	abi     abi.ABI
	backend ledger.Ledger
}

func newBound(address common.Address, parsed abi.ABI, backend ledger.Ledger) bound {
	return bound{address: address, abi: parsed, backend: backend}
}

// Address returns the contract address.
func (b *bound) Address() common.Address { return b.address }

// call runs a read-only method and returns its unpacked outputs.
func (b *bound) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	input, err := b.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	output, err := b.backend.Call(ctx, ledger.CallMsg{To: b.address, Data: input})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	out, err := b.abi.Unpack(method, output)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return out, nil
}

// callUint runs a read-only method returning a single uint256.
func (b *bound) callUint(ctx context.Context, method string, args ...interface{}) (*big.Int, error) {
	out, err := b.call(ctx, method, args...)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// callAddress runs a read-only method whose first output is an address.
func (b *bound) callAddress(ctx context.Context, method string, args ...interface{}) (common.Address, error) {
	out, err := b.call(ctx, method, args...)
	if err != nil {
		return common.Address{}, err
	}
	return *abi.ConvertType(out[0], new(common.Address)).(*common.Address), nil
}

// transact sends a state-changing method call.
func (b *bound) transact(ctx context.Context, opts ledger.TxOpts, method string, args ...interface{}) (*types.Receipt, error) {
	input, err := b.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	to := b.address
	receipt, err := b.backend.Send(ctx, opts, &to, input)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("%s: %w", method, ledger.ErrReverted)
	}
	return receipt, nil
}
