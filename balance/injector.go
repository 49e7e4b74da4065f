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

package balance

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/params"

	"github.com/optyfi/adapterharness/ledger"
)

var (
	// DefaultBridgeToken is WMATIC, the first hop of fallback swaps.
	DefaultBridgeToken = common.HexToAddress("0x0d500B1d8E8eF31E21C99d1Db9A6444d3ADf1270")
	// DefaultFallbackRouter is the router fallback swaps are sent to.
	DefaultFallbackRouter = common.HexToAddress("0xd9e1cE17f2641f24aE83637ab66a2cca9C378B9F")
	// DefaultFallbackValue is the native amount attached to fallback swaps.
	DefaultFallbackValue = new(big.Int).Mul(big.NewInt(9), big.NewInt(params.Ether))
)

// TokenReader reads the parts of an ERC-20 the injector needs.
type TokenReader interface {
	BalanceReader
	Decimals(ctx context.Context, token common.Address) (uint8, error)
}

// Swapper buys an exact amount of tokens with native currency.
type Swapper interface {
	SwapETHForExactTokens(ctx context.Context, opts ledger.TxOpts, amountOut *big.Int, path []common.Address, to common.Address, deadline *big.Int) error
}

// Clock reports the latest block timestamp.
type Clock interface {
	BlockTimestamp(ctx context.Context) (uint64, error)
}

// FallbackConfig describes the swap used when a token's balance mapping
// cannot be located.
type FallbackConfig struct {
	Funder common.Address // sender of the swap, pays Value
	Bridge common.Address // native-wrapping token the path starts from
	Value  *big.Int       // native amount attached to the swap
}

// Injector sets token balances of arbitrary accounts.
type Injector struct {
	probe    *Probe
	locator  *Locator
	tokens   TokenReader
	swapper  Swapper
	clock    Clock
	fallback FallbackConfig
}

func NewInjector(probe *Probe, locator *Locator, tokens TokenReader, swapper Swapper, clock Clock, fallback FallbackConfig) *Injector {
	if fallback.Bridge == (common.Address{}) {
		fallback.Bridge = DefaultBridgeToken
	}
	if fallback.Value == nil {
		fallback.Value = DefaultFallbackValue
	}
	return &Injector{
		probe:    probe,
		locator:  locator,
		tokens:   tokens,
		swapper:  swapper,
		clock:    clock,
		fallback: fallback,
	}
}

// SetBalance makes account hold amount (a decimal string in whole tokens)
// of token. If the token's balance mapping cannot be located the tokens are
// bought instead, which credits account with at least amount. A storage
// write is confirmed through balanceOf and fails with ErrBalanceNotSet,
// rolled back, when the token does not report it.
func (in *Injector) SetBalance(ctx context.Context, token, account common.Address, amount string) error {
	decimals, err := in.tokens.Decimals(ctx, token)
	if err != nil {
		return fmt.Errorf("read decimals of %s: %w", token, err)
	}
	value, err := ToBaseUnits(amount, decimals)
	if err != nil {
		return err
	}
	slot, err := in.locator.Locate(ctx, token)
	if errors.Is(err, ErrSlotNotFound) {
		return in.buy(ctx, token, account, value)
	}
	if err != nil {
		return err
	}
	if slot == ambiguousSlot {
		current, err := in.tokens.BalanceOf(ctx, token, account)
		if err != nil {
			return fmt.Errorf("read balance of %s on %s: %w", account, token, err)
		}
		if current.Cmp(value) == 0 {
			return nil
		}
	}
	ok, err := in.store(ctx, token, account, slot, value)
	if err != nil {
		return err
	}
	if !ok && slot == ambiguousSlot {
		// A nested mapping at index 0 is indistinguishable from a direct one
		// while probing the zero account.
		slot = Slot{Index: 0, Convention: NestedMapping}
		if ok, err = in.store(ctx, token, account, slot, value); err != nil {
			return err
		}
		if ok {
			in.locator.remember(token, slot)
		}
	}
	if !ok {
		return fmt.Errorf("set balance of %s on %s via slot %s: %w", account, token, slot, ErrBalanceNotSet)
	}
	log.Debug("Injected balance", "token", token, "account", account, "amount", amount, "slot", slot)
	return nil
}

// store writes value into the entry of account under slot and reports
// whether balanceOf reflects it. A write that did not take is rolled back.
func (in *Injector) store(ctx context.Context, token, account common.Address, slot Slot, value *big.Int) (bool, error) {
	key := SlotKey(account, slot.Index, slot.Convention).Hex()
	if slot.Convention == DirectMapping {
		key = StripZeros(key)
	}
	restore, err := in.probe.Acquire(ctx, token, key)
	if err != nil {
		return false, err
	}
	if err := in.probe.WriteSlot(ctx, token, key, EncodeWord(value)); err != nil {
		return false, fmt.Errorf("write balance of %s on %s: %w", account, token, err)
	}
	got, err := in.tokens.BalanceOf(ctx, token, account)
	if err == nil && got.Cmp(value) == 0 {
		return true, nil
	}
	if rerr := restore(); rerr != nil {
		return false, rerr
	}
	if err != nil {
		return false, fmt.Errorf("read back balance of %s on %s: %w", account, token, err)
	}
	return false, nil
}

// buy swaps native currency for exactly value tokens delivered to account.
// The deadline is twice the latest block timestamp.
func (in *Injector) buy(ctx context.Context, token, account common.Address, value *big.Int) error {
	now, err := in.clock.BlockTimestamp(ctx)
	if err != nil {
		return fmt.Errorf("read block timestamp: %w", err)
	}
	deadline := new(big.Int).Mul(new(big.Int).SetUint64(now), big.NewInt(2))
	opts := ledger.TxOpts{From: in.fallback.Funder, Value: in.fallback.Value}
	path := []common.Address{in.fallback.Bridge, token}

	fallbackSwaps.Inc(1)
	log.Info("Balance slot not found, buying tokens", "token", token, "account", account, "amount", value)
	if err := in.swapper.SwapETHForExactTokens(ctx, opts, value, path, account, deadline); err != nil {
		return fmt.Errorf("fallback swap for %s: %w", token, err)
	}
	return nil
}
