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
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
)

// maxSlotIndex bounds the declaration indices tried per convention.
const maxSlotIndex = 100

var (
	// probeAccount is the holder whose entry is overwritten while probing.
	probeAccount = common.Address{}

	// ambiguousSlot is reported for both conventions at index 0: the zero
	// account's direct and nested keys are the same hash.
	ambiguousSlot = Slot{Index: 0, Convention: DirectMapping}

	// probeValue is the sentinel written to each candidate, 0x12345.
	probeValue    = big.NewInt(0x12345)
	probeSentinel = EncodeWord(probeValue)
)

// BalanceReader answers balanceOf on a token.
type BalanceReader interface {
	BalanceOf(ctx context.Context, token, account common.Address) (*big.Int, error)
}

// Locator finds the balance mapping of a token by writing a sentinel into
// each candidate key of the probe account and watching balanceOf. Every
// candidate is restored before the next one is tried. Results, including
// misses, are cached per token; a Locator is not safe for concurrent use.
type Locator struct {
	probe    *Probe
	balances BalanceReader
	found    map[common.Address]Slot
	missing  map[common.Address]struct{}
}

func NewLocator(probe *Probe, balances BalanceReader) *Locator {
	return &Locator{
		probe:    probe,
		balances: balances,
		found:    make(map[common.Address]Slot),
		missing:  make(map[common.Address]struct{}),
	}
}

// Locate returns the balance mapping slot of token. Direct-mapping
// candidates 0..99 are tried before nested-mapping candidates 0..99.
func (l *Locator) Locate(ctx context.Context, token common.Address) (Slot, error) {
	if slot, ok := l.found[token]; ok {
		return slot, nil
	}
	if _, ok := l.missing[token]; ok {
		return Slot{}, ErrSlotNotFound
	}
	for _, convention := range []Convention{DirectMapping, NestedMapping} {
		for index := uint64(0); index < maxSlotIndex; index++ {
			slot := Slot{Index: index, Convention: convention}
			ok, err := l.try(ctx, token, slot)
			if err != nil {
				return Slot{}, fmt.Errorf("probe %s slot %s: %w", token, slot, err)
			}
			if ok {
				slotsFound.Inc(1)
				log.Debug("Located balance slot", "token", token, "index", index, "convention", convention)
				l.found[token] = slot
				return slot, nil
			}
		}
	}
	slotsMissing.Inc(1)
	log.Debug("No balance slot matched", "token", token, "candidates", 2*maxSlotIndex)
	l.missing[token] = struct{}{}
	return Slot{}, ErrSlotNotFound
}

// remember replaces the cached slot of token.
func (l *Locator) remember(token common.Address, slot Slot) {
	delete(l.missing, token)
	l.found[token] = slot
}

// Forget drops the cached result for token.
func (l *Locator) Forget(token common.Address) {
	delete(l.found, token)
	delete(l.missing, token)
}

// try writes the sentinel into the probe account's key for slot and reports
// whether balanceOf reflects it. The previous word is restored on return.
func (l *Locator) try(ctx context.Context, token common.Address, slot Slot) (matched bool, err error) {
	probesTotal.Inc(1)
	key := SlotKey(probeAccount, slot.Index, slot.Convention).Hex()
	restore, err := l.probe.Acquire(ctx, token, key)
	if err != nil {
		return false, err
	}
	defer func() {
		if rerr := restore(); rerr != nil && err == nil {
			matched, err = false, rerr
		}
	}()
	if err = l.probe.WriteSlot(ctx, token, key, probeSentinel); err != nil {
		return false, err
	}
	bal, err := l.balances.BalanceOf(ctx, token, probeAccount)
	if err != nil {
		return false, err
	}
	return bal.Cmp(probeValue) == 0, nil
}
