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

	"github.com/ethereum/go-ethereum/common"
)

// Storage is the raw storage access a Probe needs. ledger.Ledger satisfies it.
type Storage interface {
	StorageAt(ctx context.Context, addr common.Address, slot string) (string, error)
	SetStorageAt(ctx context.Context, addr common.Address, slot, value string) error
}

// Probe reads and writes single storage words, normalising slot keys the
// way development nodes expect them.
type Probe struct {
	storage Storage
}

func NewProbe(storage Storage) *Probe {
	return &Probe{storage: storage}
}

// ReadSlot returns the raw word stored at slot of addr.
func (p *Probe) ReadSlot(ctx context.Context, addr common.Address, slot string) (string, error) {
	return p.storage.StorageAt(ctx, addr, NormalizeSlot(slot))
}

// WriteSlot overwrites the word stored at slot of addr. value must be a full
// 32-byte word.
func (p *Probe) WriteSlot(ctx context.Context, addr common.Address, slot, value string) error {
	return p.storage.SetStorageAt(ctx, addr, NormalizeSlot(slot), value)
}

// Acquire remembers the current word at slot of addr and returns a func
// writing it back. Callers defer the restore before touching the slot; it
// still runs after ctx is cancelled.
func (p *Probe) Acquire(ctx context.Context, addr common.Address, slot string) (restore func() error, err error) {
	prev, err := p.ReadSlot(ctx, addr, slot)
	if err != nil {
		return nil, fmt.Errorf("read slot %s: %w", slot, err)
	}
	rctx := context.WithoutCancel(ctx)
	return func() error {
		if err := p.WriteSlot(rctx, addr, slot, prev); err != nil {
			return fmt.Errorf("restore slot %s: %w", slot, err)
		}
		return nil
	}, nil
}
