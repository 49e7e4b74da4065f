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

// Package ledger defines the contract the harness needs from a ledger
// backend: raw storage access, read-only calls, transactions and the
// development-node cheat codes (impersonation, storage overrides).
package ledger

//go:generate mockgen -source ledger.go -destination ledger_mocks.go -package ledger

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// CallMsg is a read-only contract call.
type CallMsg struct {
	From common.Address
	To   common.Address
	Data []byte
}

// TxOpts carries the sender side of a state-changing transaction.
type TxOpts struct {
	From     common.Address
	Value    *big.Int // nil means zero
	GasPrice *big.Int // nil lets the backend choose
	Gas      uint64   // 0 lets the backend estimate
}

// Ledger is a mutable, forked ledger reachable by the harness. All storage
// slot and value arguments are 0x-prefixed hex strings; a slot may be given
// without leading zeros, values are always full 32-byte words.
type Ledger interface {
	// StorageAt returns the raw 32-byte word stored at slot of addr.
	StorageAt(ctx context.Context, addr common.Address, slot string) (string, error)
	// SetStorageAt overwrites the word stored at slot of addr.
	SetStorageAt(ctx context.Context, addr common.Address, slot, value string) error

	// Call executes a read-only call against the latest state.
	Call(ctx context.Context, msg CallMsg) ([]byte, error)
	// Send executes a transaction and waits for its receipt. A nil to
	// deploys data as init code. Reverted transactions return a
	// *RevertError.
	Send(ctx context.Context, opts TxOpts, to *common.Address, data []byte) (*types.Receipt, error)

	// Impersonate allows transactions to be sent from addr without its key.
	Impersonate(ctx context.Context, addr common.Address) error

	BlockTimestamp(ctx context.Context) (uint64, error)
	ChainID(ctx context.Context) (*big.Int, error)
	CodeAt(ctx context.Context, addr common.Address) ([]byte, error)
}

// CodeSetter is implemented by backends that can replace the code of an
// account in place.
type CodeSetter interface {
	SetCode(ctx context.Context, addr common.Address, code []byte) error
}

// AccountLister is implemented by backends that expose unlocked accounts.
type AccountLister interface {
	Accounts(ctx context.Context) ([]common.Address, error)
}
