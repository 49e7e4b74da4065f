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

// Package simledger implements ledger.Ledger on an in-memory state database
// and the go-ethereum interpreter. Every account is unlocked, blocks are not
// mined and time only moves when the caller says so.
package simledger

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/state"
	"github.com/ethereum/go-ethereum/core/tracing"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/core/vm/runtime"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/params"
	"github.com/holiman/uint256"

	"github.com/optyfi/adapterharness/ledger"
)

const (
	defaultAccounts  = 10
	defaultTimestamp = 1_700_000_000
)

// DefaultFunding is the native balance of every generated account.
var DefaultFunding = new(big.Int).Mul(big.NewInt(10_000), big.NewInt(params.Ether))

// Ledger is an in-process ledger.Ledger. It is safe for concurrent use;
// calls are serialised.
type Ledger struct {
	mu       sync.Mutex
	state    *state.StateDB
	chain    *params.ChainConfig
	time     uint64
	number   *big.Int
	accounts []common.Address
	txs      uint64
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithTime sets the block timestamp.
func WithTime(ts uint64) Option {
	return func(l *Ledger) { l.time = ts }
}

// WithChainID overrides the chain id of the development chain config.
func WithChainID(id uint64) Option {
	return func(l *Ledger) {
		cfg := *l.chain
		cfg.ChainID = new(big.Int).SetUint64(id)
		l.chain = &cfg
	}
}

// WithAccounts sets how many funded accounts are generated.
func WithAccounts(n int) Option {
	return func(l *Ledger) { l.accounts = make([]common.Address, n) }
}

// New creates an empty ledger with funded development accounts.
func New(opts ...Option) (*Ledger, error) {
	statedb, err := state.New(types.EmptyRootHash, state.NewDatabaseForTesting())
	if err != nil {
		return nil, fmt.Errorf("failed to create state: %w", err)
	}
	l := &Ledger{
		state:    statedb,
		chain:    params.AllDevChainProtocolChanges,
		time:     defaultTimestamp,
		number:   big.NewInt(1),
		accounts: make([]common.Address, defaultAccounts),
	}
	for _, opt := range opts {
		opt(l)
	}
	for i := range l.accounts {
		l.accounts[i] = common.BytesToAddress(crypto.Keccak256([]byte(fmt.Sprintf("simledger/account/%d", i))))
		l.fund(l.accounts[i], DefaultFunding)
	}
	l.state.Finalise(true)
	return l, nil
}

func (l *Ledger) fund(addr common.Address, amount *big.Int) {
	l.state.SetBalance(addr, uint256.MustFromBig(amount), tracing.BalanceChangeUnspecified)
}

// Fund sets the native balance of addr.
func (l *Ledger) Fund(addr common.Address, amount *big.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fund(addr, amount)
}

// SetTime moves the block timestamp.
func (l *Ledger) SetTime(ts uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.time = ts
}

// Accounts returns the generated development accounts.
func (l *Ledger) Accounts(ctx context.Context) ([]common.Address, error) {
	out := make([]common.Address, len(l.accounts))
	copy(out, l.accounts)
	return out, nil
}

func (l *Ledger) StorageAt(ctx context.Context, addr common.Address, slot string) (string, error) {
	key, err := parseWord(slot)
	if err != nil {
		return "", fmt.Errorf("invalid slot %q: %w", slot, err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	value := l.state.GetState(addr, key)
	return hexutil.Encode(value[:]), nil
}

func (l *Ledger) SetStorageAt(ctx context.Context, addr common.Address, slot, value string) error {
	key, err := parseWord(slot)
	if err != nil {
		return fmt.Errorf("invalid slot %q: %w", slot, err)
	}
	raw, err := hexutil.Decode(value)
	if err != nil {
		return fmt.Errorf("invalid value %q: %w", value, err)
	}
	if len(raw) != common.HashLength {
		return fmt.Errorf("value must be %d bytes, got %d", common.HashLength, len(raw))
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.SetState(addr, key, common.BytesToHash(raw))
	return nil
}

// Call runs msg against the current state and discards every change.
func (l *Ledger) Call(ctx context.Context, msg ledger.CallMsg) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	snap := l.state.Snapshot()
	defer l.state.RevertToSnapshot(snap)

	ret, _, err := runtime.Call(msg.To, msg.Data, l.config(msg.From, nil))
	if err != nil {
		return nil, executionError(err, ret)
	}
	return ret, nil
}

func (l *Ledger) Send(ctx context.Context, opts ledger.TxOpts, to *common.Address, data []byte) (*types.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	cfg := l.config(opts.From, opts.Value)
	if opts.Gas != 0 {
		cfg.GasLimit = opts.Gas
	}
	var nonce [8]byte
	binary.BigEndian.PutUint64(nonce[:], l.txs)
	l.txs++
	receipt := &types.Receipt{
		Type:        types.LegacyTxType,
		TxHash:      crypto.Keccak256Hash(opts.From.Bytes(), nonce[:], data),
		BlockNumber: new(big.Int).Set(l.number),
		Logs:        []*types.Log{},
	}

	snap := l.state.Snapshot()
	var (
		ret  []byte
		left uint64
		err  error
	)
	if to == nil {
		var addr common.Address
		ret, addr, left, err = runtime.Create(data, cfg)
		receipt.ContractAddress = addr
	} else {
		ret, left, err = runtime.Call(*to, data, cfg)
	}
	if err != nil {
		l.state.RevertToSnapshot(snap)
		log.Debug("Simulated transaction failed", "from", opts.From, "to", to, "err", err)
		return nil, executionError(err, ret)
	}
	l.state.Finalise(true)
	receipt.Status = types.ReceiptStatusSuccessful
	receipt.GasUsed = cfg.GasLimit - left
	receipt.CumulativeGasUsed = receipt.GasUsed
	return receipt, nil
}

// Impersonate is a no-op: every account can send transactions.
func (l *Ledger) Impersonate(ctx context.Context, addr common.Address) error {
	return nil
}

func (l *Ledger) BlockTimestamp(ctx context.Context) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.time, nil
}

func (l *Ledger) ChainID(ctx context.Context) (*big.Int, error) {
	return new(big.Int).Set(l.chain.ChainID), nil
}

func (l *Ledger) CodeAt(ctx context.Context, addr common.Address) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return common.CopyBytes(l.state.GetCode(addr)), nil
}

// BalanceAt returns the native balance of addr.
func (l *Ledger) BalanceAt(addr common.Address) *big.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.GetBalance(addr).ToBig()
}

func (l *Ledger) config(from common.Address, value *big.Int) *runtime.Config {
	return &runtime.Config{
		ChainConfig: l.chain,
		Origin:      from,
		BlockNumber: new(big.Int).Set(l.number),
		Time:        l.time,
		Value:       value,
		Random:      &common.Hash{},
		State:       l.state,
	}
}

func executionError(err error, ret []byte) error {
	if errors.Is(err, vm.ErrExecutionReverted) {
		return ledger.NewRevertError(common.CopyBytes(ret))
	}
	return fmt.Errorf("execution failed: %w", err)
}

// parseWord accepts slots with or without leading zeros.
func parseWord(s string) (common.Hash, error) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return common.Hash{}, errors.New("missing 0x prefix")
	}
	digits := s[2:]
	if len(digits) == 0 || len(digits) > 2*common.HashLength {
		return common.Hash{}, fmt.Errorf("bad length %d", len(digits))
	}
	if len(digits)%2 == 1 {
		digits = "0" + digits
	}
	raw, err := hexutil.Decode("0x" + digits)
	if err != nil {
		return common.Hash{}, err
	}
	return common.BytesToHash(raw), nil
}

var (
	_ ledger.Ledger        = (*Ledger)(nil)
	_ ledger.AccountLister = (*Ledger)(nil)
)
