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

// Package rpcledger implements ledger.Ledger on a forked development node
// reached over JSON-RPC. State overrides use the node's cheat-code namespace
// (hardhat_* or anvil_*); transactions are sent unsigned from unlocked or
// impersonated accounts.
package rpcledger

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rpc"
	"golang.org/x/time/rate"

	"github.com/optyfi/adapterharness/ledger"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultCheatPrefix = "hardhat"
	receiptPollPeriod  = 50 * time.Millisecond
)

// Config tunes a Ledger.
type Config struct {
	Timeout     time.Duration // per request, 0 means 30s
	CheatPrefix string        // namespace of state overrides, "hardhat" or "anvil"
	RateLimit   float64       // requests per second, 0 disables limiting
	DialWait    time.Duration // how long Dial keeps retrying an unreachable node
}

// Ledger talks to a development node. It is safe for concurrent use.
type Ledger struct {
	rpc     *rpc.Client
	eth     *ethclient.Client
	timeout time.Duration
	cheat   string
	limiter *rate.Limiter
}

// New wraps an established client.
func New(client *rpc.Client, cfg Config) *Ledger {
	l := &Ledger{
		rpc:     client,
		eth:     ethclient.NewClient(client),
		timeout: cfg.Timeout,
		cheat:   cfg.CheatPrefix,
	}
	if l.timeout == 0 {
		l.timeout = defaultTimeout
	}
	if l.cheat == "" {
		l.cheat = defaultCheatPrefix
	}
	if cfg.RateLimit > 0 {
		l.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}
	return l
}

// Dial connects to url and waits, up to cfg.DialWait, until the node answers
// eth_chainId.
func Dial(ctx context.Context, url string, cfg Config) (*Ledger, error) {
	var l *Ledger
	connect := func() error {
		client, err := rpc.DialContext(ctx, url)
		if err != nil {
			return err
		}
		candidate := New(client, cfg)
		if _, err := candidate.ChainID(ctx); err != nil {
			client.Close()
			return err
		}
		l = candidate
		return nil
	}
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = cfg.DialWait
	if cfg.DialWait == 0 {
		policy.MaxElapsedTime = time.Nanosecond
	}
	notify := func(err error, next time.Duration) {
		log.Warn("Node not reachable yet", "url", url, "retry", next, "err", err)
	}
	if err := backoff.RetryNotify(connect, backoff.WithContext(policy, ctx), notify); err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return l, nil
}

// Close closes the underlying client.
func (l *Ledger) Close() {
	l.rpc.Close()
}

// do runs fn under the rate limit and the per-request timeout.
func (l *Ledger) do(ctx context.Context, fn func(ctx context.Context) error) error {
	if l.limiter != nil {
		if err := l.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	return fn(ctx)
}

func (l *Ledger) call(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	return l.do(ctx, func(ctx context.Context) error {
		return l.rpc.CallContext(ctx, result, method, args...)
	})
}

func (l *Ledger) StorageAt(ctx context.Context, addr common.Address, slot string) (string, error) {
	var word hexutil.Bytes
	if err := l.call(ctx, &word, "eth_getStorageAt", addr, slot, "latest"); err != nil {
		return "", fmt.Errorf("eth_getStorageAt: %w", err)
	}
	return hexutil.Encode(common.LeftPadBytes(word, common.HashLength)), nil
}

func (l *Ledger) SetStorageAt(ctx context.Context, addr common.Address, slot, value string) error {
	method := l.cheat + "_setStorageAt"
	if err := l.call(ctx, nil, method, addr, slot, value); err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	return nil
}

// SetCode replaces the runtime code at addr.
func (l *Ledger) SetCode(ctx context.Context, addr common.Address, code []byte) error {
	method := l.cheat + "_setCode"
	if err := l.call(ctx, nil, method, addr, hexutil.Bytes(code)); err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	return nil
}

type callArgs struct {
	From     common.Address  `json:"from"`
	To       *common.Address `json:"to,omitempty"`
	Data     hexutil.Bytes   `json:"data,omitempty"`
	Value    *hexutil.Big    `json:"value,omitempty"`
	GasPrice *hexutil.Big    `json:"gasPrice,omitempty"`
	Gas      *hexutil.Uint64 `json:"gas,omitempty"`
}

func (l *Ledger) Call(ctx context.Context, msg ledger.CallMsg) ([]byte, error) {
	to := msg.To
	args := callArgs{From: msg.From, To: &to, Data: msg.Data}
	var out hexutil.Bytes
	if err := l.call(ctx, &out, "eth_call", args, "latest"); err != nil {
		return nil, revertError(err)
	}
	return out, nil
}

// Send submits a transaction from opts.From and waits for its receipt. A nil
// to deploys data as init code.
func (l *Ledger) Send(ctx context.Context, opts ledger.TxOpts, to *common.Address, data []byte) (*types.Receipt, error) {
	args := callArgs{From: opts.From, To: to, Data: data}
	if opts.Value != nil {
		args.Value = (*hexutil.Big)(opts.Value)
	}
	if opts.GasPrice != nil {
		args.GasPrice = (*hexutil.Big)(opts.GasPrice)
	}
	if opts.Gas != 0 {
		gas := hexutil.Uint64(opts.Gas)
		args.Gas = &gas
	}
	var hash common.Hash
	if err := l.call(ctx, &hash, "eth_sendTransaction", args); err != nil {
		return nil, revertError(err)
	}
	receipt, err := l.waitReceipt(ctx, hash)
	if err != nil {
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		log.Debug("Transaction failed", "hash", hash, "from", opts.From, "to", to)
		return receipt, l.replay(ctx, args, receipt.BlockNumber)
	}
	return receipt, nil
}

// replay re-executes a failed transaction as a call on top of its block to
// recover the revert reason. Nodes that mine failing transactions only
// report the status in the receipt.
func (l *Ledger) replay(ctx context.Context, args callArgs, block *big.Int) error {
	tag := "latest"
	if block != nil {
		tag = hexutil.EncodeBig(block)
	}
	var out hexutil.Bytes
	err := l.call(ctx, &out, "eth_call", args, tag)
	if err == nil {
		return &ledger.RevertError{}
	}
	if rerr, ok := ledger.AsRevert(revertError(err)); ok {
		return rerr
	}
	return &ledger.RevertError{Reason: err.Error()}
}

func (l *Ledger) waitReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(receiptPollPeriod)
	defer ticker.Stop()
	for {
		var receipt *types.Receipt
		err := l.do(ctx, func(ctx context.Context) (err error) {
			receipt, err = l.eth.TransactionReceipt(ctx, hash)
			return err
		})
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			return nil, fmt.Errorf("receipt of %s: %w", hash, err)
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("receipt of %s: %w", hash, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (l *Ledger) Impersonate(ctx context.Context, addr common.Address) error {
	method := l.cheat + "_impersonateAccount"
	if err := l.call(ctx, nil, method, addr); err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	return nil
}

func (l *Ledger) BlockTimestamp(ctx context.Context) (uint64, error) {
	var head struct {
		Timestamp hexutil.Uint64 `json:"timestamp"`
	}
	if err := l.call(ctx, &head, "eth_getBlockByNumber", "latest", false); err != nil {
		return 0, fmt.Errorf("eth_getBlockByNumber: %w", err)
	}
	return uint64(head.Timestamp), nil
}

func (l *Ledger) ChainID(ctx context.Context) (id *big.Int, err error) {
	err = l.do(ctx, func(ctx context.Context) error {
		id, err = l.eth.ChainID(ctx)
		return err
	})
	return id, err
}

func (l *Ledger) CodeAt(ctx context.Context, addr common.Address) (code []byte, err error) {
	err = l.do(ctx, func(ctx context.Context) error {
		code, err = l.eth.CodeAt(ctx, addr, nil)
		return err
	})
	return code, err
}

// Accounts returns the node's unlocked accounts.
func (l *Ledger) Accounts(ctx context.Context) ([]common.Address, error) {
	var accounts []common.Address
	if err := l.call(ctx, &accounts, "eth_accounts"); err != nil {
		return nil, fmt.Errorf("eth_accounts: %w", err)
	}
	return accounts, nil
}

// ClientVersion returns web3_clientVersion.
func (l *Ledger) ClientVersion(ctx context.Context) (string, error) {
	var version string
	if err := l.call(ctx, &version, "web3_clientVersion"); err != nil {
		return "", err
	}
	return version, nil
}

// revertError turns node errors that signal a revert into a
// ledger.RevertError and returns every other error unchanged.
func revertError(err error) error {
	var derr rpc.DataError
	if errors.As(err, &derr) {
		if s, ok := derr.ErrorData().(string); ok {
			if data, decErr := hexutil.Decode(s); decErr == nil {
				return ledger.NewRevertError(data)
			}
		}
	}
	if reason, ok := ledger.ReasonFromMessage(err.Error()); ok {
		return &ledger.RevertError{Reason: reason}
	}
	return err
}

var (
	_ ledger.Ledger        = (*Ledger)(nil)
	_ ledger.CodeSetter    = (*Ledger)(nil)
	_ ledger.AccountLister = (*Ledger)(nil)
)
