// Copyright 2026 The go-ethereum Authors
// This file is part of go-ethereum.
//
// go-ethereum is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-ethereum is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-ethereum. If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"golang.org/x/sync/errgroup"

	"github.com/optyfi/adapterharness/matrix"
)

// polygonChainID is the chain the built-in fixtures describe.
var polygonChainID = big.NewInt(137)

// codeReader is the read-only ledger access preflight needs.
type codeReader interface {
	ChainID(ctx context.Context) (*big.Int, error)
	CodeAt(ctx context.Context, addr common.Address) ([]byte, error)
}

// target is an account that must hold code before a run starts.
type target struct {
	name string
	addr common.Address
}

// preflightTargets lists every contract the run will talk to except the
// registry, whose code is replaced anyway.
func preflightTargets(cfg *Config, fixtures *matrix.Fixtures) []target {
	targets := []target{
		{"proxy", cfg.Adapters.Proxy},
		{"pool adapter", cfg.Adapters.PoolAdapter},
		{"router", cfg.Adapters.Router},
		{"staking factory", cfg.Adapters.StakingFactory},
	}
	if cfg.farmEnabled() {
		targets = append(targets, target{"farm adapter", cfg.Adapters.FarmAdapter})
	}
	seen := make(map[common.Address]bool)
	for _, list := range [][]matrix.Token{fixtures.Tokens, fixtures.Underlying} {
		for _, t := range list {
			if !seen[t.Address] {
				seen[t.Address] = true
				targets = append(targets, target{t.Symbol, t.Address})
			}
		}
	}
	for _, p := range fixtures.Pools {
		targets = append(targets, target{p.Name + " pool", p.Address})
	}
	return targets
}

// preflight checks, before any state is changed, that every target has code
// on the ledger. Up to workers lookups run at once.
func preflight(ctx context.Context, backend codeReader, targets []target, workers int) error {
	chainID, err := backend.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("read chain id: %w", err)
	}
	if chainID.Cmp(polygonChainID) != 0 {
		log.Warn("Ledger is not a Polygon fork", "chainid", chainID)
	}

	present := make([]bool, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, t := range targets {
		g.Go(func() error {
			code, err := backend.CodeAt(gctx, t.addr)
			if err != nil {
				return fmt.Errorf("read code of %s (%s): %w", t.name, t.addr, err)
			}
			present[i] = len(code) > 0
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var missing []string
	for i, t := range targets {
		if !present[i] {
			missing = append(missing, fmt.Sprintf("%s (%s)", t.name, t.addr))
		}
	}
	preflightChecked.Inc(int64(len(targets)))
	preflightMissing.Inc(int64(len(missing)))
	if len(missing) > 0 {
		return fmt.Errorf("no code at %s", strings.Join(missing, ", "))
	}
	log.Info("Preflight passed", "chainid", chainID, "contracts", len(targets))
	return nil
}

// symbolReader reads ERC-20 symbols.
type symbolReader interface {
	Symbol(ctx context.Context, token common.Address) (string, error)
}

// checkSymbols compares the on-chain symbol of every fixture token with its
// fixture name and returns the names that differ. Mismatches only warn:
// bridged tokens often carry a different symbol than the one they are known by.
func checkSymbols(ctx context.Context, tokens symbolReader, fixtures *matrix.Fixtures) []string {
	var mismatched []string
	seen := make(map[string]bool)
	for _, list := range [][]matrix.Token{fixtures.Tokens, fixtures.Underlying} {
		for _, t := range list {
			if seen[t.Symbol] {
				continue
			}
			seen[t.Symbol] = true
			symbol, err := tokens.Symbol(ctx, t.Address)
			if err != nil {
				log.Debug("Cannot read token symbol", "token", t.Symbol, "addr", t.Address, "err", err)
				continue
			}
			if !strings.EqualFold(symbol, t.Symbol) {
				log.Warn("Token symbol differs from fixture", "fixture", t.Symbol, "onchain", symbol, "addr", t.Address)
				mismatched = append(mismatched, t.Symbol)
			}
		}
	}
	return mismatched
}
