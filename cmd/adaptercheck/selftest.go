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
	"io"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/urfave/cli/v2"

	"github.com/optyfi/adapterharness/balance"
	"github.com/optyfi/adapterharness/contracts"
	"github.com/optyfi/adapterharness/internal/evmasm"
	"github.com/optyfi/adapterharness/ledger"
	"github.com/optyfi/adapterharness/ledger/simledger"
	"github.com/optyfi/adapterharness/matrix"
)

const (
	selfTestAmount     = "1234.5"
	selfTestSwapReason = "selftest: no liquidity"
)

type selfTestCase struct {
	name     string
	layout   evmasm.Layout
	index    uint64
	decimals uint8
}

var selfTestCases = []selfTestCase{
	{"direct mapping at slot 0", evmasm.DirectLayout, 0, 18},
	{"direct mapping at slot 9", evmasm.DirectLayout, 9, 6},
	{"nested mapping at slot 0", evmasm.NestedLayout, 0, 18},
	{"nested mapping at slot 3", evmasm.NestedLayout, 3, 8},
	{"nested mapping at slot 51", evmasm.NestedLayout, 51, 18},
	{"unmappable balances", evmasm.OpaqueLayout, 0, 18},
}

func runSelfTestCommand(ctx *cli.Context) error {
	defer setupLogging(LogConfig{Verbosity: ctx.Int(verbosityFlag.Name)}).Close()

	report, err := runSelfTest(ctx.Context, os.Stdout)
	if err != nil {
		return err
	}
	report.Print()
	if !report.OK() {
		return errChecksFailed
	}
	return nil
}

// runSelfTest deploys tokens of every storage layout on an in-process chain
// and injects balances into them. Tokens without a locatable mapping must
// fall back to a swap, which here hits a router that always reverts.
func runSelfTest(ctx context.Context, out io.Writer) (*matrix.Report, error) {
	sim, err := simledger.New(simledger.WithChainID(polygonChainID.Uint64()))
	if err != nil {
		return nil, err
	}
	accounts, err := sim.Accounts(ctx)
	if err != nil {
		return nil, err
	}
	deployer, holder := accounts[0], accounts[1]

	router, err := deploy(ctx, sim, deployer, evmasm.RevertRuntime(selfTestSwapReason))
	if err != nil {
		return nil, fmt.Errorf("deploy router: %w", err)
	}
	tokens := contracts.NewTokens(sim)
	probe := balance.NewProbe(sim)
	injector := balance.NewInjector(probe, balance.NewLocator(probe, tokens), tokens,
		contracts.NewRouter(router, sim), sim, balance.FallbackConfig{Funder: deployer})

	report := matrix.NewReport(out)
	index := 0
	record := func(name string, check func() error) {
		index++
		start := time.Now()
		if err := check(); err != nil {
			report.Fail(index, name, time.Since(start), err)
			return
		}
		report.Pass(index, name, time.Since(start))
	}

	for _, tc := range selfTestCases {
		record("should inject balance into token with "+tc.name, func() error {
			token, err := deploy(ctx, sim, deployer, evmasm.TokenRuntime(tc.layout, tc.index, tc.decimals))
			if err != nil {
				return err
			}
			err = injector.SetBalance(ctx, token, holder, selfTestAmount)
			if tc.layout == evmasm.OpaqueLayout {
				if revert, ok := ledger.AsRevert(err); !ok || revert.Reason != selfTestSwapReason {
					return fmt.Errorf("want fallback swap reverting with %q, got %v", selfTestSwapReason, err)
				}
				return nil
			}
			if err != nil {
				return err
			}
			want, err := balance.ToBaseUnits(selfTestAmount, tc.decimals)
			if err != nil {
				return err
			}
			got, err := tokens.BalanceOf(ctx, token, holder)
			if err != nil {
				return err
			}
			if got.Cmp(want) != 0 {
				return fmt.Errorf("balance %v, want %v", got, want)
			}
			return nil
		})
	}

	record("should deploy registry stand-in", func() error {
		operator, riskOperator := accounts[4], accounts[5]
		addr, err := contracts.DeployRegistry(ctx, sim, deployer, operator, riskOperator)
		if err != nil {
			return err
		}
		registry := contracts.NewRegistry(addr, sim)
		if got, err := registry.Operator(ctx); err != nil || got != operator {
			return fmt.Errorf("operator %v (err %v), want %v", got, err, operator)
		}
		if got, err := registry.RiskOperator(ctx); err != nil || got != riskOperator {
			return fmt.Errorf("risk operator %v (err %v), want %v", got, err, riskOperator)
		}
		return nil
	})
	return report, nil
}

func deploy(ctx context.Context, l ledger.Ledger, from common.Address, runtime []byte) (common.Address, error) {
	receipt, err := l.Send(ctx, ledger.TxOpts{From: from}, nil, evmasm.Deployer(runtime))
	if err != nil {
		return common.Address{}, err
	}
	return receipt.ContractAddress, nil
}
