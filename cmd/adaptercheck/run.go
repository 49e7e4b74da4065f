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
	"errors"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/optyfi/adapterharness/balance"
	"github.com/optyfi/adapterharness/contracts"
	"github.com/optyfi/adapterharness/ledger"
	"github.com/optyfi/adapterharness/ledger/rpcledger"
	"github.com/optyfi/adapterharness/matrix"
	"github.com/optyfi/adapterharness/verifier"
)

// errChecksFailed is returned when at least one scenario failed.
var errChecksFailed = errors.New("adapter checks failed")

// signerCount is the number of unlocked accounts a run needs.
const signerCount = 7

func runCheck(ctx *cli.Context) error {
	cfg, err := buildConfigFromCLI(ctx)
	if err != nil {
		return err
	}
	defer setupLogging(cfg.Log).Close()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	setupMetrics(cfg.Metrics)

	fixtures, err := loadFixtures(cfg.Run.Fixtures)
	if err != nil {
		return fmt.Errorf("failed to load fixtures: %w", err)
	}

	runCtx, stop := signal.NotifyContext(ctx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := rpcledger.Dial(runCtx, cfg.Node.URL, rpcledger.Config{
		Timeout:     time.Duration(cfg.Node.Timeout),
		CheatPrefix: cfg.Node.CheatPrefix,
		RateLimit:   cfg.Node.RateLimit,
		DialWait:    time.Duration(cfg.Node.DialWait),
	})
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer backend.Close()

	if version, err := backend.ClientVersion(runCtx); err == nil {
		log.Info("Connected to node", "url", cfg.Node.URL, "client", version)
	}
	if err := preflight(runCtx, backend, preflightTargets(cfg, fixtures), cfg.Run.PreflightWorkers); err != nil {
		return fmt.Errorf("preflight failed: %w", err)
	}
	checkSymbols(runCtx, contracts.NewTokens(backend), fixtures)

	env, err := setupEnv(runCtx, backend, cfg, fixtures)
	if err != nil {
		return fmt.Errorf("failed to set up: %w", err)
	}
	driver := newDriver(env, cfg, fixtures)

	log.Info("Running adapter checks", "suite", cfg.Run.Suite, "only", cfg.Run.Only)
	report, err := driver.Run(runCtx, os.Stdout)
	report.Print()
	if err != nil {
		return fmt.Errorf("run interrupted: %w", err)
	}
	if !report.OK() {
		return errChecksFailed
	}
	return nil
}

func loadFixtures(dir string) (*matrix.Fixtures, error) {
	if dir == "" {
		return matrix.DefaultFixtures()
	}
	return matrix.LoadFixtures(os.DirFS(dir))
}

// signersFrom assigns the node's unlocked accounts to roles.
func signersFrom(accounts []common.Address) (verifier.Signers, error) {
	if len(accounts) < signerCount {
		return verifier.Signers{}, fmt.Errorf("need %d unlocked accounts, node has %d", signerCount, len(accounts))
	}
	return verifier.Signers{
		Admin:        accounts[0],
		Owner:        accounts[1],
		Deployer:     accounts[2],
		Alice:        accounts[3],
		Operator:     accounts[4],
		RiskOperator: accounts[5],
		Attacker:     accounts[6],
	}, nil
}

// signerAccounts impersonates the configured signers, or lists the node's
// unlocked accounts when none are configured.
func signerAccounts(ctx context.Context, be backend, configured []common.Address) ([]common.Address, error) {
	if len(configured) == 0 {
		accounts, err := be.Accounts(ctx)
		if err != nil {
			return nil, fmt.Errorf("list accounts: %w", err)
		}
		return accounts, nil
	}
	for _, addr := range configured {
		if err := be.Impersonate(ctx, addr); err != nil {
			return nil, fmt.Errorf("impersonate %s: %w", addr, err)
		}
	}
	log.Info("Impersonating configured signers", "count", len(configured))
	return configured, nil
}

// backend is what setting up a run needs from the ledger.
type backend interface {
	ledger.Ledger
	ledger.AccountLister
}

// setupEnv resolves signers, installs the registry stand-in and binds every
// contract the verifiers use.
func setupEnv(ctx context.Context, be backend, cfg *Config, fixtures *matrix.Fixtures) (*verifier.Env, error) {
	accounts, err := signerAccounts(ctx, be, cfg.Node.Signers)
	if err != nil {
		return nil, err
	}
	signers, err := signersFrom(accounts)
	if err != nil {
		return nil, err
	}
	if cfg.Adapters.Registry != (common.Address{}) {
		if err := contracts.InstallRegistry(ctx, be, cfg.Adapters.Registry, signers.Operator, signers.RiskOperator); err != nil {
			return nil, err
		}
	}

	exchange, err := contracts.NewExchange(ctx, be, cfg.Adapters.Router, cfg.Adapters.StakingFactory)
	if err != nil {
		return nil, err
	}
	funding, err := cfg.funding()
	if err != nil {
		return nil, err
	}
	tokens := contracts.NewTokens(be)
	probe := balance.NewProbe(be)
	injector := balance.NewInjector(
		probe,
		balance.NewLocator(probe, tokens),
		tokens,
		contracts.NewRouter(balance.DefaultFallbackRouter, be),
		be,
		balance.FallbackConfig{Funder: signers.Admin, Value: funding},
	)

	env := &verifier.Env{
		Signers:     signers,
		Proxy:       contracts.NewProxy(cfg.Adapters.Proxy, be),
		PoolAdapter: contracts.NewAdapter(cfg.Adapters.PoolAdapter, be),
		Exchange:    exchange,
		Tokens:      tokens,
		Injector:    injector,
		Symbols:     fixtures.Symbols(),
		GasPrice:    new(big.Int).SetUint64(cfg.Run.GasPrice),
	}
	if cfg.farmEnabled() {
		env.FarmAdapter = contracts.NewAdapter(cfg.Adapters.FarmAdapter, be)
	}
	log.Info("Signers assigned", "owner", signers.Owner, "riskOperator", signers.RiskOperator, "attacker", signers.Attacker)
	return env, nil
}

func newDriver(env *verifier.Env, cfg *Config, fixtures *matrix.Fixtures) *matrix.Driver {
	suite, _ := matrix.ParseSuite(cfg.Run.Suite)
	pools := verifier.NewPoolVerifier(env, verifier.PoolConfig{
		Amount:       cfg.Run.Amount,
		SandwichPool: cfg.Run.SandwichPool,
	})
	var farms matrix.FarmRunner
	if cfg.farmEnabled() {
		farms = verifier.NewFarmVerifier(env, cfg.Run.Amount)
	} else if suite != matrix.SuitePool {
		log.Warn("No farm adapter configured, skipping farm scenarios")
	}
	return matrix.NewDriver(fixtures, pools, farms, matrix.Config{
		Suite:   suite,
		Timeout: time.Duration(cfg.Run.Timeout),
		Only:    cfg.Run.Only,
	})
}
