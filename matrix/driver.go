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

package matrix

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/optyfi/adapterharness/verifier"
)

// DefaultTimeout is the wall-clock ceiling of a single scenario.
const DefaultTimeout = 100 * time.Second

// Suite selects which scenarios are enumerated.
type Suite string

const (
	SuiteAll  Suite = "all"
	SuiteFarm Suite = "farm"
	SuitePool Suite = "pool"
)

// ParseSuite validates a suite name. The empty string selects every suite.
func ParseSuite(s string) (Suite, error) {
	switch Suite(s) {
	case "", SuiteAll:
		return SuiteAll, nil
	case SuiteFarm, SuitePool:
		return Suite(s), nil
	default:
		return "", fmt.Errorf("unknown suite %q (want all, farm or pool)", s)
	}
}

// PoolRunner runs one pool scenario. verifier.PoolVerifier implements it.
type PoolRunner interface {
	Run(ctx context.Context, symbol string, pool verifier.Pool) error
}

// FarmRunner runs one farm scenario. verifier.FarmVerifier implements it.
type FarmRunner interface {
	Run(ctx context.Context, symbolA, symbolB string) error
}

// ScenarioError annotates a scenario failure with its position in the run.
type ScenarioError struct {
	Index int
	Name  string
	Err   error
}

func (e *ScenarioError) Error() string {
	return fmt.Sprintf("scenario %d (%s): %v", e.Index, e.Name, e.Err)
}

func (e *ScenarioError) Unwrap() error { return e.Err }

// Scenario is one enumerated verifier invocation.
type Scenario struct {
	Index int // 1-based position in enumeration order
	Name  string
	run   func(ctx context.Context) error
}

// Config tunes a Driver.
type Config struct {
	Suite   Suite
	Timeout time.Duration // per scenario, 0 means DefaultTimeout
	Only    string        // run only scenarios whose name contains it
}

// Driver enumerates scenarios from fixtures and runs them sequentially.
type Driver struct {
	fixtures *Fixtures
	pools    PoolRunner
	farms    FarmRunner
	cfg      Config
}

func NewDriver(fixtures *Fixtures, pools PoolRunner, farms FarmRunner, cfg Config) *Driver {
	if cfg.Suite == "" {
		cfg.Suite = SuiteAll
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Driver{fixtures: fixtures, pools: pools, farms: farms, cfg: cfg}
}

// Scenarios returns every scenario of the configured suite: farm pairs group
// by group, then pool memberships. Numbering does not depend on Only.
func (d *Driver) Scenarios() []Scenario {
	var out []Scenario
	add := func(name string, run func(ctx context.Context) error) {
		out = append(out, Scenario{Index: len(out) + 1, Name: name, run: run})
	}
	if d.cfg.Suite != SuitePool && d.farms != nil {
		for _, group := range d.fixtures.Groups {
			for _, pair := range Pairs(group.Tokens) {
				a, b := pair.A.Symbol, pair.B.Symbol
				add(fmt.Sprintf("should stake %s-%s LP in QuickSwap farm", a, b), func(ctx context.Context) error {
					return d.farms.Run(ctx, a, b)
				})
			}
		}
	}
	if d.cfg.Suite != SuiteFarm && d.pools != nil {
		for _, m := range PoolMemberships(d.fixtures.Pools, d.fixtures.Underlying) {
			add(fmt.Sprintf("should deposit %s and withdraw %s in %s pool of QuickSwap", m.Symbol, m.Symbol, m.Pool.Name), func(ctx context.Context) error {
				return d.pools.Run(ctx, m.Symbol, m.Pool)
			})
		}
	}
	return out
}

// Run executes the selected scenarios one after another, recording each
// outcome in a report written to out. A failing scenario does not stop the
// run; cancelling ctx does, and is the only error returned.
func (d *Driver) Run(ctx context.Context, out io.Writer) (*Report, error) {
	report := NewReport(out)
	for _, sc := range d.Scenarios() {
		if d.cfg.Only != "" && !strings.Contains(sc.Name, d.cfg.Only) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}
		start := time.Now()
		err := d.runOne(ctx, sc)
		took := time.Since(start)
		scenarioTimer.Update(took)

		if reason, ok := verifier.IsSkip(err); ok {
			report.Skip(sc.Index, sc.Name, reason)
			continue
		}
		if err != nil {
			err = &ScenarioError{Index: sc.Index, Name: sc.Name, Err: err}
			log.Error("Scenario failed", "index", sc.Index, "err", err)
			report.Fail(sc.Index, sc.Name, took, err)
			continue
		}
		report.Pass(sc.Index, sc.Name, took)
	}
	return report, nil
}

// runOne runs sc under the per-scenario deadline and turns panics into
// errors.
func (d *Driver) runOne(ctx context.Context, sc Scenario) (err error) {
	ctx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			log.Error("Scenario panicked", "index", sc.Index, "panic", r, "stack", string(debug.Stack()))
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	log.Debug("Running scenario", "index", sc.Index, "name", sc.Name)
	err = sc.run(ctx)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("timed out after %s: %w", d.cfg.Timeout, err)
	}
	return err
}
