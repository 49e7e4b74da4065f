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
	"flag"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/urfave/cli/v2"
)

var (
	testProxy       = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	testPoolAdapter = common.HexToAddress("0x00000000000000000000000000000000000000a2")
	testFarmAdapter = common.HexToAddress("0x00000000000000000000000000000000000000a3")
)

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Node.URL = "http://localhost:8545"
	cfg.Adapters.Proxy = testProxy
	cfg.Adapters.PoolAdapter = testPoolAdapter
	return cfg
}

// newTestContext parses args against every run flag.
func newTestContext(t *testing.T, args ...string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("adaptercheck-test", flag.ContinueOnError)
	for _, f := range configFlags {
		if err := f.Apply(set); err != nil {
			t.Fatalf("apply flag %v: %v", f.Names(), err)
		}
	}
	if err := set.Parse(args); err != nil {
		t.Fatalf("parse %v: %v", args, err)
	}
	return cli.NewContext(app, set, nil)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing rpc url", func(c *Config) { c.Node.URL = "" }, "rpc.url is required"},
		{"bad cheat prefix", func(c *Config) { c.Node.CheatPrefix = "ganache" }, "rpc.cheat-prefix must be"},
		{"negative rate", func(c *Config) { c.Node.RateLimit = -1 }, "rpc.rate must be >= 0"},
		{"wrong signer count", func(c *Config) { c.Node.Signers = []common.Address{testProxy} }, "rpc.signers must list 7 addresses"},
		{"missing proxy", func(c *Config) { c.Adapters.Proxy = common.Address{} }, "proxy is required"},
		{"missing pool adapter", func(c *Config) { c.Adapters.PoolAdapter = common.Address{} }, "pool-adapter is required"},
		{"unknown suite", func(c *Config) { c.Run.Suite = "vault" }, "unknown suite"},
		{"farm suite without adapter", func(c *Config) { c.Run.Suite = "farm" }, "farm-adapter is required"},
		{"farm suite with adapter", func(c *Config) {
			c.Run.Suite = "farm"
			c.Adapters.FarmAdapter = testFarmAdapter
		}, ""},
		{"zero timeout", func(c *Config) { c.Run.Timeout = 0 }, "timeout must be > 0"},
		{"bad funding", func(c *Config) { c.Run.Funding = "nine" }, "invalid funding"},
		{"empty funding", func(c *Config) { c.Run.Funding = "" }, ""},
		{"bad amount", func(c *Config) { c.Run.Amount = "-3" }, "invalid amount"},
		{"no preflight workers", func(c *Config) { c.Run.PreflightWorkers = 0 }, "preflight.workers must be > 0"},
		{"verbosity too high", func(c *Config) { c.Log.Verbosity = 6 }, "verbosity must be between 0 and 5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.want == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("unexpected error message: %v", err)
			}
		})
	}
}

func TestBuildConfigFromCLI_Defaults(t *testing.T) {
	cfg, err := buildConfigFromCLI(newTestContext(t))
	if err != nil {
		t.Fatalf("build config: %v", err)
	}
	if !reflect.DeepEqual(cfg, defaultConfig()) {
		t.Fatalf("config without flags differs from defaults:\n got %+v\nwant %+v", cfg, defaultConfig())
	}
	if time.Duration(cfg.Run.Timeout) != 100*time.Second {
		t.Errorf("scenario timeout %v, want 100s", time.Duration(cfg.Run.Timeout))
	}
	if cfg.Run.GasPrice != 100_000_000 {
		t.Errorf("gas price %d, want 1e8", cfg.Run.GasPrice)
	}
}

func TestBuildConfigFromCLI_Flags(t *testing.T) {
	ctx := newTestContext(t,
		"--rpc.url", "http://127.0.0.1:8545",
		"--rpc.cheat-prefix", "anvil",
		"--rpc.rate", "25",
		"--proxy", testProxy.Hex(),
		"--pool-adapter", testPoolAdapter.Hex(),
		"--farm-adapter", testFarmAdapter.Hex(),
		"--suite", "pool",
		"--only", "WMATIC",
		"--timeout", "5s",
		"--gasprice", "42",
		"--log.json",
	)
	cfg, err := buildConfigFromCLI(ctx)
	if err != nil {
		t.Fatalf("build config: %v", err)
	}
	if cfg.Node.URL != "http://127.0.0.1:8545" || cfg.Node.CheatPrefix != "anvil" || cfg.Node.RateLimit != 25 {
		t.Errorf("node config not applied: %+v", cfg.Node)
	}
	if cfg.Adapters.Proxy != testProxy || cfg.Adapters.PoolAdapter != testPoolAdapter || cfg.Adapters.FarmAdapter != testFarmAdapter {
		t.Errorf("adapter config not applied: %+v", cfg.Adapters)
	}
	if cfg.Run.Suite != "pool" || cfg.Run.Only != "WMATIC" || time.Duration(cfg.Run.Timeout) != 5*time.Second || cfg.Run.GasPrice != 42 {
		t.Errorf("run config not applied: %+v", cfg.Run)
	}
	if !cfg.Log.JSON {
		t.Errorf("expected JSON logging")
	}
	if !cfg.farmEnabled() {
		t.Errorf("expected farm suite to be enabled")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestBuildConfigFromCLI_InvalidAddress(t *testing.T) {
	_, err := buildConfigFromCLI(newTestContext(t, "--proxy", "0x1234"))
	if err == nil || !strings.Contains(err.Error(), "--proxy: invalid address") {
		t.Fatalf("expected invalid address error, got %v", err)
	}
}

func TestBuildConfigFromCLI_Signers(t *testing.T) {
	cfg, err := buildConfigFromCLI(newTestContext(t, "--rpc.signers", testProxy.Hex()+","+testPoolAdapter.Hex()))
	if err != nil {
		t.Fatalf("build config: %v", err)
	}
	if !reflect.DeepEqual(cfg.Node.Signers, []common.Address{testProxy, testPoolAdapter}) {
		t.Fatalf("signers %v", cfg.Node.Signers)
	}

	_, err = buildConfigFromCLI(newTestContext(t, "--rpc.signers", "0x1234"))
	if err == nil || !strings.Contains(err.Error(), "--rpc.signers: invalid address") {
		t.Fatalf("expected invalid address error, got %v", err)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestBuildConfigFromCLI_FlagsOverrideFile(t *testing.T) {
	file := writeFile(t, "adaptercheck.toml", `
[Node]
URL = "http://file:8545"
CheatPrefix = "anvil"
Timeout = "5s"

[Adapters]
Proxy = "0x00000000000000000000000000000000000000a1"
PoolAdapter = "0x00000000000000000000000000000000000000a2"

[Run]
Suite = "pool"
GasPrice = 7
`)
	cfg, err := buildConfigFromCLI(newTestContext(t, "--config", file, "--rpc.url", "http://flag:8545", "--gasprice", "9"))
	if err != nil {
		t.Fatalf("build config: %v", err)
	}
	if cfg.Node.URL != "http://flag:8545" {
		t.Errorf("flag must win over file, got url %q", cfg.Node.URL)
	}
	if cfg.Run.GasPrice != 9 {
		t.Errorf("flag must win over file, got gas price %d", cfg.Run.GasPrice)
	}
	if cfg.Node.CheatPrefix != "anvil" || time.Duration(cfg.Node.Timeout) != 5*time.Second {
		t.Errorf("file values not applied: %+v", cfg.Node)
	}
	if cfg.Adapters.Proxy != testProxy || cfg.Adapters.PoolAdapter != testPoolAdapter {
		t.Errorf("file addresses not applied: %+v", cfg.Adapters)
	}
	if cfg.Run.Suite != "pool" {
		t.Errorf("suite %q, want pool", cfg.Run.Suite)
	}
	// Untouched sections keep their defaults.
	if cfg.Adapters.Router != defaultConfig().Adapters.Router || cfg.Run.PreflightWorkers != defaultPreflightWorkers {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadConfig_UnknownField(t *testing.T) {
	file := writeFile(t, "bad.toml", "[Node]\nURLs = \"http://localhost:8545\"\n")
	err := loadConfig(file, defaultConfig())
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
	if !strings.Contains(err.Error(), "URLs") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	err := loadConfig(filepath.Join(t.TempDir(), "none.toml"), defaultConfig())
	if !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestDuration(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("1m30s")); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if time.Duration(d) != 90*time.Second {
		t.Fatalf("got %v, want 1m30s", time.Duration(d))
	}
	text, err := d.MarshalText()
	if err != nil || string(text) != "1m30s" {
		t.Fatalf("marshal: %q, %v", text, err)
	}
	if err := d.UnmarshalText([]byte("soon")); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}

func TestDumpConfig(t *testing.T) {
	out := filepath.Join(t.TempDir(), "dump.toml")
	ctx := newTestContext(t, "--rpc.url", "http://localhost:8545", "--proxy", testProxy.Hex(), out)
	if err := dumpConfig(ctx); err != nil {
		t.Fatalf("dumpconfig: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read dump: %v", err)
	}
	for _, want := range []string{"[Node]", `URL = "http://localhost:8545"`, "[Adapters]", "[Run]"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("dump lacks %q:\n%s", want, data)
		}
	}
}
