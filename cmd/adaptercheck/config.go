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
	"bufio"
	"errors"
	"fmt"
	"math/big"
	"os"
	"reflect"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/naoina/toml"
	"github.com/urfave/cli/v2"

	"github.com/optyfi/adapterharness/balance"
	"github.com/optyfi/adapterharness/contracts"
	"github.com/optyfi/adapterharness/matrix"
)

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		return fmt.Errorf("field '%s' is not defined in %s", field, rt.String())
	},
}

// Duration is a time.Duration written as "100s" in TOML files.
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Config holds the adaptercheck configuration.
type Config struct {
	Node     NodeConfig
	Adapters AdapterConfig
	Run      RunConfig
	Log      LogConfig
	Metrics  MetricsConfig
}

// NodeConfig describes the forked node.
type NodeConfig struct {
	URL         string
	CheatPrefix string   // "hardhat" or "anvil"
	RateLimit   float64  // requests per second, 0 = unlimited
	Timeout     Duration // per request
	DialWait    Duration // how long to wait for the node to come up

	// Signers are impersonated and assigned to roles in order instead of
	// the node's unlocked accounts.
	Signers []common.Address
}

// AdapterConfig holds the contracts under test and the exchange they use.
type AdapterConfig struct {
	Proxy          common.Address
	PoolAdapter    common.Address
	FarmAdapter    common.Address // zero disables the farm suite
	Registry       common.Address // registry replaced by a stand-in, zero = leave alone
	Router         common.Address
	StakingFactory common.Address
}

// RunConfig tunes the scenario matrix.
type RunConfig struct {
	Suite            string
	Only             string
	Fixtures         string   // fixture directory, empty = built-in fixtures
	Timeout          Duration // per scenario
	GasPrice         uint64   // wei
	Funding          string   // native currency attached to fallback swaps, whole units
	Amount           string   // underlying deposited per scenario, whole tokens
	SandwichPool     string
	PreflightWorkers int
}

// LogConfig controls log output.
type LogConfig struct {
	Verbosity  int
	JSON       bool
	File       string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
}

// MetricsConfig controls metrics collection.
type MetricsConfig struct {
	Enabled bool
	Addr    string
}

const (
	defaultRPCTimeout       = 30 * time.Second
	defaultGasPrice         = 100_000_000
	defaultFunding          = "9"
	defaultPreflightWorkers = 8
	defaultVerbosity        = 3
	defaultMetricsAddr      = "127.0.0.1:6060"
)

func defaultConfig() *Config {
	return &Config{
		Node: NodeConfig{
			CheatPrefix: "hardhat",
			Timeout:     Duration(defaultRPCTimeout),
		},
		Adapters: AdapterConfig{
			Router:         contracts.QuickSwapRouter,
			StakingFactory: contracts.QuickSwapStakingRewardsFactory,
		},
		Run: RunConfig{
			Suite:            string(matrix.SuiteAll),
			Timeout:          Duration(matrix.DefaultTimeout),
			GasPrice:         defaultGasPrice,
			Funding:          defaultFunding,
			PreflightWorkers: defaultPreflightWorkers,
		},
		Log: LogConfig{
			Verbosity:  defaultVerbosity,
			MaxSize:    100,
			MaxBackups: 10,
			MaxAge:     30,
		},
		Metrics: MetricsConfig{
			Addr: defaultMetricsAddr,
		},
	}
}

// loadConfig reads a TOML file over cfg.
func loadConfig(file string, cfg *Config) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Node.URL == "" {
		return fmt.Errorf("rpc.url is required")
	}
	switch c.Node.CheatPrefix {
	case "hardhat", "anvil":
	default:
		return fmt.Errorf("rpc.cheat-prefix must be 'hardhat' or 'anvil', got %q", c.Node.CheatPrefix)
	}
	if c.Node.RateLimit < 0 {
		return fmt.Errorf("rpc.rate must be >= 0")
	}
	if n := len(c.Node.Signers); n != 0 && n != signerCount {
		return fmt.Errorf("rpc.signers must list %d addresses, got %d", signerCount, n)
	}
	if c.Adapters.Proxy == (common.Address{}) {
		return fmt.Errorf("proxy is required")
	}
	if c.Adapters.PoolAdapter == (common.Address{}) {
		return fmt.Errorf("pool-adapter is required")
	}
	suite, err := matrix.ParseSuite(c.Run.Suite)
	if err != nil {
		return err
	}
	if suite == matrix.SuiteFarm && c.Adapters.FarmAdapter == (common.Address{}) {
		return fmt.Errorf("farm-adapter is required for the farm suite")
	}
	if c.Run.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0")
	}
	if _, err := c.funding(); err != nil {
		return fmt.Errorf("invalid funding: %w", err)
	}
	if c.Run.Amount != "" {
		if _, err := balance.ToBaseUnits(c.Run.Amount, 18); err != nil {
			return fmt.Errorf("invalid amount: %w", err)
		}
	}
	if c.Run.PreflightWorkers <= 0 {
		return fmt.Errorf("preflight.workers must be > 0")
	}
	if c.Log.Verbosity < 0 || c.Log.Verbosity > 5 {
		return fmt.Errorf("verbosity must be between 0 and 5, got %d", c.Log.Verbosity)
	}
	return nil
}

// funding returns the fallback swap value in wei. nil selects the
// injector's default.
func (c *Config) funding() (*big.Int, error) {
	if c.Run.Funding == "" {
		return nil, nil
	}
	return balance.ToBaseUnits(c.Run.Funding, 18)
}

// farmEnabled reports whether farm scenarios can run.
func (c *Config) farmEnabled() bool {
	return c.Adapters.FarmAdapter != (common.Address{})
}

var (
	configFileFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}

	// Node flags
	rpcURLFlag = &cli.StringFlag{
		Name:    "rpc.url",
		Usage:   "JSON-RPC endpoint of the forked node",
		EnvVars: []string{"ADAPTERCHECK_RPC_URL"},
	}
	cheatPrefixFlag = &cli.StringFlag{
		Name:    "rpc.cheat-prefix",
		Usage:   "Namespace of the node's state override methods (hardhat, anvil)",
		Value:   "hardhat",
		EnvVars: []string{"ADAPTERCHECK_CHEAT_PREFIX"},
	}
	rpcRateFlag = &cli.Float64Flag{
		Name:  "rpc.rate",
		Usage: "Maximum JSON-RPC requests per second (0 = unlimited)",
	}
	rpcTimeoutFlag = &cli.DurationFlag{
		Name:  "rpc.timeout",
		Usage: "Timeout of a single JSON-RPC request",
		Value: defaultRPCTimeout,
	}
	dialWaitFlag = &cli.DurationFlag{
		Name:  "rpc.dial-wait",
		Usage: "How long to wait for the node to become reachable",
	}
	signersFlag = &cli.StringSliceFlag{
		Name:  "rpc.signers",
		Usage: "Accounts to impersonate as admin, owner, deployer, alice, operator, riskOperator and attacker (default: the node's unlocked accounts)",
	}

	// Contract flags
	proxyFlag = &cli.StringFlag{
		Name:    "proxy",
		Usage:   "Address of the deployed test proxy",
		EnvVars: []string{"ADAPTERCHECK_PROXY"},
	}
	poolAdapterFlag = &cli.StringFlag{
		Name:    "pool-adapter",
		Usage:   "Address of the pool adapter under test",
		EnvVars: []string{"ADAPTERCHECK_POOL_ADAPTER"},
	}
	farmAdapterFlag = &cli.StringFlag{
		Name:    "farm-adapter",
		Usage:   "Address of the farm adapter under test (empty = skip farm scenarios)",
		EnvVars: []string{"ADAPTERCHECK_FARM_ADAPTER"},
	}
	registryFlag = &cli.StringFlag{
		Name:  "registry",
		Usage: "Registry whose code is replaced by a stand-in reporting the harness operators",
	}
	routerFlag = &cli.StringFlag{
		Name:  "router",
		Usage: "Address of the UniswapV2 router",
		Value: contracts.QuickSwapRouter.Hex(),
	}
	stakingFactoryFlag = &cli.StringFlag{
		Name:  "staking-factory",
		Usage: "Address of the StakingRewards factory",
		Value: contracts.QuickSwapStakingRewardsFactory.Hex(),
	}

	// Run flags
	suiteFlag = &cli.StringFlag{
		Name:  "suite",
		Usage: "Scenarios to run (all, farm, pool)",
		Value: string(matrix.SuiteAll),
	}
	onlyFlag = &cli.StringFlag{
		Name:  "only",
		Usage: "Run only scenarios whose name contains this string",
	}
	fixturesFlag = &cli.StringFlag{
		Name:  "fixtures",
		Usage: "Directory with tokens.yaml, pools.yaml, underlying.yaml and groups.yaml (default: built-in)",
	}
	timeoutFlag = &cli.DurationFlag{
		Name:  "timeout",
		Usage: "Wall-clock limit of a single scenario",
		Value: matrix.DefaultTimeout,
	}
	gasPriceFlag = &cli.Uint64Flag{
		Name:  "gasprice",
		Usage: "Gas price of every transaction, in wei",
		Value: defaultGasPrice,
	}
	fundingFlag = &cli.StringFlag{
		Name:  "funding",
		Usage: "Native currency attached to fallback swaps, in whole units",
		Value: defaultFunding,
	}
	amountFlag = &cli.StringFlag{
		Name:  "amount",
		Usage: "Underlying deposited per scenario, in whole tokens",
		Value: "20",
	}
	sandwichPoolFlag = &cli.StringFlag{
		Name:  "sandwich-pool",
		Usage: "Pool the sandwich attack check runs on",
		Value: "WMATIC-USDC",
	}
	preflightWorkersFlag = &cli.IntFlag{
		Name:  "preflight.workers",
		Usage: "Concurrent code checks during preflight",
		Value: defaultPreflightWorkers,
	}

	// Logging flags
	verbosityFlag = &cli.IntFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity: 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=detail",
		Value: defaultVerbosity,
	}
	logJSONFlag = &cli.BoolFlag{
		Name:  "log.json",
		Usage: "Format logs with JSON",
	}
	logFileFlag = &cli.StringFlag{
		Name:  "log.file",
		Usage: "Write logs to a rotating file instead of stderr",
	}

	// Metrics flags
	metricsFlag = &cli.BoolFlag{
		Name:  "metrics",
		Usage: "Enable metrics collection",
	}
	metricsAddrFlag = &cli.StringFlag{
		Name:  "metrics.addr",
		Usage: "Listen address of the expvar metrics endpoint (empty = no endpoint)",
		Value: defaultMetricsAddr,
	}
)

var configFlags = []cli.Flag{
	configFileFlag,
	rpcURLFlag,
	cheatPrefixFlag,
	rpcRateFlag,
	rpcTimeoutFlag,
	dialWaitFlag,
	signersFlag,
	proxyFlag,
	poolAdapterFlag,
	farmAdapterFlag,
	registryFlag,
	routerFlag,
	stakingFactoryFlag,
	suiteFlag,
	onlyFlag,
	fixturesFlag,
	timeoutFlag,
	gasPriceFlag,
	fundingFlag,
	amountFlag,
	sandwichPoolFlag,
	preflightWorkersFlag,
	verbosityFlag,
	logJSONFlag,
	logFileFlag,
	metricsFlag,
	metricsAddrFlag,
}

// buildConfigFromCLI starts from the defaults, applies the config file if
// one is given and then every flag set on the command line or through its
// environment variable.
func buildConfigFromCLI(ctx *cli.Context) (*Config, error) {
	cfg := defaultConfig()
	if file := ctx.String(configFileFlag.Name); file != "" {
		if err := loadConfig(file, cfg); err != nil {
			return nil, err
		}
	}

	if ctx.IsSet(rpcURLFlag.Name) {
		cfg.Node.URL = ctx.String(rpcURLFlag.Name)
	}
	if ctx.IsSet(cheatPrefixFlag.Name) {
		cfg.Node.CheatPrefix = ctx.String(cheatPrefixFlag.Name)
	}
	if ctx.IsSet(rpcRateFlag.Name) {
		cfg.Node.RateLimit = ctx.Float64(rpcRateFlag.Name)
	}
	if ctx.IsSet(rpcTimeoutFlag.Name) {
		cfg.Node.Timeout = Duration(ctx.Duration(rpcTimeoutFlag.Name))
	}
	if ctx.IsSet(dialWaitFlag.Name) {
		cfg.Node.DialWait = Duration(ctx.Duration(dialWaitFlag.Name))
	}
	if ctx.IsSet(signersFlag.Name) {
		cfg.Node.Signers = nil
		for _, v := range ctx.StringSlice(signersFlag.Name) {
			if !common.IsHexAddress(v) {
				return nil, fmt.Errorf("--%s: invalid address %q", signersFlag.Name, v)
			}
			cfg.Node.Signers = append(cfg.Node.Signers, common.HexToAddress(v))
		}
	}

	addresses := []struct {
		flag *cli.StringFlag
		dst  *common.Address
	}{
		{proxyFlag, &cfg.Adapters.Proxy},
		{poolAdapterFlag, &cfg.Adapters.PoolAdapter},
		{farmAdapterFlag, &cfg.Adapters.FarmAdapter},
		{registryFlag, &cfg.Adapters.Registry},
		{routerFlag, &cfg.Adapters.Router},
		{stakingFactoryFlag, &cfg.Adapters.StakingFactory},
	}
	for _, a := range addresses {
		if !ctx.IsSet(a.flag.Name) {
			continue
		}
		v := ctx.String(a.flag.Name)
		if !common.IsHexAddress(v) {
			return nil, fmt.Errorf("--%s: invalid address %q", a.flag.Name, v)
		}
		*a.dst = common.HexToAddress(v)
	}

	if ctx.IsSet(suiteFlag.Name) {
		cfg.Run.Suite = ctx.String(suiteFlag.Name)
	}
	if ctx.IsSet(onlyFlag.Name) {
		cfg.Run.Only = ctx.String(onlyFlag.Name)
	}
	if ctx.IsSet(fixturesFlag.Name) {
		cfg.Run.Fixtures = ctx.String(fixturesFlag.Name)
	}
	if ctx.IsSet(timeoutFlag.Name) {
		cfg.Run.Timeout = Duration(ctx.Duration(timeoutFlag.Name))
	}
	if ctx.IsSet(gasPriceFlag.Name) {
		cfg.Run.GasPrice = ctx.Uint64(gasPriceFlag.Name)
	}
	if ctx.IsSet(fundingFlag.Name) {
		cfg.Run.Funding = ctx.String(fundingFlag.Name)
	}
	if ctx.IsSet(amountFlag.Name) {
		cfg.Run.Amount = ctx.String(amountFlag.Name)
	}
	if ctx.IsSet(sandwichPoolFlag.Name) {
		cfg.Run.SandwichPool = ctx.String(sandwichPoolFlag.Name)
	}
	if ctx.IsSet(preflightWorkersFlag.Name) {
		cfg.Run.PreflightWorkers = ctx.Int(preflightWorkersFlag.Name)
	}

	if ctx.IsSet(verbosityFlag.Name) {
		cfg.Log.Verbosity = ctx.Int(verbosityFlag.Name)
	}
	if ctx.IsSet(logJSONFlag.Name) {
		cfg.Log.JSON = ctx.Bool(logJSONFlag.Name)
	}
	if ctx.IsSet(logFileFlag.Name) {
		cfg.Log.File = ctx.String(logFileFlag.Name)
	}
	if ctx.IsSet(metricsFlag.Name) {
		cfg.Metrics.Enabled = ctx.Bool(metricsFlag.Name)
	}
	if ctx.IsSet(metricsAddrFlag.Name) {
		cfg.Metrics.Addr = ctx.String(metricsAddrFlag.Name)
	}
	return cfg, nil
}
