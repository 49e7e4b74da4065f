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

// adaptercheck runs the behavioural checks of DeFi adapters against a forked
// Polygon node.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
	"gopkg.in/natefinch/lumberjack.v2"
)

// envFileVar names the variable overriding the .env location.
const envFileVar = "ADAPTERCHECK_ENV_FILE"

var (
	app = &cli.App{
		Name:  "adaptercheck",
		Usage: "Adapter behaviour checks against a forked chain",
	}

	selfTestCommand = &cli.Command{
		Name:   "selftest",
		Usage:  "Exercise the balance injector on an in-process chain",
		Action: runSelfTestCommand,
		Flags:  []cli.Flag{verbosityFlag},
	}
	dumpConfigCommand = &cli.Command{
		Name:      "dumpconfig",
		Usage:     "Print the effective configuration as TOML",
		ArgsUsage: "[dumpfile]",
		Action:    dumpConfig,
		Flags:     configFlags,
	}
)

func init() {
	app.Action = runCheck
	app.Flags = configFlags
	app.Commands = []*cli.Command{
		selfTestCommand,
		dumpConfigCommand,
	}
}

func main() {
	if err := loadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadDotEnv exports the variables of the .env file, if there is one, so
// that flags can pick them up. Variables already set take precedence.
func loadDotEnv() error {
	path := os.Getenv(envFileVar)
	if path == "" {
		path = ".env"
	}
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// setupLogging installs the default logger. The returned closer releases
// the log file, if any.
func setupLogging(cfg LogConfig) io.Closer {
	var (
		level    = log.FromLegacyLevel(cfg.Verbosity)
		output   io.Writer = os.Stderr
		closer   io.Closer = io.NopCloser(nil)
		useColor = (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
	)
	if cfg.File != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   true,
		}
		output, closer, useColor = file, file, false
	}
	var handler slog.Handler
	if cfg.JSON {
		handler = log.JSONHandlerWithLevel(output, level)
	} else {
		handler = log.NewTerminalHandlerWithLevel(output, level, useColor)
	}
	log.SetDefault(log.NewLogger(handler))
	return closer
}

func dumpConfig(ctx *cli.Context) error {
	cfg, err := buildConfigFromCLI(ctx)
	if err != nil {
		return err
	}
	out, err := tomlSettings.Marshal(cfg)
	if err != nil {
		return err
	}
	var dump io.Writer = os.Stdout
	if ctx.NArg() > 0 {
		f, err := os.OpenFile(ctx.Args().Get(0), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		dump = f
	}
	_, err = dump.Write(out)
	return err
}
