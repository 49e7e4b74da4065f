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
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/metrics"
	"github.com/ethereum/go-ethereum/metrics/exp"
)

var (
	preflightChecked = metrics.NewRegisteredCounter("adaptercheck/preflight/checked", nil)
	preflightMissing = metrics.NewRegisteredCounter("adaptercheck/preflight/missing", nil)
)

const processMetricsRefresh = 3 * time.Second

func setupMetrics(cfg MetricsConfig) {
	if !cfg.Enabled {
		return
	}
	log.Info("Enabling metrics collection")
	metrics.Enable()
	go metrics.CollectProcessMetrics(processMetricsRefresh)
	if cfg.Addr != "" {
		exp.Setup(cfg.Addr)
	}
}
