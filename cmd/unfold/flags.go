// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	genesisFlag = cli.StringFlag{
		Name:   "genesis",
		Usage:  "path to a deployment file, if not set, the default devnet deployment will be used",
		EnvVar: "UNFOLD_GENESIS",
	}
	dataDirFlag = cli.StringFlag{
		Name:   "data-dir",
		Value:  defaultDataDir(),
		Usage:  "directory for the ledger database",
		EnvVar: "UNFOLD_DATA_DIR",
	}
	apiAddrFlag = cli.StringFlag{
		Name:   "api-addr",
		Value:  "localhost:8669",
		Usage:  "API service listening address",
		EnvVar: "UNFOLD_API_ADDR",
	}
	apiCorsFlag = cli.StringFlag{
		Name:   "api-cors",
		Value:  "",
		Usage:  "comma separated list of domains from which to accept cross origin requests to API",
		EnvVar: "UNFOLD_API_CORS",
	}
	apiTimeoutFlag = cli.Uint64Flag{
		Name:  "api-timeout",
		Value: 10000,
		Usage: "API request timeout value in milliseconds",
	}
	apiBacktraceLimitFlag = cli.Uint64Flag{
		Name:  "api-backtrace-limit",
		Value: 1000,
		Usage: "limit the distance between 'pos' and the latest receipt for subscriptions",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:  "enable-api-logs",
		Usage: "enables API requests logging",
	}
	apiSlowQueriesThresholdFlag = cli.Uint64Flag{
		Name:  "api-slow-queries-threshold",
		Usage: "all queries with duration(ms) above threshold will be logged",
	}
	pprofFlag = cli.BoolFlag{
		Name:  "pprof",
		Usage: "turn on go-pprof",
	}
	verbosityFlag = cli.Uint64Flag{
		Name:   "verbosity",
		Value:  3,
		Usage:  "log verbosity (0-5)",
		EnvVar: "UNFOLD_VERBOSITY",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:   "enable-metrics",
		Usage:  "enables metrics collection",
		EnvVar: "UNFOLD_ENABLE_METRICS",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Value: "localhost:2112",
		Usage: "metrics service listening address",
	}

	// fee command flags
	poolFlag = cli.StringFlag{
		Name:  "pool",
		Usage: "name or address of the pool",
	}
	amountFlag = cli.StringFlag{
		Name:  "amount",
		Usage: "withdrawal amount in whole tokens to price each tier with",
	}
)
