// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "YAML deployment file",
	}
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for block-chain databases",
	}
	persistFlag = cli.BoolFlag{
		Name:  "persist",
		Usage: "save state to disk in dev mode",
	}
	cacheFlag = cli.IntFlag{
		Name:  "cache",
		Usage: "megabytes of ram allocated to the state database",
		Value: 128,
	}
	devFlag = cli.BoolFlag{
		Name:  "dev",
		Usage: "run with funded dev accounts and mount the write api",
	}

	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8669",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	apiLogsLimitFlag = cli.Uint64Flag{
		Name:  "api-logs-limit",
		Value: 1000,
		Usage: "limit the number of logs returned by /logs API",
	}
	apiSlowQueriesThresholdFlag = cli.Uint64Flag{
		Name:  "api-slow-queries-threshold",
		Value: 1000,
		Usage: "all queries with duration (in milliseconds) greater than this value will be logged",
	}
	apiEnableLogsFlag = cli.BoolFlag{
		Name:  "api-enable-logs",
		Usage: "enables API requests logging",
	}
	skipLogsFlag = cli.BoolFlag{
		Name:  "skip-logs",
		Usage: "skip writing event|transfer logs (/logs API will be disabled)",
	}
	pprofFlag = cli.BoolFlag{
		Name:  "pprof",
		Usage: "turn on go-pprof",
	}

	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-9)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}

	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Value: "localhost:2112",
		Usage: "metrics service listening address",
	}
	enableAdminFlag = cli.BoolFlag{
		Name:  "enable-admin",
		Usage: "enables admin server",
	}
	adminAddrFlag = cli.StringFlag{
		Name:  "admin-addr",
		Value: "localhost:2113",
		Usage: "admin service listening address",
	}

	contractFlag = cli.StringFlag{
		Name:  "contract",
		Usage: "address of the staking contract",
	}
	paramsFlag = cli.StringFlag{
		Name:  "params",
		Usage: "address of the params contract",
	}
	adminFlag = cli.StringFlag{
		Name:  "admin",
		Usage: "address allowed to finalize pools and sweep fees",
	}
	signerFlag = cli.StringFlag{
		Name:  "signer",
		Usage: "address of the trusted outcome signer",
	}
	policyFlag = cli.StringFlag{
		Name:  "policy",
		Usage: "slashing policy (wake-up|phone-free)",
	}
	priceFlag = cli.StringFlag{
		Name:  "price",
		Usage: "fixed USD price of one token, read from the params contract when empty",
	}

	// sign and keygen
	keyFileFlag = cli.StringFlag{
		Name:  "key-file",
		Usage: "private key file",
	}
	keyFlag = cli.StringFlag{
		Name:  "key",
		Usage: "hex encoded private key, overrides key-file",
	}
	callerFlag = cli.StringFlag{
		Name:  "caller",
		Usage: "lock owner",
	}
	commitmentTimeFlag = cli.Uint64Flag{
		Name:  "commitment-time",
		Usage: "unix time of the commitment",
	}
	durationFlag = cli.Uint64Flag{
		Name:  "duration",
		Usage: "commitment duration in seconds",
	}
	severityFlag = cli.UintFlag{
		Name:  "severity",
		Usage: "attested outcome, 0 for full success",
	}
	outFlag = cli.StringFlag{
		Name:  "out",
		Usage: "output file",
	}
)
