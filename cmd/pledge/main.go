// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/pledge/api"
	"github.com/vechain/pledge/cmd/pledge/httpserver"
	"github.com/vechain/pledge/kv"
	"github.com/vechain/pledge/log"
	"github.com/vechain/pledge/logdb"
	"github.com/vechain/pledge/lvldb"
	"github.com/vechain/pledge/metrics"
	"github.com/vechain/pledge/runtime"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Version = fullVersion()
	app.Name = "Pledge"
	app.Usage = "Commitment staking contract host"
	app.Copyright = "2025 VeChain Foundation <https://vechain.org/>"
	app.Flags = []cli.Flag{
		configFlag,
		dataDirFlag,
		persistFlag,
		cacheFlag,
		devFlag,
		apiAddrFlag,
		apiCorsFlag,
		apiLogsLimitFlag,
		apiSlowQueriesThresholdFlag,
		apiEnableLogsFlag,
		skipLogsFlag,
		pprofFlag,
		verbosityFlag,
		jsonLogsFlag,
		enableMetricsFlag,
		metricsAddrFlag,
		enableAdminFlag,
		adminAddrFlag,
		contractFlag,
		paramsFlag,
		adminFlag,
		signerFlag,
		policyFlag,
		priceFlag,
	}
	app.Action = defaultAction
	app.Commands = []cli.Command{
		{
			Name:      "merkle",
			Usage:     "compute the reward root and proofs of a YAML reward list",
			ArgsUsage: "<rewards.yaml>",
			Action:    merkleAction,
		},
		{
			Name:  "sign",
			Usage: "sign a commitment outcome with the trusted signer key",
			Flags: []cli.Flag{
				configFlag,
				contractFlag,
				policyFlag,
				keyFileFlag,
				keyFlag,
				callerFlag,
				commitmentTimeFlag,
				durationFlag,
				severityFlag,
			},
			Action: signAction,
		},
		{
			Name:   "keygen",
			Usage:  "generate a signer key",
			Flags:  []cli.Flag{outFlag},
			Action: keygenAction,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	logLevel, err := initLogger(ctx)
	if err != nil {
		return err
	}

	cfg := &Config{}
	if path := ctx.String(configFlag.Name); path != "" {
		if cfg, err = loadConfig(path); err != nil {
			return err
		}
	}
	cfg.applyFlags(ctx)

	isDev := ctx.Bool(devFlag.Name)
	if isDev {
		cfg.applyDevDefaults()
	}
	opts, err := cfg.Options()
	if err != nil {
		return errors.WithMessage(err, "config")
	}

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	var (
		mainDB      kv.Store
		logDB       *logdb.LogDB
		instanceDir string
	)
	if isDev && !ctx.Bool(persistFlag.Name) {
		instanceDir = "Memory"
		memDB, err := lvldb.NewMem()
		if err != nil {
			return err
		}
		defer func() { logger.Info("closing main database..."); memDB.Close() }()
		mainDB = memDB

		if logDB, err = logdb.NewMem(); err != nil {
			return err
		}
	} else {
		if instanceDir, err = makeInstanceDir(ctx, opts.Contract); err != nil {
			return err
		}
		diskDB, err := openMainDB(ctx, instanceDir)
		if err != nil {
			return err
		}
		defer func() { logger.Info("closing main database..."); diskDB.Close() }()
		mainDB = diskDB

		if logDB, err = openLogDB(instanceDir); err != nil {
			return err
		}
	}
	defer func() { logger.Info("closing log database..."); logDB.Close() }()

	rt, err := runtime.New(mainDB, logDB, opts)
	if err != nil {
		return errors.WithMessage(err, "setup contract")
	}

	apiLogs := &atomic.Bool{}
	apiLogs.Store(ctx.Bool(apiEnableLogsFlag.Name))

	g, groupCtx := errgroup.WithContext(exitSignal)

	apiURL, err := httpserver.StartAPIServer(groupCtx, g, ctx.String(apiAddrFlag.Name), rt, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		PprofOn:              ctx.Bool(pprofFlag.Name),
		SkipLogs:             ctx.Bool(skipLogsFlag.Name),
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
		LogsLimit:            ctx.Uint64(apiLogsLimitFlag.Name),
		DevMode:              isDev,
		EnableReqLogger:      apiLogs,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
	})
	if err != nil {
		return err
	}

	var metricsURL, adminURL string
	if ctx.Bool(enableMetricsFlag.Name) {
		if metricsURL, err = httpserver.StartMetricsServer(groupCtx, g, ctx.String(metricsAddrFlag.Name)); err != nil {
			return err
		}
	}
	if ctx.Bool(enableAdminFlag.Name) {
		if adminURL, err = httpserver.StartAdminServer(groupCtx, g, ctx.String(adminAddrFlag.Name), logLevel, rt, apiLogs); err != nil {
			return err
		}
	}

	printStartupMessage(os.Stdout, rt.Options(), isDev, instanceDir, apiURL, metricsURL, adminURL)

	return g.Wait()
}

func printStartupMessage(w io.Writer, opts runtime.Options, isDev bool, dataDir, apiURL, metricsURL, adminURL string) {
	fmt.Fprintf(w, `Starting %v
    Contract    [ %v ]
    Policy      [ %v ]
    Admin       [ %v ]
    Signer      [ %v ]
    Data dir    [ %v ]
    API portal  [ %v ]
    Metrics     [ %v ]
    Admin API   [ %v ]
`,
		fullVersion(),
		opts.Contract,
		opts.Policy.Name(),
		opts.Admin,
		opts.Signer,
		dataDir,
		apiURL,
		func() string {
			if metricsURL == "" {
				return "Disabled"
			}
			return metricsURL
		}(),
		func() string {
			if adminURL == "" {
				return "Disabled"
			}
			return adminURL
		}(),
	)

	if isDev {
		lines := make([]string, 0, len(devAccounts))
		for i, acc := range devAccounts {
			lines = append(lines, fmt.Sprintf("    #%d %v %v", i, acc.Address, hexutil.Encode(crypto.FromECDSA(acc.PrivateKey))))
		}
		fmt.Fprintln(w, "\nDev accounts:")
		fmt.Fprintln(w, strings.Join(lines, "\n"))
	}
}
