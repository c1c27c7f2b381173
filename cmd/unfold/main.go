// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/unfoldfi/unfold/api"
	"github.com/unfoldfi/unfold/api/node"
	"github.com/unfoldfi/unfold/cmd/unfold/httpserver"
	"github.com/unfoldfi/unfold/genesis"
	"github.com/unfoldfi/unfold/kv"
	"github.com/unfoldfi/unfold/ledger"
	"github.com/unfoldfi/unfold/log"
	"github.com/unfoldfi/unfold/metrics"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	if err := loadEnvFile(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	app := cli.App{
		Version: fullVersion(),
		Name:    "Unfold",
		Usage:   "Staking reward pools with fee-decayed withdrawals",
		Flags: []cli.Flag{
			genesisFlag,
			dataDirFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiTimeoutFlag,
			apiBacktraceLimitFlag,
			enableAPILogsFlag,
			apiSlowQueriesThresholdFlag,
			pprofFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:  "solo",
				Usage: "in-memory ledger for test & dev, with clock warping enabled",
				Flags: []cli.Flag{
					genesisFlag,
					apiAddrFlag,
					apiCorsFlag,
					apiTimeoutFlag,
					apiBacktraceLimitFlag,
					enableAPILogsFlag,
					apiSlowQueriesThresholdFlag,
					pprofFlag,
					verbosityFlag,
					jsonLogsFlag,
					enableMetricsFlag,
					metricsAddrFlag,
				},
				Action: soloAction,
			},
			{
				Name:   "fee",
				Usage:  "print the withdrawal fee schedule of a pool",
				Flags:  []cli.Flag{genesisFlag, poolFlag, amountFlag},
				Action: feeAction,
			},
			{
				Name:   "genesis",
				Usage:  "print the deployment file and its genesis id",
				Flags:  []cli.Flag{genesisFlag},
				Action: genesisAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadEnvFile populates the environment from UNFOLD_ENV_FILE, or .env when present,
// so flags can fall back to it.
func loadEnvFile() error {
	path := os.Getenv("UNFOLD_ENV_FILE")
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

func defaultAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	if err := initLogger(ctx); err != nil {
		return err
	}
	gen, err := selectGenesis(ctx)
	if err != nil {
		return err
	}
	dataDir, err := makeDataDir(ctx, gen)
	if err != nil {
		return err
	}
	db, err := openMainDB(dataDir)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing main database..."); db.Close() }()

	return run(ctx, db, gen, node.Info{Name: gen.Name(), Version: fullVersion()}, dataDir)
}

func soloAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	if err := initLogger(ctx); err != nil {
		return err
	}
	gen, err := selectGenesis(ctx)
	if err != nil {
		return err
	}
	db, err := openMemMainDB()
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing main database..."); db.Close() }()

	return run(ctx, db, gen, node.Info{Name: gen.Name(), Version: fullVersion(), Solo: true}, "Memory")
}

// run serves the ledger until an exit signal or a server failure.
func run(ctx *cli.Context, db kv.Store, gen *genesis.Genesis, info node.Info, dataDir string) error {
	svc, err := ledger.New(db, gen, ledger.SystemClock)
	if err != nil {
		return err
	}

	metricsURL := ""
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	reqLogger := &atomic.Bool{}
	reqLogger.Store(ctx.Bool(enableAPILogsFlag.Name))
	handler, closeSubs := api.New(svc, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		BacktraceLimit:       ctx.Uint64(apiBacktraceLimitFlag.Name),
		PprofOn:              ctx.Bool(pprofFlag.Name),
		EnableReqLogger:      reqLogger,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
		Info:                 info,
	})
	defer closeSubs()

	exitCtx := handleExitSignal()
	group, groupCtx := errgroup.WithContext(exitCtx)

	apiSrv, err := httpserver.NewAPIServer(ctx.String(apiAddrFlag.Name), handler, httpserver.APIOptions{
		Timeout:   time.Duration(ctx.Uint64(apiTimeoutFlag.Name)) * time.Millisecond,
		GenesisID: svc.GenesisID(),
	})
	if err != nil {
		return err
	}
	group.Go(apiSrv.Serve)

	if ctx.Bool(enableMetricsFlag.Name) {
		metricsSrv, err := httpserver.NewMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			apiSrv.Close()
			return err
		}
		metricsURL = metricsSrv.URL()
		group.Go(metricsSrv.Serve)
		group.Go(func() error {
			<-groupCtx.Done()
			return metricsSrv.Close()
		})
	}

	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("stopping API server...")
		return apiSrv.Close()
	})

	printStartupMessage(gen, svc, info, dataDir, apiSrv.URL(), metricsURL)
	return group.Wait()
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}
