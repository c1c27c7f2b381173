// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"time"

	ethlog "github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/unfoldfi/unfold/api/node"
	"github.com/unfoldfi/unfold/genesis"
	"github.com/unfoldfi/unfold/ledger"
	"github.com/unfoldfi/unfold/lvldb"
)

// maxVerbosity is the legacy level of trace logs.
const maxVerbosity = 5

func initLogger(ctx *cli.Context) error {
	verbosity := ctx.Uint64(verbosityFlag.Name)
	if verbosity > maxVerbosity {
		return errors.Errorf("invalid verbosity %d, expected 0-%d", verbosity, maxVerbosity)
	}
	var level slog.LevelVar
	level.Set(ethlog.FromLegacyLevel(int(verbosity)))

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = ethlog.JSONHandlerWithLevel(os.Stdout, &level)
	} else {
		useColor := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
		handler = ethlog.NewTerminalHandlerWithLevel(os.Stdout, &level, useColor)
	}
	ethlog.SetDefault(ethlog.NewLogger(handler))
	return nil
}

// selectGenesis loads the deployment file given by the genesis flag, or the devnet one.
func selectGenesis(ctx *cli.Context) (*genesis.Genesis, error) {
	path := ctx.String(genesisFlag.Name)
	if path == "" {
		return genesis.NewDevnet(), nil
	}
	cfg, err := genesis.LoadConfig(path)
	if err != nil {
		return nil, errors.WithMessage(err, "load genesis")
	}
	gen, err := genesis.New(cfg)
	if err != nil {
		return nil, errors.WithMessage(err, "build genesis")
	}
	return gen, nil
}

// makeDataDir returns the instance directory of the genesis under the data dir, creating it if needed.
func makeDataDir(ctx *cli.Context, gen *genesis.Genesis) (string, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return "", errors.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	instanceDir := filepath.Join(dataDir, fmt.Sprintf("instance-%x", gen.ID().Bytes()[28:]))
	if err := os.MkdirAll(instanceDir, 0700); err != nil {
		return "", errors.Wrapf(err, "create data dir [%v]", instanceDir)
	}
	return instanceDir, nil
}

func openMainDB(instanceDir string) (*lvldb.LevelDB, error) {
	path := filepath.Join(instanceDir, "main.db")
	db, err := lvldb.New(path, lvldb.Options{CacheSize: 128, OpenFilesCacheCapacity: 64})
	if err != nil {
		return nil, errors.WithMessagef(err, "open main database [%v]", path)
	}
	return db, nil
}

func openMemMainDB() (*lvldb.LevelDB, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return nil, errors.WithMessage(err, "open main database")
	}
	return db, nil
}

func printStartupMessage(gen *genesis.Genesis, svc *ledger.Service, info node.Info, dataDir, apiURL, metricsURL string) {
	seq, ts := svc.Head()
	name := "Unfold"
	if info.Solo {
		name = "Unfold solo"
	}
	msg := fmt.Sprintf(`Starting %v %v
    Network      [ %v %v ]
    Head         [ #%v @%v ]
    Data dir     [ %v ]
    API portal   [ %v ]
`,
		name, info.Version,
		gen.ID(), gen.Name(),
		seq, time.Unix(int64(ts), 0),
		dataDir,
		apiURL)
	if metricsURL != "" {
		msg += fmt.Sprintf("    Metrics      [ %v ]\n", metricsURL)
	}
	if info.Solo {
		msg += "    Dev accounts\n"
		for _, a := range genesis.DevAccounts() {
			msg += fmt.Sprintf("      %v\n", a)
		}
	}
	fmt.Print(msg)
}

// copy from go-ethereum
func defaultDataDir() string {
	// Try to place the data folder in the user's home dir
	if home := homeDir(); home != "" {
		if runtime.GOOS == "darwin" {
			return filepath.Join(home, "Library", "Application Support", "io.unfold")
		} else if runtime.GOOS == "windows" {
			return filepath.Join(home, "AppData", "Roaming", "io.unfold")
		} else {
			return filepath.Join(home, ".io.unfold")
		}
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}
