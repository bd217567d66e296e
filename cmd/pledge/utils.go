// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	goruntime "runtime"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/pledge/log"
	"github.com/vechain/pledge/logdb"
	"github.com/vechain/pledge/lvldb"
	"github.com/vechain/pledge/pledge"
)

func initLogger(ctx *cli.Context) (*slog.LevelVar, error) {
	verbosity := ctx.Int(verbosityFlag.Name)
	if verbosity < 0 || verbosity > 9 {
		return nil, errors.Errorf("invalid verbosity %d", verbosity)
	}

	var level slog.LevelVar
	level.Set(log.FromLegacyLevel(verbosity))

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(os.Stdout, &level)
	} else {
		fd := os.Stderr.Fd()
		useColor := (isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)) && os.Getenv("TERM") != "dumb"
		handler = log.NewTerminalHandlerWithLevel(os.Stderr, &level, useColor)
	}
	log.SetDefault(log.NewLogger(handler))
	return &level, nil
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		switch goruntime.GOOS {
		case "darwin":
			return filepath.Join(home, "Library", "Application Support", "org.vechain.pledge")
		case "windows":
			return filepath.Join(home, "AppData", "Roaming", "org.vechain.pledge")
		default:
			return filepath.Join(home, ".org.vechain.pledge")
		}
	}
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

// makeInstanceDir returns the data directory of the contract instance, creating it if missing.
func makeInstanceDir(ctx *cli.Context, contract pledge.Address) (string, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return "", errors.New("unable to infer default data dir, use -data-dir to specify")
	}
	instanceDir := filepath.Join(dataDir, fmt.Sprintf("instance-%x", contract[:4]))
	if err := os.MkdirAll(instanceDir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create instance dir [%v]", instanceDir)
	}
	return instanceDir, nil
}

func openMainDB(ctx *cli.Context, dir string) (*lvldb.LevelDB, error) {
	path := filepath.Join(dir, "main.db")
	db, err := lvldb.New(path, lvldb.Options{
		CacheSize:              ctx.Int(cacheFlag.Name),
		OpenFilesCacheCapacity: 64,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open main database [%v]", path)
	}
	return db, nil
}

func openLogDB(dir string) (*logdb.LogDB, error) {
	path := filepath.Join(dir, "logs.db")
	db, err := logdb.New(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open log database [%v]", path)
	}
	return db, nil
}

// handleExitSignal returns a context canceled on interrupt or termination.
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
