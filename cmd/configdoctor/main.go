// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/Santipap250/configdoctor/logger"
	"github.com/Santipap250/configdoctor/pkg/buildinfo"
	"github.com/Santipap250/configdoctor/pkg/cli"
)

func main() {
	_, _ = maxprocs.Set(maxprocs.Logger(func(s string, args ...interface{}) {}))

	opt := parseCLI()

	if opt.Version {
		fmt.Printf("configdoctor, version: %s\n", buildinfo.Version)
		return
	}

	if lvl := os.Getenv("CONFIGDOCTOR_LOG_LEVEL"); lvl != "" {
		logger.Level.SetByName(lvl)
	}
	if opt.Debug {
		logger.Level.Set(slog.LevelDebug)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cli.Run(ctx, opt, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "configdoctor: %v\n", err)
		os.Exit(1)
	}
}

func parseCLI() *cli.Option {
	opt, err := cli.Parse(os.Args[1:])
	if err != nil {
		if cli.IsHelp(err) {
			os.Exit(0)
		}
		os.Exit(1)
	}

	return opt
}
