// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Command hp starts a server and a client connected to it in one process.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/hostile-planets/internal/config"
	"github.com/MKhiriev/hostile-planets/internal/harness"
	"github.com/MKhiriev/hostile-planets/internal/logger"
	"github.com/MKhiriev/hostile-planets/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	flags, err := config.ParseLaunchFlags("hp", config.RoleLauncher, os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	var log *logger.Logger
	if flags.Headless {
		log = logger.NewLogger("hp-launcher")
	} else {
		log = logger.NewClientLogger("hp-launcher", "")
	}
	if err = logger.SetLevel(flags.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	h := harness.New(os.Stdout, buildInfo, log, nil)

	err = h.LaunchScript(ctx,
		harness.ServerOptions{
			ConfPath: flags.ServerConfPath,
			Address:  flags.Address.String(),
		},
		harness.ClientOptions{
			ConfPath: flags.ClientConfPath,
			Address:  flags.Address.String(),
			GLTFPath: flags.GLTFPath,
			Headless: flags.Headless,
		},
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, "launch error:", err)
		log.Fatal().Err(err).Msg("launch error")
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
