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

	flags, err := config.ParseLaunchFlags("hp-server", config.RoleServer, os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	log := logger.NewLogger("hp-server")
	if err = logger.SetLevel(flags.LogLevel); err != nil {
		log.Fatal().Err(err).Msg("error setting log level")
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	h := harness.New(os.Stdout, buildInfo, log, log)

	err = h.ServerScript(ctx, harness.ServerOptions{
		ConfPath: flags.ServerConfPath,
		Address:  flags.Address.String(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("server error")
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
