package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-purge-users/internal/cli"
	"github.com/MKhiriev/go-purge-users/internal/logger"
	"github.com/MKhiriev/go-purge-users/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.NewLogger("purgeusers")

	rootCmd := cli.NewRootCommand(cli.Open(log), log)
	rootCmd.Version = models.NewBuildInfo(buildVersion, buildDate, buildCommit).String()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
