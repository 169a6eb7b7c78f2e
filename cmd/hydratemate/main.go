package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/hydratemate/internal/buildinfo"
	"github.com/dmitrijs2005/hydratemate/internal/client/cli"
	"github.com/dmitrijs2005/hydratemate/internal/client/config"
	"github.com/dmitrijs2005/hydratemate/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger := logging.New(os.Stderr, cfg.LogLevel)

	if err := cli.Start(context.Background(), cfg, logger); err != nil {
		log.Fatalf("%v", err)
	}

}
