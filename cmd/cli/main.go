package main

import (
	"context"
	"log"
	"os"

	"github.com/revline/revline-go/internal/buildinfo"
	"github.com/revline/revline-go/internal/client/cli"
	"github.com/revline/revline-go/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
