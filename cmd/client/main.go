package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/safevault/internal/client/cli"
	"github.com/dmitrijs2005/safevault/internal/client/config"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := cli.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		os.Exit(1)
	}
}
