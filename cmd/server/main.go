package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/sociopedia/internal/server"
	"github.com/dmitrijs2005/sociopedia/internal/server/config"
)

func main() {

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	app.Run(ctx)

}
