package main

import (
	"context"
	"flag"
	"os"

	"github.com/okarpovs/doclib/internal/client/api"
	"github.com/okarpovs/doclib/internal/client/cli"
)

func main() {

	serverAddr := "http://localhost:8080"
	if v := os.Getenv("DOCLIB_SERVER"); v != "" {
		serverAddr = v
	}
	flag.StringVar(&serverAddr, "s", serverAddr, "server base URL")
	flag.Parse()

	ctx := context.Background()
	app := cli.NewApp(api.New(serverAddr))
	app.Run(ctx)
}
