package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/farcloser/dats/version"
)

func main() {
	ctx := context.Background()

	appl := diffCommand()
	appl.Name = version.Name() + "-diff"
	appl.Version = version.Version() + " " + version.Commit()

	if err := appl.Run(ctx, os.Args); err != nil {
		slog.Error("failed to run", "error", err)
		os.Exit(1)
	}
}
