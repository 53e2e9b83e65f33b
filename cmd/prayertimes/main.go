package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"acju-prayer-times/internal/cli"
	"acju-prayer-times/internal/config"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		os.Exit(cli.ExitError)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, &cli.App{Settings: settings}, os.Args[1:])
	stop()
	os.Exit(code)
}
