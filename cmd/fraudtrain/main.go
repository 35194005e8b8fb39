package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(os.Stderr, "\nreceived %v, stopping...\n", sig)
		cancel()
	}()

	if err := newApp().Run(ctx, os.Args); err != nil {
		slog.Error("fraudtrain failed", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	app := new(cli.Command)

	app.Name = "fraudtrain"
	app.Usage = "train and apply a claims fraud classifier"
	app.HideHelpCommand = true

	app.Flags = append(globalFlags(), trainFlags(true)...)

	// A bare invocation trains with the defaults.
	app.Action = runTrain

	app.Commands = []*cli.Command{
		CommandTrain,
		CommandPredict,
		CommandInspect,
		CommandVersion,
	}
	return app
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "path to a YAML configuration `file`",
			Sources: cli.EnvVars("FRAUD_CONFIG"),
		},
		&cli.StringFlag{Name: "log-level", Usage: "log `level`: debug, info, warn, error"},
		&cli.StringFlag{Name: "log-format", Usage: "log `format`: text or json"},
		&cli.BoolFlag{Name: "json", Aliases: []string{"j"}, Usage: "print results in the JSON format"},
	}
}
