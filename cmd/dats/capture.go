//nolint:wrapcheck
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/dats"
	"github.com/farcloser/dats/internal/integration/dart"
)

func captureCommand() *cli.Command {
	return &cli.Command{
		Usage:     "Run dart analyze and capture its diagnostics into a timestamped snapshot",
		ArgsUsage: "[-- analyzer arguments...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Print the analyzer command and output path, then exit without running anything",
			},
			&cli.StringFlag{
				Name:    "dart-bin",
				Aliases: []string{"b"},
				Usage:   "Analyzer binary, looked up in PATH unless it is a path",
				Value:   dart.Name,
				Sources: cli.EnvVars("DATS_DART_BIN"),
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Analyzer output format: machine, json",
				Value: string(dart.FormatMachine),
				Validator: func(value string) error {
					_, err := dart.ParseFormat(value)

					return err
				},
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Snapshot path template; {DATE:pattern} and {EXT} are expanded",
				Value:   dats.DefaultOutput,
				Sources: cli.EnvVars("DATS_OUTPUT"),
			},
			&cli.StringFlag{
				Name:    "patch",
				Aliases: []string{"p"},
				Usage:   "YAML document merged into the analyzer configuration for the duration of the run (optional unless given explicitly)",
				Value:   dats.DefaultPatch,
				Sources: cli.EnvVars("DATS_PATCH"),
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Analyzer configuration file the patch is applied to",
				Value:   dats.DefaultConfig,
				Sources: cli.EnvVars("DATS_CONFIG"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"D"},
				Usage:   "Enable debug logging",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Bool("debug") {
				slog.SetLogLoggerLevel(slog.LevelDebug)
			}

			opts := dats.DefaultCaptureOptions()
			opts.DryRun = cmd.Bool("dry-run")
			opts.DartBin = cmd.String("dart-bin")
			opts.Format = cmd.String("format")
			opts.Output = cmd.String("output")
			opts.Patch = cmd.String("patch")
			opts.PatchExplicit = cmd.IsSet("patch")
			opts.Config = cmd.String("config")
			opts.Targets = cmd.Args().Slice()
			opts.Stdout = os.Stdout
			opts.Stderr = os.Stderr

			_, err := dats.Capture(ctx, opts)

			return err
		},
	}
}
