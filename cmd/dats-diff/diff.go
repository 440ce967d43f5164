//nolint:wrapcheck
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/farcloser/dats"
	"github.com/farcloser/dats/internal/output"
)

func diffCommand() *cli.Command {
	return &cli.Command{
		Usage: "Compare diagnostic counts per category between two snapshots",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "base",
				Aliases: []string{"b"},
				Usage:   "Base snapshot (default: oldest snapshot in --dir)",
			},
			&cli.StringFlag{
				Name:    "against",
				Aliases: []string{"a"},
				Usage:   "Snapshot compared to the base (default: the snapshot following the base in --dir)",
			},
			&cli.StringFlag{
				Name:    "dir",
				Usage:   "Directory holding snapshots",
				Value:   dats.DefaultOutputDir,
				Sources: cli.EnvVars("DATS_OUTPUT_DIR"),
			},
			&cli.StringFlag{
				Name:  "ext",
				Usage: "Extension of snapshot files considered in --dir",
				Value: dats.DefaultExtension,
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, table, console, json, markdown",
				Value:   string(output.StyleText),
				Validator: func(value string) error {
					_, err := output.ParseStyle(value)

					return err
				},
			},
			&cli.BoolFlag{
				Name:  "summary",
				Usage: "Print totals and per-category change statistics",
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "Fail on snapshot lines that are not diagnostics instead of skipping them",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colors in table output",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"D"},
				Usage:   "Enable debug logging",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Bool("debug") {
				slog.SetLogLoggerLevel(slog.LevelDebug)
			}

			style, err := output.ParseStyle(cmd.String("format"))
			if err != nil {
				return err
			}

			opts := dats.DefaultDiffOptions()
			opts.Dir = cmd.String("dir")
			opts.Extension = cmd.String("ext")
			opts.Base = cmd.String("base")
			opts.Against = cmd.String("against")
			opts.Strict = cmd.Bool("strict")

			result, err := dats.Diff(opts)
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stderr, "Comparing %s against %s\n", result.Pair.Base, result.Pair.Against)

			if malformed := result.Base.Malformed + result.Against.Malformed; malformed > 0 {
				fmt.Fprintf(os.Stderr, "Skipped %d lines that are not diagnostics\n", malformed)
			}

			renderOpts := output.Options{
				Style:     style,
				UseColors: !cmd.Bool("no-color") && term.IsTerminal(int(os.Stdout.Fd())), //nolint:gosec // fd fits in int
			}

			if err = output.WriteDeltas(os.Stdout, result.Pair, result.Deltas, renderOpts); err != nil {
				return err
			}

			if cmd.Bool("summary") {
				output.WriteSummary(os.Stderr, result.Summary)
			}

			return nil
		},
	}
}
