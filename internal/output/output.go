// Package output renders snapshot comparisons.
package output

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/farcloser/primordium/format"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/farcloser/dats/internal/snapshot"
)

// Style selects how deltas are printed.
type Style string

const (
	// StyleText prints one "<key>: <base> -> <against>" line per changed key.
	StyleText     Style = "text"
	StyleTable    Style = "table"
	StyleConsole  Style = "console"
	StyleJSON     Style = "json"
	StyleMarkdown Style = "markdown"
)

var errUnknownStyle = errors.New("unknown output format")

// Styles lists the accepted output styles.
func Styles() []Style {
	return []Style{StyleText, StyleTable, StyleConsole, StyleJSON, StyleMarkdown}
}

// ParseStyle validates a user supplied output style.
func ParseStyle(raw string) (Style, error) {
	style := Style(raw)
	if !slices.Contains(Styles(), style) {
		return "", fmt.Errorf("%w %q", errUnknownStyle, raw)
	}

	return style, nil
}

// Options tune rendering.
type Options struct {
	Style     Style
	UseColors bool
}

// WriteDeltas prints the changed keys of a comparison.
func WriteDeltas(writer io.Writer, pair snapshot.Pair, deltas []snapshot.Delta, opts Options) error {
	switch opts.Style {
	case StyleTable:
		return writeTable(writer, deltas, opts.UseColors)
	case StyleConsole, StyleJSON, StyleMarkdown:
		return writeFormatted(writer, pair, deltas, string(opts.Style))
	default:
		return writeText(writer, deltas)
	}
}

func writeText(writer io.Writer, deltas []snapshot.Delta) error {
	for _, delta := range deltas {
		if _, err := fmt.Fprintf(writer, "%s: %d -> %d\n", delta.Key, delta.Base, delta.Against); err != nil {
			return fmt.Errorf("writing deltas: %w", err)
		}
	}

	return nil
}

func writeFormatted(writer io.Writer, pair snapshot.Pair, deltas []snapshot.Delta, formatName string) error {
	formatter, err := format.GetFormatter(formatName)
	if err != nil {
		return fmt.Errorf("%w: %w", errUnknownStyle, err)
	}

	data := &format.Data{
		Object: pair.Base + " -> " + pair.Against,
		Meta:   DeltasToMap(pair, deltas),
	}

	if err = formatter.PrintAll([]*format.Data{data}, writer); err != nil {
		return fmt.Errorf("writing deltas: %w", err)
	}

	return nil
}

// DeltasToMap converts a comparison into the map structure used for structured output.
func DeltasToMap(pair snapshot.Pair, deltas []snapshot.Delta) map[string]any {
	changes := make([]any, 0, len(deltas))

	for _, delta := range deltas {
		changes = append(changes, map[string]any{
			"key":     delta.Key,
			"base":    delta.Base,
			"against": delta.Against,
			"change":  delta.Change(),
		})
	}

	return map[string]any{
		"base":    pair.Base,
		"against": pair.Against,
		"changes": changes,
	}
}

func writeTable(writer io.Writer, deltas []snapshot.Delta, useColors bool) error {
	table := tablewriter.NewWriter(writer)
	defer func() { _ = table.Close() }()

	table.Header([]string{"Category", "Base", "Against", "Delta"})

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.PerColumn = []tw.Align{tw.AlignLeft, tw.AlignRight, tw.AlignRight, tw.AlignRight}
	})

	var red, green func(...any) string
	if useColors {
		red = color.New(color.FgRed).SprintFunc()
		green = color.New(color.FgGreen).SprintFunc()
	} else {
		red = fmt.Sprint
		green = fmt.Sprint
	}

	data := make([][]string, 0, len(deltas))

	for _, delta := range deltas {
		var change string

		// More diagnostics is a regression.
		if delta.Change() > 0 {
			change = red(fmt.Sprintf("+%d ▲", delta.Change()))
		} else {
			change = green(fmt.Sprintf("%d ▼", delta.Change()))
		}

		data = append(data, []string{
			delta.Key,
			strconv.Itoa(delta.Base),
			strconv.Itoa(delta.Against),
			change,
		})
	}

	if err := table.Bulk(data); err != nil {
		return fmt.Errorf("writing deltas: %w", err)
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("writing deltas: %w", err)
	}

	return nil
}

// WriteSummary prints comparison totals.
func WriteSummary(writer io.Writer, summary snapshot.Summary) {
	fmt.Fprintf(writer, "\n--- Summary ---\n")
	fmt.Fprintf(writer, "  Base total:     %d\n", summary.BaseTotal)
	fmt.Fprintf(writer, "  Against total:  %d\n", summary.AgainstTotal)
	fmt.Fprintf(writer, "  Net change:     %+d\n", summary.Net())
	fmt.Fprintf(writer, "  Categories:     %d changed (%d new, %d gone)\n", summary.Changed, summary.Added, summary.Removed)

	if summary.Changed > 0 {
		fmt.Fprintf(writer, "  Per category:   mean %+.2f, stddev %.2f, max +%d, min %d\n",
			summary.MeanChange, summary.StdDevChange, summary.MaxIncrease, summary.MaxDecrease)
	}
}
