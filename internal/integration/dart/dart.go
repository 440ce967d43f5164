// Package dart drives `dart analyze` and captures its diagnostics.
package dart

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/kballard/go-shellquote"
)

const (
	// Name is the analyzer binary looked up in PATH by default.
	Name = "dart"

	subcommand = "analyze"
	// The analyzer routinely runs for minutes on large workspaces.
	progressInterval = 5 * time.Second
)

// Format is the output format requested from the analyzer.
type Format string

const (
	FormatMachine Format = "machine"
	FormatJSON    Format = "json"
)

// ErrUnknownFormat is returned for formats outside of Formats.
var ErrUnknownFormat = errors.New("unknown format")

// Formats lists the accepted output formats.
func Formats() []Format {
	return []Format{FormatMachine, FormatJSON}
}

// ParseFormat validates a user supplied format name.
func ParseFormat(raw string) (Format, error) {
	format := Format(raw)
	if !slices.Contains(Formats(), format) {
		return "", fmt.Errorf("%w %q (accepted: %s, %s)", ErrUnknownFormat, raw, FormatMachine, FormatJSON)
	}

	return format, nil
}

// Extension is the snapshot file extension, without dot, for files captured in this format.
func (format Format) Extension() string {
	if format == FormatJSON {
		return "json"
	}

	return "txt"
}

// Invocation is a fully assembled analyzer command line.
type Invocation struct {
	Binary string
	Args   []string
}

// AnalyzeArgs builds the analyzer arguments. Targets are passed through verbatim,
// the current directory is analyzed when there are none.
func AnalyzeArgs(format Format, targets []string) []string {
	args := []string{subcommand, "--format=" + string(format)}

	if len(targets) == 0 {
		return append(args, ".")
	}

	return append(args, targets...)
}

// String renders the command line so that a POSIX shell splits it back into the same arguments.
func (inv Invocation) String() string {
	return shellquote.Join(append([]string{inv.Binary}, inv.Args...)...)
}
