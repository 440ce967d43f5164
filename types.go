package dats

import (
	"io"
	"os"
	"time"

	"github.com/farcloser/dats/internal/integration/dart"
	"github.com/farcloser/dats/internal/snapshot"
)

const (
	// DefaultOutput is the snapshot path template.
	DefaultOutput = "output/{DATE:yyyy_MM_dd}.{EXT}"
	// DefaultPatch is the patch document applied when present in the working directory.
	DefaultPatch = "analysis_options.dats.yaml"
	// DefaultConfig is the analyzer configuration the patch is merged into.
	DefaultConfig = "analysis_options.yaml"
	// DefaultOutputDir is where snapshots are looked up when diffing.
	DefaultOutputDir = "output"
	// DefaultExtension is the extension of machine format snapshots.
	DefaultExtension = ".txt"
)

// CaptureOptions configures a snapshot capture.
type CaptureOptions struct {
	// DartBin is the analyzer binary, a bare name searched in PATH or a path.
	DartBin string

	// Format is the analyzer output format, see dart.Formats.
	Format string

	// Output is the snapshot path template, see the macro package.
	Output string

	// Patch is the patch document path. When PatchExplicit is false it is only applied if it exists.
	Patch         string
	PatchExplicit bool

	// Config is the analyzer configuration file patched for the duration of the run.
	Config string

	// Targets are passed to the analyzer verbatim; the current directory is analyzed when empty.
	Targets []string

	// DryRun prints what would run without touching anything.
	DryRun bool

	// Now is the time used for macro expansion (default: time.Now()).
	Now time.Time

	// Stdout receives dry-run output, Stderr receives progress, analyzer stderr and status lines.
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultCaptureOptions returns the options of a bare `dats` invocation.
func DefaultCaptureOptions() CaptureOptions {
	return CaptureOptions{
		DartBin: dart.Name,
		Format:  string(dart.FormatMachine),
		Output:  DefaultOutput,
		Patch:   DefaultPatch,
		Config:  DefaultConfig,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// CaptureResult describes a capture.
type CaptureResult struct {
	Invocation dart.Invocation
	OutputPath string

	// PatchApplied tells whether the configuration was patched; Patched is the merge count when it was.
	PatchApplied bool
	Patched      int

	Elapsed time.Duration
}

// DiffOptions configures a snapshot comparison.
type DiffOptions struct {
	// Dir and Extension locate candidate snapshots when Base or Against is empty.
	Dir       string
	Extension string

	Base    string
	Against string

	// Strict fails on lines that are not diagnostics instead of skipping them.
	Strict bool
}

// DefaultDiffOptions returns the options of a bare `dats-diff` invocation.
func DefaultDiffOptions() DiffOptions {
	return DiffOptions{
		Dir:       DefaultOutputDir,
		Extension: DefaultExtension,
	}
}

// DiffResult is the outcome of a comparison.
type DiffResult struct {
	Pair    snapshot.Pair
	Base    *snapshot.Tally
	Against *snapshot.Tally
	Deltas  []snapshot.Delta
	Summary snapshot.Summary
}
