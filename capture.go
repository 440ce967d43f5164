//nolint:wrapcheck
package dats

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/kballard/go-shellquote"

	"github.com/farcloser/dats/internal/configpatch"
	"github.com/farcloser/dats/internal/integration/binary"
	"github.com/farcloser/dats/internal/integration/dart"
	"github.com/farcloser/dats/internal/macro"
)

/*
Usage:

opts := dats.DefaultCaptureOptions()
opts.Targets = []string{"lib", "test"}
result, err := dats.Capture(ctx, opts)
fmt.Println(result.OutputPath)

opts := dats.DefaultDiffOptions()
result, err := dats.Diff(opts)
for _, delta := range result.Deltas {
    fmt.Printf("%s: %d -> %d\n", delta.Key, delta.Base, delta.Against)
}
*/

var (
	ErrPatchNotFound  = errors.New("patch file not found")
	ErrConfigNotFound = errors.New("configuration file not found")
)

// Capture runs the analyzer once and writes its output to a new snapshot file.
//
// When a patch applies, the configuration file is patched before the analyzer starts and its
// original bytes are put back before Capture returns, whatever the outcome.
func Capture(ctx context.Context, opts CaptureOptions) (*CaptureResult, error) {
	applyCaptureDefaults(&opts)

	format, err := dart.ParseFormat(opts.Format)
	if err != nil {
		return nil, err
	}

	outputPath := macro.Expand(opts.Output, macro.Env{Now: opts.Now, Extension: format.Extension()})

	result := &CaptureResult{
		Invocation: dart.Invocation{Binary: opts.DartBin, Args: dart.AnalyzeArgs(format, opts.Targets)},
		OutputPath: outputPath,
	}

	if opts.DryRun {
		fmt.Fprintf(opts.Stdout, "%s > %s\n", result.Invocation, shellquote.Join(outputPath))

		return result, nil
	}

	executable, err := binary.Resolve(opts.DartBin)
	if err != nil {
		return result, err
	}

	if err = os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil { //nolint:gosec // snapshots are meant to be shared
		return result, fmt.Errorf("creating output directory: %w", err)
	}

	shouldPatch, err := patchRequested(opts)
	if err != nil {
		return result, err
	}

	if !shouldPatch {
		return result, execute(ctx, executable, result, opts)
	}

	if !fileExists(opts.Config) {
		return result, fmt.Errorf("%w: %s is required to apply %s", ErrConfigNotFound, opts.Config, opts.Patch)
	}

	return result, capturePatched(ctx, executable, result, opts)
}

func capturePatched(ctx context.Context, executable string, result *CaptureResult, opts CaptureOptions) (err error) {
	backup, err := configpatch.Apply(opts.Config, opts.Patch)
	if err != nil {
		return err
	}

	defer func() {
		if restoreErr := backup.Restore(); restoreErr != nil {
			slog.Error("failed to restore configuration", "config", opts.Config, "backup", backup.Dir(), "error", restoreErr)

			err = errors.Join(err, restoreErr)
		}
	}()

	result.PatchApplied = true
	result.Patched = backup.Patched

	fmt.Fprintf(opts.Stderr, "Patched %d values in %s\n", backup.Patched, opts.Config)

	// The terminal delivers interrupts to the analyzer too. Outlive it so the deferred restore runs.
	stopHolding := holdSignals(opts.Stderr)
	defer stopHolding()

	return execute(ctx, executable, result, opts)
}

func execute(ctx context.Context, executable string, result *CaptureResult, opts CaptureOptions) error {
	out, err := os.Create(result.OutputPath)
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}

	inv := result.Invocation
	inv.Binary = executable

	start := time.Now()
	runErr := dart.Run(ctx, inv, out, opts.Stderr)
	result.Elapsed = time.Since(start)

	if closeErr := out.Close(); closeErr != nil && runErr == nil {
		return fmt.Errorf("writing snapshot: %w", closeErr)
	}

	if runErr != nil {
		return runErr
	}

	fmt.Fprintf(opts.Stderr, "Ran %s > %s in %.1fs\n", result.Invocation, result.OutputPath, result.Elapsed.Seconds())

	return nil
}

// patchRequested applies the rule: an explicit patch must exist, the default one is optional.
func patchRequested(opts CaptureOptions) (bool, error) {
	exists := fileExists(opts.Patch)

	if opts.PatchExplicit && !exists {
		return false, fmt.Errorf("%w: %s", ErrPatchNotFound, opts.Patch)
	}

	return exists, nil
}

func holdSignals(errOut io.Writer) func() {
	signals := make(chan os.Signal, 1)
	done := make(chan struct{})

	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	go func() {
		for {
			select {
			case sig := <-signals:
				fmt.Fprintf(errOut, "\nReceived %s, waiting for the analyzer to exit before restoring configuration\n", sig)
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(signals)
		close(done)
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)

	return err == nil && !info.IsDir()
}

func applyCaptureDefaults(opts *CaptureOptions) {
	defaults := DefaultCaptureOptions()

	if opts.DartBin == "" {
		opts.DartBin = defaults.DartBin
	}

	if opts.Format == "" {
		opts.Format = defaults.Format
	}

	if opts.Output == "" {
		opts.Output = defaults.Output
	}

	if opts.Patch == "" {
		opts.Patch = defaults.Patch
	}

	if opts.Config == "" {
		opts.Config = defaults.Config
	}

	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	if opts.Stdout == nil {
		opts.Stdout = io.Discard
	}

	if opts.Stderr == nil {
		opts.Stderr = io.Discard
	}
}
