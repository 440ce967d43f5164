package dart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"time"

	"github.com/farcloser/primordium/fault"
)

// Run executes the invocation to completion.
// The analyzer's stdout is written to output and its stderr forwarded to errOut as it arrives.
// Every progressInterval an elapsed time line is (re)written to errOut.
func Run(ctx context.Context, inv Invocation, output, errOut io.Writer) error {
	return run(ctx, inv, output, errOut, progressInterval)
}

func run(ctx context.Context, inv Invocation, output, errOut io.Writer, interval time.Duration) error {
	slog.Debug("dart.Run", "command", inv.String(), "stage", "start")

	//nolint:gosec // the analyzer binary and its arguments are operator supplied
	cmd := exec.CommandContext(ctx, inv.Binary, inv.Args...)
	cmd.Stdout = output
	cmd.Stderr = errOut

	start := time.Now()

	if err := cmd.Start(); err != nil {
		slog.Debug("dart.Run", "command", inv.String(), "stage", "error")

		return fmt.Errorf("%w: %s: %w", fault.ErrCommandFailure, inv, err)
	}

	stop := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)

		reportProgress(errOut, inv, start, interval, stop)
	}()

	err := cmd.Wait()

	close(stop)
	<-done

	if err != nil {
		slog.Debug("dart.Run", "command", inv.String(), "stage", "error")

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%w: %s exited with status %d", fault.ErrCommandFailure, inv, exitErr.ExitCode())
		}

		return fmt.Errorf("%w: %s: %w", fault.ErrCommandFailure, inv, err)
	}

	slog.Debug("dart.Run", "command", inv.String(), "stage", "done", "elapsed", time.Since(start))

	return nil
}

func reportProgress(errOut io.Writer, inv Invocation, start time.Time, interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	reported := false

	for {
		select {
		case <-stop:
			if reported {
				fmt.Fprintln(errOut)
			}

			return
		case <-ticker.C:
			reported = true

			fmt.Fprintf(errOut, "\rRunning %s %s... %ds elapsed", inv.Binary, subcommand, int(time.Since(start).Seconds()))
		}
	}
}
