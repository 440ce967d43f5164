package dart

import (
	"bytes"
	"context"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/farcloser/primordium/fault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer serializes writes coming from the child pipe copier and the progress reporter.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (sb *syncBuffer) Write(p []byte) (int, error) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	return sb.buf.Write(p)
}

func (sb *syncBuffer) String() string {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	return sb.buf.String()
}

func shell(script string) Invocation {
	return Invocation{Binary: "sh", Args: []string{"-c", script}}
}

func TestRunCapturesStreams(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}

	var stdout bytes.Buffer

	stderr := &syncBuffer{}

	err := run(context.Background(), shell("echo 'ERROR|a|b'; echo progress >&2"), &stdout, stderr, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, "ERROR|a|b\n", stdout.String())
	assert.Equal(t, "progress\n", stderr.String())
}

func TestRunReportsExitStatus(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}

	var stdout bytes.Buffer

	err := run(context.Background(), shell("echo partial; exit 3"), &stdout, &syncBuffer{}, time.Hour)
	require.ErrorIs(t, err, fault.ErrCommandFailure)
	assert.Contains(t, err.Error(), "exited with status 3")
	assert.Contains(t, err.Error(), "sh -c")
	assert.Equal(t, "partial\n", stdout.String())
}

func TestRunMissingBinary(t *testing.T) {
	t.Parallel()

	inv := Invocation{Binary: "/nonexistent/dart", Args: []string{"analyze"}}

	err := run(context.Background(), inv, &bytes.Buffer{}, &syncBuffer{}, time.Hour)
	require.ErrorIs(t, err, fault.ErrCommandFailure)
}

func TestRunReportsProgress(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}

	stderr := &syncBuffer{}

	err := run(context.Background(), shell("sleep 1"), &bytes.Buffer{}, stderr, 100*time.Millisecond)
	require.NoError(t, err)

	output := stderr.String()
	assert.True(t, strings.HasPrefix(output, "\rRunning sh analyze..."), output)
	assert.True(t, strings.HasSuffix(output, "\n"), output)
	assert.Greater(t, strings.Count(output, "\r"), 1)
}
