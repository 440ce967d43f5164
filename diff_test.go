package dats_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farcloser/dats"
	"github.com/farcloser/dats/internal/snapshot"
)

func writeSnapshot(t *testing.T, dir, name string, codes ...string) string {
	t.Helper()

	var builder strings.Builder
	for _, code := range codes {
		builder.WriteString("INFO|HINT|" + code + "|/p/lib/a.dart|1|1|1|'Foo' is deprecated.\n")
	}

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(builder.String()), 0o600))

	return path
}

func TestDiffInfersPair(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	base := writeSnapshot(t, dir, "2024_01_01.txt", "UNUSED_IMPORT", "UNUSED_IMPORT", "DEAD_CODE")
	against := writeSnapshot(t, dir, "2024_01_02.txt", "UNUSED_IMPORT", "UNUSED_IMPORT", "UNUSED_IMPORT", "DEAD_CODE")

	result, err := dats.Diff(dats.DiffOptions{Dir: dir})
	require.NoError(t, err)

	assert.Equal(t, snapshot.Pair{Base: base, Against: against}, result.Pair)
	assert.Equal(t, []snapshot.Delta{{Key: "UNUSED_IMPORT @a.dart", Base: 2, Against: 3}}, result.Deltas)
	assert.Equal(t, 1, result.Summary.Net())
}

func TestDiffDeprecatedMembers(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	base := writeSnapshot(t, dir, "one.txt", "DEPRECATED_MEMBER_USE")
	against := writeSnapshot(t, dir, "two.txt")

	result, err := dats.Diff(dats.DiffOptions{Base: base, Against: against})
	require.NoError(t, err)

	assert.Equal(t, []snapshot.Delta{{Key: "DEPRECATED_MEMBER_USE @a.dart Foo", Base: 1, Against: 0}}, result.Deltas)
}

func TestDiffErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := dats.Diff(dats.DiffOptions{Dir: filepath.Join(dir, "missing")})
	require.ErrorIs(t, err, snapshot.ErrNoOutputDir)

	_, err = dats.Diff(dats.DiffOptions{Dir: dir})
	require.ErrorIs(t, err, snapshot.ErrNoSnapshots)

	only := writeSnapshot(t, dir, "2024_01_01.txt", "DEAD_CODE")

	_, err = dats.Diff(dats.DiffOptions{Dir: dir, Base: only})
	require.ErrorIs(t, err, snapshot.ErrNothingToCompare)

	_, err = dats.Diff(dats.DiffOptions{Dir: dir, Base: filepath.Join(dir, "other.txt")})
	require.ErrorIs(t, err, snapshot.ErrBaseNotListed)
}
