package configpatch_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farcloser/dats/internal/configpatch"
)

const pristine = `# project analysis options
include: package:lints/recommended.yaml

analyzer:
  exclude:
    - "**/*.g.dart"
linter:
  rules:
    - avoid_print
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestApplyAndRestore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	config := writeFile(t, dir, "analysis_options.yaml", pristine)
	patch := writeFile(t, dir, "analysis_options.dats.yaml", "analyzer:\n  errors:\n    deprecated_member_use: warning\n")

	backup, err := configpatch.Apply(config, patch)
	require.NoError(t, err)
	assert.Equal(t, 1, backup.Patched)
	assert.DirExists(t, backup.Dir())

	patched, err := configpatch.Load(config)
	require.NoError(t, err)
	assert.Equal(t, "package:lints/recommended.yaml", patched["include"])
	assert.Equal(t,
		map[string]any{"deprecated_member_use": "warning"},
		patched["analyzer"].(map[string]any)["errors"],
	)

	require.NoError(t, backup.Restore())

	restored, err := os.ReadFile(config)
	require.NoError(t, err)
	assert.Equal(t, pristine, string(restored))
	assert.NoDirExists(t, backup.Dir())

	// A second call is a no-op.
	require.NoError(t, backup.Restore())
}

func TestApplyZeroPatchedStillRewrites(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	config := writeFile(t, dir, "analysis_options.yaml", pristine)
	patch := writeFile(t, dir, "patch.yaml", "include: package:flutter_lints/flutter.yaml\n")

	backup, err := configpatch.Apply(config, patch)
	require.NoError(t, err)

	t.Cleanup(func() { _ = backup.Restore() })

	assert.Equal(t, 0, backup.Patched)

	patched, err := configpatch.Load(config)
	require.NoError(t, err)
	assert.Equal(t, "package:flutter_lints/flutter.yaml", patched["include"])
}

func TestApplyInvalidPatchLeavesConfigUntouched(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	config := writeFile(t, dir, "analysis_options.yaml", pristine)
	patch := writeFile(t, dir, "patch.yaml", "- not\n- a mapping\n")

	backup, err := configpatch.Apply(config, patch)
	require.ErrorIs(t, err, configpatch.ErrNotAMapping)
	assert.Nil(t, backup)

	content, err := os.ReadFile(config)
	require.NoError(t, err)
	assert.Equal(t, pristine, string(content))
}

func TestApplyMissingConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	patch := writeFile(t, dir, "patch.yaml", "a: 1\n")

	_, err := configpatch.Apply(filepath.Join(dir, "analysis_options.yaml"), patch)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestRestoreNilBackup(t *testing.T) {
	t.Parallel()

	var backup *configpatch.Backup

	assert.NoError(t, backup.Restore())
}
