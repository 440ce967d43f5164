package configpatch

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

const backupPrefix = "dats-"

// Backup is a pristine copy of a configuration file taken before it was patched.
// Restore must be called on every exit path once Apply succeeded.
type Backup struct {
	// Patched is the number of values the merge replaced.
	Patched int

	configPath string
	dir        string
	copyPath   string
	mode       fs.FileMode
	restored   bool
}

// Apply copies configPath into a fresh temporary directory, merges the patch document at
// patchPath into it, and overwrites configPath with the result.
// On error the configuration is left (or put back) as it was and nothing needs restoring.
func Apply(configPath, patchPath string) (*Backup, error) {
	slog.Debug("configpatch.Apply", "config", configPath, "patch", patchPath, "stage", "start")

	backup, err := snapshotConfig(configPath)
	if err != nil {
		return nil, err
	}

	if err = backup.patch(patchPath); err != nil {
		return nil, errors.Join(err, backup.Restore())
	}

	slog.Debug("configpatch.Apply", "config", configPath, "patched", backup.Patched, "stage", "done")

	return backup, nil
}

// Restore writes the pristine bytes back over the configuration file and removes the backup directory.
// Calling it more than once is harmless.
func (backup *Backup) Restore() error {
	if backup == nil || backup.restored {
		return nil
	}

	slog.Debug("configpatch.Restore", "config", backup.configPath)

	data, err := os.ReadFile(backup.copyPath)
	if err != nil {
		return fmt.Errorf("reading backup of %s: %w", backup.configPath, err)
	}

	if err = os.WriteFile(backup.configPath, data, backup.mode); err != nil {
		return fmt.Errorf("restoring %s: %w", backup.configPath, err)
	}

	backup.restored = true

	if err = os.RemoveAll(backup.dir); err != nil {
		return fmt.Errorf("removing backup directory: %w", err)
	}

	return nil
}

// Dir returns the temporary directory holding the pristine copy.
func (backup *Backup) Dir() string {
	return backup.dir
}

func snapshotConfig(configPath string) (*Backup, error) {
	info, err := os.Stat(configPath)
	if err != nil {
		return nil, fmt.Errorf("inspecting %s: %w", configPath, err)
	}

	data, err := os.ReadFile(configPath) //nolint:gosec // configuration paths are operator supplied
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", configPath, err)
	}

	dir, err := os.MkdirTemp("", backupPrefix)
	if err != nil {
		return nil, fmt.Errorf("creating backup directory: %w", err)
	}

	copyPath := filepath.Join(dir, filepath.Base(configPath))
	if err = os.WriteFile(copyPath, data, info.Mode().Perm()); err != nil {
		_ = os.RemoveAll(dir)

		return nil, fmt.Errorf("backing up %s: %w", configPath, err)
	}

	return &Backup{
		configPath: configPath,
		dir:        dir,
		copyPath:   copyPath,
		mode:       info.Mode().Perm(),
	}, nil
}

func (backup *Backup) patch(patchPath string) error {
	config, err := Load(backup.configPath)
	if err != nil {
		return fmt.Errorf("loading %s: %w", backup.configPath, err)
	}

	overlay, err := Load(patchPath)
	if err != nil {
		return fmt.Errorf("loading %s: %w", patchPath, err)
	}

	backup.Patched = Merge(config, overlay)

	merged, err := config.Encode()
	if err != nil {
		return err
	}

	if err = os.WriteFile(backup.configPath, merged, backup.mode); err != nil {
		return fmt.Errorf("writing patched %s: %w", backup.configPath, err)
	}

	return nil
}
