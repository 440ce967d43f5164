package snapshot

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var (
	ErrNoOutputDir      = errors.New("output directory does not exist")
	ErrNoSnapshots      = errors.New("no snapshot files found")
	ErrBaseNotListed    = errors.New("base file not found in output directory")
	ErrNothingToCompare = errors.New("no snapshot after base file to compare against")
)

// Pair names the two snapshots of a comparison.
type Pair struct {
	Base    string
	Against string
}

// Select fills in whichever of base and against is empty from the snapshots in dir.
//
// Candidates are the regular files directly in dir whose extension is ext, sorted by path.
// Snapshot names embed a sortable date, so lexical order stands in for capture order.
// Base defaults to the oldest candidate, against to the candidate right after base.
func Select(dir, ext, base, against string) (Pair, error) {
	if base != "" && against != "" {
		return Pair{Base: base, Against: against}, nil
	}

	candidates, err := List(dir, ext)
	if err != nil {
		return Pair{}, err
	}

	if base == "" {
		base = candidates[0]
	}

	if against == "" {
		position := slices.IndexFunc(candidates, func(candidate string) bool {
			return samePath(candidate, base)
		})
		if position < 0 {
			return Pair{}, fmt.Errorf("%w: %s", ErrBaseNotListed, base)
		}

		if position+1 >= len(candidates) {
			return Pair{}, fmt.Errorf("%w: %s", ErrNothingToCompare, base)
		}

		against = candidates[position+1]
	}

	slog.Debug("snapshot.Select", "base", base, "against", against, "candidates", len(candidates))

	return Pair{Base: base, Against: against}, nil
}

// List returns the sorted snapshot files directly in dir.
func List(dir, ext string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNoOutputDir, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	var candidates []string

	for _, entry := range entries {
		if !entry.Type().IsRegular() || filepath.Ext(entry.Name()) != ext {
			continue
		}

		candidates = append(candidates, filepath.Join(dir, entry.Name()))
	}

	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: %s/*%s", ErrNoSnapshots, dir, ext)
	}

	slices.Sort(candidates)

	return candidates, nil
}

func samePath(left, right string) bool {
	if filepath.Clean(left) == filepath.Clean(right) {
		return true
	}

	absLeft, errLeft := filepath.Abs(left)
	absRight, errRight := filepath.Abs(right)

	return errLeft == nil && errRight == nil && absLeft == absRight
}
