//nolint:wrapcheck
package dats

import (
	"log/slog"

	"github.com/farcloser/dats/internal/snapshot"
)

// Diff selects two snapshots and compares their per-category diagnostic counts.
// Base and Against left empty are inferred from the snapshots in Dir, see snapshot.Select.
func Diff(opts DiffOptions) (*DiffResult, error) {
	if opts.Dir == "" {
		opts.Dir = DefaultOutputDir
	}

	if opts.Extension == "" {
		opts.Extension = DefaultExtension
	}

	pair, err := snapshot.Select(opts.Dir, opts.Extension, opts.Base, opts.Against)
	if err != nil {
		return nil, err
	}

	slog.Debug("dats.Diff", "base", pair.Base, "against", pair.Against)

	base, err := snapshot.Load(pair.Base, opts.Strict)
	if err != nil {
		return nil, err
	}

	against, err := snapshot.Load(pair.Against, opts.Strict)
	if err != nil {
		return nil, err
	}

	deltas := snapshot.Compare(base, against)

	return &DiffResult{
		Pair:    pair,
		Base:    base,
		Against: against,
		Deltas:  deltas,
		Summary: snapshot.Summarize(base, against, deltas),
	}, nil
}
