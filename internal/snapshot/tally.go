package snapshot

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/farcloser/primordium/fault"
)

const maxLineSize = 1024 * 1024 // 1MB

// Tally counts diagnostics per grouping key for one snapshot.
type Tally struct {
	Counts    map[string]int
	Records   int
	Malformed int
}

// NewTally returns an empty tally.
func NewTally() *Tally {
	return &Tally{Counts: map[string]int{}}
}

// Add counts one record.
func (tally *Tally) Add(rec Record) {
	tally.Counts[rec.Key()]++
	tally.Records++
}

// Load tallies the snapshot at path. Files ending in .json are read as the analyzer's JSON
// document, anything else as machine format lines.
// Malformed lines are skipped and counted, unless strict is set in which case the first one fails the load.
func Load(path string, strict bool) (*Tally, error) {
	slog.Debug("snapshot.Load", "path", path)

	file, err := os.Open(path) //nolint:gosec // CLI tool opens user-specified snapshot files
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}
	defer file.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ReadJSON(file)
	}

	return ReadLines(file, path, strict)
}

// ReadLines tallies machine format lines; name only labels warnings and errors.
func ReadLines(reader io.Reader, name string, strict bool) (*Tally, error) {
	tally := NewTally()

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineSize)

	lineNumber := 0

	for scanner.Scan() {
		lineNumber++

		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		rec, err := ParseRecord(line)
		if err != nil {
			if strict {
				return nil, fmt.Errorf("%s:%d: %w", name, lineNumber, err)
			}

			slog.Warn("skipping line", "file", name, "line", lineNumber, "error", err)

			tally.Malformed++

			continue
		}

		tally.Add(rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", fault.ErrReadFailure, name, err)
	}

	return tally, nil
}

// ReadJSON tallies a JSON snapshot.
func ReadJSON(reader io.Reader) (*Tally, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}

	// Anything the analyzer printed ahead of the document is noise.
	if start := bytes.IndexByte(data, '{'); start > 0 {
		data = data[start:]
	}

	records, err := DecodeJSON(data)
	if err != nil {
		return nil, err
	}

	tally := NewTally()
	for _, rec := range records {
		tally.Add(rec)
	}

	return tally, nil
}
