// Package binary locates external executables.
package binary

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/farcloser/primordium/fault"
)

// Available checks if a binary is available in the system PATH.
func Available(binName string) (string, bool) {
	path, err := exec.LookPath(binName)

	return path, err == nil
}

// Resolve turns a binary reference into an executable path.
// References containing a path separator are checked as is, bare names are searched in PATH.
func Resolve(ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("%w: empty binary name", fault.ErrMissingRequirements)
	}

	if !strings.ContainsRune(ref, '/') && !strings.ContainsRune(ref, '\\') {
		path, found := Available(ref)
		if !found {
			return "", fmt.Errorf("%w: %s not found in PATH", fault.ErrMissingRequirements, ref)
		}

		return path, nil
	}

	path, err := exec.LookPath(ref)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", fault.ErrMissingRequirements, ref, err)
	}

	return path, nil
}
