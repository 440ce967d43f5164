// Package testutils provides test infrastructure for dats command line tests.
package testutils

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/containerd/nerdctl/mod/tigron/test"
	"github.com/containerd/nerdctl/mod/tigron/tig"
)

// datsSetup implements test.Testable for the dats binaries.
type datsSetup struct {
	binary string
}

// CustomCommand returns a command running the binary under test with a minimal environment.
func (ds *datsSetup) CustomCommand(_ *test.Case, _ tig.T) test.CustomizableCommand {
	cmd := test.NewGenericCommand()
	cmd.WithBinary(ds.binary)

	gen := *(cmd.(*test.GenericCommand))
	gen.WithWhitelist([]string{
		"PATH",
		"HOME",
		"XDG_*",
	})

	return &gen
}

// AmbientRequirements only needs the binary built by `make build`.
func (ds *datsSetup) AmbientRequirements(_ *test.Case, testing tig.T) {
	info, err := os.Stat(ds.binary)
	if err != nil || info.IsDir() {
		testing.Log(fmt.Sprintf("binary %s not found: run 'make build' first", ds.binary))
		testing.FailNow()
	}
}

// Setup creates a test case configured to run the named binary from the project bin directory.
func Setup(binary string) *test.Case {
	_, thisFile, _, _ := runtime.Caller(0) //nolint:dogsled // runtime.Caller returns 4 values, only file is needed
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(thisFile)))

	test.Customize(&datsSetup{
		binary: filepath.Join(projectRoot, "bin", binary),
	})

	return &test.Case{
		Env: map[string]string{},
	}
}

// ExpectFileContent returns a comparator verifying, once the command ran, that path holds exactly content.
func ExpectFileContent(path, content string) test.Comparator {
	return func(_ string, testing tig.T) {
		testing.Helper()

		data, err := os.ReadFile(path) //nolint:gosec // test fixture path
		if err != nil {
			testing.Log("reading " + path + ": " + err.Error())
			testing.Fail()

			return
		}

		if string(data) != content {
			testing.Log("unexpected content in " + path + ":\n" + string(data))
			testing.Fail()
		}
	}
}

// ExpectNoPath returns a comparator verifying that path does not exist.
func ExpectNoPath(path string) test.Comparator {
	return func(_ string, testing tig.T) {
		testing.Helper()

		if _, err := os.Stat(path); err == nil {
			testing.Log("expected " + path + " to not exist")
			testing.Fail()
		}
	}
}

// SkipWithoutShell skips tests relying on POSIX utilities.
func SkipWithoutShell(t *testing.T) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("relies on POSIX true/false utilities")
	}
}
