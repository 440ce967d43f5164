// Package version exposes build identification, overridden at link time with -ldflags -X.
package version

//nolint:gochecknoglobals // set by the linker
var (
	name    = "dats"
	version = "dev"
	commit  = "unknown"
)

// Name returns the binary family name.
func Name() string {
	return name
}

// Version returns the release version.
func Version() string {
	return version
}

// Commit returns the source revision the binary was built from.
func Commit() string {
	return commit
}
