// Package macro expands {NAME} and {NAME:PARAMS} placeholders in output path templates.
package macro

import (
	"log/slog"
	"regexp"
	"time"
)

const (
	// Date formats the current time, taking an optional date pattern as parameter.
	Date = "DATE"
	// Ext is the snapshot file extension matching the requested output format.
	Ext = "EXT"

	defaultDatePattern = "yyyy_MM_dd"
)

//nolint:gochecknoglobals // compiled once
var placeholder = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)(?::([^{}]*))?\}`)

// Env holds the values macros resolve against.
type Env struct {
	Now       time.Time
	Extension string
}

// Expand substitutes every known macro in template in a single pass.
// Unknown names and malformed placeholders are left verbatim.
func Expand(template string, env Env) string {
	return placeholder.ReplaceAllStringFunc(template, func(match string) string {
		groups := placeholder.FindStringSubmatch(match)
		name, params := groups[1], groups[2]

		switch name {
		case Date:
			if params == "" {
				params = defaultDatePattern
			}

			return FormatDate(env.Now, params)
		case Ext:
			return env.Extension
		default:
			slog.Debug("macro.Expand", "unknown", match)

			return match
		}
	})
}
