// Package snapshot reads captured analyzer output and compares diagnostic counts between captures.
package snapshot

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

const (
	fieldSeparator = "|"
	// SEVERITY|TYPE|ERROR_CODE|FILE_PATH|LINE|COLUMN|LENGTH|ERROR_MESSAGE
	recordFields = 8

	deprecatedMemberUse = "DEPRECATED_MEMBER_USE"
)

// ErrMalformedRecord is returned for lines that do not have the analyzer's machine shape.
var ErrMalformedRecord = errors.New("malformed diagnostic line")

// Record is one diagnostic reported by the analyzer.
type Record struct {
	Severity string
	Kind     string
	Code     string
	Path     string
	Line     string
	Column   string
	Length   string
	Message  string
}

// ParseRecord splits a machine format line into its fields.
// A message containing the separator is kept whole.
func ParseRecord(line string) (Record, error) {
	fields := strings.SplitN(line, fieldSeparator, recordFields)
	if len(fields) < recordFields {
		return Record{}, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformedRecord, recordFields, len(fields))
	}

	return Record{
		Severity: fields[0],
		Kind:     fields[1],
		Code:     fields[2],
		Path:     fields[3],
		Line:     fields[4],
		Column:   fields[5],
		Length:   fields[6],
		Message:  fields[7],
	}, nil
}

// Key is the identity diagnostics are tallied under: the code and the file base name,
// plus the member name for deprecated member uses.
func (rec Record) Key() string {
	key := rec.Code + " @" + baseName(rec.Path)

	if strings.HasPrefix(rec.Code, deprecatedMemberUse) {
		if member, ok := quotedMember(rec.Message); ok {
			key += " " + member
		}
	}

	return key
}

// baseName handles both separators since snapshots may come from another platform.
func baseName(filePath string) string {
	return path.Base(strings.ReplaceAll(filePath, "\\", "/"))
}

// quotedMember returns the text between the first two single quotes.
func quotedMember(message string) (string, bool) {
	_, rest, found := strings.Cut(message, "'")
	if !found {
		return "", false
	}

	member, _, found := strings.Cut(rest, "'")

	return member, found
}
