// Package configpatch overlays a partial YAML document onto the analyzer configuration
// for the duration of a run, and puts the original bytes back afterward.
package configpatch

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/farcloser/primordium/fault"
	"gopkg.in/yaml.v3"
)

// ErrNotAMapping is returned when a document root is not a key-value mapping.
var ErrNotAMapping = errors.New("document root is not a mapping")

// Document is a decoded YAML mapping.
type Document map[string]any

// Load reads and decodes the YAML document at path. The root must be a mapping.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // configuration paths are operator supplied
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}

	return Parse(data, path)
}

// Parse decodes YAML data; name is only used in error messages.
func Parse(data []byte, name string) (Document, error) {
	var root any
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}

	doc, ok := asMapping(root)
	if !ok {
		return nil, fmt.Errorf("%s: %w (got %T)", name, ErrNotAMapping, root)
	}

	return doc, nil
}

// Encode serializes the document back to YAML.
func (doc Document) Encode() ([]byte, error) {
	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(map[string]any(doc)); err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}

	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}

	return buf.Bytes(), nil
}

// asMapping normalizes the two mapping shapes yaml.v3 may produce.
func asMapping(value any) (map[string]any, bool) {
	switch typed := value.(type) {
	case map[string]any:
		return typed, true
	case map[any]any:
		converted := make(map[string]any, len(typed))
		for key, val := range typed {
			converted[fmt.Sprint(key)] = val
		}

		return converted, true
	default:
		return nil, false
	}
}
