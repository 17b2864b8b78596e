// Package metadata loads the case metadata document (metadata.yml)
// that accompanies a fragment folder and supports dotted-path lookups
// into it for required-field validation.
package metadata

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Metadata is a parsed metadata document. The structure is free-form;
// consumers address fields by dotted path.
type Metadata struct {
	Path string
	data map[string]any
}

// Parse decodes YAML metadata from raw bytes.
func Parse(raw []byte) (*Metadata, error) {
	data := make(map[string]any)
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parsing metadata: %w", err)
	}
	return &Metadata{data: data}, nil
}

// Load reads metadata.yml from a document folder. A missing file is
// not an error: it yields empty metadata, and required-field checks
// then report each missing field individually.
func Load(folder string) (*Metadata, error) {
	path := filepath.Join(folder, "metadata.yml")
	raw, readErr := os.ReadFile(path)
	if readErr != nil {
		if os.IsNotExist(readErr) {
			return &Metadata{Path: path, data: map[string]any{}}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, readErr)
	}
	meta, parseErr := Parse(raw)
	if parseErr != nil {
		return nil, fmt.Errorf("%s: %w", path, parseErr)
	}
	meta.Path = path
	return meta, nil
}

// Lookup resolves a dotted path ("document_info.type") against the
// metadata tree. The second return is false when any path segment is
// missing or the terminal value is empty.
func (meta *Metadata) Lookup(path string) (any, bool) {
	var current any = meta.data
	for _, key := range strings.Split(path, ".") {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = node[key]
		if !ok {
			return nil, false
		}
	}
	if current == nil {
		return nil, false
	}
	if text, ok := current.(string); ok && strings.TrimSpace(text) == "" {
		return nil, false
	}
	return current, true
}

// String returns the value at a dotted path as a string, or the
// fallback when the path is missing or not a string.
func (meta *Metadata) String(path, fallback string) string {
	value, ok := meta.Lookup(path)
	if !ok {
		return fallback
	}
	if text, ok := value.(string); ok {
		return text
	}
	return fallback
}
