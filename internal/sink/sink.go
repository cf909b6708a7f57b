// Package sink stores per-move record artifacts for later ROM assembly.
package sink

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// RecordName builds the deterministic artifact name for one move of a puzzle.
// The name encodes the group key (everything before the trailing move number)
// so that the assembler can recover puzzle grouping from sorted names alone.
func RecordName(id string, rating int, themeTag string, moveNum int) string {
	if themeTag == "" {
		themeTag = "none"
	}
	return fmt.Sprintf("puzzle-%s-%d-%s-%02d.txt", id, rating, themeTag, moveNum)
}

// GroupKey returns the part of a record name shared by all moves of one
// puzzle, the name up to the last hyphen. Names without a hyphen have no
// group and are ignored by the assembler.
func GroupKey(name string) (string, bool) {
	idx := strings.LastIndexByte(name, '-')
	if idx < 0 {
		return "", false
	}
	return name[:idx], true
}

// Dir is a directory backed record sink.
type Dir struct {
	path string
}

// NewDir creates the sink directory if needed and returns the sink.
func NewDir(path string) (*Dir, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("creating sink directory '%s': %w", path, err)
	}
	return &Dir{path: path}, nil
}

// Write stores one record artifact.
func (d *Dir) Write(name string, data []byte) error {
	if err := os.WriteFile(filepath.Join(d.path, name), data, 0o644); err != nil {
		return fmt.Errorf("writing record '%s': %w", name, err)
	}
	return nil
}

// Remove deletes one record artifact.
func (d *Dir) Remove(name string) error {
	if err := os.Remove(filepath.Join(d.path, name)); err != nil {
		return fmt.Errorf("removing record '%s': %w", name, err)
	}
	return nil
}

// List returns the names of all stored record artifacts in sorted order.
func (d *Dir) List() ([]string, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, fmt.Errorf("reading sink directory '%s': %w", d.path, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Read returns the content of one record artifact.
func (d *Dir) Read(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(d.path, name))
	if err != nil {
		return nil, fmt.Errorf("reading record '%s': %w", name, err)
	}
	return data, nil
}

// Discard is a sink that stores nothing, used for dry runs.
type Discard struct{}

func (Discard) Write(string, []byte) error { return nil }
func (Discard) Remove(string) error        { return nil }
