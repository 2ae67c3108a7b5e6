// Package scan lists the managed subfolders of a directory and turns them
// into renumber entries.
package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"foldsort/internal/renumber"
)

// List returns the immediate subdirectories of dir as entries in lexical
// order, which matches the numbered-prefix order on disk. Files are
// ignored. Reserved flags are merged in by base name.
func List(dir string, reserved map[string]bool) ([]renumber.Entry, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	names := make([]string, 0, len(des))
	for _, de := range des {
		if !de.IsDir() {
			continue
		}
		names = append(names, de.Name())
	}
	sort.Strings(names)

	entries := make([]renumber.Entry, 0, len(names))
	for i, n := range names {
		entries = append(entries, renumber.NewEntry(n, reserved[renumber.StripPrefix(n)], i))
	}
	return entries, nil
}

// Names projects the current on-disk names out of an entry slice.
// The UI compares successive listings with this to detect external changes.
func Names(entries []renumber.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.CurrentName)
	}
	return out
}

// CreateFolder makes a new subfolder, de-duplicating the name with a "(n)"
// suffix when taken. Returns the name actually created.
func CreateFolder(dir, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("create folder: empty name")
	}
	candidate := name
	for n := 1; ; n++ {
		if _, err := os.Lstat(filepath.Join(dir, candidate)); os.IsNotExist(err) {
			break
		}
		candidate = fmt.Sprintf("%s(%d)", name, n)
	}
	if err := os.Mkdir(filepath.Join(dir, candidate), 0o755); err != nil {
		return "", fmt.Errorf("create folder %s: %w", candidate, err)
	}
	return candidate, nil
}

// RenameFolder renames a single folder in place, refusing to overwrite.
func RenameFolder(dir, oldName, newName string) error {
	if newName == "" || newName == oldName {
		return nil
	}
	newPath := filepath.Join(dir, newName)
	if _, err := os.Lstat(newPath); err == nil {
		return fmt.Errorf("rename %s: %q already exists", oldName, newName)
	}
	if err := os.Rename(filepath.Join(dir, oldName), newPath); err != nil {
		return fmt.Errorf("rename %s: %w", oldName, err)
	}
	return nil
}

// DeleteFolder removes a subfolder and everything under it.
func DeleteFolder(dir, name string) error {
	if name == "" || name == "." || name == ".." {
		return fmt.Errorf("delete folder: invalid name %q", name)
	}
	if err := os.RemoveAll(filepath.Join(dir, name)); err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	return nil
}
