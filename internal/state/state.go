// Package state persists the small user-facing record the app restores on
// launch: last opened directory, per-directory reserved folders, note text.
// The renumbering engine never reads this file; it only receives the
// reserved set as plain data.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

const stateFileName = "state.json"

// State is the on-disk JSON record. It is intentionally best effort:
// missing or corrupt files load as defaults.
type State struct {
	Version int `json:"version"`

	// LastPath is the directory reopened on launch.
	LastPath string `json:"lastPath,omitempty"`

	// Reserved maps a directory path to the sorted base names of its
	// reserved folders.
	Reserved map[string][]string `json:"reserved,omitempty"`

	// Notes holds the free-form note text (markdown).
	Notes string `json:"notes,omitempty"`

	// AutoApply renames immediately after each reorder instead of waiting
	// for an explicit apply.
	AutoApply bool `json:"autoApply,omitempty"`
}

// DefaultPath returns the per-user state file location.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(base, "foldsort", stateFileName), nil
}

// Load reads the state file at path, returning defaults when it is missing
// or unreadable as JSON.
func Load(path string) (*State, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &State{Version: 1}, nil
		}
		return nil, err
	}
	var st State
	if err := json.Unmarshal(b, &st); err != nil {
		// Best-effort; if corrupted, treat as missing.
		return &State{Version: 1}, nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	return &st, nil
}

// Save writes the state atomically (temp file + rename).
func Save(path string, st *State) error {
	if st == nil {
		return nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// ReservedFor returns the reserved base-name set for a directory.
func (s *State) ReservedFor(dir string) map[string]bool {
	out := map[string]bool{}
	for _, n := range s.Reserved[filepath.Clean(dir)] {
		out[n] = true
	}
	return out
}

// SetReserved flags or unflags a base name for a directory, keeping the
// stored list sorted and free of duplicates.
func (s *State) SetReserved(dir, baseName string, on bool) {
	dir = filepath.Clean(dir)
	set := s.ReservedFor(dir)
	if set[baseName] == on {
		return
	}
	if on {
		set[baseName] = true
	} else {
		delete(set, baseName)
	}
	if len(set) == 0 {
		if s.Reserved != nil {
			delete(s.Reserved, dir)
		}
		return
	}
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	if s.Reserved == nil {
		s.Reserved = map[string][]string{}
	}
	s.Reserved[dir] = names
}
