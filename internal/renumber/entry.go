// Package renumber computes and applies the renames that keep numeric
// folder-name prefixes ("03_Photos") in sync with a user-chosen order.
//
// The package is deliberately split along a plan/apply seam: ComputePlan and
// ClearPlan are pure and never touch the filesystem, Applier.Apply performs
// the renames and reports a per-entry outcome. Callers own ordering, the
// reserved set, and persistence.
package renumber

import (
	"regexp"
	"strconv"
)

// Separator sits between the numeric prefix and the base name.
const Separator = "_"

var prefixRe = regexp.MustCompile(`^\d+_`)

// Entry is one managed folder inside a single directory.
type Entry struct {
	// CurrentName is the folder's on-disk name, prefix and all.
	CurrentName string
	// BaseName is CurrentName with any numeric prefix stripped.
	BaseName string
	// Reserved entries are excluded from renumbering and keep their
	// on-disk name exactly.
	Reserved bool
	// Position is the 0-based index in the desired order.
	Position int
}

// NewEntry derives the base name from the on-disk name.
func NewEntry(name string, reserved bool, position int) Entry {
	return Entry{
		CurrentName: name,
		BaseName:    StripPrefix(name),
		Reserved:    reserved,
		Position:    position,
	}
}

// StripPrefix removes a leading "<digits>_" prefix. A name that consists of
// nothing but a prefix (e.g. "07_") is returned unchanged rather than
// collapsing to the empty string.
func StripPrefix(name string) string {
	base := prefixRe.ReplaceAllString(name, "")
	if base == "" {
		return name
	}
	return base
}

// HasPrefix reports whether name carries a numeric prefix.
func HasPrefix(name string) bool {
	return prefixRe.MatchString(name) && StripPrefix(name) != name
}

// PrefixWidth returns the zero-padding width for a given count of
// non-reserved entries: enough digits for the largest index, never fewer
// than two ("00_", "01_", ...).
func PrefixWidth(count int) int {
	w := len(strconv.Itoa(count))
	if w < 2 {
		w = 2
	}
	return w
}
