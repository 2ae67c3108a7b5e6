package renumber

import (
	"fmt"
	"sort"
)

// Step pairs an entry with the name it should end up at.
type Step struct {
	Entry  Entry
	Target string

	// Collision marks a step whose target duplicates another step's target
	// (possible when clearing prefixes from entries that share a base name).
	// Apply reports such steps as failed without touching the folder.
	Collision bool
}

// Plan is the full set of per-entry targets for one directory, in position
// order. Plans are value types; recomputing from the same entries always
// yields the same plan.
type Plan struct {
	Steps []Step
}

// Changed reports whether any step actually requires a rename.
func (p Plan) Changed() bool {
	for _, s := range p.Steps {
		if !s.Entry.Reserved && s.Target != s.Entry.CurrentName {
			return true
		}
	}
	return false
}

// TargetFor returns the planned name for a current on-disk name.
func (p Plan) TargetFor(currentName string) (string, bool) {
	for _, s := range p.Steps {
		if s.Entry.CurrentName == currentName {
			return s.Target, true
		}
	}
	return "", false
}

// ComputePlan assigns sequential zero-padded prefixes to the non-reserved
// entries in position order. Reserved entries map to themselves and do not
// consume a sequence number. The function is pure: no filesystem access.
func ComputePlan(entries []Entry) Plan {
	ordered := sortedByPosition(entries)

	nonReserved := 0
	for _, e := range ordered {
		if !e.Reserved {
			nonReserved++
		}
	}
	width := PrefixWidth(nonReserved)

	steps := make([]Step, 0, len(ordered))
	seq := 0
	for _, e := range ordered {
		if e.Reserved {
			steps = append(steps, Step{Entry: e, Target: e.CurrentName})
			continue
		}
		target := fmt.Sprintf("%0*d%s%s", width, seq, Separator, e.BaseName)
		steps = append(steps, Step{Entry: e, Target: target})
		seq++
	}
	return markCollisions(Plan{Steps: steps})
}

// ClearPlan targets every non-reserved entry at its bare base name,
// removing numbering entirely. Reserved entries keep their names.
func ClearPlan(entries []Entry) Plan {
	ordered := sortedByPosition(entries)
	steps := make([]Step, 0, len(ordered))
	for _, e := range ordered {
		if e.Reserved {
			steps = append(steps, Step{Entry: e, Target: e.CurrentName})
			continue
		}
		steps = append(steps, Step{Entry: e, Target: e.BaseName})
	}
	return markCollisions(Plan{Steps: steps})
}

func sortedByPosition(entries []Entry) []Entry {
	out := append([]Entry{}, entries...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Position < out[j].Position
	})
	return out
}

// markCollisions flags every step whose target is already claimed by an
// earlier step. First claim wins; reserved steps claim their current name
// before any non-reserved step, since they are guaranteed to keep it.
func markCollisions(p Plan) Plan {
	claimed := make(map[string]bool, len(p.Steps))
	for _, s := range p.Steps {
		if s.Entry.Reserved {
			claimed[s.Target] = true
		}
	}
	for i := range p.Steps {
		s := &p.Steps[i]
		if s.Entry.Reserved {
			continue
		}
		if claimed[s.Target] {
			s.Collision = true
			continue
		}
		claimed[s.Target] = true
	}
	return p
}
