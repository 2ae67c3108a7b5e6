package renumber

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// Outcome is the terminal state of one entry after Apply.
type Outcome string

const (
	OutcomeRenamed Outcome = "renamed"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// Reason qualifies a skipped or failed outcome.
type Reason string

const (
	ReasonReserved      Reason = "reserved"
	ReasonUnchanged     Reason = "unchanged"
	ReasonLocked        Reason = "locked"
	ReasonPermission    Reason = "permission"
	ReasonNotFound      Reason = "notFound"
	ReasonNameCollision Reason = "nameCollision"
)

// EntryResult reports what happened to a single entry.
type EntryResult struct {
	From    string  `json:"from"`
	To      string  `json:"to,omitempty"`
	Outcome Outcome `json:"outcome"`
	Reason  Reason  `json:"reason,omitempty"`

	// StagedAs is set when the entry was moved to its intermediate name but
	// the final rename failed; the folder sits at this name on disk.
	StagedAs string `json:"stagedAs,omitempty"`
	Err      string `json:"error,omitempty"`
}

// Result aggregates the per-entry outcomes of one Apply. A Result with
// Failed > 0 is a partial success: the directory reflects exactly the
// outcomes listed here, not the originally requested order.
type Result struct {
	Dir     string        `json:"dir"`
	Entries []EntryResult `json:"entries"`
	Renamed int           `json:"renamed"`
	Skipped int           `json:"skipped"`
	Failed  int           `json:"failed"`
}

// Partial reports whether any entry failed.
func (r Result) Partial() bool { return r.Failed > 0 }

// FailedEntries returns the results that ended in failure.
func (r Result) FailedEntries() []EntryResult {
	var out []EntryResult
	for _, e := range r.Entries {
		if e.Outcome == OutcomeFailed {
			out = append(out, e)
		}
	}
	return out
}

const stageInfix = "~fsort~"

// Applier performs plan renames inside one directory. It is not safe for
// concurrent use; callers must serialize applies per directory.
type Applier struct {
	Dir string

	rename func(oldpath, newpath string) error
}

// NewApplier returns an applier for dir using os.Rename.
func NewApplier(dir string) *Applier {
	return &Applier{Dir: dir, rename: os.Rename}
}

type pendingStep struct {
	step   Step
	staged string
	result *EntryResult
}

// Apply executes a plan with a two-phase rename: every changing entry is
// first staged to a unique intermediate name, then each intermediate is
// renamed to its real target. Staging makes permutations safe: no rename is
// ever attempted onto a name still occupied by a not-yet-renamed sibling.
//
// Failures are isolated per entry. A folder that cannot be renamed (locked,
// missing, permission) is reported and left at whatever name it last
// reached; every other entry is still processed. Apply never returns a
// fatal error for a single uncooperative folder.
func (a *Applier) Apply(plan Plan) Result {
	res := Result{Dir: a.Dir, Entries: make([]EntryResult, len(plan.Steps))}

	var pending []pendingStep
	for i, s := range plan.Steps {
		r := &res.Entries[i]
		r.From = s.Entry.CurrentName
		switch {
		case s.Entry.Reserved:
			r.Outcome, r.Reason = OutcomeSkipped, ReasonReserved
		case s.Collision:
			r.Outcome, r.Reason = OutcomeFailed, ReasonNameCollision
			r.Err = fmt.Sprintf("target %q is already claimed by another entry", s.Target)
		case s.Target == s.Entry.CurrentName:
			r.Outcome, r.Reason = OutcomeSkipped, ReasonUnchanged
		default:
			pending = append(pending, pendingStep{step: s, result: r})
		}
	}

	// Names vacated by the plan itself: a target may equal one of these and
	// still be safe, because its holder moves away during staging.
	vacated := make(map[string]bool, len(pending))
	for _, p := range pending {
		vacated[p.step.Entry.CurrentName] = true
	}

	// Pre-flight: a target held by a folder outside the plan can never be
	// renamed onto; fail those entries before touching anything.
	for i := range pending {
		p := &pending[i]
		if vacated[p.step.Target] {
			continue
		}
		if _, err := os.Lstat(filepath.Join(a.Dir, p.step.Target)); err == nil {
			p.result.Outcome = OutcomeFailed
			p.result.Reason = ReasonNameCollision
			p.result.Err = fmt.Sprintf("%q already exists and is not part of this batch", p.step.Target)
		}
	}

	// Phase one: stage to intermediate names.
	for i := range pending {
		p := &pending[i]
		if p.result.Outcome != "" {
			continue
		}
		staged := a.stageName(p.step.Target, i)
		if err := a.rename(filepath.Join(a.Dir, p.step.Entry.CurrentName), filepath.Join(a.Dir, staged)); err != nil {
			p.result.Outcome = OutcomeFailed
			p.result.Reason = classifyRenameError(err)
			p.result.Err = err.Error()
			continue
		}
		p.staged = staged
	}

	// Phase two: commit intermediates to targets.
	for i := range pending {
		p := &pending[i]
		if p.staged == "" {
			continue
		}
		target := filepath.Join(a.Dir, p.step.Target)
		if _, err := os.Lstat(target); err == nil {
			// Occupied even after staging; refusing beats overwriting.
			p.result.Outcome = OutcomeFailed
			p.result.Reason = ReasonNameCollision
			p.result.StagedAs = p.staged
			p.result.Err = fmt.Sprintf("%q is still occupied", p.step.Target)
			continue
		}
		if err := a.rename(filepath.Join(a.Dir, p.staged), target); err != nil {
			p.result.Outcome = OutcomeFailed
			p.result.Reason = classifyRenameError(err)
			p.result.StagedAs = p.staged
			p.result.Err = err.Error()
			continue
		}
		p.result.Outcome = OutcomeRenamed
		p.result.To = p.step.Target
	}

	for _, e := range res.Entries {
		switch e.Outcome {
		case OutcomeRenamed:
			res.Renamed++
		case OutcomeSkipped:
			res.Skipped++
		case OutcomeFailed:
			res.Failed++
		}
	}
	return res
}

// stageName builds an intermediate name that cannot collide with a real
// folder: the stage infix never appears in plan targets, and the index
// makes it unique within the batch.
func (a *Applier) stageName(target string, i int) string {
	name := fmt.Sprintf("%s%s%d", target, stageInfix, i)
	for {
		if _, err := os.Lstat(filepath.Join(a.Dir, name)); err != nil {
			return name
		}
		name += "~"
	}
}

// IsStaged reports whether an on-disk name is a leftover intermediate from
// an interrupted or partially failed apply.
func IsStaged(name string) bool {
	return strings.Contains(name, stageInfix)
}

// classifyRenameError maps an os.Rename failure onto the per-entry error
// taxonomy. Unrecognized errors are reported as locked: it is the only
// bucket the user can act on (close the other program and retry).
func classifyRenameError(err error) Reason {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ReasonNotFound
	case errors.Is(err, fs.ErrPermission):
		return ReasonPermission
	case errors.Is(err, fs.ErrExist):
		return ReasonNameCollision
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.EBUSY, syscall.ETXTBSY:
			return ReasonLocked
		case syscall.ENOTEMPTY, syscall.EEXIST:
			return ReasonNameCollision
		}
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "used by another process") || strings.Contains(msg, "sharing violation") {
		return ReasonLocked
	}
	return ReasonLocked
}
