package renumber

import (
	"fmt"
	"testing"
)

func entriesFromNames(names []string, reserved map[string]bool) []Entry {
	out := make([]Entry, 0, len(names))
	for i, n := range names {
		out = append(out, NewEntry(n, reserved[n], i))
	}
	return out
}

func TestStripPrefix(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in, want string
	}{
		{"03_Photos", "Photos"},
		{"003_Photos", "Photos"},
		{"Photos", "Photos"},
		{"0_", "0_"},
		{"07_", "07_"},
		{"12", "12"},
		{"3_14_pi", "14_pi"},
		{"_Photos", "_Photos"},
	}
	for _, tc := range cases {
		if got := StripPrefix(tc.in); got != tc.want {
			t.Errorf("StripPrefix(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPrefixWidth(t *testing.T) {
	t.Parallel()

	cases := []struct {
		count, want int
	}{
		{0, 2},
		{1, 2},
		{9, 2},
		{42, 2},
		{100, 3},
		{1234, 4},
	}
	for _, tc := range cases {
		if got := PrefixWidth(tc.count); got != tc.want {
			t.Errorf("PrefixWidth(%d) = %d, want %d", tc.count, got, tc.want)
		}
	}
}

func TestComputePlan_AssignsSequentialTargets(t *testing.T) {
	t.Parallel()

	names := []string{"Cherry", "Apple", "Banana"}
	plan := ComputePlan(entriesFromNames(names, nil))

	want := []string{"00_Cherry", "01_Apple", "02_Banana"}
	if len(plan.Steps) != len(want) {
		t.Fatalf("got %d steps, want %d", len(plan.Steps), len(want))
	}
	for i, s := range plan.Steps {
		if s.Target != want[i] {
			t.Errorf("step %d: target %q, want %q", i, s.Target, want[i])
		}
	}
}

func TestComputePlan_ReservedKeepNamesAndSkipSequence(t *testing.T) {
	t.Parallel()

	names := []string{"Alpha", "KEEP", "Beta"}
	plan := ComputePlan(entriesFromNames(names, map[string]bool{"KEEP": true}))

	want := []string{"00_Alpha", "KEEP", "01_Beta"}
	for i, s := range plan.Steps {
		if s.Target != want[i] {
			t.Errorf("step %d: target %q, want %q", i, s.Target, want[i])
		}
	}
	// Reserved entry never appears as a rename source.
	if plan.Steps[1].Target != plan.Steps[1].Entry.CurrentName {
		t.Errorf("reserved entry remapped to %q", plan.Steps[1].Target)
	}
}

func TestComputePlan_Idempotent(t *testing.T) {
	t.Parallel()

	names := []string{"Cat", "Dog", "Fox"}
	first := ComputePlan(entriesFromNames(names, nil))

	renamed := make([]string, len(first.Steps))
	for i, s := range first.Steps {
		renamed[i] = s.Target
	}
	second := ComputePlan(entriesFromNames(renamed, nil))
	if second.Changed() {
		t.Fatalf("recomputed plan still wants changes: %+v", second.Steps)
	}
}

func TestComputePlan_SpecExample(t *testing.T) {
	t.Parallel()

	// On disk: 02_Cat, 00_Dog, 01_Fox. Desired order Dog, Fox, Cat is
	// already consistent with the prefixes: no renames needed.
	consistent := ComputePlan(entriesFromNames([]string{"00_Dog", "01_Fox", "02_Cat"}, nil))
	if consistent.Changed() {
		t.Fatalf("consistent order should be a no-op, got %+v", consistent.Steps)
	}

	// Desired order Fox, Dog, Cat changes the relative order: Fox and Dog
	// get new prefixes, Cat keeps its name.
	plan := ComputePlan(entriesFromNames([]string{"01_Fox", "00_Dog", "02_Cat"}, nil))
	want := map[string]string{
		"01_Fox": "00_Fox",
		"00_Dog": "01_Dog",
		"02_Cat": "02_Cat",
	}
	for _, s := range plan.Steps {
		if s.Target != want[s.Entry.CurrentName] {
			t.Errorf("%s -> %s, want %s", s.Entry.CurrentName, s.Target, want[s.Entry.CurrentName])
		}
	}
}

func TestComputePlan_WidthGrowsWithCount(t *testing.T) {
	t.Parallel()

	names := make([]string, 100)
	for i := range names {
		names[i] = fmt.Sprintf("folder-%d", i)
	}
	plan := ComputePlan(entriesFromNames(names, nil))
	if got := plan.Steps[0].Target; got != "000_folder-0" {
		t.Errorf("first target = %q, want 000_folder-0", got)
	}
	if got := plan.Steps[99].Target; got != "099_folder-99" {
		t.Errorf("last target = %q, want 099_folder-99", got)
	}
}

func TestComputePlan_ReservedNameCollision(t *testing.T) {
	t.Parallel()

	// A reserved folder already holding the name a non-reserved entry would
	// be assigned must win; the non-reserved step is flagged.
	entries := []Entry{
		NewEntry("Dog", false, 0),
		NewEntry("00_Dog", true, 1),
	}
	plan := ComputePlan(entries)
	if !plan.Steps[0].Collision {
		t.Fatalf("expected collision on %q -> %q", plan.Steps[0].Entry.CurrentName, plan.Steps[0].Target)
	}
	if plan.Steps[1].Collision {
		t.Fatalf("reserved step must never collide")
	}
}

func TestClearPlan(t *testing.T) {
	t.Parallel()

	names := []string{"00_Alpha", "01_KEEP", "02_Beta"}
	plan := ClearPlan(entriesFromNames(names, map[string]bool{"01_KEEP": true}))

	want := []string{"Alpha", "01_KEEP", "Beta"}
	for i, s := range plan.Steps {
		if s.Target != want[i] {
			t.Errorf("step %d: target %q, want %q", i, s.Target, want[i])
		}
	}
}

func TestClearPlan_DuplicateBaseNames(t *testing.T) {
	t.Parallel()

	plan := ClearPlan(entriesFromNames([]string{"00_X", "01_X"}, nil))
	if plan.Steps[0].Collision {
		t.Errorf("first claimant should keep its bare name")
	}
	if !plan.Steps[1].Collision {
		t.Errorf("second entry sharing base name must be flagged as collision")
	}
}

func TestPlanTargetsPairwiseUnique(t *testing.T) {
	t.Parallel()

	names := []string{"03_a", "01_b", "b", "KEEP", "02_c"}
	plan := ComputePlan(entriesFromNames(names, map[string]bool{"KEEP": true}))
	seen := map[string]bool{}
	for _, s := range plan.Steps {
		if s.Collision {
			continue
		}
		if seen[s.Target] {
			t.Fatalf("duplicate target %q", s.Target)
		}
		seen[s.Target] = true
	}
}
