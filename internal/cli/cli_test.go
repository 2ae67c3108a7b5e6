package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"foldsort/internal/renumber"
)

func runCLI(t *testing.T, args []string) (stdout, stderr []byte, err error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errBuf bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.Bytes(), errBuf.Bytes(), err
}

func seedDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		if err := os.Mkdir(filepath.Join(dir, n), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func statePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "state.json")
}

func diskNames(t *testing.T, dir string) []string {
	t.Helper()
	des, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var out []string
	for _, de := range des {
		out = append(out, de.Name())
	}
	sort.Strings(out)
	return out
}

func TestApply_NormalizesListingOrder(t *testing.T) {
	t.Parallel()

	dir := seedDir(t, "Cherry", "Apple", "Banana")
	sp := statePath(t)

	stdout, stderr, err := runCLI(t, []string{"--state", sp, "apply", dir})
	if err != nil {
		t.Fatalf("apply: %v\nstderr:\n%s", err, stderr)
	}

	var res renumber.Result
	if err := json.Unmarshal(stdout, &res); err != nil {
		t.Fatalf("decode result: %v\nout:\n%s", err, stdout)
	}
	if res.Renamed != 3 || res.Failed != 0 {
		t.Fatalf("result = %+v", res)
	}

	want := []string{"00_Apple", "01_Banana", "02_Cherry"}
	if got := diskNames(t, dir); !equal(got, want) {
		t.Fatalf("on disk %v, want %v", got, want)
	}
}

func TestApply_ExplicitOrderAndValidation(t *testing.T) {
	t.Parallel()

	dir := seedDir(t, "Apple", "Banana", "Cherry")
	sp := statePath(t)

	if _, stderr, err := runCLI(t, []string{"--state", sp, "apply", dir, "Cherry", "Apple"}); err == nil {
		t.Fatalf("incomplete order must fail, stderr:\n%s", stderr)
	}
	if _, _, err := runCLI(t, []string{"--state", sp, "apply", dir, "Cherry", "Apple", "Nope"}); err == nil {
		t.Fatal("unknown folder must fail")
	}

	if _, stderr, err := runCLI(t, []string{"--state", sp, "apply", dir, "Cherry", "Apple", "Banana"}); err != nil {
		t.Fatalf("apply: %v\nstderr:\n%s", err, stderr)
	}
	want := []string{"00_Cherry", "01_Apple", "02_Banana"}
	if got := diskNames(t, dir); !equal(got, want) {
		t.Fatalf("on disk %v, want %v", got, want)
	}
}

func TestReserve_ExcludedFromApplyAndClear(t *testing.T) {
	t.Parallel()

	dir := seedDir(t, "Alpha", "Beta", "KEEP")
	sp := statePath(t)

	if _, stderr, err := runCLI(t, []string{"--state", sp, "reserve", dir, "KEEP"}); err != nil {
		t.Fatalf("reserve: %v\nstderr:\n%s", err, stderr)
	}

	stdout, _, err := runCLI(t, []string{"--state", sp, "plan", dir})
	if err != nil {
		t.Fatal(err)
	}
	var pv planView
	if err := json.Unmarshal(stdout, &pv); err != nil {
		t.Fatalf("decode plan: %v", err)
	}
	for _, s := range pv.Steps {
		if s.From == "KEEP" {
			if !s.Reserved || s.To != "KEEP" || s.Changes {
				t.Fatalf("KEEP step = %+v", s)
			}
		}
	}

	if _, _, err := runCLI(t, []string{"--state", sp, "apply", dir}); err != nil {
		t.Fatal(err)
	}
	if got := diskNames(t, dir); !equal(got, []string{"00_Alpha", "01_Beta", "KEEP"}) {
		t.Fatalf("on disk %v", got)
	}

	if _, _, err := runCLI(t, []string{"--state", sp, "clear", dir}); err != nil {
		t.Fatal(err)
	}
	if got := diskNames(t, dir); !equal(got, []string{"Alpha", "Beta", "KEEP"}) {
		t.Fatalf("after clear %v", got)
	}
}

func TestUndo_RestoresPreviousNames(t *testing.T) {
	t.Parallel()

	dir := seedDir(t, "Cherry", "Apple")
	sp := statePath(t)

	if _, _, err := runCLI(t, []string{"--state", sp, "apply", dir}); err != nil {
		t.Fatal(err)
	}
	if got := diskNames(t, dir); !equal(got, []string{"00_Apple", "01_Cherry"}) {
		t.Fatalf("after apply %v", got)
	}

	if _, stderr, err := runCLI(t, []string{"--state", sp, "undo", dir}); err != nil {
		t.Fatalf("undo: %v\nstderr:\n%s", err, stderr)
	}
	if got := diskNames(t, dir); !equal(got, []string{"Apple", "Cherry"}) {
		t.Fatalf("after undo %v", got)
	}
}

func TestUndo_NothingRecorded(t *testing.T) {
	t.Parallel()

	dir := seedDir(t, "Apple")
	if _, _, err := runCLI(t, []string{"--state", statePath(t), "undo", dir}); err == nil {
		t.Fatal("undo with empty journal must fail")
	}
}

func TestHistory_RecordsBatches(t *testing.T) {
	t.Parallel()

	dir := seedDir(t, "Bbb", "Aaa")
	sp := statePath(t)

	if _, _, err := runCLI(t, []string{"--state", sp, "apply", dir}); err != nil {
		t.Fatal(err)
	}
	stdout, _, err := runCLI(t, []string{"--state", sp, "history", dir})
	if err != nil {
		t.Fatal(err)
	}
	var batches []map[string]any
	if err := json.Unmarshal(stdout, &batches); err != nil {
		t.Fatalf("decode history: %v\nout:\n%s", err, stdout)
	}
	if len(batches) != 1 {
		t.Fatalf("batches = %d, want 1", len(batches))
	}
	if batches[0]["kind"] != "renumber" {
		t.Fatalf("kind = %v", batches[0]["kind"])
	}
}

func TestMkdir_Deduplicates(t *testing.T) {
	t.Parallel()

	dir := seedDir(t, "New")
	sp := statePath(t)

	stdout, _, err := runCLI(t, []string{"--state", sp, "mkdir", dir, "New"})
	if err != nil {
		t.Fatal(err)
	}
	var out map[string]string
	if err := json.Unmarshal(stdout, &out); err != nil {
		t.Fatal(err)
	}
	if out["created"] != "New(1)" {
		t.Fatalf("created = %q", out["created"])
	}
}

func TestNotes_SetAndPrintRaw(t *testing.T) {
	t.Parallel()

	sp := statePath(t)
	if _, _, err := runCLI(t, []string{"--state", sp, "notes", "set", "# plan\n- ship it\n"}); err != nil {
		t.Fatal(err)
	}
	stdout, _, err := runCLI(t, []string{"--state", sp, "notes", "--raw"})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(stdout, []byte("ship it")) {
		t.Fatalf("raw notes output missing text: %q", stdout)
	}
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
