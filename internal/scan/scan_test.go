package scan

import (
	"os"
	"path/filepath"
	"testing"
)

func TestList_DirsOnlySortedWithReserved(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, n := range []string{"02_Cat", "00_Dog", "01_Fox"} {
		if err := os.Mkdir(filepath.Join(dir, n), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, err := List(dir, map[string]bool{"Fox": true})
	if err != nil {
		t.Fatal(err)
	}

	wantNames := []string{"00_Dog", "01_Fox", "02_Cat"}
	got := Names(entries)
	if len(got) != len(wantNames) {
		t.Fatalf("got %v, want %v", got, wantNames)
	}
	for i := range wantNames {
		if got[i] != wantNames[i] {
			t.Errorf("entry %d = %q, want %q", i, got[i], wantNames[i])
		}
		if entries[i].Position != i {
			t.Errorf("entry %d position = %d", i, entries[i].Position)
		}
	}
	if !entries[1].Reserved {
		t.Errorf("01_Fox should be reserved via base name")
	}
	if entries[0].BaseName != "Dog" {
		t.Errorf("base name = %q, want Dog", entries[0].BaseName)
	}
}

func TestCreateFolder_DeduplicatesName(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first, err := CreateFolder(dir, "New")
	if err != nil {
		t.Fatal(err)
	}
	if first != "New" {
		t.Fatalf("first = %q", first)
	}
	second, err := CreateFolder(dir, "New")
	if err != nil {
		t.Fatal(err)
	}
	if second != "New(1)" {
		t.Fatalf("second = %q, want New(1)", second)
	}
	third, err := CreateFolder(dir, "New")
	if err != nil {
		t.Fatal(err)
	}
	if third != "New(2)" {
		t.Fatalf("third = %q, want New(2)", third)
	}
}

func TestRenameFolder_RefusesOverwrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, n := range []string{"a", "b"} {
		if err := os.Mkdir(filepath.Join(dir, n), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	if err := RenameFolder(dir, "a", "b"); err == nil {
		t.Fatal("expected error renaming onto existing folder")
	}
	if err := RenameFolder(dir, "a", "c"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "c")); err != nil {
		t.Fatal(err)
	}
}
