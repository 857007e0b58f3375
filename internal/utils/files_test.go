package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSafeWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.md")
	if err := SafeWriteFile(path, []byte("one")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := SafeWriteFile(path, []byte("two")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil || string(b) != "two" {
		t.Fatalf("unexpected content %q (%v)", b, err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind")
	}
}

func TestUniquePath(t *testing.T) {
	dir := t.TempDir()
	taken := map[string]struct{}{}
	if err := os.WriteFile(filepath.Join(dir, "a.adverse-impact.md"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	got := []string{
		UniquePath(dir, "a", ".adverse-impact.md", taken),
		UniquePath(dir, "a", ".adverse-impact.md", taken),
		UniquePath(dir, "b", ".adverse-impact.md", taken),
		UniquePath(dir, "b", ".adverse-impact.md", taken),
	}
	want := []string{"a__2.adverse-impact.md", "a__3.adverse-impact.md", "b.adverse-impact.md", "b__2.adverse-impact.md"}
	for i := range want {
		if filepath.Base(got[i]) != want[i] {
			t.Fatalf("path %d: got %s want %s", i, filepath.Base(got[i]), want[i])
		}
	}
}

func TestPrettyJSON(t *testing.T) {
	b, err := PrettyJSON(map[string]int{"a": 1})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "{\n  \"a\": 1\n}" {
		t.Fatalf("unexpected json %q", b)
	}
}
