package persist

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDirPicksFirstUnusedName(t *testing.T) {
	dir := t.TempDir()
	d := Dir{Path: dir, Prefix: "shot"}

	for i, want := range []string{"shot0.png", "shot1.png", "shot2.png"} {
		f, err := d.Create("png")
		if err != nil {
			t.Fatalf("Create #%d: %v", i, err)
		}
		f.Close()
		if filepath.Base(f.Name()) != want {
			t.Fatalf("Create #%d = %s, want %s", i, f.Name(), want)
		}
	}

	os.Remove(filepath.Join(dir, "shot1.png"))
	name, err := d.Next("png")
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if filepath.Base(name) != "shot1.png" {
		t.Fatalf("Next = %s, want the freed shot1.png", name)
	}
}

func TestDirDefaultPrefixAndNestedPath(t *testing.T) {
	d := Dir{Path: filepath.Join(t.TempDir(), "out", "grids")}
	f, err := d.Create("txt")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer f.Close()
	if filepath.Base(f.Name()) != "grid0.txt" {
		t.Fatalf("name = %s, want grid0.txt", f.Name())
	}
}
