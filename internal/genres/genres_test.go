package genres

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFromNamesAssignsOneBasedLabels(t *testing.T) {
	e, err := FromNames([]string{"blues", " classical ", "", "hip_hop"})
	if err != nil {
		t.Fatalf("FromNames: %v", err)
	}
	if e.Len() != 3 {
		t.Fatalf("Len = %d, want 3", e.Len())
	}

	tests := []struct {
		label   int
		name    string
		display string
	}{
		{1, "blues", "Blues"},
		{2, "classical", "Classical"},
		{3, "hip_hop", "Hip Hop"},
	}
	for _, tt := range tests {
		name, ok := e.Name(tt.label)
		if !ok || name != tt.name {
			t.Errorf("Name(%d) = %q, %v; want %q", tt.label, name, ok, tt.name)
		}
		if got := e.Display(tt.label); got != tt.display {
			t.Errorf("Display(%d) = %q, want %q", tt.label, got, tt.display)
		}
		label, err := e.Label(tt.name)
		if err != nil || label != tt.label {
			t.Errorf("Label(%q) = %d, %v; want %d", tt.name, label, err, tt.label)
		}
	}

	if label, err := e.Label("BLUES"); err != nil || label != 1 {
		t.Fatalf("expected case-insensitive match, got %d %v", label, err)
	}
	if _, err := e.Label("polka"); !errors.Is(err, ErrUnknownGenre) {
		t.Fatalf("expected ErrUnknownGenre, got %v", err)
	}
	if got := e.Display(9); got != "genre 9" {
		t.Fatalf("Display(9) = %q", got)
	}
	if _, ok := e.Name(0); ok {
		t.Fatal("label 0 must be unknown")
	}
}

func TestFromNamesRejectsDuplicates(t *testing.T) {
	if _, err := FromNames([]string{"rock", "Rock"}); err == nil {
		t.Fatal("expected duplicate error")
	}
}

func TestFromDirectorySortsAndCaps(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"rock", "blues", "jazz", ".cache", "metal"} {
		if err := os.Mkdir(filepath.Join(root, name), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	e, err := FromDirectory(root, 3)
	if err != nil {
		t.Fatalf("FromDirectory: %v", err)
	}
	names := e.Names()
	want := []string{"blues", "jazz", "metal"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names = %v, want %v", names, want)
		}
	}
}

func TestNilEnumeration(t *testing.T) {
	var e *Enumeration
	if e.Len() != 0 || e.Display(2) != "genre 2" {
		t.Fatal("nil enumeration should behave as empty")
	}
}
