package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFormatOf(t *testing.T) {
	tests := map[string]Format{
		"a.parquet": Parquet,
		"a.CSV":     CSV,
		"dir/b.txt": CSV,
		"noext":     Parquet,
	}
	for in, want := range tests {
		if got := FormatOf(in); got != want {
			t.Errorf("FormatOf(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestReadColumn_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.csv")
	if err := os.WriteFile(path, []byte("when\n2020-01-01\n2020-01-02\n"), 0644); err != nil {
		t.Fatal(err)
	}
	ch, err := ReadColumn(path, "when", nil)
	if err != nil {
		t.Fatalf("ReadColumn: %v", err)
	}
	defer ch.Release()
	if ch.Len() != 2 {
		t.Errorf("Len = %d, want 2", ch.Len())
	}
}

func TestReadColumn_BadParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.parquet")
	os.WriteFile(path, []byte("junk"), 0644)
	if _, err := ReadColumn(path, "when", nil); err == nil {
		t.Fatal("expected error")
	}
}
