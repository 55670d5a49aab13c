package parquetread

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/parquet-go/parquet-go"
)

type fixtureRow struct {
	ID   int64   `parquet:"id"`
	When *string `parquet:"when,optional"`
}

func strPtr(s string) *string { return &s }

func writeFixture(t *testing.T, groups ...[]fixtureRow) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dates.parquet")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	w := parquet.NewGenericWriter[fixtureRow](f)
	for _, rows := range groups {
		if _, err := w.Write(rows); err != nil {
			t.Fatalf("write: %v", err)
		}
		if err := w.Flush(); err != nil {
			t.Fatalf("flush: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return path
}

func TestReadColumn(t *testing.T) {
	path := writeFixture(t,
		[]fixtureRow{{1, strPtr("01/02/2020")}, {2, nil}},
		[]fixtureRow{{3, strPtr("2020-02-01")}},
	)
	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	if r.NumRows() != 3 {
		t.Errorf("NumRows = %d, want 3", r.NumRows())
	}

	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	ch, err := r.ReadColumn("when", mem)
	if err != nil {
		t.Fatalf("ReadColumn: %v", err)
	}
	defer ch.Release()

	if ch.Len() != 3 {
		t.Fatalf("Len = %d, want 3", ch.Len())
	}
	var got []string
	for _, c := range ch.Chunks() {
		s := c.(*array.String)
		for i := 0; i < s.Len(); i++ {
			if s.IsNull(i) {
				got = append(got, "<null>")
			} else {
				got = append(got, s.Value(i))
			}
		}
	}
	want := []string{"01/02/2020", "<null>", "2020-02-01"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestValidateColumn(t *testing.T) {
	path := writeFixture(t, []fixtureRow{{1, strPtr("x")}})
	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	if _, err := ValidateColumn(r.Schema(), "when"); err != nil {
		t.Errorf("when: %v", err)
	}
	if _, err := ValidateColumn(r.Schema(), "id"); err == nil {
		t.Error("expected error for int64 column")
	}
	if _, err := ValidateColumn(r.Schema(), "missing"); err == nil {
		t.Error("expected error for missing column")
	}
	names := ColumnNames(r.Schema())
	if len(names) != 2 {
		t.Errorf("ColumnNames = %v", names)
	}
}

func TestOpen_NotParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.parquet")
	os.WriteFile(path, []byte("not parquet"), 0644)
	if _, err := Open(path); err == nil {
		t.Fatal("expected error")
	}
}
