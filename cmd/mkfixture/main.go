// mkfixture writes a Parquet fixture whose string column holds dates in
// drifting formats of one family, with nulls and junk sprinkled in.
// Usage: go run ./cmd/mkfixture --out testdata/mixed-dmy.parquet --family date-dmy --rows 5000
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	goparquet "github.com/parquet-go/parquet-go"

	"github.com/gyeh/tempinfer/internal/infer"
	"github.com/gyeh/tempinfer/internal/normalize"
	"github.com/gyeh/tempinfer/internal/parquetread"
	"github.com/gyeh/tempinfer/internal/temporal"
)

// formatLayout renders a pattern as a zero-padded Go layout. The parse
// layouts are unpadded, which is ambiguous when formatting %Y%m%d.
var formatLayout = strings.NewReplacer(
	"%Y", "2006", "%y", "06", "%m", "01", "%d", "02", "%e", "_2",
	"%H", "15", "%M", "04", "%S", "05", "%.f", ".000",
	"%F", "2006-01-02", "%T", "15:04:05", "%%", "%",
)

type fixtureRow struct {
	ID   int64   `parquet:"id"`
	When *string `parquet:"when,optional"`
}

func main() {
	out := flag.String("out", "testdata/mixed.parquet", "output parquet")
	family := flag.String("family", "date-dmy", "family whose patterns generate the values")
	rows := flag.Int("rows", 5000, "rows to write")
	rowGroup := flag.Int64("row-group", 1000, "rows per row group")
	block := flag.Int("block", 250, "average run length before the format drifts")
	nullRate := flag.Float64("null-rate", 0.02, "fraction of null or NA values")
	junkRate := flag.Float64("junk-rate", 0.01, "fraction of values matching no pattern")
	seed := flag.Int64("seed", 1, "random seed")
	checkOnly := flag.Bool("check", false, "only vote on the existing --out file, don't write")
	flag.Parse()

	if *checkOnly {
		if err := check(*out); err != nil {
			fmt.Fprintf(os.Stderr, "check: %v\n", err)
			os.Exit(1)
		}
		return
	}

	f, err := temporal.ParseFamily(*family)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	patterns := temporal.DefaultCatalog().Patterns(f)
	rng := rand.New(rand.NewSource(*seed))

	data := make([]fixtureRow, *rows)
	base := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	span := int64(40 * 365 * 24 * time.Hour / time.Second)
	current := patterns[0]
	switches := 0
	for i := range data {
		if i > 0 && rng.Intn(*block) == 0 {
			next := patterns[rng.Intn(len(patterns))]
			if next.String() != current.String() {
				switches++
			}
			current = next
		}
		data[i].ID = int64(i)
		r := rng.Float64()
		switch {
		case r < *nullRate/2:
			// null
		case r < *nullRate:
			s := "NA"
			data[i].When = &s
		case r < *nullRate+*junkRate:
			s := fmt.Sprintf("junk-%d", rng.Intn(1000))
			data[i].When = &s
		default:
			t := base.Add(time.Duration(rng.Int63n(span)) * time.Second)
			s := t.Format(formatLayout.Replace(current.String()))
			data[i].When = &s
		}
	}

	file, err := os.Create(*out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create output: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	w := goparquet.NewGenericWriter[fixtureRow](file, goparquet.MaxRowsPerRowGroup(*rowGroup))
	if _, err := w.Write(data); err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		os.Exit(1)
	}
	if err := w.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "close writer: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d rows to %s (%s, %d format switches)\n", len(data), *out, f, switches)
}

func check(path string) error {
	r, err := parquetread.Open(path)
	if err != nil {
		return err
	}
	defer r.Close()

	col, err := r.ReadColumn("when", nil)
	if err != nil {
		return err
	}
	defer col.Release()

	strs, err := temporal.ChunkedStrings(col)
	if err != nil {
		return err
	}
	tokens := normalize.NewNullTokens(normalize.DefaultNullTokens())
	res := infer.Vote(tokens.Clean(strs), 0)
	fmt.Printf("Rows: %d in %d row groups\n", col.Len(), len(col.Chunks()))
	for _, f := range temporal.AllFamilies() {
		fmt.Printf("  %-14s %6d\n", f, res.Votes[f])
	}
	fmt.Printf("  %-14s %6d\n", "unmatched", res.Unmatched)
	if res.Found {
		fmt.Printf("Winner: %s (%.1f%%)\n", res.Family, res.Share()*100)
	}
	return nil
}
