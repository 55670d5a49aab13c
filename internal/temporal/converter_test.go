package temporal

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
)

func dmyCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := NewCatalog(map[Family][]string{DateDMY: {"%d/%m/%Y", "%d-%m-%Y"}})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return c
}

func TestConverter_WrongFamily(t *testing.T) {
	for _, f := range []Family{DatetimeDMY, DatetimeYMD, Family(5)} {
		if _, err := NewDateConverter(f); !errors.Is(err, ErrUnsupportedFamily) {
			t.Errorf("NewDateConverter(%s) err = %v, want ErrUnsupportedFamily", f, err)
		}
	}
	for _, f := range []Family{DateDMY, DateYMD, Family(5)} {
		if _, err := NewDatetimeConverter(f); !errors.Is(err, ErrUnsupportedFamily) {
			t.Errorf("NewDatetimeConverter(%s) err = %v, want ErrUnsupportedFamily", f, err)
		}
	}
	if _, err := DefaultCatalog().NewConverter(Family(5)); !errors.Is(err, ErrUnsupportedFamily) {
		t.Errorf("NewConverter err = %v", err)
	}
}

func TestConverter_InitialLatestIsFirstPattern(t *testing.T) {
	for _, f := range AllFamilies() {
		conv, err := DefaultCatalog().NewConverter(f)
		if err != nil {
			t.Fatalf("NewConverter(%s): %v", f, err)
		}
		if got, want := conv.Latest(), DefaultPatterns(f)[0]; got != want {
			t.Errorf("%s: Latest = %q, want %q", f, got, want)
		}
		if conv.Family() != f {
			t.Errorf("Family = %s, want %s", conv.Family(), f)
		}
	}
}

func TestConverter_ParseDates(t *testing.T) {
	conv, err := dmyCatalog(t).DateConverter(DateDMY)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		in     string
		want   int32
		ok     bool
		latest string
	}{
		{"01/02/2020", 18293, true, "%d/%m/%Y"},
		{"03-04-2021", 18720, true, "%d-%m-%Y"},
		{"bad", 0, false, "%d-%m-%Y"},
		{"01/01/1970", 0, true, "%d/%m/%Y"},
		{"31/12/1969", -1, true, "%d/%m/%Y"},
		{"01/01/1969", -365, true, "%d/%m/%Y"},
	}
	for _, tt := range tests {
		got, ok := conv.Parse(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Parse(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
		if conv.Latest() != tt.latest {
			t.Errorf("after %q Latest = %q, want %q", tt.in, conv.Latest(), tt.latest)
		}
	}
}

func TestConverter_ParseDatetimes(t *testing.T) {
	conv, err := NewDatetimeConverter(DatetimeYMD)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2021-05-06 10:00:00", time.Date(2021, 5, 6, 10, 0, 0, 0, time.UTC)},
		{"2021-05-06 10:00:00.123456", time.Date(2021, 5, 6, 10, 0, 0, 123456000, time.UTC)},
		{"2021-05-06T23:59", time.Date(2021, 5, 6, 23, 59, 0, 0, time.UTC)},
		{"1969-12-31 23:59:59", time.Date(1969, 12, 31, 23, 59, 59, 0, time.UTC)},
		{"20000229 12:00:00", time.Date(2000, 2, 29, 12, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, ok := conv.Parse(tt.in)
		if !ok {
			t.Errorf("Parse(%q) failed", tt.in)
			continue
		}
		if want := tt.want.UnixMicro(); got != want {
			t.Errorf("Parse(%q) = %d, want %d", tt.in, got, want)
		}
		if back := MicrosToTime(got); !back.Equal(tt.want) {
			t.Errorf("MicrosToTime(%d) = %s, want %s", got, back, tt.want)
		}
	}
	if got, _ := conv.Parse("1970-01-01 00:00:00"); got != 0 {
		t.Errorf("epoch = %d, want 0", got)
	}
	if got, _ := conv.Parse("1969-12-31 23:59:59"); got != -1_000_000 {
		t.Errorf("one second before epoch = %d, want -1000000", got)
	}
}

func TestConverter_FractionSwitchesPattern(t *testing.T) {
	tests := []struct {
		f          Family
		whole, frac string
		latest     string
	}{
		{DatetimeYMD, "2021-05-06 10:00:00", "2021-05-06 10:00:00.5", "%Y-%m-%d %H:%M:%S%.f"},
		{DatetimeDMY, "01/02/2020 10:11:12", "01/02/2020 10:11:12.5", "%d/%m/%Y %H:%M:%S%.f"},
	}
	for _, tt := range tests {
		t.Run(tt.f.String(), func(t *testing.T) {
			conv, err := NewDatetimeConverter(tt.f)
			if err != nil {
				t.Fatal(err)
			}
			whole, ok := conv.Parse(tt.whole)
			if !ok {
				t.Fatalf("Parse(%q) failed", tt.whole)
			}
			frac, ok := conv.Parse(tt.frac)
			if !ok {
				t.Fatalf("Parse(%q) failed", tt.frac)
			}
			if frac-whole != 500000 {
				t.Errorf("fraction = %dus, want 500000", frac-whole)
			}
			if conv.Latest() != tt.latest {
				t.Errorf("Latest = %q, want %q", conv.Latest(), tt.latest)
			}
			if got := conv.Stats(); got.FastPath != 1 || got.Rescans != 1 {
				t.Errorf("Stats = %+v, want one fast path and one rescan", got)
			}
		})
	}
}

func TestConverter_DateMatchesDaysToTime(t *testing.T) {
	conv, err := NewDateConverter(DateYMD)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range []string{"1900-03-01", "1999-12-31", "2000-02-29", "2038-01-19", "2262-04-11"} {
		days, ok := conv.Parse(s)
		if !ok {
			t.Fatalf("Parse(%q) failed", s)
		}
		if got := DaysToTime(days).Format("2006-01-02"); got != s {
			t.Errorf("DaysToTime(Parse(%q)) = %s", s, got)
		}
	}
}

func TestConverter_AdaptiveCaching(t *testing.T) {
	conv, err := dmyCatalog(t).DateConverter(DateDMY)
	if err != nil {
		t.Fatal(err)
	}
	const n, m = 50, 30
	for i := 0; i < n; i++ {
		if _, ok := conv.Parse("15/06/2020"); !ok {
			t.Fatal("slash value did not parse")
		}
	}
	for i := 0; i < m; i++ {
		if _, ok := conv.Parse("15-06-2020"); !ok {
			t.Fatal("dash value did not parse")
		}
	}
	st := conv.Stats()
	if st.Rescans != 1 {
		t.Errorf("Rescans = %d, want 1", st.Rescans)
	}
	if st.FastPath != n+m-1 {
		t.Errorf("FastPath = %d, want %d", st.FastPath, n+m-1)
	}
	if st.Matched() != n+m || st.Misses != 0 {
		t.Errorf("Stats = %+v", st)
	}
}

func TestConverter_MissLeavesStateUnchanged(t *testing.T) {
	conv, err := dmyCatalog(t).DateConverter(DateDMY)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := conv.Parse("03-04-2021"); !ok {
		t.Fatal("expected match")
	}
	before := conv.Latest()
	for _, s := range []string{"", "garbage", "2021-04-03", "32-01-2021"} {
		if _, ok := conv.Parse(s); ok {
			t.Errorf("Parse(%q) unexpectedly matched", s)
		}
		if conv.Latest() != before {
			t.Errorf("Latest changed to %q after miss on %q", conv.Latest(), s)
		}
	}
	if st := conv.Stats(); st.Misses != 4 {
		t.Errorf("Misses = %d, want 4", st.Misses)
	}
}

func TestConverter_LatestAlwaysInFamily(t *testing.T) {
	conv, err := NewDatetimeConverter(DatetimeDMY)
	if err != nil {
		t.Fatal(err)
	}
	known := map[string]bool{}
	for _, p := range DefaultPatterns(DatetimeDMY) {
		known[p] = true
	}
	inputs := []string{
		"01/02/2020 10:11:12", "01-02-2020 10:11", "nope", "01.02.2020 10:11:12",
		"01/02/2020 10:11", "2020-02-01 10:11:12", "01-02-2020 10:11:12.5",
	}
	for _, s := range inputs {
		conv.Parse(s)
		if !known[conv.Latest()] {
			t.Fatalf("Latest %q is not a DatetimeDMY pattern", conv.Latest())
		}
	}
}

func TestConverter_ParseRaw(t *testing.T) {
	conv, err := DefaultCatalog().NewConverter(DateYMD)
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := conv.ParseRaw("2020-02-01"); !ok || v != 18293 {
		t.Errorf("ParseRaw = %d, %v", v, ok)
	}
	if _, ok := conv.ParseRaw("01/02/2020"); ok {
		t.Error("day-first value should not parse as DateYMD")
	}
}
