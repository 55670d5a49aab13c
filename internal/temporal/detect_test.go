package temporal

import "testing"

func TestDetect(t *testing.T) {
	tests := []struct {
		sample string
		want   Family
		ok     bool
	}{
		{"01/02/2020", DateDMY, true},
		{"1-2-2020", DateDMY, true},
		{"31.12.2021", DateDMY, true},
		{"2020-02-01", DateYMD, true},
		{"2020/2/1", DateYMD, true},
		{"20200201", DateYMD, true},
		{"31/12/2021 23:59:59", DatetimeDMY, true},
		{"31-12-2021 23:59", DatetimeDMY, true},
		{"2021-05-06 10:00:00", DatetimeYMD, true},
		{"2021-05-06T10:00:00", DatetimeYMD, true},
		{"2021-05-06T10:00:00.123456", DatetimeYMD, true},
		{"2021-05-06T10:00", DatetimeYMD, true},
		{"not a date", 0, false},
		{"", 0, false},
		{"31/02/2020", 0, false},
		{"2021-13-01", 0, false},
		{"2021-05-06 10:00:00 +0200", 0, false},
	}
	for _, tt := range tests {
		got, ok := Detect(tt.sample)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("Detect(%q) = %v, %v; want %v, %v", tt.sample, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDetect_AgreesWithCatalogScan(t *testing.T) {
	c := DefaultCatalog()
	samples := []string{
		"01/02/2020", "2020-02-01", "01.02.2020 10:11:12", "2020/02/01 10:11:12",
		"20200201 10:11:12", "garbage", "10-10-1010", "1999-12-31T23:59:59.999",
	}
	for _, s := range samples {
		f, ok := c.Detect(s)
		if !ok {
			for _, other := range AllFamilies() {
				if _, hit := c.Match(other, s); hit {
					t.Errorf("Detect(%q) found nothing but %s matches", s, other)
				}
			}
			continue
		}
		if _, hit := c.Match(f, s); !hit {
			t.Errorf("Detect(%q) = %s but a direct scan of %s does not match", s, f, f)
		}
		for _, earlier := range AllFamilies() {
			if earlier == f {
				break
			}
			if _, hit := c.Match(earlier, s); hit {
				t.Errorf("Detect(%q) = %s but earlier family %s matches", s, f, earlier)
			}
		}
	}
}

func TestDetect_DayFirstWinsAmbiguity(t *testing.T) {
	// "10101010" reads as 10 Oct 1010 either way round.
	c, err := NewCatalog(map[Family][]string{DateDMY: {"%d%m%Y"}})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	if _, ok := c.Match(DateYMD, "10101010"); !ok {
		t.Fatal("sample should also be a valid year-first date")
	}
	if got, ok := c.Detect("10101010"); !ok || got != DateDMY {
		t.Errorf("Detect = %v, %v; want %v", got, ok, DateDMY)
	}
}

func TestDetect_DateBeforeDatetime(t *testing.T) {
	order := AllFamilies()
	want := []Family{DateDMY, DateYMD, DatetimeDMY, DatetimeYMD}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("detection order = %v, want %v", order, want)
		}
	}
	// Every date family is tried before every datetime family.
	seenDatetime := false
	for _, f := range order {
		if !f.IsDate() {
			seenDatetime = true
		} else if seenDatetime {
			t.Errorf("%s is tried after a datetime family", f)
		}
	}
}

func TestDetect_ConcurrentUse(t *testing.T) {
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 200; j++ {
				if f, ok := Detect("2021-05-06 10:00:00"); !ok || f != DatetimeYMD {
					t.Errorf("Detect = %v, %v", f, ok)
					return
				}
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
