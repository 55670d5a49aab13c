package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gyeh/tempinfer/internal/temporal"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFromFile_Valid(t *testing.T) {
	path := writeConfig(t, `
sample_size: 250
null_values: ["", "-", "n/a"]
table: dates_out
batch_size: 512
workers: 4
patterns:
  date-dmy:
    - "%d/%m/%Y"
    - "%d %m %Y"
`)
	var c Config
	if err := c.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if c.SampleSize != 250 || c.BatchSize != 512 || c.Workers != 4 || c.Table != "dates_out" {
		t.Errorf("unexpected tuning: %+v", c)
	}
	if len(c.NullValues) != 3 || c.NullValues[1] != "-" {
		t.Errorf("NullValues = %v", c.NullValues)
	}
	cat, err := c.Catalog()
	if err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	ps := cat.Patterns(temporal.DateDMY)
	if len(ps) != 2 || ps[1].String() != "%d %m %Y" {
		t.Errorf("DateDMY patterns = %v", ps)
	}
	if _, ok := cat.Match(temporal.DateDMY, "01 02 2020"); !ok {
		t.Error("custom pattern should match")
	}
}

func TestLoadFromFile_KeepsUnsetFields(t *testing.T) {
	path := writeConfig(t, "workers: 2\n")
	c := Config{SampleSize: 99, Table: "keep"}
	if err := c.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if c.SampleSize != 99 || c.Table != "keep" || c.Workers != 2 {
		t.Errorf("overlay clobbered fields: %+v", c)
	}
}

func TestLoadFromFile_UnknownFamily(t *testing.T) {
	path := writeConfig(t, "patterns:\n  date-mdy: [\"%m/%d/%Y\"]\n")
	var c Config
	if err := c.LoadFromFile(path); err == nil {
		t.Fatal("expected error for unknown family")
	}
}

func TestLoadFromFile_BadPattern(t *testing.T) {
	path := writeConfig(t, "patterns:\n  date-ymd: [\"%Y-%m-%d %H:%M\"]\n")
	var c Config
	if err := c.LoadFromFile(path); err == nil {
		t.Fatal("expected error for datetime pattern in a date family")
	}
}

func TestLoadFromFile_NegativeTuning(t *testing.T) {
	path := writeConfig(t, "sample_size: -1\n")
	var c Config
	if err := c.LoadFromFile(path); err == nil {
		t.Fatal("expected error for negative sample_size")
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	var c Config
	err := c.LoadFromFile("/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestApplyDefaults(t *testing.T) {
	var c Config
	c.ApplyDefaults()
	if c.SampleSize != 0 || c.BatchSize != DefaultBatchSize || c.Table != DefaultTable {
		t.Errorf("defaults not applied: %+v", c)
	}
	if len(c.NullValues) == 0 {
		t.Error("expected default null tokens")
	}
	if c.OutFormat != "parquet" {
		t.Errorf("OutFormat = %q", c.OutFormat)
	}
	cat, err := c.Catalog()
	if err != nil || cat != temporal.DefaultCatalog() {
		t.Errorf("Catalog without overrides = %p, %v", cat, err)
	}
}

func TestApplyDefaults_KeepsSampleSize(t *testing.T) {
	c := Config{SampleSize: 0}
	c.ApplyDefaults()
	if c.SampleSize != 0 {
		t.Errorf("SampleSize = %d, want 0 (sample every value)", c.SampleSize)
	}
	c = Config{SampleSize: 50}
	c.ApplyDefaults()
	if c.SampleSize != 50 {
		t.Errorf("SampleSize = %d, want 50", c.SampleSize)
	}
}

func TestMergeFile(t *testing.T) {
	path := writeConfig(t, "sample_size: 0\nworkers: 3\ntable: from_file\n")
	set := map[string]bool{"workers": true}
	c := Config{SampleSize: DefaultSampleSize, Workers: 8, Table: "flag_default", BatchSize: 64}
	if err := c.MergeFile(path, func(name string) bool { return set[name] }); err != nil {
		t.Fatalf("MergeFile: %v", err)
	}
	if c.SampleSize != 0 {
		t.Errorf("SampleSize = %d, want 0 from file", c.SampleSize)
	}
	if c.Workers != 8 {
		t.Errorf("Workers = %d, want explicit flag value 8", c.Workers)
	}
	if c.Table != "from_file" {
		t.Errorf("Table = %q, want from_file", c.Table)
	}
	if c.BatchSize != 64 {
		t.Errorf("BatchSize = %d, want 64 (absent from file)", c.BatchSize)
	}
	c.ApplyDefaults()
	if c.SampleSize != 0 {
		t.Errorf("SampleSize after ApplyDefaults = %d, want 0", c.SampleSize)
	}
}

func TestValidate(t *testing.T) {
	file := writeConfig(t, "")
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"ok", Config{FilePath: file, Column: "d"}, false},
		{"no file", Config{Column: "d"}, true},
		{"missing file", Config{FilePath: "/nope", Column: "d"}, true},
		{"no column", Config{FilePath: file}, true},
		{"bad family", Config{FilePath: file, Column: "d", Family: "mdy"}, true},
		{"good family", Config{FilePath: file, Column: "d", Family: "datetime-ymd"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateOutputAndSink(t *testing.T) {
	file := writeConfig(t, "")
	c := Config{FilePath: file, Column: "d", OutPath: "out.parquet", OutFormat: "csv"}
	if err := c.ValidateOutput(); err == nil {
		t.Error("expected error for csv output")
	}
	c.OutFormat = "arrow"
	if err := c.ValidateOutput(); err != nil {
		t.Errorf("ValidateOutput: %v", err)
	}
	if err := c.ValidateWithSink(); err == nil {
		t.Error("expected error without a destination")
	}
	c.SQLitePath = filepath.Join(t.TempDir(), "out.db")
	if err := c.ValidateWithSink(); err != nil {
		t.Errorf("ValidateWithSink: %v", err)
	}
}

func TestForcedFamily(t *testing.T) {
	c := Config{Family: "Date-YMD"}
	f, ok, err := c.ForcedFamily()
	if err != nil || !ok || f != temporal.DateYMD {
		t.Errorf("ForcedFamily = %v, %v, %v", f, ok, err)
	}
	c.Family = ""
	if _, ok, _ := c.ForcedFamily(); ok {
		t.Error("empty family should not be forced")
	}
}
