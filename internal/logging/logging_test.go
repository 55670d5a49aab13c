package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "json", "info")
	log.Info().Str("family", "date-dmy").Msg("detected")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("not json: %v (%q)", err, buf.String())
	}
	if rec["family"] != "date-dmy" || rec["message"] != "detected" {
		t.Errorf("unexpected record: %v", rec)
	}
	if _, ok := rec["time"]; !ok {
		t.Error("missing timestamp")
	}
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "text", "debug")
	log.Debug().Int64("rows", 3).Msg("converted")
	out := buf.String()
	if !strings.Contains(out, "converted") || !strings.Contains(out, "rows=3") {
		t.Errorf("console output = %q", out)
	}
}

func TestNew_Level(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "json", "warn")
	log.Info().Msg("hidden")
	if buf.Len() != 0 {
		t.Errorf("info should be filtered at warn level, got %q", buf.String())
	}

	buf.Reset()
	log = New(&buf, "json", "bogus")
	log.Info().Msg("shown")
	if buf.Len() == 0 {
		t.Error("unknown level should fall back to info")
	}
}
