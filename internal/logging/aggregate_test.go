package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleLog = `{"time":"2026-03-02T10:00:02Z","level":"WARN","msg":"mark started failed","person_id":"p_1","step":"/onboarding/profile","error":"boom"}
not json
{"time":"2026-03-02T10:00:01Z","level":"INFO","msg":"login","person_id":"p_1"}

{"time":"2026-03-02T10:00:03Z","level":"DEBUG","msg":"request","request_id":"r-1","method":"GET"}
{"time":"2026-03-02T10:00:04Z","level":"ERROR","msg":"request failed","person_id":"p_2","request_id":"r-2"}
`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(sampleLog), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadLogs(t *testing.T) {
	entries, err := ReadLogs(writeSample(t))
	if err != nil {
		t.Fatalf("ReadLogs failed: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}
	if entries[0].Message != "login" {
		t.Errorf("entries not sorted by time: first = %q", entries[0].Message)
	}
	warn := entries[1]
	if warn.Step != "/onboarding/profile" || warn.PersonID != "p_1" {
		t.Errorf("context fields not extracted: %+v", warn)
	}
	if warn.Attrs["error"] != "boom" {
		t.Errorf("attrs = %v", warn.Attrs)
	}
	if _, ok := warn.Attrs["msg"]; ok {
		t.Error("reserved keys should not appear in attrs")
	}
}

func TestReadLogs_Missing(t *testing.T) {
	if _, err := ReadLogs(filepath.Join(t.TempDir(), "nope.log")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFilterLogs(t *testing.T) {
	entries, err := ReadLogs(writeSample(t))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		filter LogFilter
		want   []string
	}{
		{"empty filter", LogFilter{}, []string{"login", "mark started failed", "request", "request failed"}},
		{"level warn", LogFilter{Level: "warn"}, []string{"mark started failed", "request failed"}},
		{"person", LogFilter{PersonID: "p_1"}, []string{"login", "mark started failed"}},
		{"request", LogFilter{RequestID: "r-1"}, []string{"request"}},
		{"message", LogFilter{MessageContains: "failed"}, []string{"mark started failed", "request failed"}},
		{"since", LogFilter{Since: time.Date(2026, 3, 2, 10, 0, 3, 0, time.UTC)}, []string{"request", "request failed"}},
		{"combined", LogFilter{Level: "INFO", PersonID: "p_2"}, []string{"request failed"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterLogs(entries, tt.filter)
			var msgs []string
			for _, e := range got {
				msgs = append(msgs, e.Message)
			}
			if strings.Join(msgs, "|") != strings.Join(tt.want, "|") {
				t.Errorf("got %v, want %v", msgs, tt.want)
			}
		})
	}
}

func TestFormatText(t *testing.T) {
	e := LogEntry{
		Timestamp: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		Level:     LevelWarn,
		Message:   "mark complete failed",
		PersonID:  "p_1",
		Step:      "/onboarding/complete",
		Attrs:     map[string]any{"error": "timeout"},
	}
	want := `[2026-03-02 10:00:00.000] WARN - mark complete failed (person=p_1, step=/onboarding/complete) {"error":"timeout"}`
	if got := FormatText(e); got != want {
		t.Errorf("FormatText() =\n%s\nwant\n%s", got, want)
	}
}
