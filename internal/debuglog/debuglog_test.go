package debuglog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "debug.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseFile_DefaultLevels(t *testing.T) {
	path := writeLog(t, strings.Join([]string{
		"2026-02-12T20:00:01.000Z [DEBUG] noise",
		"2026-02-12T20:00:02.000Z [ERROR] boom",
		"2026-02-12T20:00:03.000Z [INFO] fine",
		"2026-02-12T20:00:04.000Z [WARN] careful",
		"2026-02-12T20:00:05.000Z [TRACE] more noise",
	}, "\n"))

	entries, err := ParseFile(path, nil, "", "")
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].Level != "ERROR" || entries[0].Text != "boom" {
		t.Fatalf("entries[0] = %+v", entries[0])
	}
	if entries[1].Level != "WARN" || entries[1].Text != "careful" {
		t.Fatalf("entries[1] = %+v", entries[1])
	}
}

func TestParseFile_ContinuationLines(t *testing.T) {
	path := writeLog(t, strings.Join([]string{
		"2026-02-12T20:00:01.000Z [ERROR] panic in handler",
		"    at frame one",
		"    at frame two",
		"2026-02-12T20:00:02.000Z [WARN] next entry",
	}, "\n"))

	entries, err := ParseFile(path, nil, "", "")
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	want := "panic in handler\n    at frame one\n    at frame two"
	if entries[0].Text != want {
		t.Fatalf("entries[0].Text = %q, want %q", entries[0].Text, want)
	}
}

func TestParseFile_TimeWindowInclusive(t *testing.T) {
	path := writeLog(t, strings.Join([]string{
		"2026-02-12T19:59:59.000Z [ERROR] before window",
		"2026-02-12T20:00:00.000Z [ERROR] at start boundary",
		"2026-02-12T20:00:30.000Z [ERROR] inside",
		"2026-02-12T20:01:00.000Z [ERROR] at end boundary",
		"2026-02-12T20:01:01.000Z [ERROR] after window",
	}, "\n"))

	entries, err := ParseFile(path, nil, "2026-02-12T20:00:00.000Z", "2026-02-12T20:01:00.000Z")
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3 (boundaries inclusive)", len(entries))
	}
	if entries[0].Text != "at start boundary" || entries[2].Text != "at end boundary" {
		t.Fatalf("boundary entries wrong: %+v", entries)
	}
}

func TestParseFile_CustomLevels(t *testing.T) {
	path := writeLog(t, strings.Join([]string{
		"2026-02-12T20:00:01.000Z [INFO] kept now",
		"2026-02-12T20:00:02.000Z [ERROR] dropped now",
	}, "\n"))

	entries, err := ParseFile(path, map[string]bool{"INFO": true}, "", "")
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Level != "INFO" {
		t.Fatalf("entries = %+v, want single INFO", entries)
	}
}

func TestParseFile_Missing(t *testing.T) {
	if _, err := ParseFile(filepath.Join(t.TempDir(), "nope.txt"), nil, "", ""); err == nil {
		t.Fatal("ParseFile(missing) error = nil, want error")
	}
}

func TestPath(t *testing.T) {
	got := Path("/home/u", "s1")
	want := filepath.Join("/home/u", ".claude", "debug", "s1.txt")
	if got != want {
		t.Fatalf("Path() = %q, want %q", got, want)
	}
}
