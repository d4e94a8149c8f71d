package hook

import (
	"strings"
	"testing"
)

func TestParseInput_Defaults(t *testing.T) {
	tests := []struct {
		name        string
		payload     string
		wantSession string
		wantPath    string
	}{
		{
			name:        "full payload",
			payload:     `{"session_id":"abc","transcript_path":"/tmp/t.jsonl","trigger":"auto"}`,
			wantSession: "abc",
			wantPath:    "/tmp/t.jsonl",
		},
		{
			name:        "missing session id",
			payload:     `{"transcript_path":"/tmp/t.jsonl"}`,
			wantSession: "unknown",
			wantPath:    "/tmp/t.jsonl",
		},
		{
			name:        "unknown fields tolerated",
			payload:     `{"session_id":"abc","transcript_path":"/tmp/t.jsonl","hook_event_name":"PreCompact"}`,
			wantSession: "abc",
			wantPath:    "/tmp/t.jsonl",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in, err := ParseInput(strings.NewReader(tc.payload))
			if err != nil {
				t.Fatalf("ParseInput() error = %v", err)
			}
			if in.SessionID != tc.wantSession {
				t.Fatalf("SessionID = %q, want %q", in.SessionID, tc.wantSession)
			}
			if in.TranscriptPath != tc.wantPath {
				t.Fatalf("TranscriptPath = %q, want %q", in.TranscriptPath, tc.wantPath)
			}
		})
	}
}

func TestParseInput_Malformed(t *testing.T) {
	in, err := ParseInput(strings.NewReader("not json"))
	if err == nil {
		t.Fatal("ParseInput(malformed) error = nil, want error")
	}
	if in.SessionID != "unknown" {
		t.Fatalf("SessionID = %q, want %q", in.SessionID, "unknown")
	}
}

func TestExpandHome(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"~/x/y.jsonl", "/home/u/x/y.jsonl"},
		{"~", "/home/u"},
		{"/abs/path", "/abs/path"},
		{"rel/path", "rel/path"},
	}
	for _, tc := range tests {
		if got := ExpandHome(tc.in, "/home/u"); got != tc.want {
			t.Fatalf("ExpandHome(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
