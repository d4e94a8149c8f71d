package transcript

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBuildAgentInfo(t *testing.T) {
	path := writeTranscript(t,
		`{"type":"assistant","timestamp":"2026-02-12T20:00:01.000Z","sessionId":"s1","message":{"role":"assistant","content":[{"type":"tool_use","id":"task1","name":"Task","input":{"subagent_type":"researcher","description":"Find docs"}}]}}`,
		`{"type":"progress","timestamp":"2026-02-12T20:00:02.000Z","sessionId":"s1","parentToolUseID":"task1","data":{"agentId":"abc"}}`,
		`{"type":"progress","timestamp":"2026-02-12T20:00:03.000Z","sessionId":"s1","parentToolUseID":"task1","data":{"agentId":"abc"}}`,
	)
	entries, _, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	info := BuildAgentInfo(entries)
	meta, ok := info["abc"]
	if !ok {
		t.Fatalf("agent %q not found in %v", "abc", info)
	}
	if meta.Type != "researcher" {
		t.Fatalf("Type = %q, want %q", meta.Type, "researcher")
	}
	if meta.Description != "Find docs" {
		t.Fatalf("Description = %q, want %q", meta.Description, "Find docs")
	}
}

func TestDiscoverAgentFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"agent-one.jsonl", "agent-two.jsonl", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	files, dropped := DiscoverAgentFiles(dir)
	if len(dropped) != 0 {
		t.Fatalf("dropped = %v, want none", dropped)
	}
	if len(files) != 2 {
		t.Fatalf("len(files) = %d, want 2", len(files))
	}
	if files[0].ID != "one" || files[1].ID != "two" {
		t.Fatalf("ids = %q, %q", files[0].ID, files[1].ID)
	}
}

func TestDiscoverAgentFiles_MissingDir(t *testing.T) {
	files, dropped := DiscoverAgentFiles(filepath.Join(t.TempDir(), "absent"))
	if files != nil || dropped != nil {
		t.Fatalf("DiscoverAgentFiles(missing) = %v, %v, want nil, nil", files, dropped)
	}
}

func TestFilterAgentFilesByTime(t *testing.T) {
	dir := t.TempDir()
	early := filepath.Join(dir, "agent-early.jsonl")
	late := filepath.Join(dir, "agent-late.jsonl")
	if err := os.WriteFile(early, []byte(`{"type":"user","timestamp":"2026-02-12T19:00:00.000Z","message":{"role":"user","content":"x"}}`+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(late, []byte(`{"type":"user","timestamp":"2026-02-12T21:00:00.000Z","message":{"role":"user","content":"y"}}`+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	files := []AgentFile{{ID: "early", Path: early}, {ID: "late", Path: late}}
	kept := FilterAgentFilesByTime(files, "2026-02-12T20:00:00.000Z")
	if len(kept) != 1 {
		t.Fatalf("len(kept) = %d, want 1", len(kept))
	}
	if kept[0].ID != "late" {
		t.Fatalf("kept id = %q, want %q", kept[0].ID, "late")
	}

	// Empty segment start keeps everything.
	if all := FilterAgentFilesByTime(files, ""); len(all) != 2 {
		t.Fatalf("len(all) = %d, want 2", len(all))
	}
}

func TestSubagentsDir(t *testing.T) {
	got := SubagentsDir("/logs/sess.jsonl", "s1")
	want := filepath.Join("/logs", "s1", "subagents")
	if got != want {
		t.Fatalf("SubagentsDir() = %q, want %q", got, want)
	}
}
