package export

import (
	"testing"

	"chat-export/internal/debuglog"
	"chat-export/internal/transcript"
)

func textTurn(role, ts, text string) transcript.Turn {
	return transcript.Turn{Role: role, Timestamp: ts, Content: transcript.Content{Text: text}}
}

func TestMergeDebug_Interleaves(t *testing.T) {
	turns := []transcript.Turn{
		textTurn("user", "2026-02-12T20:00:01.000Z", "one"),
		textTurn("assistant", "2026-02-12T20:00:05.000Z", "two"),
	}
	entries := []debuglog.Entry{
		{Timestamp: "2026-02-12T20:00:03.000Z", Level: "ERROR", Text: "boom"},
	}

	merged := MergeDebug(turns, entries)
	if len(merged) != 3 {
		t.Fatalf("len(merged) = %d, want 3", len(merged))
	}
	if merged[1].Role != "debug" || merged[1].Level != "ERROR" {
		t.Fatalf("merged[1] = %+v, want debug entry in the middle", merged[1])
	}
}

func TestMergeDebug_StableOnEqualTimestamps(t *testing.T) {
	ts := "2026-02-12T20:00:01.000Z"
	turns := []transcript.Turn{
		textTurn("user", ts, "first"),
		textTurn("assistant", ts, "second"),
	}
	entries := []debuglog.Entry{{Timestamp: ts, Level: "WARN", Text: "tied"}}

	merged := MergeDebug(turns, entries)
	if merged[0].Content.Text != "first" || merged[1].Content.Text != "second" {
		t.Fatalf("equal-timestamp turns reordered: %v", merged)
	}
	if merged[2].Role != "debug" {
		t.Fatalf("debug entry not appended after equal-timestamp turns: %+v", merged[2])
	}
}

func TestMergeDebug_NoEntries(t *testing.T) {
	turns := []transcript.Turn{textTurn("user", "2026-02-12T20:00:01.000Z", "only")}
	merged := MergeDebug(turns, nil)
	if len(merged) != 1 {
		t.Fatalf("len(merged) = %d, want 1", len(merged))
	}
}
