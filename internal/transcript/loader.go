package transcript

import (
	"bufio"
	"encoding/json"
	"os"
	"strings"
)

// CompactionMarker is the text Claude Code injects into the synthetic user
// message that opens a post-compaction segment. The transcript file
// accumulates entries across compactions; everything before the last marker
// belongs to an already-exported segment.
const CompactionMarker = "This session is being continued from a previous conversation"

// maxLineBytes bounds the scanner buffer; transcript lines carrying inlined
// file contents or images can run to several megabytes.
const maxLineBytes = 32 * 1024 * 1024

// ReadFile reads a JSONL transcript and returns its parseable entries in
// file order, along with the number of malformed lines that were skipped.
// A malformed line never aborts the read: partial data still gets exported.
func ReadFile(path string) ([]Entry, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	var entries []Entry
	skipped := 0
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var entry Entry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			skipped++
			continue
		}
		entries = append(entries, entry)
	}
	if err := sc.Err(); err != nil {
		return entries, skipped, err
	}
	return entries, skipped, nil
}

// FindLastCompactionIndex returns the index of the last user entry whose
// text contains the compaction marker, or 0 when no compaction has occurred
// (export the full transcript).
func FindLastCompactionIndex(entries []Entry) int {
	last := 0
	for i, entry := range entries {
		if entry.Type != "user" || entry.Message == nil {
			continue
		}
		if strings.Contains(entry.Message.Content.PlainText(), CompactionMarker) {
			last = i
		}
	}
	return last
}

// ExtractTurns pulls user/assistant turns out of the entries, split into the
// main conversation and sidechain (abandoned branch) turns. Entries tagged
// with a different non-empty sessionId are dropped.
func ExtractTurns(entries []Entry, sessionID string) (main, sidechain []Turn) {
	return extractTurns(entries, sessionID, true)
}

// ExtractTurnsUnfiltered is ExtractTurns without the session filter. Used
// for subagent transcripts, whose entries may not carry the parent
// sessionId.
func ExtractTurnsUnfiltered(entries []Entry) (main, sidechain []Turn) {
	return extractTurns(entries, "", false)
}

func extractTurns(entries []Entry, sessionID string, filter bool) (main, sidechain []Turn) {
	for _, entry := range entries {
		if entry.Type != "user" && entry.Type != "assistant" {
			continue
		}
		if filter && entry.SessionID != "" && entry.SessionID != sessionID {
			continue
		}
		if entry.Message == nil {
			continue
		}
		role := entry.Message.Role
		if role == "" {
			role = entry.Type
		}
		turn := Turn{
			Role:      role,
			Content:   entry.Message.Content,
			Timestamp: entry.Timestamp,
		}
		if entry.IsSidechain {
			sidechain = append(sidechain, turn)
		} else {
			main = append(main, turn)
		}
	}
	return main, sidechain
}

// TimeRange returns the first and last non-empty timestamps of the entries.
// Timestamps are ISO-8601 strings and compare lexicographically.
func TimeRange(entries []Entry) (start, end string) {
	for _, entry := range entries {
		if entry.Timestamp == "" {
			continue
		}
		if start == "" {
			start = entry.Timestamp
		}
		end = entry.Timestamp
	}
	return start, end
}
