// Package debuglog parses Claude Code debug logs
// (~/.claude/debug/<session-id>.txt) into severity-tagged entries.
package debuglog

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Entry is one debug log record. Text may span multiple lines: continuation
// lines (stack traces) are appended to the entry that precedes them.
type Entry struct {
	Timestamp string
	Level     string
	Text      string
}

// lineRE matches the start of a debug record: an ISO timestamp followed by
// a bracketed level.
var lineRE = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d+Z)\s+\[(DEBUG|ERROR|WARN|INFO|TRACE)\]\s+(.*)`)

// DefaultLevels returns the severities kept when none are configured.
func DefaultLevels() map[string]bool {
	return map[string]bool{"ERROR": true, "WARN": true}
}

// Path returns the fixed debug log location for a session under home.
func Path(home, sessionID string) string {
	return filepath.Join(home, ".claude", "debug", sessionID+".txt")
}

// ParseFile reads a debug log and returns the entries whose level is in
// levels (nil means ERROR/WARN) and whose timestamp falls within
// [startTS, endTS] inclusive. Empty bounds are open. ISO-8601 timestamps
// compare lexicographically, so string comparison is sufficient.
func ParseFile(path string, levels map[string]bool, startTS, endTS string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if levels == nil {
		levels = DefaultLevels()
	}

	var entries []Entry
	var current *Entry
	flush := func() {
		if current == nil || !levels[current.Level] {
			return
		}
		ts := current.Timestamp
		if (startTS == "" || ts >= startTS) && (endTS == "" || ts <= endTS) {
			entries = append(entries, *current)
		}
	}

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if m := lineRE.FindStringSubmatch(line); m != nil {
			flush()
			current = &Entry{Timestamp: m[1], Level: m[2], Text: m[3]}
		} else if current != nil {
			current.Text += "\n" + strings.TrimRight(line, " \t\r")
		}
	}
	flush()
	return entries, sc.Err()
}
