package transcript

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// AgentMeta describes the Task call that spawned a subagent.
type AgentMeta struct {
	Type        string
	Description string
}

// AgentFile is a discovered subagent transcript.
type AgentFile struct {
	ID   string
	Path string
}

// BuildAgentInfo maps agent ids to the metadata of the Task call that
// spawned them. Task tool_use blocks carry {subagent_type, description};
// progress entries bind an agentId (under data) to a Task via
// parentToolUseID.
func BuildAgentInfo(entries []Entry) map[string]AgentMeta {
	taskMeta := make(map[string]AgentMeta)
	for _, entry := range entries {
		if entry.Type != "assistant" || entry.Message == nil || !entry.Message.Content.IsList {
			continue
		}
		for _, blk := range entry.Message.Content.Blocks {
			if blk.Type != "tool_use" || blk.Name != TaskToolName {
				continue
			}
			meta := AgentMeta{Type: "unknown"}
			if v, ok := blk.Input["subagent_type"].(string); ok && v != "" {
				meta.Type = v
			}
			if v, ok := blk.Input["description"].(string); ok {
				meta.Description = v
			}
			taskMeta[blk.ID] = meta
		}
	}

	info := make(map[string]AgentMeta)
	for _, entry := range entries {
		if len(entry.Data) == 0 {
			continue
		}
		var data struct {
			AgentID string `json:"agentId"`
		}
		if json.Unmarshal(entry.Data, &data) != nil || data.AgentID == "" {
			continue
		}
		if _, seen := info[data.AgentID]; seen {
			continue
		}
		if meta, ok := taskMeta[entry.ParentToolUseID]; ok {
			info[data.AgentID] = meta
		}
	}
	return info
}

// SubagentsDir returns the fixed directory convention for subagent
// transcripts: <transcript-dir>/<session-id>/subagents.
func SubagentsDir(transcriptPath, sessionID string) string {
	return filepath.Join(filepath.Dir(transcriptPath), sessionID, "subagents")
}

// DiscoverAgentFiles globs agent-*.jsonl under dir. A missing directory is
// not an error: a session without subagents has none. If two files ever
// claim the same agent id the most recently modified one wins; the loser's
// path is returned in dropped.
func DiscoverAgentFiles(dir string) (files []AgentFile, dropped []string) {
	matches, err := filepath.Glob(filepath.Join(dir, "agent-*.jsonl"))
	if err != nil || len(matches) == 0 {
		return nil, nil
	}
	sort.Strings(matches)

	byID := make(map[string]string)
	var order []string
	for _, path := range matches {
		name := filepath.Base(path)
		id := strings.TrimSuffix(strings.TrimPrefix(name, "agent-"), ".jsonl")
		prev, seen := byID[id]
		if !seen {
			byID[id] = path
			order = append(order, id)
			continue
		}
		if modTime(path).After(modTime(prev)) {
			dropped = append(dropped, prev)
			byID[id] = path
		} else {
			dropped = append(dropped, path)
		}
	}
	for _, id := range order {
		files = append(files, AgentFile{ID: id, Path: byID[id]})
	}
	return files, dropped
}

func modTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

// FilterAgentFilesByTime keeps only subagent transcripts whose first entry
// falls within the current session segment, i.e. was spawned after the last
// compaction. Unreadable files are dropped.
func FilterAgentFilesByTime(files []AgentFile, startTS string) []AgentFile {
	if startTS == "" {
		return files
	}
	var kept []AgentFile
	for _, file := range files {
		ts, ok := firstTimestamp(file.Path)
		if !ok {
			continue
		}
		if ts >= startTS {
			kept = append(kept, file)
		}
	}
	return kept
}

func firstTimestamp(path string) (string, bool) {
	entries, _, err := ReadFile(path)
	if err != nil {
		return "", false
	}
	for _, entry := range entries {
		if entry.Timestamp != "" {
			return entry.Timestamp, true
		}
	}
	return "", false
}
