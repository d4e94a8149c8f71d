// Package export builds and writes the pre-compaction markdown export of a
// Claude Code session: main timeline, sidechain section, subagent
// transcripts, and interleaved debug log entries.
package export

import (
	"errors"
	"fmt"
	"os"
	"time"

	"chat-export/internal/debuglog"
	"chat-export/internal/hook"
	"chat-export/internal/transcript"
)

// Exporter runs one export: load, pair, merge, render, write. Home and Now
// exist so tests can pin the debug log location and the export timestamp.
type Exporter struct {
	Config hook.Config
	Logger *hook.Logger
	Home   string
	Now    func() time.Time
}

// Result summarizes a completed export for the caller's exit message.
type Result struct {
	OutputPath   string
	Turns        int
	Sidechain    int
	Agents       int
	DebugEntries int
	Skipped      int
}

// Run performs the export for one hook invocation. Only two failures are
// fatal: the primary transcript being unreadable or empty, and the final
// write. Everything else degrades with a logged warning, because a partial
// export still preserves data the host is about to discard.
func (e *Exporter) Run(in hook.Input) (*Result, error) {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	home := e.Home
	if home == "" {
		home, _ = os.UserHomeDir()
	}

	transcriptPath := hook.ExpandHome(in.TranscriptPath, home)
	if transcriptPath == "" {
		return nil, errors.New("no transcript found")
	}

	allEntries, skipped, err := transcript.ReadFile(transcriptPath)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	if skipped > 0 {
		e.Logger.Warn("skipped malformed transcript lines", map[string]interface{}{"count": skipped})
	}
	if len(allEntries) == 0 {
		return nil, errors.New("empty transcript")
	}

	// The JSONL accumulates across compactions; export only the segment
	// since the most recent compaction marker.
	compactIdx := transcript.FindLastCompactionIndex(allEntries)
	entries := allEntries[compactIdx:]

	turns, sidechain := transcript.ExtractTurns(entries, in.SessionID)
	if len(turns) == 0 && len(sidechain) == 0 {
		return nil, errors.New("no messages in transcript")
	}

	if _, dupes := transcript.ResultMap(turns); len(dupes) > 0 {
		e.Logger.Warn("duplicate tool results, keeping first per id", map[string]interface{}{"ids": dupes})
	}

	agentInfo := transcript.BuildAgentInfo(entries)
	segStart, segEnd := transcript.TimeRange(entries)

	agentFiles, droppedDupes := transcript.DiscoverAgentFiles(transcript.SubagentsDir(transcriptPath, in.SessionID))
	for _, path := range droppedDupes {
		e.Logger.Warn("duplicate subagent transcript, keeping most recent", map[string]interface{}{"path": path})
	}
	agentFiles = transcript.FilterAgentFilesByTime(agentFiles, segStart)

	var debugEntries []debuglog.Entry
	debugPath := debuglog.Path(home, in.SessionID)
	if _, statErr := os.Stat(debugPath); statErr == nil {
		debugEntries, err = debuglog.ParseFile(debugPath, e.Config.LevelSet(), segStart, segEnd)
		if err != nil {
			e.Logger.Warn("failed to parse debug log", map[string]interface{}{"path": debugPath, "error": err.Error()})
		}
	}

	doc := &Document{
		SessionID:        in.SessionID,
		ExportedAt:       now(),
		TranscriptPath:   transcriptPath,
		PriorCompactions: compactIdx > 0,
		SegmentStart:     segStart,
		EntriesProcessed: len(entries),
		SubagentsSpawned: countTaskCalls(entries),
		DebugCount:       len(debugEntries),
		Turns:            MergeDebug(turns, debugEntries),
		Sidechain:        sidechain,
		Agents:           e.loadAgentSections(agentFiles, agentInfo, in.SessionID),
		Opts: RenderOptions{
			TruncateChars:     e.Config.TruncateChars,
			ToolTruncateChars: e.Config.ToolTruncateChars,
		},
	}

	content := Render(doc)
	path, err := WriteDocument(e.Config.ExportDir, e.Config.IndexedNames, doc.ExportedAt, content)
	if err != nil {
		return nil, err
	}

	return &Result{
		OutputPath:   path,
		Turns:        len(turns),
		Sidechain:    len(sidechain),
		Agents:       len(doc.Agents),
		DebugEntries: len(debugEntries),
		Skipped:      skipped,
	}, nil
}

// loadAgentSections materializes each discovered subagent transcript.
// Missing or empty transcripts are skipped: a subagent may legitimately
// have persisted nothing.
func (e *Exporter) loadAgentSections(files []transcript.AgentFile, info map[string]transcript.AgentMeta, sessionID string) []AgentSection {
	var sections []AgentSection
	for _, file := range files {
		entries, skipped, err := transcript.ReadFile(file.Path)
		if err != nil {
			e.Logger.Warn("failed to read subagent transcript", map[string]interface{}{"path": file.Path, "error": err.Error()})
			continue
		}
		if skipped > 0 {
			e.Logger.Warn("skipped malformed subagent lines", map[string]interface{}{"path": file.Path, "count": skipped})
		}
		main, side := transcript.ExtractTurns(entries, sessionID)
		if len(main) == 0 && len(side) == 0 {
			// Agent entries may not carry the parent sessionId.
			main, side = transcript.ExtractTurnsUnfiltered(entries)
		}
		turns := append(main, side...)
		if len(turns) == 0 {
			continue
		}
		meta, ok := info[file.ID]
		if !ok {
			meta = transcript.AgentMeta{Type: "unknown"}
		}
		sections = append(sections, AgentSection{ID: file.ID, Meta: meta, Turns: turns})
	}
	return sections
}

// countTaskCalls counts subagent-spawning tool invocations in the segment.
// The header reports this discovered count even when no subagent transcript
// file survived to be rendered.
func countTaskCalls(entries []transcript.Entry) int {
	n := 0
	for _, entry := range entries {
		if entry.Type != "assistant" || entry.Message == nil || !entry.Message.Content.IsList {
			continue
		}
		for _, blk := range entry.Message.Content.Blocks {
			if blk.Type == "tool_use" && blk.Name == transcript.TaskToolName {
				n++
			}
		}
	}
	return n
}
