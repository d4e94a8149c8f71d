package export

import (
	"sort"

	"chat-export/internal/debuglog"
	"chat-export/internal/transcript"
)

// MergeDebug interleaves debug log entries into the conversation timeline.
// Debug entries become synthetic turns with Role "debug" so the renderer
// can format them distinctly. The sort is stable: turns sharing a timestamp
// keep their original relative order, and both inputs are already
// chronological.
func MergeDebug(turns []transcript.Turn, entries []debuglog.Entry) []transcript.Turn {
	if len(entries) == 0 {
		return turns
	}
	merged := make([]transcript.Turn, 0, len(turns)+len(entries))
	merged = append(merged, turns...)
	for _, de := range entries {
		merged = append(merged, transcript.Turn{
			Role:      "debug",
			Content:   transcript.Content{Text: de.Text},
			Timestamp: de.Timestamp,
			Level:     de.Level,
		})
	}
	// ISO-8601 timestamps sort lexicographically.
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp < merged[j].Timestamp
	})
	return merged
}
