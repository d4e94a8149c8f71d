package hook

import (
	"encoding/json"
	"io"
	"strings"
)

// Input is the PreCompact hook payload delivered on stdin. Unknown fields
// are tolerated; missing optional fields default safely.
type Input struct {
	SessionID          string `json:"session_id"`
	TranscriptPath     string `json:"transcript_path"`
	Trigger            string `json:"trigger"`
	CustomInstructions string `json:"custom_instructions"`
}

// ParseInput decodes the hook payload. An empty session_id becomes
// "unknown" so the export header always names the run.
func ParseInput(r io.Reader) (Input, error) {
	var in Input
	dec := json.NewDecoder(r)
	if err := dec.Decode(&in); err != nil {
		return Input{SessionID: "unknown"}, err
	}
	if strings.TrimSpace(in.SessionID) == "" {
		in.SessionID = "unknown"
	}
	return in, nil
}

// ExpandHome replaces a leading ~ with home.
func ExpandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return home + path[1:]
	}
	return path
}
