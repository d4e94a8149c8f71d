package export

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"chat-export/internal/transcript"
)

// RenderOptions carries the payload truncation limits.
type RenderOptions struct {
	TruncateChars     int
	ToolTruncateChars int
}

func DefaultRenderOptions() RenderOptions {
	return RenderOptions{TruncateChars: 3000, ToolTruncateChars: 2000}
}

// AgentSection is one subagent transcript ready for rendering.
type AgentSection struct {
	ID    string
	Meta  transcript.AgentMeta
	Turns []transcript.Turn
}

// Document is the fully assembled export, built once in memory and written
// once. Turns is the main timeline with debug entries already merged in;
// sidechain turns and subagent transcripts render as separate sections.
type Document struct {
	SessionID        string
	ExportedAt       time.Time
	TranscriptPath   string
	PriorCompactions bool
	SegmentStart     string
	EntriesProcessed int
	SubagentsSpawned int
	DebugCount       int
	Turns            []transcript.Turn
	Sidechain        []transcript.Turn
	Agents           []AgentSection
	Opts             RenderOptions
}

// Render produces the markdown document. Output is deterministic for a
// given Document: the only wall-clock content is the stamped ExportedAt.
func Render(doc *Document) string {
	opts := doc.Opts
	if opts.TruncateChars == 0 && opts.ToolTruncateChars == 0 {
		opts = DefaultRenderOptions()
	}

	var b strings.Builder
	b.WriteString("# Claude Code Session Export\n\n")
	fmt.Fprintf(&b, "- **Session ID:** `%s`\n", doc.SessionID)
	fmt.Fprintf(&b, "- **Exported:** %s\n", doc.ExportedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "- **Transcript:** `%s`\n", doc.TranscriptPath)
	fmt.Fprintf(&b, "- **Entries processed:** %d\n", doc.EntriesProcessed)
	if doc.PriorCompactions {
		b.WriteString("- **Note:** prior compactions detected; exporting only current segment\n")
	}
	if doc.SegmentStart != "" {
		fmt.Fprintf(&b, "- **Segment start:** %s\n", formatTS(doc.SegmentStart))
	}
	if doc.SubagentsSpawned > 0 {
		fmt.Fprintf(&b, "- **Subagents spawned:** %d\n", doc.SubagentsSpawned)
	}
	if doc.DebugCount > 0 {
		fmt.Fprintf(&b, "- **Debug log entries:** %d\n", doc.DebugCount)
	}
	b.WriteString("\n---\n\n")

	renderTurns(&b, doc.Turns, opts)

	if len(doc.Sidechain) > 0 {
		b.WriteString("<details>\n")
		fmt.Fprintf(&b, "<summary><strong>Sidechain messages (abandoned branches) -- %d entries</strong></summary>\n\n", len(doc.Sidechain))
		renderTurns(&b, doc.Sidechain, opts)
		b.WriteString("</details>\n\n")
	}

	if len(doc.Agents) > 0 {
		b.WriteString("---\n\n")
		fmt.Fprintf(&b, "# Subagent Transcripts (%d)\n\n", len(doc.Agents))
		for _, agent := range doc.Agents {
			label := fmt.Sprintf("Agent `%s` (%s)", agent.ID, agent.Meta.Type)
			if agent.Meta.Description != "" {
				label += " -- " + agent.Meta.Description
			}
			label += fmt.Sprintf(" [%d messages]", len(agent.Turns))
			b.WriteString("<details>\n")
			fmt.Fprintf(&b, "<summary><strong>%s</strong></summary>\n\n", label)
			renderTurns(&b, agent.Turns, opts)
			b.WriteString("</details>\n\n")
		}
	}

	return b.String()
}

// renderTurns writes one turn list. Tool results are paired by tool_use_id
// over the whole list first, so a result that physically precedes its call
// still pairs correctly.
func renderTurns(b *strings.Builder, turns []transcript.Turn, opts RenderOptions) {
	results, _ := transcript.ResultMap(turns)

	for _, turn := range turns {
		tsLabel := ""
		if ts := formatTS(turn.Timestamp); ts != "" {
			tsLabel = "  *[" + ts + "]*"
		}

		switch turn.Role {
		case "user":
			// Skip turns that are purely tool_result blocks: no human text.
			if turn.Content.IsList && !turn.Content.HasText() {
				continue
			}
			b.WriteString("## USER" + tsLabel + "\n\n")
			if text := turn.Content.PlainText(); strings.TrimSpace(text) != "" {
				b.WriteString(Clean(text, opts.TruncateChars) + "\n\n")
			}

		case "assistant":
			b.WriteString("## ASSISTANT" + tsLabel + "\n\n")
			if !turn.Content.IsList {
				if strings.TrimSpace(turn.Content.Text) != "" {
					b.WriteString(Clean(turn.Content.Text, opts.TruncateChars) + "\n\n")
				}
				continue
			}
			for _, blk := range turn.Content.Blocks {
				switch blk.Type {
				case "text":
					if strings.TrimSpace(blk.Text) != "" {
						b.WriteString(Clean(blk.Text, opts.TruncateChars) + "\n\n")
					}
				case "tool_use":
					renderCall(b, transcript.CallFor(blk, results), opts)
				}
			}

		case "debug":
			level := turn.Level
			if level == "" {
				level = "DEBUG"
			}
			text := turn.Content.Text
			first := text
			if i := strings.IndexByte(first, '\n'); i >= 0 {
				first = first[:i]
			}
			if len(first) > 120 {
				first = first[:120]
			}
			b.WriteString("<details>\n")
			fmt.Fprintf(b, "<summary><strong>[%s]</strong>%s %s</summary>\n\n", level, tsLabel, first)
			b.WriteString("```\n" + Clean(text, opts.ToolTruncateChars) + "\n```\n\n")
			b.WriteString("</details>\n\n")
		}
	}
}

// renderCall writes one tool call as a collapsible block. Task (subagent)
// calls render expanded; everything else collapsed. A call whose result was
// never recorded renders a pending marker instead of a result body.
func renderCall(b *strings.Builder, unit transcript.CallUnit, opts RenderOptions) {
	if unit.Expanded {
		b.WriteString("<details open>\n")
	} else {
		b.WriteString("<details>\n")
	}
	fmt.Fprintf(b, "<summary>%s</summary>\n\n", toolSummary(unit.Name, unit.Input))

	b.WriteString("**Input:**\n\n")
	b.WriteString(Clean(formatToolInput(unit.Name, unit.Input), opts.ToolTruncateChars) + "\n\n")

	if unit.HasResult {
		if strings.TrimSpace(unit.Result) != "" {
			b.WriteString("**Result:**\n\n")
			b.WriteString(Clean(unit.Result, opts.ToolTruncateChars) + "\n\n")
		}
	} else {
		b.WriteString("**Result:** *[pending, no result recorded]*\n\n")
	}
	b.WriteString("</details>\n\n")
}

func inputStr(input map[string]any, key string) string {
	if v, ok := input[key].(string); ok {
		return v
	}
	return ""
}

// toolSummary builds the one-line <summary> label for a tool call.
func toolSummary(name string, input map[string]any) string {
	switch name {
	case "Bash":
		if desc := inputStr(input, "description"); desc != "" {
			return "Tool: Bash -- " + desc
		}
		cmd := inputStr(input, "command")
		if len(cmd) > 80 {
			cmd = cmd[:80] + "..."
		}
		return "Tool: Bash -- `" + cmd + "`"
	case "Read", "Write", "Edit":
		return fmt.Sprintf("Tool: %s -- `%s`", name, filepath.Base(inputStr(input, "file_path")))
	case "Glob", "Grep":
		return fmt.Sprintf("Tool: %s -- `%s`", name, inputStr(input, "pattern"))
	case transcript.TaskToolName:
		agent := inputStr(input, "subagent_type")
		if agent == "" {
			agent = "unknown"
		}
		return fmt.Sprintf("Subagent (%s): %s", agent, inputStr(input, "description"))
	case "WebFetch":
		url := inputStr(input, "url")
		if len(url) > 60 {
			url = url[:60]
		}
		return "Tool: WebFetch -- `" + url + "`"
	case "WebSearch":
		return "Tool: WebSearch -- `" + inputStr(input, "query") + "`"
	default:
		return "Tool: " + name
	}
}

// formatToolInput formats a tool's input for the details body. Known tools
// get a shaped layout; everything else falls back to indented JSON.
func formatToolInput(name string, input map[string]any) string {
	switch name {
	case "Bash":
		var out strings.Builder
		if desc := inputStr(input, "description"); desc != "" {
			out.WriteString("*" + desc + "*\n\n")
		}
		out.WriteString("```bash\n" + inputStr(input, "command") + "\n```")
		return out.String()
	case "Edit":
		return fmt.Sprintf("**File:** `%s`\n\n**Old:**\n```\n%s\n```\n\n**New:**\n```\n%s\n```",
			inputStr(input, "file_path"), inputStr(input, "old_string"), inputStr(input, "new_string"))
	case "Write":
		body := inputStr(input, "content")
		if len(body) > 500 {
			body = body[:500] + fmt.Sprintf("\n... [%d more chars]", len(inputStr(input, "content"))-500)
		}
		return fmt.Sprintf("**File:** `%s`\n\n```\n%s\n```", inputStr(input, "file_path"), body)
	case transcript.TaskToolName:
		prompt := inputStr(input, "prompt")
		if len(prompt) > 1000 {
			prompt = prompt[:1000] + fmt.Sprintf("\n... [%d more chars]", len(inputStr(input, "prompt"))-1000)
		}
		return fmt.Sprintf("**Agent:** `%s` | **Description:** %s\n\n%s",
			inputStr(input, "subagent_type"), inputStr(input, "description"), prompt)
	default:
		dumped, err := json.MarshalIndent(input, "", "  ")
		if err != nil {
			return fmt.Sprintf("%v", input)
		}
		out := string(dumped)
		if len(out) > 500 {
			out = out[:500] + "\n... [truncated]"
		}
		return "```json\n" + out + "\n```"
	}
}

// formatTS converts an ISO-8601 timestamp to a readable local-time string,
// falling back to the raw value when it does not parse.
func formatTS(iso string) string {
	if iso == "" {
		return ""
	}
	ts, err := time.Parse(time.RFC3339Nano, iso)
	if err != nil {
		ts, err = time.Parse(time.RFC3339, iso)
		if err != nil {
			return iso
		}
	}
	return ts.Local().Format("2006-01-02 15:04:05")
}
