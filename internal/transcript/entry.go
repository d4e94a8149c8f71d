package transcript

import (
	"encoding/json"
	"strings"
)

// Entry is one line of a Claude Code JSONL transcript (>=2.x format).
// Fields we do not consume are left out; unknown fields are ignored by
// encoding/json.
type Entry struct {
	Type            string          `json:"type"`
	Timestamp       string          `json:"timestamp"`
	SessionID       string          `json:"sessionId"`
	IsSidechain     bool            `json:"isSidechain"`
	IsMeta          bool            `json:"isMeta"`
	UUID            string          `json:"uuid"`
	ParentUUID      string          `json:"parentUuid"`
	ParentToolUseID string          `json:"parentToolUseID"`
	Message         *Message        `json:"message,omitempty"`
	Data            json.RawMessage `json:"data,omitempty"`
}

// Message is the role/content payload carried by user and assistant entries.
type Message struct {
	Role    string  `json:"role"`
	Content Content `json:"content"`
}

// ContentBlock is one element of a block-list content payload.
type ContentBlock struct {
	Type      string          `json:"type"`
	Text      string          `json:"text,omitempty"`
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Input     map[string]any  `json:"input,omitempty"`
	ToolUseID string          `json:"tool_use_id,omitempty"`
	Content   json.RawMessage `json:"content,omitempty"`
}

// Content is either a plain string or a list of content blocks; both shapes
// appear in real transcripts.
type Content struct {
	Text   string
	Blocks []ContentBlock
	IsList bool
}

func (c *Content) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		c.Text = s
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		// Unknown shape: keep the raw JSON so nothing is silently dropped.
		c.Text = string(data)
		return nil
	}
	c.IsList = true
	for _, item := range items {
		var str string
		if json.Unmarshal(item, &str) == nil {
			c.Blocks = append(c.Blocks, ContentBlock{Type: "text", Text: str})
			continue
		}
		var blk ContentBlock
		if json.Unmarshal(item, &blk) == nil {
			c.Blocks = append(c.Blocks, blk)
		}
	}
	return nil
}

func (c Content) MarshalJSON() ([]byte, error) {
	if c.IsList {
		return json.Marshal(c.Blocks)
	}
	return json.Marshal(c.Text)
}

// PlainText pulls the human-readable text out of a content payload: the
// string itself, or the concatenation of string and text blocks.
func (c Content) PlainText() string {
	if !c.IsList {
		return c.Text
	}
	parts := make([]string, 0, len(c.Blocks))
	for _, blk := range c.Blocks {
		if blk.Type == "text" {
			parts = append(parts, blk.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// HasText reports whether the content carries any non-blank human text
// (as opposed to consisting purely of tool_result blocks).
func (c Content) HasText() bool {
	if !c.IsList {
		return strings.TrimSpace(c.Text) != ""
	}
	for _, blk := range c.Blocks {
		if blk.Type == "text" && strings.TrimSpace(blk.Text) != "" {
			return true
		}
	}
	return false
}

// ResultText extracts the text of a tool_result block's content, which is
// either a string or a list of text blocks.
func (b ContentBlock) ResultText() string {
	if len(b.Content) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(b.Content, &s) == nil {
		return s
	}
	var items []json.RawMessage
	if json.Unmarshal(b.Content, &items) == nil {
		parts := make([]string, 0, len(items))
		for _, item := range items {
			var str string
			if json.Unmarshal(item, &str) == nil {
				parts = append(parts, str)
				continue
			}
			var blk struct {
				Type string `json:"type"`
				Text string `json:"text"`
			}
			if json.Unmarshal(item, &blk) == nil && blk.Type == "text" {
				parts = append(parts, blk.Text)
			}
		}
		return strings.Join(parts, "\n")
	}
	raw := string(b.Content)
	if raw == "null" {
		return ""
	}
	return raw
}

// Turn is one rendered conversation unit: a user or assistant message, or a
// synthetic debug entry merged in by timestamp (Role "debug", Level set).
type Turn struct {
	Role      string
	Content   Content
	Timestamp string
	Level     string
}
