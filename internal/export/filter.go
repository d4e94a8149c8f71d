package export

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// 100+ chars of base64 alphabet: catches embedded images and blobs.
	base64RE = regexp.MustCompile(`(?:[A-Za-z0-9+/]{4}){25,}(?:[A-Za-z0-9+/]{2}==|[A-Za-z0-9+/]{3}=)?`)
	// data:mime;base64,... URIs.
	dataURIRE = regexp.MustCompile(`data:[a-zA-Z0-9/+.\-]+;base64,[A-Za-z0-9+/=]+`)
	// ANSI escape sequences (colors, cursor moves, OSC titles).
	ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]|\x1b\].*?\x07`)
	// <system-reminder> blocks injected by the host.
	systemReminderRE = regexp.MustCompile(`(?s)<system-reminder>.*?</system-reminder>`)
)

const binaryPlaceholder = "*[binary content filtered]*"

// StripANSI removes ANSI escape sequences.
func StripANSI(text string) string {
	return ansiRE.ReplaceAllString(text, "")
}

// FilterBase64 replaces base64 blobs and data URIs with size-annotated
// placeholders. ANSI sequences are stripped first so escape bytes never
// break the base64 match.
func FilterBase64(text string) string {
	text = StripANSI(text)
	text = dataURIRE.ReplaceAllStringFunc(text, func(raw string) string {
		payload := ""
		if i := strings.IndexByte(raw, ','); i >= 0 {
			payload = raw[i+1:]
		}
		mime := strings.TrimPrefix(strings.SplitN(raw, ";", 2)[0], "data:")
		return fmt.Sprintf("[data URI filtered: %s, ~%d bytes]", mime, len(payload)*3/4)
	})
	return base64RE.ReplaceAllStringFunc(text, func(raw string) string {
		return fmt.Sprintf("[base64 data filtered, ~%d bytes]", len(raw)*3/4)
	})
}

// IsBinary reports whether text looks like binary: more than 10% of the
// first 2000 characters are non-printable control characters.
func IsBinary(text string) bool {
	if text == "" {
		return false
	}
	sample := []rune(text)
	if len(sample) > 2000 {
		sample = sample[:2000]
	}
	bad := 0
	for _, r := range sample {
		if r < 32 && r != '\n' && r != '\r' && r != '\t' {
			bad++
		}
	}
	return bad*10 > len(sample)
}

// StripSystemReminders collapses <system-reminder> blocks to a short note.
func StripSystemReminders(text string) string {
	return systemReminderRE.ReplaceAllString(text, "[system reminder collapsed]")
}

// Clean applies the full payload filter chain: binary detection, base64 and
// data-URI scrubbing, system-reminder collapsing, and truncation to limit
// characters (0 disables truncation).
func Clean(text string, limit int) string {
	if IsBinary(text) {
		return binaryPlaceholder
	}
	text = FilterBase64(text)
	text = StripSystemReminders(text)
	if limit > 0 {
		runes := []rune(text)
		if len(runes) > limit {
			text = string(runes[:limit]) + fmt.Sprintf("\n\n... [%d more chars truncated]", len(runes)-limit)
		}
	}
	return text
}
