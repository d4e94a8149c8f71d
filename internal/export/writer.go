package export

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"
)

var indexedNameRE = regexp.MustCompile(`^(\d{3})-chat-`)

// NextIndex computes the next NNN prefix from the filenames already present
// in the target directory. Non-matching names are ignored. Kept as a pure
// function so the naming convention is testable without touching disk.
func NextIndex(names []string) int {
	highest := 0
	for _, name := range names {
		m := indexedNameRE.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return highest + 1
}

func dirNames(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

// OutputName picks the export filename. Default is export-<ts>.md; indexed
// naming (or a same-second collision with an existing default name) uses
// NNN-chat-<ts>.md.
func OutputName(dir string, indexed bool, now time.Time) string {
	ts := now.Format("20060102-150405")
	if !indexed {
		name := "export-" + ts + ".md"
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return name
		}
		// Collision within the same second: fall through to indexed naming.
	}
	return fmt.Sprintf("%03d-chat-%s.md", NextIndex(dirNames(dir)), ts)
}

// WriteDocument creates dir if needed and writes content all-or-nothing:
// the document lands in a temp file first and is renamed into place, so an
// interrupted run never leaves a partial export behind.
func WriteDocument(dir string, indexed bool, now time.Time, content string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	name := OutputName(dir, indexed, now)
	path := filepath.Join(dir, name)

	tmp, err := os.CreateTemp(dir, ".export-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("write export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("close export: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("finalize export: %w", err)
	}
	return path, nil
}
