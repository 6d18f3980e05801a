package repl

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// maxHistory is the number of entries kept in memory and on disk.
const maxHistory = 1000

// historyFileMode is the permission mode of the history file, which may hold
// values the user would not want shared.
const historyFileMode = 0o600

// HistoryEntry represents a single history entry with its mode.
type HistoryEntry struct {
	Line string
	Mode inputMode
}

// History manages input history with optional file persistence. Each line
// of the file holds one entry prefixed with its mode, "E:" for lox input or
// "C:" for a control command.
//
// A History with an empty path is kept in memory only.
type History struct {
	path    string
	entries []HistoryEntry
	mu      sync.RWMutex
}

// NewHistory creates a new History instance with the given file path.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load reads history entries from the history file. A missing file is not
// an error.
func (h *History) Load() error {
	if h.path == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	file, err := os.Open(h.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return err
	}
	defer file.Close()

	h.entries = nil

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if entry, ok := parseEntry(scanner.Text()); ok {
			h.entries = append(h.entries, entry)
		}
	}

	h.trim()

	return scanner.Err()
}

// parseEntry decodes one line of the history file. Lines without a mode
// prefix are lox input.
func parseEntry(line string) (HistoryEntry, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return HistoryEntry{}, false
	}

	if s, ok := strings.CutPrefix(line, "C:"); ok {
		return HistoryEntry{Line: s, Mode: modeCtrl}, s != ""
	}

	line, _ = strings.CutPrefix(line, "E:")

	return HistoryEntry{Line: line, Mode: modeEval}, line != ""
}

// String encodes e as one line of the history file.
func (e HistoryEntry) String() string {
	if e.Mode == modeCtrl {
		return "C:" + e.Line
	}

	return "E:" + e.Line
}

// Write appends a new entry to the history with the specified mode.
// If a duplicate entry exists (same line and mode), the old one is removed
// so that the entry moves to the end.
func (h *History) Write(line string, mode inputMode) error {
	// Entries are stored one per line.
	line = strings.Join(strings.Fields(line), " ")
	if line == "" {
		return nil
	}

	entry := HistoryEntry{Line: line, Mode: mode}

	h.mu.Lock()
	defer h.mu.Unlock()

	// Skip if same as last entry (both line and mode)
	if n := len(h.entries); n > 0 && h.entries[n-1] == entry {
		return nil
	}

	i := slices.Index(h.entries, entry)
	if i >= 0 {
		h.entries = slices.Delete(h.entries, i, i+1)
	}

	h.entries = append(h.entries, entry)

	// Rewrite the file when an entry was removed, otherwise append.
	if i >= 0 || h.trim() {
		return h.rewriteFile()
	}

	return h.appendFile(entry)
}

// trim drops the oldest entries beyond maxHistory, reporting whether any
// were dropped. Must be called with h.mu held.
func (h *History) trim() bool {
	if len(h.entries) <= maxHistory {
		return false
	}

	h.entries = slices.Delete(h.entries, 0, len(h.entries)-maxHistory)

	return true
}

// Entry retrieves a historic entry (line and mode) by index.
// Index 0 is the oldest entry.
func (h *History) Entry(i int) (HistoryEntry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return HistoryEntry{}, ErrOutOfBounds
	}

	return h.entries[i], nil
}

// Len returns the number of history entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Entries returns all history entries.
func (h *History) Entries() []HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return slices.Clone(h.entries)
}

// appendFile appends one entry to the history file.
// Must be called with h.mu held.
func (h *History) appendFile(entry HistoryEntry) error {
	if h.path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(h.path), 0o700); err != nil {
		return err
	}

	file, err := os.OpenFile(
		h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, historyFileMode,
	)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString(entry.String() + "\n")

	return err
}

// rewriteFile rewrites the entire history file with current entries.
// Must be called with h.mu held.
func (h *History) rewriteFile() error {
	if h.path == "" {
		return nil
	}

	var sb strings.Builder

	for _, entry := range h.entries {
		sb.WriteString(entry.String())
		sb.WriteByte('\n')
	}

	return os.WriteFile(h.path, []byte(sb.String()), historyFileMode)
}
