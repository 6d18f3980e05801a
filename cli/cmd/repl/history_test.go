package repl

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHistory_WriteAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "history")

	h := NewHistory(path)

	for _, e := range []HistoryEntry{
		{"var a = 1", modeEval},
		{"list", modeCtrl},
		{"var a = 1", modeEval}, // moves to the end
		{"print a", modeEval},
		{"print a", modeEval}, // same as last: skipped
		{"   ", modeEval},
	} {
		if err := h.Write(e.Line, e.Mode); err != nil {
			t.Fatal(err)
		}
	}

	want := []HistoryEntry{
		{"list", modeCtrl},
		{"var a = 1", modeEval},
		{"print a", modeEval},
	}

	got := h.Entries()
	if len(got) != len(want) {
		t.Fatalf("entries = %v, want %v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %v, want %v", i, got[i], want[i])
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if string(data) != "C:list\nE:var a = 1\nE:print a\n" {
		t.Errorf("file = %q", data)
	}

	loaded := NewHistory(path)
	if err := loaded.Load(); err != nil {
		t.Fatal(err)
	}

	if loaded.Len() != 3 {
		t.Fatalf("loaded %d entries, want 3", loaded.Len())
	}

	if e, err := loaded.Entry(0); err != nil || e != want[0] {
		t.Errorf("Entry(0) = %v, %v", e, err)
	}
}

func TestHistory_MultilineCollapsed(t *testing.T) {
	h := NewHistory("")

	if err := h.Write("{\n  print 1;\n}", modeEval); err != nil {
		t.Fatal(err)
	}

	if e, _ := h.Entry(0); e.Line != "{ print 1; }" {
		t.Errorf("line = %q", e.Line)
	}
}

func TestHistory_LoadFormats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")

	content := "E:print 1\nC:help\nlegacy line\n\nC:\nE:\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatal(err)
	}

	want := []HistoryEntry{
		{"print 1", modeEval},
		{"help", modeCtrl},
		{"legacy line", modeEval},
	}

	got := h.Entries()
	if len(got) != len(want) {
		t.Fatalf("entries = %v, want %v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestHistory_LoadMissingFile(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "missing"))

	if err := h.Load(); err != nil {
		t.Errorf("Load() = %v, want nil", err)
	}

	if h.Len() != 0 {
		t.Errorf("Len() = %d", h.Len())
	}
}

func TestHistory_Trim(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")

	var sb strings.Builder
	for i := range maxHistory + 5 {
		sb.WriteString("E:")
		sb.WriteString(strings.Repeat("x", i+1))
		sb.WriteByte('\n')
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0o600); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatal(err)
	}

	if h.Len() != maxHistory {
		t.Fatalf("Len() = %d, want %d", h.Len(), maxHistory)
	}

	if e, _ := h.Entry(0); len(e.Line) != 6 {
		t.Errorf("oldest entry length = %d, want 6", len(e.Line))
	}

	if err := h.Write("new", modeEval); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if lines := strings.Count(string(data), "\n"); lines != maxHistory {
		t.Errorf("file has %d lines, want %d", lines, maxHistory)
	}
}

func TestHistory_EntryOutOfBounds(t *testing.T) {
	h := NewHistory("")

	for _, i := range []int{-1, 0, 1} {
		if _, err := h.Entry(i); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Entry(%d) error = %v", i, err)
		}
	}
}
