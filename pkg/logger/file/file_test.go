package file

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestFileLogger_WritesLogfmt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")

	l, err := NewFileLogger(FileLoggerParams{Path: path, Truncate: true, Level: log.DebugLevel})
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	l.Debug("[Portrait] unhandled relation", "relation", "hd/xyz", "term", "t4")
	if err := l.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	for _, want := range []string{"unhandled relation", "relation=hd/xyz", "term=t4"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in log output, got %q", want, out)
		}
	}
}

func TestFileLogger_LevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "info.log")

	l, err := NewFileLogger(FileLoggerParams{Path: path, Level: log.InfoLevel})
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	l.Debug("hidden")
	l.Info("shown")
	_ = l.Close()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "hidden") {
		t.Fatalf("debug record written at info level: %q", data)
	}
	if !strings.Contains(string(data), "shown") {
		t.Fatalf("info record missing: %q", data)
	}
}
