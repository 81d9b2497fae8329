package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level    string
		expected []string
		excluded []string
	}{
		{
			level:    "error",
			expected: []string{"ERROR"},
			excluded: []string{"WARN", "INFO", "DEBUG"},
		},
		{
			level:    "warn",
			expected: []string{"ERROR", "WARN"},
			excluded: []string{"INFO", "DEBUG"},
		},
		{
			level:    "",
			expected: []string{"ERROR", "WARN", "INFO"},
			excluded: []string{"DEBUG"},
		},
		{
			level:    "debug",
			expected: []string{"ERROR", "WARN", "INFO", "DEBUG"},
		},
	}

	for _, tt := range tests {
		t.Run("level="+tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			log, err := New(tt.level, FileConfig{}, &buf)
			if err != nil {
				t.Fatalf("New: %v", err)
			}

			log.Debug("debug message")
			log.Info("info message")
			log.Warn("warn message")
			log.Error("error message")
			_ = log.Sync()

			out := buf.String()
			for _, exp := range tt.expected {
				if !strings.Contains(out, exp) {
					t.Errorf("expected %s in output:\n%s", exp, out)
				}
			}
			for _, exc := range tt.excluded {
				if strings.Contains(out, exc) {
					t.Errorf("unexpected %s in output for level %q", exc, tt.level)
				}
			}
		})
	}
}

func TestInvalidLevel(t *testing.T) {
	if _, err := New("loud", FileConfig{}, &bytes.Buffer{}); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fbxconv.log")
	cfg := DefaultFileConfig(path)
	cfg.Compress = false

	log, err := New("info", cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Warn("ignoring empty geometry")
	_ = log.Sync()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(content), `"msg":"ignoring empty geometry"`) {
		t.Errorf("log file content:\n%s", content)
	}
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("/tmp/test.log")

	if cfg.Path != "/tmp/test.log" {
		t.Errorf("expected path /tmp/test.log, got %s", cfg.Path)
	}
	if cfg.MaxSizeMB != 20 || cfg.MaxBackups != 3 || cfg.MaxAgeDays != 14 {
		t.Errorf("unexpected rotation settings %+v", cfg)
	}
	if !cfg.Compress {
		t.Error("expected Compress to be true")
	}
}
