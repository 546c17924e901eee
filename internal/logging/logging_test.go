package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNew_Level(t *testing.T) {
	tests := []struct {
		level   string
		want    logrus.Level
		wantErr bool
	}{
		{"debug", logrus.DebugLevel, false},
		{"warn", logrus.WarnLevel, false},
		{"loud", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Level = tt.level
			logger, err := New(cfg)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if logger.GetLevel() != tt.want {
				t.Errorf("level: got %v, want %v", logger.GetLevel(), tt.want)
			}
		})
	}
}

func TestNew_OutputAndComponent(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.NoColors = true

	logger, err := newLogger(cfg, &buf)
	if err != nil {
		t.Fatal(err)
	}
	Component(logger, "detector").Info("boundary found")

	out := buf.String()
	if !strings.Contains(out, "boundary found") || !strings.Contains(out, "detector") {
		t.Errorf("output: %q", out)
	}
	if !strings.Contains(out, "logging_test.go") {
		t.Errorf("caller missing: %q", out)
	}
	if strings.Contains(out, "\x1b[34m") {
		t.Error("colored caller with NoColors set")
	}
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docscan.log")
	cfg := DefaultConfig()
	cfg.File = path

	var buf bytes.Buffer
	logger, err := newLogger(cfg, &buf)
	if err != nil {
		t.Fatal(err)
	}
	logger.Warn("written to file")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file: %v", err)
	}
	if !strings.Contains(string(data), "written to file") {
		t.Errorf("file contents: %q", data)
	}
}
