package logging

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	mdwlog "github.com/msto63/fmwkit/foundation/core/log"
	"github.com/msto63/fmwkit/pkg/core/config"
)

func TestDefaultLoggerConfig(t *testing.T) {
	cfg := DefaultLoggerConfig("fmwkit")
	if cfg.Name != "fmwkit" || cfg.Level != "info" || cfg.Format != "text" || cfg.Output != "stderr" {
		t.Errorf("DefaultLoggerConfig() = %+v", cfg)
	}
}

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		level   string
		want    mdwlog.Level
		wantErr bool
	}{
		{"trace", mdwlog.LevelTrace, false},
		{"debug", mdwlog.LevelDebug, false},
		{"info", mdwlog.LevelInfo, false},
		{"warn", mdwlog.LevelWarn, false},
		{"error", mdwlog.LevelError, false},
		{"", mdwlog.LevelInfo, false},
		{"loud", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := DefaultLoggerConfig("test")
			cfg.Level = tt.level
			logger, closer, err := NewLogger(cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewLogger() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			defer closer.Close()
			if logger.GetLevel() != tt.want {
				t.Errorf("level = %v, want %v", logger.GetLevel(), tt.want)
			}
		})
	}
}

func TestNewLogger_InvalidFormat(t *testing.T) {
	cfg := DefaultLoggerConfig("test")
	cfg.Format = "xml"
	if _, _, err := NewLogger(cfg); err == nil {
		t.Error("NewLogger() expected error for unknown format")
	}
}

func TestNewLogger_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "fmwkit.log")
	extra := &bytes.Buffer{}

	logger, closer, err := NewLogger(LoggerConfig{
		Name:              "test",
		Level:             "debug",
		Format:            "json",
		Output:            path,
		AdditionalOutputs: []io.Writer{extra},
	})
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	logger.Info("written", mdwlog.String("workspace", "a.fmw"))
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"workspace":"a.fmw"`) {
		t.Errorf("log file = %s", data)
	}
	if !strings.Contains(extra.String(), "written") {
		t.Errorf("additional output = %q", extra.String())
	}
}

func TestFromConfig(t *testing.T) {
	cfg := FromConfig("cli", config.LogConfig{Level: "warn", Format: "json", Output: "stdout"})
	want := LoggerConfig{Name: "cli", Level: "warn", Format: "json", Output: "stdout"}
	if cfg.Name != want.Name || cfg.Level != want.Level || cfg.Format != want.Format || cfg.Output != want.Output {
		t.Errorf("FromConfig() = %+v, want %+v", cfg, want)
	}
}
