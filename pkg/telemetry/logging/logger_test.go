package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"mercator-hq/beans/pkg/config"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level     string
		wantDebug bool
		wantInfo  bool
		wantErr   bool
	}{
		{"debug", true, true, false},
		{"info", false, true, false},
		{"", false, true, false},
		{"error", false, false, false},
		{"verbose", false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := New(Config{Level: tt.level, Writer: &buf})
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			logger.Debug("debug message")
			logger.Info("info message")

			if got := strings.Contains(buf.String(), "debug message"); got != tt.wantDebug {
				t.Errorf("debug logged = %v, want %v", got, tt.wantDebug)
			}
			if got := strings.Contains(buf.String(), "info message"); got != tt.wantInfo {
				t.Errorf("info logged = %v, want %v", got, tt.wantInfo)
			}
		})
	}
}

func TestNew_InvalidFormat(t *testing.T) {
	if _, err := New(Config{Format: "xml"}); err == nil {
		t.Error("New() error = nil, want error for unknown format")
	}
}

func TestNew_JSONWithContextFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "info", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := WithResource(WithLoadID(context.Background(), "load-1"), "beans.xml")
	logger.InfoContext(ctx, "loaded", "count", 3)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if record["load_id"] != "load-1" {
		t.Errorf("load_id = %v, want %q", record["load_id"], "load-1")
	}
	if record["resource"] != "beans.xml" {
		t.Errorf("resource = %v, want %q", record["resource"], "beans.xml")
	}
	if record["count"] != float64(3) {
		t.Errorf("count = %v, want 3", record["count"])
	}
}

func TestNew_ConsoleOmitsTime(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.With("component", "test").Info("hello")

	out := buf.String()
	if strings.Contains(out, "time=") {
		t.Errorf("console output contains time: %q", out)
	}
	if !strings.Contains(out, "component=test") {
		t.Errorf("console output missing attrs: %q", out)
	}
}

func TestFromConfig(t *testing.T) {
	var buf bytes.Buffer
	cfg := FromConfig(config.LoggingConfig{Level: "warn", Format: "json", AddSource: true}, &buf)

	if cfg.Level != "warn" || cfg.Format != "json" || !cfg.AddSource || cfg.Writer != &buf {
		t.Errorf("FromConfig() = %+v", cfg)
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	if GetLoadID(ctx) != "" || GetResource(ctx) != "" || GetTraceID(ctx) != "" {
		t.Error("empty context should carry no fields")
	}

	ctx = WithTraceID(WithLoadID(ctx, "abc"), "t1")
	if got := GetLoadID(ctx); got != "abc" {
		t.Errorf("GetLoadID() = %q, want %q", got, "abc")
	}
	if got := GetTraceID(ctx); got != "t1" {
		t.Errorf("GetTraceID() = %q, want %q", got, "t1")
	}
	if got := len(contextAttrs(ctx)); got != 2 {
		t.Errorf("len(contextAttrs()) = %d, want 2", got)
	}
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	if logger.Enabled(context.Background(), 8) {
		t.Error("Discard() logger should not be enabled at error level")
	}
}
