package main

import (
	"bytes"
	"strings"
	"testing"
)

// TestGetVersion tests the version string resolution.
func TestGetVersion(t *testing.T) {
	t.Parallel()

	t.Run("returns non-empty version", func(t *testing.T) {
		t.Parallel()
		if getVersion() == "" {
			t.Error("expected non-empty version")
		}
	})

	t.Run("prefers ldflags value", func(t *testing.T) {
		orig := version
		defer func() { version = orig }()

		version = "v1.2.3"
		if got := getVersion(); got != "v1.2.3" {
			t.Errorf("expected 'v1.2.3', got %q", got)
		}
	})
}

// TestNewVersionCmd tests the version command output.
func TestNewVersionCmd(t *testing.T) {
	t.Parallel()

	cmd := NewVersionCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	cmd.Run(cmd, nil)

	out := buf.String()
	if !strings.Contains(out, "simscan version") {
		t.Errorf("expected version line, got %q", out)
	}
	if !strings.Contains(out, "commit:") {
		t.Errorf("expected commit line, got %q", out)
	}
	if !strings.Contains(out, "built:") {
		t.Errorf("expected build date line, got %q", out)
	}
}
