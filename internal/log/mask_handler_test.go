package log

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
)

func TestMaskPath(t *testing.T) {
	t.Parallel()

	t.Run("directory components are pseudonymized", func(t *testing.T) {
		t.Parallel()

		masked := MaskPath(filepath.Join("corpus", "alice_12345", "top.v"))
		if strings.Contains(masked, "alice_12345") {
			t.Errorf("student name survived masking: %q", masked)
		}
		if !strings.HasSuffix(masked, "top.v") {
			t.Errorf("target filename was masked: %q", masked)
		}
	})

	t.Run("masking is stable", func(t *testing.T) {
		t.Parallel()

		p := filepath.Join("corpus", "alice_12345", "top.v")
		if MaskPath(p) != MaskPath(p) {
			t.Error("same path masked differently")
		}
	})

	t.Run("distinct components mask distinctly", func(t *testing.T) {
		t.Parallel()

		a := MaskPath(filepath.Join("corpus", "alice", "top.v"))
		b := MaskPath(filepath.Join("corpus", "bob", "top.v"))
		if a == b {
			t.Errorf("different submissions masked identically: %q", a)
		}
	})

	t.Run("bare filename is unchanged", func(t *testing.T) {
		t.Parallel()

		if got := MaskPath("top.v"); got != "top.v" {
			t.Errorf("MaskPath(%q) = %q", "top.v", got)
		}
	})

	t.Run("absolute paths stay absolute", func(t *testing.T) {
		t.Parallel()

		got := MaskPath(string(filepath.Separator) + filepath.Join("corpus", "alice", "top.v"))
		if !filepath.IsAbs(got) {
			t.Errorf("masked path lost absolute prefix: %q", got)
		}
	})
}

func TestMaskingHandler(t *testing.T) {
	t.Parallel()

	t.Run("masks path-valued attributes", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(NewMaskingHandler(slog.NewTextHandler(&buf, nil)))

		logger.Warn("comparison failed",
			"file", filepath.Join("corpus", "alice_12345", "top.v"),
			"score", 0.0,
		)

		out := buf.String()
		if strings.Contains(out, "alice_12345") {
			t.Errorf("student name leaked into log output: %s", out)
		}
		if !strings.Contains(out, "score=0") {
			t.Errorf("non-path attribute was altered: %s", out)
		}
	})

	t.Run("non-path attributes pass through", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(NewMaskingHandler(slog.NewTextHandler(&buf, nil)))

		logger.Warn("extraction skipped", "reason", "corrupt archive")
		if !strings.Contains(buf.String(), "corrupt archive") {
			t.Errorf("reason attribute was masked: %s", buf.String())
		}
	})
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	t.Run("warn level by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, false, false)
		logger.Info("hidden")
		logger.Warn("visible")

		if strings.Contains(buf.String(), "hidden") {
			t.Error("info logged at warn level")
		}
		if !strings.Contains(buf.String(), "visible") {
			t.Error("warn not logged")
		}
	})

	t.Run("verbose enables debug", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		NewLogger(&buf, true, false).Debug("detail")
		if !strings.Contains(buf.String(), "detail") {
			t.Error("debug not logged in verbose mode")
		}
	})
}
