package log

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// pathKeys are attribute keys whose string values are treated as
// filesystem paths and anonymized.
var pathKeys = map[string]bool{
	"file":     true,
	"fileA":    true,
	"fileB":    true,
	"archive":  true,
	"path":     true,
	"dir":      true,
	"template": true,
}

// MaskingHandler wraps an slog.Handler and pseudonymizes path-valued
// attributes before passing records on. It implements slog.Handler, so it
// composes with any underlying handler (text, JSON).
type MaskingHandler struct {
	handler slog.Handler
}

// NewMaskingHandler creates a MaskingHandler wrapping the given handler.
// If handler is nil, slog.Default().Handler() is used.
func NewMaskingHandler(handler slog.Handler) *MaskingHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &MaskingHandler{handler: handler}
}

// Enabled delegates to the underlying handler.
func (h *MaskingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle masks the record's attributes and passes it on.
func (h *MaskingHandler) Handle(ctx context.Context, r slog.Record) error {
	masked := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		masked.AddAttrs(h.maskAttr(a))
		return true
	})
	return h.handler.Handle(ctx, masked)
}

// WithAttrs returns a new handler with the given attributes added, masked.
func (h *MaskingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	maskedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		maskedAttrs[i] = h.maskAttr(a)
	}
	return &MaskingHandler{handler: h.handler.WithAttrs(maskedAttrs)}
}

// WithGroup returns a new handler with the given group name.
func (h *MaskingHandler) WithGroup(name string) slog.Handler {
	return &MaskingHandler{handler: h.handler.WithGroup(name)}
}

// maskAttr masks a single attribute, recursively handling groups.
func (h *MaskingHandler) maskAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		maskedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			maskedAttrs[i] = h.maskAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(maskedAttrs...)}
	}

	if pathKeys[a.Key] && a.Value.Kind() == slog.KindString {
		return slog.String(a.Key, MaskPath(a.Value.String()))
	}
	return a
}

// MaskPath replaces every directory component of a path with a stable
// pseudonym; the final component (the target filename) is kept. The
// pseudonym is the first eight hex digits of the component's blake2b
// digest, so identical components mask identically within and across runs.
func MaskPath(path string) string {
	dir, file := filepath.Split(path)
	if dir == "" {
		return file
	}

	components := strings.Split(filepath.Clean(dir), string(filepath.Separator))
	for i, comp := range components {
		if comp == "" || comp == "." || comp == ".." {
			continue
		}
		components[i] = pseudonym(comp)
	}
	masked := filepath.Join(append(components, file)...)
	if filepath.IsAbs(path) && !filepath.IsAbs(masked) {
		masked = string(filepath.Separator) + masked
	}
	return masked
}

// pseudonym derives the stable short name for one path component.
func pseudonym(component string) string {
	sum := blake2b.Sum256([]byte(component))
	const hexDigits = "0123456789abcdef"
	var b strings.Builder
	b.WriteString("sub-")
	for _, c := range sum[:4] {
		b.WriteByte(hexDigits[c>>4])
		b.WriteByte(hexDigits[c&0x0f])
	}
	return b.String()
}

// NewLogger creates a text slog.Logger writing to w. Verbose switches the
// level from Warn to Debug; anonymize wraps the handler in a
// MaskingHandler.
func NewLogger(w io.Writer, verbose, anonymize bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	var handler slog.Handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	if anonymize {
		handler = NewMaskingHandler(handler)
	}
	return slog.New(handler)
}
