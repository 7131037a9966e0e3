package logger

import (
	"context"
	"log/slog"
	"path/filepath"
	"runtime"
)

const tagKey = "tag"

// filteringHandler drops records whose tag, package or file is filtered out
// before handing them to the wrapped handler.
type filteringHandler struct {
	base     slog.Handler
	tags     filterSet
	packages filterSet
	files    filterSet
}

func newFilteringHandler(base slog.Handler, cfg Config) *filteringHandler {
	return &filteringHandler{
		base:     base,
		tags:     newFilterSet(cfg.EnabledTags, cfg.DisabledTags),
		packages: newFilterSet(cfg.EnabledPackages, cfg.DisabledPackages),
		files:    newFilterSet(cfg.EnabledFiles, cfg.DisabledFiles),
	}
}

func (h *filteringHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

func (h *filteringHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.PC != 0 {
		frames := runtime.CallersFrames([]uintptr{r.PC})
		frame, _ := frames.Next()
		if frame.File != "" {
			if !h.packages.permits(filepath.Base(filepath.Dir(frame.File))) {
				return nil
			}
			if !h.files.permits(filepath.Base(frame.File)) {
				return nil
			}
		}
	}

	tag := ""
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == tagKey {
			tag = a.Value.String()
			return false
		}
		return true
	})
	if tag == "" {
		// Untagged records are dropped only when a tag allow list is active.
		if h.tags.allow != nil {
			return nil
		}
	} else if !h.tags.permits(tag) {
		return nil
	}

	return h.base.Handle(ctx, r)
}

func (h *filteringHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &filteringHandler{base: h.base.WithAttrs(attrs), tags: h.tags, packages: h.packages, files: h.files}
}

func (h *filteringHandler) WithGroup(name string) slog.Handler {
	return &filteringHandler{base: h.base.WithGroup(name), tags: h.tags, packages: h.packages, files: h.files}
}
