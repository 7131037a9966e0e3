package replay

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/tagsync/internal/config"
	"github.com/bethropolis/tagsync/internal/core"
	"github.com/bethropolis/tagsync/internal/host"
	"github.com/bethropolis/tagsync/internal/logger"
	"github.com/bethropolis/tagsync/internal/types"
	"github.com/bethropolis/tagsync/plugins/tagsync"
)

// Result is the outcome of a replay.
type Result struct {
	Text    string
	Renames int    // Counterpart rewrites done by the tagsync plugin
	Status  string // Last status message
}

// Runner replays scripts with a fixed configuration.
type Runner struct {
	cfg *config.Config
}

// NewRunner creates a runner. A nil cfg means the defaults.
func NewRunner(cfg *config.Config) *Runner {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	return &Runner{cfg: cfg}
}

// Run loads file into a fresh workspace with the tagsync plugin, feeds every step the
// way the editor does (keydown, then the edit) and returns the final text. The file on
// disk is left untouched.
func Run(ctx context.Context, script *Script, file string) (string, error) {
	res, err := NewRunner(nil).Run(ctx, script, file)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// Run replays script against file.
func (r *Runner) Run(ctx context.Context, script *Script, file string) (*Result, error) {
	h := host.New(r.cfg, nil)
	plug := tagsync.New()
	if err := h.Start(plug); err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	defer h.Shutdown()

	f, err := h.Workspace().Open(file)
	if err != nil {
		return nil, err
	}
	ed := f.Editor

	renames := 0
	for i, step := range script.Steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		// Toggling the plugin discards its context, so count before each step.
		before := plug.Context()
		n := 0
		if before != nil {
			n = before.Renames()
		}
		if err := r.apply(h, ed, step); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, step.Kind(), err)
		}
		if after := plug.Context(); after != nil && after == before {
			renames += after.Renames() - n
		}
		logger.DebugTagf("replay", "step %d %s -> cursor %v", i+1, step.Kind(), ed.GetCursor())
	}

	return &Result{
		Text:    f.Document.Text(),
		Renames: renames,
		Status:  h.StatusMessage(),
	}, nil
}

func (r *Runner) apply(h *host.Host, ed *core.Editor, step Step) error {
	switch {
	case step.Move != nil:
		ed.SetCursor(types.Position{Line: step.Move.Line - 1, Col: step.Move.Col - 1})
	case step.Type != "":
		for _, ch := range step.Type {
			if err := typeRune(ed, ch, r.cfg.Editor.TabWidth); err != nil {
				return err
			}
		}
	case step.Backspace > 0:
		return repeat(step.Backspace, func() error {
			ed.KeyDown(tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone))
			return ed.DeleteBackward()
		})
	case step.Delete > 0:
		return repeat(step.Delete, func() error {
			ed.KeyDown(tcell.NewEventKey(tcell.KeyDelete, 0, tcell.ModNone))
			return ed.DeleteForward()
		})
	case step.Newline:
		return typeRune(ed, '\n', r.cfg.Editor.TabWidth)
	case step.Command != "":
		return h.Execute(step.Command)
	}
	return nil
}

func typeRune(ed *core.Editor, ch rune, tabWidth int) error {
	switch ch {
	case '\n':
		ed.KeyDown(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
		return ed.InsertNewLine()
	case '\t':
		ed.KeyDown(tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone))
		return ed.InsertTab(tabWidth)
	}
	ed.KeyDown(tcell.NewEventKey(tcell.KeyRune, ch, tcell.ModNone))
	return ed.InsertRune(ch)
}

func repeat(n int, fn func() error) error {
	for i := 0; i < n; i++ {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}
