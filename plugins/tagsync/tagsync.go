// Package tagsync is the plugin that renames the other half of an open/close tag pair
// while one half is being edited. It follows the current file of the working set and is
// attached to at most one editor at a time.
package tagsync

import (
	"fmt"
	"strings"

	"github.com/bethropolis/tagsync/internal/core"
	"github.com/bethropolis/tagsync/internal/document"
	"github.com/bethropolis/tagsync/internal/event"
	"github.com/bethropolis/tagsync/internal/logger"
	"github.com/bethropolis/tagsync/internal/markup"
	"github.com/bethropolis/tagsync/internal/plugin"
	tags "github.com/bethropolis/tagsync/internal/tagsync"
	"github.com/bethropolis/tagsync/internal/theme"
)

// Name is the plugin name and its [plugins.tagsync] config key.
const Name = "tagsync"

// Ensure Plugin implements plugin.Plugin and plugin.StatusProvider.
var (
	_ plugin.Plugin         = (*Plugin)(nil)
	_ plugin.StatusProvider = (*Plugin)(nil)
)

// Plugin keeps tag pairs in sync in the current static markup file.
type Plugin struct {
	api     plugin.EditorAPI
	enabled bool
	current string // path of the current file, attached or not
	appSubs []event.SubscriptionID
	att     *attachment
}

// attachment is everything acquired for one editor. It is thrown away on detach, so
// a document that is no longer current is never written to.
type attachment struct {
	path    string
	editor  *core.Editor
	doc     *document.Document
	matcher *markup.Matcher
	ctx     *tags.Context
	edSubs  []event.SubscriptionID
	docSub  event.SubscriptionID
}

// New creates the plugin.
func New() *Plugin {
	return &Plugin{}
}

func (p *Plugin) Name() string {
	return Name
}

// Initialize subscribes to the working set, registers :tagsync and attaches to the
// current file if one is already open.
func (p *Plugin) Initialize(api plugin.EditorAPI) error {
	p.api = api
	cfg := api.Config()
	p.enabled = cfg.TagSync.Enabled
	markup.Configure(cfg.TagSync.Extensions)

	if err := api.RegisterCommand("tagsync", p.executeCommand); err != nil {
		return fmt.Errorf("failed to register 'tagsync' command: %w", err)
	}

	p.appSubs = append(p.appSubs,
		api.SubscribeEvent(event.TypeCurrentFileChanged, p.handleCurrentFileChanged),
		api.SubscribeEvent(event.TypeWorkingSetRemove, p.handleWorkingSetRemove),
	)

	if ed := api.ActiveEditor(); ed != nil {
		p.current = ed.Document().FilePath()
		p.attachCurrent()
	}
	return nil
}

// Shutdown detaches and drops every subscription.
func (p *Plugin) Shutdown() error {
	p.detach()
	if p.api != nil {
		for _, id := range p.appSubs {
			p.api.UnsubscribeEvent(id)
		}
	}
	p.appSubs = nil
	return nil
}

// Enabled reports whether syncing is switched on.
func (p *Plugin) Enabled() bool {
	return p.enabled
}

// Attached returns the path of the file the plugin is attached to, or "".
func (p *Plugin) Attached() string {
	if p.att == nil {
		return ""
	}
	return p.att.path
}

// Context returns the tracking context of the attached file, or nil.
func (p *Plugin) Context() *tags.Context {
	if p.att == nil {
		return nil
	}
	return p.att.ctx
}

// StatusText shows the tracked tag, if any.
func (p *Plugin) StatusText() string {
	switch {
	case !p.enabled:
		return "tags:off"
	case p.att == nil:
		return ""
	case p.att.ctx.Tracking():
		return "tags <" + *p.att.ctx.State().PreviousTagName + ">"
	default:
		return "tags"
	}
}

func (p *Plugin) handleCurrentFileChanged(e event.Event) bool {
	data, ok := e.Data.(event.CurrentFileChangedData)
	if !ok {
		logger.Warnf("tagsync: unexpected %v payload %T", e.Type, e.Data)
		return false
	}
	p.detach()
	p.current = ""
	if data.NewFile != nil {
		p.current = data.NewFile.FullPath
		p.attachCurrent()
	}
	return false
}

func (p *Plugin) handleWorkingSetRemove(e event.Event) bool {
	data, ok := e.Data.(event.FileData)
	if !ok {
		logger.Warnf("tagsync: unexpected %v payload %T", e.Type, e.Data)
		return false
	}
	if p.att != nil && p.att.path == data.FullPath {
		p.detach()
	}
	return false
}

func (p *Plugin) attachCurrent() {
	if !p.enabled || p.att != nil || p.current == "" {
		return
	}
	if !markup.IsStaticMarkupFile(p.current) {
		logger.DebugTagf("tagsync", "%s is not static markup", p.current)
		return
	}
	if err := p.attach(p.current); err != nil {
		logger.Errorf("tagsync: %v", err)
		p.api.SetStatusMessage("tagsync: %v", err)
	}
}

func (p *Plugin) attach(path string) error {
	ed := p.api.EditorFor(path)
	if ed == nil {
		return fmt.Errorf("no editor for %s", path)
	}
	cfg := p.api.Config().TagSync
	doc := ed.Document()
	matcher, err := markup.NewMatcher(doc, markup.ForFile(path), cfg.TagNamePattern)
	if err != nil {
		return fmt.Errorf("attach %s: %w", path, err)
	}

	ctx := tags.NewContext(tags.Config{
		HighlightPair:  cfg.HighlightPair,
		HighlightStyle: theme.StyleMatchingTag,
	}, ed, doc, matcher, matcher)

	a := &attachment{path: path, editor: ed, doc: doc, matcher: matcher, ctx: ctx}
	onCursorOrKey := func(event.Event) bool {
		ctx.OnCursorOrKey()
		return false
	}
	a.edSubs = []event.SubscriptionID{
		ed.On(event.TypeKeyPressed, onCursorOrKey),
		ed.On(event.TypeCursorMoved, onCursorOrKey),
	}
	a.docSub = doc.On(event.TypeDocumentChanged, func(e event.Event) bool {
		if change, ok := e.Data.(event.DocumentChangedData); ok {
			matcher.Invalidate(change.Edit)
		}
		ctx.OnDocumentChanged()
		return false
	})
	doc.AddRef()

	p.att = a
	logger.Infof("tagsync: attached to %s", path)
	return nil
}

func (p *Plugin) detach() {
	a := p.att
	if a == nil {
		return
	}
	p.att = nil
	for _, id := range a.edSubs {
		a.editor.Off(id)
	}
	a.doc.Off(a.docSub)
	a.ctx.Reset()
	a.matcher.Close()
	a.doc.ReleaseRef()
	logger.Infof("tagsync: detached from %s", a.path)
}

// executeCommand implements :tagsync [on|off|status].
func (p *Plugin) executeCommand(args []string) error {
	sub := "status"
	if len(args) > 0 {
		sub = strings.ToLower(args[0])
	}
	switch sub {
	case "on":
		p.enabled = true
		p.attachCurrent()
		p.api.SetStatusMessage("tagsync: on")
	case "off":
		p.detach()
		p.enabled = false
		p.api.SetStatusMessage("tagsync: off")
	case "status":
		p.api.SetStatusMessage("%s", p.describe())
	default:
		return fmt.Errorf("usage: tagsync [on|off|status]")
	}
	return nil
}

func (p *Plugin) describe() string {
	if !p.enabled {
		return "tagsync: off"
	}
	if p.att == nil {
		return "tagsync: on, not attached"
	}
	msg := fmt.Sprintf("tagsync: on, %d renames", p.att.ctx.Renames())
	if p.att.ctx.Tracking() {
		msg += fmt.Sprintf(", tracking <%s>", *p.att.ctx.State().PreviousTagName)
	}
	return msg
}
