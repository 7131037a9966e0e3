package tagsync

import (
	"regexp"
	"strings"

	"github.com/bethropolis/tagsync/internal/types"
)

// testHost is a tiny line-based editor with a structural tag matcher. It drives a
// Context the way the real editor does: keydown, edit, change notification, then
// cursor activity.
type testHost struct {
	lines  []string
	cursor types.Position
	ctx    *Context

	replacements []replaceCall
	marks        []types.Range
}

type replaceCall struct {
	Text     string
	From, To types.Position
}

var tagPattern = regexp.MustCompile(`<(/?)([A-Za-z0-9]*)[^<>]*?(/?)>`)

var testVoids = map[string]bool{"br": true, "hr": true, "img": true, "input": true, "meta": true, "param": true}

func newTestHost(text string, cursor types.Position, cfg Config) *testHost {
	h := &testHost{lines: strings.Split(text, "\n"), cursor: cursor}
	h.ctx = NewContext(cfg, h, h, h, h)
	return h
}

func (h *testHost) text() string { return strings.Join(h.lines, "\n") }

func (h *testHost) GetCursor() types.Position { return h.cursor }

func (h *testHost) ReplaceRange(text string, from, to types.Position) error {
	h.replacements = append(h.replacements, replaceCall{Text: text, From: from, To: to})
	h.apply(text, from, to)
	h.ctx.OnDocumentChanged()
	return nil
}

func (h *testHost) MarkRange(from, to types.Position, style string) {
	h.marks = append(h.marks, types.Range{Start: from, End: to})
}

func (h *testHost) ClearMarks() { h.marks = nil }

// apply edits a single line and maps the cursor like a code editor would.
func (h *testHost) apply(text string, from, to types.Position) {
	line := h.lines[from.Line]
	h.lines[from.Line] = line[:from.Col] + text + line[to.Col:]
	if h.cursor.Line == from.Line && h.cursor.Col >= to.Col {
		h.cursor.Col += len(text) - (to.Col - from.Col)
	} else if h.cursor.Line == from.Line && h.cursor.Col > from.Col {
		h.cursor.Col = from.Col + len(text)
	}
}

func (h *testHost) typeText(s string) {
	for _, r := range s {
		h.ctx.OnCursorOrKey()
		h.apply(string(r), h.cursor, h.cursor)
		h.ctx.OnDocumentChanged()
		h.ctx.OnCursorOrKey()
	}
}

func (h *testHost) deleteForward(n int) {
	for i := 0; i < n; i++ {
		h.ctx.OnCursorOrKey()
		end := types.Position{Line: h.cursor.Line, Col: h.cursor.Col + 1}
		h.apply("", h.cursor, end)
		h.ctx.OnDocumentChanged()
		h.ctx.OnCursorOrKey()
	}
}

func (h *testHost) backspace(n int) {
	for i := 0; i < n; i++ {
		h.ctx.OnCursorOrKey()
		start := types.Position{Line: h.cursor.Line, Col: h.cursor.Col - 1}
		h.apply("", start, h.cursor)
		h.ctx.OnDocumentChanged()
		h.ctx.OnCursorOrKey()
	}
}

type testTag struct {
	ref              TagRef
	closing, single  bool
	nameFrom, nameTo types.Position
}

func (h *testHost) tags() []testTag {
	var out []testTag
	for ln, line := range h.lines {
		for _, m := range tagPattern.FindAllStringSubmatchIndex(line, -1) {
			closing := m[3] > m[2]
			name := line[m[4]:m[5]]
			out = append(out, testTag{
				ref: TagRef{
					From: types.Position{Line: ln, Col: m[0]},
					To:   types.Position{Line: ln, Col: m[1]},
					Tag:  name,
				},
				closing:  closing,
				single:   !closing && (m[7] > m[6] || testVoids[name]),
				nameFrom: types.Position{Line: ln, Col: m[4]},
				nameTo:   types.Position{Line: ln, Col: m[5]},
			})
		}
	}
	return out
}

func onName(t testTag, pos types.Position) bool {
	return t.ref.Tag != "" && !pos.Before(t.nameFrom) && !t.nameTo.Before(pos)
}

func (h *testHost) TagInfo(pos types.Position) TagInfo {
	for _, t := range h.tags() {
		if onName(t, pos) {
			side := SideOpen
			if t.closing {
				side = SideClose
			}
			return TagInfo{TagName: t.ref.Tag, Side: side, NameFrom: t.nameFrom, NameTo: t.nameTo}
		}
	}
	return TagInfo{}
}

func (h *testHost) FindMatchingTag(pos types.Position) *TagPair {
	tags := h.tags()
	partner := make(map[int]int)
	var stack []int
	for i, t := range tags {
		switch {
		case t.single:
		case !t.closing:
			stack = append(stack, i)
		case len(stack) > 0:
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			partner[open] = i
			partner[i] = open
		}
	}

	for i, t := range tags {
		if !onName(t, pos) {
			continue
		}
		ref := t.ref
		pair := &TagPair{At: SideOpen}
		if t.closing {
			pair.At = SideClose
			pair.Close = &ref
		} else {
			pair.Open = &ref
		}
		if j, ok := partner[i]; ok {
			other := tags[j].ref
			if t.closing {
				pair.Open = &other
			} else {
				pair.Close = &other
			}
		}
		return pair
	}
	return nil
}
