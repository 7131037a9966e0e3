package markup

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bethropolis/tagsync/internal/buffer"
	"github.com/bethropolis/tagsync/internal/document"
	"github.com/bethropolis/tagsync/internal/event"
	"github.com/bethropolis/tagsync/internal/tagsync"
	"github.com/bethropolis/tagsync/internal/types"
)

func pos(line, col int) types.Position { return types.Position{Line: line, Col: col} }

func newMatcher(t *testing.T, text string) (*document.Document, *Matcher) {
	t.Helper()
	doc := document.New(buffer.NewSliceBufferFromText(text))
	m, err := NewMatcher(doc, ForFile("index.html"), "")
	require.NoError(t, err)
	doc.On(event.TypeDocumentChanged, func(e event.Event) bool {
		m.Invalidate(e.Data.(event.DocumentChangedData).Edit)
		return false
	})
	t.Cleanup(m.Close)
	return doc, m
}

func TestTagInfoBoundaries(t *testing.T) {
	_, m := newMatcher(t, "<div>text</div>")

	for _, col := range []int{1, 2, 4} {
		info := m.TagInfo(pos(0, col))
		require.Equal(t, "div", info.TagName, "col %d", col)
		require.Equal(t, tagsync.SideOpen, info.Side)
		require.Equal(t, pos(0, 1), info.NameFrom)
		require.Equal(t, pos(0, 4), info.NameTo)
	}
	require.Empty(t, m.TagInfo(pos(0, 0)).TagName)
	require.Empty(t, m.TagInfo(pos(0, 6)).TagName)

	closing := m.TagInfo(pos(0, 12))
	require.Equal(t, "div", closing.TagName)
	require.Equal(t, tagsync.SideClose, closing.Side)
}

func TestFindMatchingTag(t *testing.T) {
	_, m := newMatcher(t, "<div>text</div>")

	pair := m.FindMatchingTag(pos(0, 2))
	require.False(t, pair.IsSingle())
	require.Equal(t, tagsync.SideOpen, pair.At)
	require.Equal(t, tagsync.TagRef{From: pos(0, 0), To: pos(0, 5), Tag: "div"}, *pair.Open)
	require.Equal(t, tagsync.TagRef{From: pos(0, 9), To: pos(0, 15), Tag: "div"}, *pair.Close)

	pair = m.FindMatchingTag(pos(0, 11))
	require.Equal(t, tagsync.SideClose, pair.At)
	require.False(t, pair.IsSingle())

	require.Nil(t, m.FindMatchingTag(pos(0, 6)))
}

func TestSingleTags(t *testing.T) {
	_, m := newMatcher(t, "<br><img src=\"a.png\"/><input>\n<span>")

	require.True(t, m.FindMatchingTag(pos(0, 2)).IsSingle())
	require.True(t, m.FindMatchingTag(pos(0, 6)).IsSingle())
	require.True(t, m.FindMatchingTag(pos(0, 24)).IsSingle())
	require.True(t, m.FindMatchingTag(pos(1, 2)).IsSingle())
	require.Empty(t, m.Pairs())
}

func TestNestedPairs(t *testing.T) {
	_, m := newMatcher(t, "<div>\n  <div><b>x</b></div>\n</div>")

	outer := m.FindMatchingTag(pos(0, 1))
	require.Equal(t, pos(2, 0), outer.Close.From)

	inner := m.FindMatchingTag(pos(1, 3))
	require.Equal(t, pos(1, 15), inner.Close.From)

	require.Len(t, m.Pairs(), 3)
}

func TestRenamedOpenTagStaysPaired(t *testing.T) {
	_, m := newMatcher(t, "<div><sdiv>x</div></div>")

	pair := m.FindMatchingTag(pos(0, 7))
	require.False(t, pair.IsSingle())
	require.Equal(t, "sdiv", pair.Open.Tag)
	require.Equal(t, pos(0, 12), pair.Close.From)
}

func TestRenamedCloseTagStaysPaired(t *testing.T) {
	_, m := newMatcher(t, "<ul>\n<li>a</lix>\n</ul>")

	pair := m.FindMatchingTag(pos(1, 7))
	require.False(t, pair.IsSingle())
	require.Equal(t, "li", pair.Open.Tag)
	require.Equal(t, tagsync.SideClose, pair.At)
}

// renameSteps lists the (edited, other) name pairs seen while typing to in front of
// from one rune at a time, the other side following one step behind, and then
// deleting from forward.
func renameSteps(from, to string) [][2]string {
	var steps [][2]string
	for k := 1; k <= len(to); k++ {
		steps = append(steps, [2]string{to[:k] + from, to[:k-1] + from})
	}
	for d := 1; d <= len(from); d++ {
		steps = append(steps, [2]string{to + from[d:], to + from[d-1:]})
	}
	return steps
}

func TestOpenTagRenameStaysPairedAtEveryStep(t *testing.T) {
	for _, step := range renameSteps("div", "section") {
		open, closing := step[0], step[1]
		text := "<" + open + ">text</" + closing + ">"
		t.Run(text, func(t *testing.T) {
			_, m := newMatcher(t, text)

			pair := m.FindMatchingTag(pos(0, 1))
			require.False(t, pair.IsSingle())
			require.Equal(t, open, pair.Open.Tag)
			require.Equal(t, closing, pair.Close.Tag)
			require.Equal(t, pos(0, len(open)+6), pair.Close.From)
		})
	}
}

func TestCloseTagRenameStaysPairedAtEveryStep(t *testing.T) {
	for _, step := range renameSteps("ul", "ol") {
		closing, open := step[0], step[1]
		text := "<" + open + ">\n  <li>one</li>\n</" + closing + ">\n"
		t.Run(text, func(t *testing.T) {
			_, m := newMatcher(t, text)

			info := m.TagInfo(pos(2, 2))
			require.Equal(t, closing, info.TagName)
			require.Equal(t, tagsync.SideClose, info.Side)

			pair := m.FindMatchingTag(pos(2, 2))
			require.False(t, pair.IsSingle())
			require.Equal(t, open, pair.Open.Tag)
			require.Equal(t, pos(0, 0), pair.Open.From)
		})
	}
}

func TestEndTagInCommentIsNotRecovered(t *testing.T) {
	_, m := newMatcher(t, "<sediv><!-- </x> -->text</sdiv>")

	pair := m.FindMatchingTag(pos(0, 1))
	require.False(t, pair.IsSingle())
	require.Equal(t, "sdiv", pair.Close.Tag)
	require.Nil(t, m.FindMatchingTag(pos(0, 14)))
}

func TestImplicitlyClosedElements(t *testing.T) {
	_, m := newMatcher(t, "<div><p>one<p>two</div>")

	require.True(t, m.FindMatchingTag(pos(0, 6)).IsSingle())
	require.True(t, m.FindMatchingTag(pos(0, 12)).IsSingle())
	div := m.FindMatchingTag(pos(0, 2))
	require.False(t, div.IsSingle())
	require.Equal(t, pos(0, 17), div.Close.From)
}

func TestTagNamePattern(t *testing.T) {
	_, m := newMatcher(t, "<my-el>x</my-el>")
	require.Empty(t, m.TagInfo(pos(0, 2)).TagName)
	require.Nil(t, m.FindMatchingTag(pos(0, 2)))

	doc := document.New(buffer.NewSliceBufferFromText("<my-el>x</my-el>"))
	custom, err := NewMatcher(doc, ForFile("a.html"), `^[a-z][a-z0-9-]*$`)
	require.NoError(t, err)
	defer custom.Close()
	require.Equal(t, "my-el", custom.TagInfo(pos(0, 2)).TagName)

	_, err = NewMatcher(doc, ForFile("a.html"), "(")
	require.Error(t, err)
}

func TestMultibyteColumns(t *testing.T) {
	_, m := newMatcher(t, "<p>héllo</p><b>x</b>")

	pair := m.FindMatchingTag(pos(0, 14))
	require.False(t, pair.IsSingle())
	require.Equal(t, pos(0, 12), pair.Open.From)
	require.Equal(t, pos(0, 16), pair.Close.From)
}

func TestReparseAfterEdits(t *testing.T) {
	doc, m := newMatcher(t, "<div>text</div>")
	require.Len(t, m.Pairs(), 1)

	require.NoError(t, doc.Insert(pos(0, 1), "s"))
	pair := m.FindMatchingTag(pos(0, 2))
	require.False(t, pair.IsSingle())
	require.Equal(t, "sdiv", pair.Open.Tag)
	require.Equal(t, "div", pair.Close.Tag)

	require.NoError(t, doc.ReplaceRange("sdiv", pos(0, 12), pos(0, 15)))
	require.NoError(t, doc.Insert(pos(0, 17), "\n<hr>"))
	pairs := m.Pairs()
	require.Len(t, pairs, 1)
	require.Equal(t, "sdiv", pairs[0].Close.Tag)
	require.True(t, m.FindMatchingTag(pos(1, 2)).IsSingle())
}

func TestIsStaticMarkupFile(t *testing.T) {
	require.True(t, IsStaticMarkupFile("/site/index.html"))
	require.True(t, IsStaticMarkupFile("page.HTM"))
	require.True(t, IsStaticMarkupFile("doc.xhtml"))
	require.False(t, IsStaticMarkupFile("main.go"))
	require.False(t, IsStaticMarkupFile("README"))

	Configure([]string{"vue", ".svelte"})
	t.Cleanup(func() { Configure(nil) })
	require.True(t, IsStaticMarkupFile("App.vue"))
	require.True(t, IsStaticMarkupFile("App.svelte"))
	require.False(t, IsStaticMarkupFile("index.html"))
}
