package document

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bethropolis/tagsync/internal/buffer"
	"github.com/bethropolis/tagsync/internal/event"
	"github.com/bethropolis/tagsync/internal/types"
)

func pos(line, col int) types.Position { return types.Position{Line: line, Col: col} }

func newDoc(text string) *Document {
	return New(buffer.NewSliceBufferFromText(text))
}

func TestReplaceRangeDispatchesChange(t *testing.T) {
	doc := newDoc("<div>text</div>")
	var got []event.DocumentChangedData
	doc.On(event.TypeDocumentChanged, func(e event.Event) bool {
		got = append(got, e.Data.(event.DocumentChangedData))
		return false
	})

	require.NoError(t, doc.ReplaceRange("section", pos(0, 11), pos(0, 14)))
	require.Equal(t, "<div>text</section>", doc.Text())
	require.Len(t, got, 1)
	require.Equal(t, pos(0, 11), got[0].From)
	require.Equal(t, pos(0, 14), got[0].OldTo)
	require.Equal(t, pos(0, 18), got[0].NewTo)
	require.Equal(t, uint64(1), doc.Version())
}

func TestEmptyChangeIsSkipped(t *testing.T) {
	doc := newDoc("<p></p>")
	calls := 0
	doc.On(event.TypeDocumentChanged, func(e event.Event) bool {
		calls++
		return false
	})

	require.NoError(t, doc.Delete(pos(0, 2), pos(0, 2)))
	require.Equal(t, 0, calls)
	require.Equal(t, uint64(0), doc.Version())
}

func TestOffStopsNotifications(t *testing.T) {
	doc := newDoc("")
	calls := 0
	id := doc.On(event.TypeDocumentChanged, func(e event.Event) bool {
		calls++
		return false
	})

	require.NoError(t, doc.Insert(pos(0, 0), "<a>"))
	doc.Off(id)
	require.NoError(t, doc.Insert(pos(0, 3), "</a>"))
	require.Equal(t, 1, calls)
	require.Equal(t, "<a></a>", doc.Text())
}

func TestRefCounting(t *testing.T) {
	doc := newDoc("")
	doc.AddRef()
	doc.AddRef()
	require.Equal(t, 2, doc.RefCount())

	doc.ReleaseRef()
	doc.ReleaseRef()
	doc.ReleaseRef()
	require.Equal(t, 0, doc.RefCount())
}

func TestSetTextReplacesEverything(t *testing.T) {
	doc := newDoc("<a>\n</a>")
	require.NoError(t, doc.SetText("<b></b>"))
	require.Equal(t, "<b></b>", doc.Text())
}

func TestEndOfInsert(t *testing.T) {
	require.Equal(t, pos(2, 5), EndOfInsert(pos(2, 1), "abcd"))
	require.Equal(t, pos(3, 2), EndOfInsert(pos(2, 1), "ab\né"+"x"))
	require.Equal(t, pos(2, 1), EndOfInsert(pos(2, 1), ""))
}

func TestMapPosition(t *testing.T) {
	// "div" at 11..14 replaced with "section"
	change := event.DocumentChangedData{From: pos(0, 11), OldTo: pos(0, 14), NewTo: pos(0, 18)}

	require.Equal(t, pos(0, 3), MapPosition(pos(0, 3), change))
	require.Equal(t, pos(0, 18), MapPosition(pos(0, 12), change))
	require.Equal(t, pos(0, 19), MapPosition(pos(0, 15), change))
	require.Equal(t, pos(1, 4), MapPosition(pos(1, 4), change))

	// cursor sitting at an insertion point moves past the inserted text
	insert := event.DocumentChangedData{From: pos(0, 1), OldTo: pos(0, 1), NewTo: pos(0, 2)}
	require.Equal(t, pos(0, 2), MapPosition(pos(0, 1), insert))

	// joining two lines
	join := event.DocumentChangedData{From: pos(0, 5), OldTo: pos(1, 0), NewTo: pos(0, 5)}
	require.Equal(t, pos(0, 8), MapPosition(pos(1, 3), join))
	require.Equal(t, pos(1, 0), MapPosition(pos(2, 0), join))
}
