package lsp

import (
	"unicode/utf8"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/bethropolis/tagsync/internal/buffer"
	"github.com/bethropolis/tagsync/internal/tagsync"
	"github.com/bethropolis/tagsync/internal/types"
	"github.com/bethropolis/tagsync/internal/utils"
)

// textDocumentLinkedEditingRange returns the two name ranges of the tag pair under the
// position. Unpaired, void and self-closing tags get no ranges, and neither does a pair
// whose names already differ.
func (s *Server) textDocumentLinkedEditingRange(context *glsp.Context, params *protocol.LinkedEditingRangeParams) (*protocol.LinkedEditingRanges, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	od, ok := s.docs[params.TextDocument.URI]
	if !ok {
		return nil, nil
	}

	buf := od.doc.Buffer()
	pos := toPosition(buf, params.Position)
	if od.matcher.TagInfo(pos).TagName == "" {
		return nil, nil
	}
	pair := od.matcher.FindMatchingTag(pos)
	if pair.IsSingle() || pair.Open.Tag != pair.Close.Tag {
		return nil, nil
	}

	pattern := s.cfg.TagSync.TagNamePattern
	return &protocol.LinkedEditingRanges{
		Ranges: []protocol.Range{
			nameRange(buf, pair.Open, 1),
			nameRange(buf, pair.Close, 2),
		},
		WordPattern: &pattern,
	}, nil
}

// nameRange is the name of ref, which starts skip runes after its '<'.
func nameRange(buf buffer.Buffer, ref *tagsync.TagRef, skip int) protocol.Range {
	from := types.Position{Line: ref.From.Line, Col: ref.From.Col + skip}
	to := types.Position{Line: from.Line, Col: from.Col + utf8.RuneCountInString(ref.Tag)}
	return protocol.Range{Start: fromPosition(buf, from), End: fromPosition(buf, to)}
}

// toPosition converts a UTF-16 protocol position to a rune position, clamping past
// the end of a line or the document.
func toPosition(buf buffer.Buffer, p protocol.Position) types.Position {
	line := int(p.Line)
	if line >= buf.LineCount() {
		line = buf.LineCount() - 1
		text, _ := buf.Line(line)
		return types.Position{Line: line, Col: utf8.RuneCount(text)}
	}
	text, _ := buf.Line(line)
	return types.Position{Line: line, Col: utils.UTF16ToRuneCol(text, int(p.Character))}
}

func fromPosition(buf buffer.Buffer, pos types.Position) protocol.Position {
	text, _ := buf.Line(pos.Line)
	return protocol.Position{
		Line:      protocol.UInteger(pos.Line),
		Character: protocol.UInteger(utils.RuneColToUTF16(text, pos.Col)),
	}
}
