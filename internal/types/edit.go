package types

import sitter "github.com/smacker/go-tree-sitter"

// EditInfo carries what tree-sitter's Tree.Edit needs to re-use an old parse.
type EditInfo struct {
	StartIndex     uint32       // Start byte of the edit
	OldEndIndex    uint32       // End byte of the replaced text
	NewEndIndex    uint32       // End byte of the inserted text
	StartPosition  sitter.Point // Row, byte column
	OldEndPosition sitter.Point
	NewEndPosition sitter.Point
}

// ToInput converts the edit into the form tree-sitter consumes.
func (e EditInfo) ToInput() sitter.EditInput {
	return sitter.EditInput{
		StartIndex:  e.StartIndex,
		OldEndIndex: e.OldEndIndex,
		NewEndIndex: e.NewEndIndex,
		StartPoint:  e.StartPosition,
		OldEndPoint: e.OldEndPosition,
		NewEndPoint: e.NewEndPosition,
	}
}

// HighlightRegion is a marked span drawn with a named theme style.
type HighlightRegion struct {
	Start     Position
	End       Position
	StyleName string
}
