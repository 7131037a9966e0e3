// internal/types/position.go
package types

// Position is a zero-based line and rune column inside a document.
// Col counts runes, not bytes, so multi-byte characters occupy one column.
type Position struct {
	Line int
	Col  int
}

// Before reports whether p sorts strictly before other.
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Col < other.Col
}

// Range is a half-open [Start, End) span of text.
type Range struct {
	Start Position
	End   Position
}

// Contains reports whether pos lies inside the range, end exclusive.
func (r Range) Contains(pos Position) bool {
	return !pos.Before(r.Start) && pos.Before(r.End)
}
