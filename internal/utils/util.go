// Package utils holds column conversions shared by the buffer, matcher and LSP layers.
package utils

import (
	"unicode/utf8"
)

// RuneColToByte returns the byte offset of rune column col in line.
// Columns past the end clamp to len(line).
func RuneColToByte(line []byte, col int) int {
	if col <= 0 {
		return 0
	}
	offset := 0
	for n := 0; n < col && offset < len(line); n++ {
		_, size := utf8.DecodeRune(line[offset:])
		offset += size
	}
	return offset
}

// ByteToRuneCol returns the rune column that starts at or contains byte offset off.
// A byte offset inside a multi-byte rune resolves to that rune's column.
func ByteToRuneCol(line []byte, off int) int {
	if off <= 0 {
		return 0
	}
	if off > len(line) {
		off = len(line)
	}
	col := 0
	for i := 0; i < off; {
		_, size := utf8.DecodeRune(line[i:])
		if i+size > off {
			break
		}
		i += size
		col++
	}
	return col
}

// RuneColToUTF16 converts a rune column to UTF-16 code units, as LSP clients count them.
func RuneColToUTF16(line []byte, col int) int {
	units := 0
	n := 0
	for i := 0; i < len(line) && n < col; n++ {
		r, size := utf8.DecodeRune(line[i:])
		units += utf16Len(r)
		i += size
	}
	return units
}

// UTF16ToRuneCol converts an LSP character offset back to a rune column.
// An offset that splits a surrogate pair rounds down.
func UTF16ToRuneCol(line []byte, units int) int {
	col := 0
	seen := 0
	for i := 0; i < len(line); {
		r, size := utf8.DecodeRune(line[i:])
		w := utf16Len(r)
		if seen+w > units {
			break
		}
		seen += w
		col++
		i += size
	}
	return col
}

func utf16Len(r rune) int {
	if r >= 0x10000 {
		return 2
	}
	return 1
}
