// Package persist reads and writes grids in the plain-text digit matrix format:
// one line per row, a fixed number of digit characters per cell, no header.
package persist

// Codec converts one cell to and from its fixed-width digit encoding.
type Codec[C comparable] interface {
	// CellWidth is the number of characters each cell occupies on a line.
	CellWidth() int
	Encode(c C) string
	// Decode parses exactly CellWidth digit characters. ok is false when the
	// text does not name a cell value.
	Decode(s string) (c C, ok bool)
}

// Digit encodes byte states 0..9 as a single decimal digit.
type Digit struct{}

// CellWidth implements Codec.
func (Digit) CellWidth() int { return 1 }

// Encode implements Codec.
func (Digit) Encode(c uint8) string { return string(rune('0' + c%10)) }

// Decode implements Codec.
func (Digit) Decode(s string) (uint8, bool) {
	if len(s) != 1 || s[0] < '0' || s[0] > '9' {
		return 0, false
	}
	return s[0] - '0', true
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
