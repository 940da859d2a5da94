package xl

import "strconv"

// Worksheet size limits.
const (
	MaxRows    = 1048576
	MaxColumns = 16384
)

// ColumnNumberAsLetters converts a 1-based column number to its letter
// form: 1 is A, 26 is Z, 27 is AA.
func ColumnNumberAsLetters(n int) string {
	if n < 1 {
		panic("invalid column number")
	}
	var s string
	for n > 0 {
		s = string(rune((n-1)%26+'A')) + s
		n = (n - 1) / 26
	}
	return s
}

// CellCoordAsString returns the A1-style reference of a cell, both numbers
// are 1-based.
func CellCoordAsString(col, row int) string {
	if row < 1 {
		panic("invalid row number")
	}
	return ColumnNumberAsLetters(col) + strconv.Itoa(row)
}
