package sheets

import "fmt"

// ColumnLetter converts a 1-based column index to its A1 letter form
// (1 -> A, 26 -> Z, 27 -> AA).
func ColumnLetter(n int) string {
	letters := ""
	for n > 0 {
		n--
		letters = string(rune('A'+n%26)) + letters
		n /= 26
	}
	return letters
}

// CellRef builds an A1 cell reference from 1-based column and row indexes.
func CellRef(col, row int) string {
	return fmt.Sprintf("%s%d", ColumnLetter(col), row)
}

// RangeRef builds a sheet-qualified A1 range between two 1-based cells.
func RangeRef(sheet string, startCol, startRow, endCol, endRow int) string {
	return fmt.Sprintf("%s!%s:%s", sheet, CellRef(startCol, startRow), CellRef(endCol, endRow))
}
