package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestColumnLetter covers single-letter, boundary, and multi-letter columns.
func TestColumnLetter(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{1, "A"},
		{2, "B"},
		{26, "Z"},
		{27, "AA"},
		{28, "AB"},
		{52, "AZ"},
		{53, "BA"},
		{702, "ZZ"},
		{703, "AAA"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ColumnLetter(tt.n), "column %d", tt.n)
	}
}

func TestCellRef(t *testing.T) {
	assert.Equal(t, "A1", CellRef(1, 1))
	assert.Equal(t, "C7", CellRef(3, 7))
	assert.Equal(t, "AA10", CellRef(27, 10))
}

func TestRangeRef(t *testing.T) {
	assert.Equal(t, "Sheet1!A1:D1", RangeRef("Sheet1", 1, 1, 4, 1))
	assert.Equal(t, "Leads!B2:B2", RangeRef("Leads", 2, 2, 2, 2))
}
