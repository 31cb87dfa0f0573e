package rowlocator

import "github.com/pkg/errors"

var ErrNotFound = errors.New("record not found")

// Locate scans an identifier column read with its header (index 0) and returns the sheet
// row of the first exact match. The header is sheet row 1, so index i maps to row i+1.
func Locate(column []string, targetID string) (row int, err error) {
	for i := 1; i < len(column); i++ {
		if column[i] == targetID {
			return i + 1, nil
		}
	}
	return 0, ErrNotFound
}

// Column extracts cell idx of every row, rows shorter than idx yield "".
func Column(rows [][]string, idx int) []string {
	column := make([]string, len(rows))
	for i, row := range rows {
		if idx >= 0 && idx < len(row) {
			column[i] = row[idx]
		}
	}
	return column
}

// LocateInRows is Locate over the idx column of a full table read.
func LocateInRows(rows [][]string, idx int, targetID string) (int, error) {
	return Locate(Column(rows, idx), targetID)
}
