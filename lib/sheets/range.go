package sheets

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// Range is an A1 range. FromRow/ToRow equal to 0 mean the whole column.
type Range struct {
	Table   string
	FromCol int
	ToCol   int
	FromRow int
	ToRow   int
}

func ColumnRange(table, fromCol, toCol string) string {
	return fmt.Sprintf("%s!%s:%s", table, fromCol, toCol)
}

func RowRange(table, fromCol, toCol string, row int) string {
	return fmt.Sprintf("%s!%s%d:%s%d", table, fromCol, row, toCol, row)
}

func ParseRange(rangeSpec string) (Range, error) {
	pos := strings.LastIndex(rangeSpec, "!")
	if pos <= 0 {
		return Range{}, errors.Errorf("invalid range %q", rangeSpec)
	}
	r := Range{Table: strings.Trim(rangeSpec[:pos], "'")}
	cells := strings.Split(rangeSpec[pos+1:], ":")
	if len(cells) > 2 || cells[0] == "" {
		return Range{}, errors.Errorf("invalid range %q", rangeSpec)
	}
	var err error
	r.FromCol, r.FromRow, err = parseEndpoint(cells[0])
	if err != nil {
		return Range{}, errors.Wrapf(err, "invalid range %q", rangeSpec)
	}
	r.ToCol, r.ToRow = r.FromCol, r.FromRow
	if len(cells) == 2 {
		r.ToCol, r.ToRow, err = parseEndpoint(cells[1])
		if err != nil {
			return Range{}, errors.Wrapf(err, "invalid range %q", rangeSpec)
		}
	}
	if r.ToCol < r.FromCol || (r.ToRow != 0 && r.ToRow < r.FromRow) {
		return Range{}, errors.Errorf("invalid range %q", rangeSpec)
	}
	return r, nil
}

func parseEndpoint(cell string) (col, row int, err error) {
	split := strings.IndexFunc(cell, func(r rune) bool { return r >= '0' && r <= '9' })
	letters := cell
	if split >= 0 {
		letters = cell[:split]
		row, err = strconv.Atoi(cell[split:])
		if err != nil || row < 1 {
			return 0, 0, errors.Errorf("bad row in %q", cell)
		}
	}
	col, err = excelize.ColumnNameToNumber(letters)
	if err != nil {
		return 0, 0, err
	}
	return col, row, nil
}

// Contains reports whether the 1-based sheet row is inside the range.
func (r Range) Contains(row int) bool {
	if r.FromRow != 0 && row < r.FromRow {
		return false
	}
	if r.ToRow != 0 && row > r.ToRow {
		return false
	}
	return true
}
