package xlsexport

import "github.com/xuri/excelize/v2"

const fontFamily = "Calibri"

func writeColumn(f *excelize.File, sheet string, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, value)
}

// writeHeader writes headers on the row after row and returns that row.
func writeHeader(f *excelize.File, sheet string, row int, headers []string) (int, error) {
	row++
	style, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Font:      &excelize.Font{Bold: true, Family: fontFamily, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return row, err
	}
	if err = setRangeStyle(f, sheet, 1, row, len(headers), row, style); err != nil {
		return row, err
	}
	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return row, err
	}
	if err = f.SetColWidth(sheet, "A", lastCol, 22); err != nil {
		return row, err
	}
	for idx, value := range headers {
		if err = writeColumn(f, sheet, idx+1, row, value); err != nil {
			return row, err
		}
	}
	topLeft, err := excelize.CoordinatesToCellName(1, row+1)
	if err != nil {
		return row, err
	}
	return row, f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: row, TopLeftCell: topLeft, ActivePane: "bottomLeft"})
}

func applyDataCellStyle(f *excelize.File, sheet string, colFrom, rowFrom, colTo, rowTo int) error {
	style, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "top", WrapText: true},
		Font:      &excelize.Font{Family: fontFamily, Size: 11},
	})
	if err != nil {
		return err
	}
	return setRangeStyle(f, sheet, colFrom, rowFrom, colTo, rowTo, style)
}

func setRangeStyle(f *excelize.File, sheet string, colFrom, rowFrom, colTo, rowTo, style int) error {
	cellFirst, err := excelize.CoordinatesToCellName(colFrom, rowFrom)
	if err != nil {
		return err
	}
	cellLast, err := excelize.CoordinatesToCellName(colTo, rowTo)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, cellFirst, cellLast, style)
}
