package sheets

import (
	"context"
	"os"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// Workbook serves the gateway from a local xlsx file. Used for development and tests.
type Workbook struct {
	mu   sync.Mutex
	file *excelize.File
	path string
}

// NewWorkbook opens path, creating an empty workbook if the file does not exist.
func NewWorkbook(path string) (*Workbook, error) {
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		return &Workbook{file: excelize.NewFile(), path: path}, nil
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open workbook %s", path)
	}
	return &Workbook{file: f, path: path}, nil
}

// NewMemoryWorkbook is never saved to disk.
func NewMemoryWorkbook() *Workbook {
	return &Workbook{file: excelize.NewFile()}
}

// EnsureHeaders creates the table with its header row when it is missing.
func (w *Workbook) EnsureHeaders(table string, headers []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	idx, err := w.file.GetSheetIndex(table)
	if err != nil {
		return err
	}
	if idx >= 0 {
		return nil
	}
	if _, err = w.file.NewSheet(table); err != nil {
		return err
	}
	row := make([]interface{}, 0, len(headers))
	for _, h := range headers {
		row = append(row, h)
	}
	if err = w.file.SetSheetRow(table, "A1", &row); err != nil {
		return err
	}
	log.WithField("table", table).Info("created table in workbook")
	return w.save()
}

func (w *Workbook) ReadRange(ctx context.Context, rangeSpec string) ([][]string, error) {
	r, err := ParseRange(rangeSpec)
	if err != nil {
		return nil, upstream("read range", err)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	rows, err := w.file.GetRows(r.Table)
	if err != nil {
		return nil, upstream("read range", err)
	}
	result := [][]string{}
	for i, row := range rows {
		if !r.Contains(i + 1) {
			continue
		}
		result = append(result, sliceColumns(row, r.FromCol, r.ToCol))
	}
	// trailing blank rows are not part of the table
	for len(result) > 0 && len(result[len(result)-1]) == 0 {
		result = result[:len(result)-1]
	}
	return result, nil
}

func (w *Workbook) AppendRows(ctx context.Context, rangeSpec string, rows [][]string) error {
	r, err := ParseRange(rangeSpec)
	if err != nil {
		return upstream("append rows", err)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	existing, err := w.file.GetRows(r.Table)
	if err != nil {
		return upstream("append rows", err)
	}
	next := len(existing) + 1
	for i, row := range rows {
		if err = w.setRow(r.Table, r.FromCol, next+i, row); err != nil {
			return upstream("append rows", err)
		}
	}
	return upstream("append rows", w.save())
}

func (w *Workbook) BatchUpdateRanges(ctx context.Context, updates []RangeValues) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, upd := range updates {
		r, err := ParseRange(upd.Range)
		if err != nil {
			return upstream("batch update", err)
		}
		if r.FromRow == 0 {
			return upstream("batch update", errors.Errorf("range %q has no start row", upd.Range))
		}
		for i, row := range upd.Values {
			if err = w.setRow(r.Table, r.FromCol, r.FromRow+i, row); err != nil {
				return upstream("batch update", err)
			}
		}
	}
	return upstream("batch update", w.save())
}

func (w *Workbook) DeleteRow(ctx context.Context, table string, row int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.file.RemoveRow(table, row); err != nil {
		return upstream("delete row", err)
	}
	return upstream("delete row", w.save())
}

func (w *Workbook) setRow(table string, col, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, 0, len(values))
	for _, v := range values {
		cells = append(cells, v)
	}
	return w.file.SetSheetRow(table, cell, &cells)
}

func (w *Workbook) save() error {
	if w.path == "" {
		return nil
	}
	return w.file.SaveAs(w.path)
}

func sliceColumns(row []string, fromCol, toCol int) []string {
	from := fromCol - 1
	if from >= len(row) {
		return []string{}
	}
	to := toCol
	if to > len(row) {
		to = len(row)
	}
	out := make([]string, to-from)
	copy(out, row[from:to])
	return out
}
