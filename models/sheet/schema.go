package sheetmodels

import (
	"github.com/xuri/excelize/v2"

	"bbs-backend/lib/sheets"
)

type Kind int

const (
	KindString Kind = iota
	KindInt
	KindJSON
)

type Column struct {
	Name string
	Kind Kind
}

// Schema is the ordered column layout of one table. Order is the persisted contract.
type Schema struct {
	Name    string
	Table   string
	Columns []Column
}

func (s Schema) Headers() []string {
	headers := make([]string, 0, len(s.Columns))
	for _, c := range s.Columns {
		headers = append(headers, c.Name)
	}
	return headers
}

// Index returns the zero-based position of the column, -1 when absent.
func (s Schema) Index(name string) int {
	for i, c := range s.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

func (s Schema) Kind(name string) Kind {
	if idx := s.Index(name); idx >= 0 {
		return s.Columns[idx].Kind
	}
	return KindString
}

// Letter returns the A1 column letter of the named column.
func (s Schema) Letter(name string) string {
	return columnLetter(s.Index(name) + 1)
}

func (s Schema) LastLetter() string {
	return columnLetter(len(s.Columns))
}

// FullRange covers every row of the table, header included.
func (s Schema) FullRange() string {
	return sheets.ColumnRange(s.Table, "A", s.LastLetter())
}

func (s Schema) IDRange() string {
	return sheets.ColumnRange(s.Table, "A", "A")
}

func (s Schema) RowRange(row int) string {
	return sheets.RowRange(s.Table, "A", s.LastLetter(), row)
}

// CellsRange covers the named columns, which must be adjacent and in order, on one row.
func (s Schema) CellsRange(row int, first, last string) string {
	return sheets.RowRange(s.Table, s.Letter(first), s.Letter(last), row)
}

// Serialize orders values by the schema, missing names become empty cells.
func (s Schema) Serialize(values map[string]string) []string {
	row := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		row[i] = values[c.Name]
	}
	return row
}

func columnLetter(n int) string {
	if n < 1 {
		return ""
	}
	name, err := excelize.ColumnNumberToName(n)
	if err != nil {
		return ""
	}
	return name
}
