package sheetmodels

import (
	"encoding/json"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Row is one data row keyed by header name. Number is the sheet row (header is row 1).
type Row struct {
	Number int
	Cells  map[string]string
}

func NewRow(number int, header, cells []string) Row {
	row := Row{Number: number, Cells: make(map[string]string, len(header))}
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, exists := row.Cells[name]; exists {
			continue
		}
		value := ""
		if i < len(cells) {
			value = cells[i]
		}
		row.Cells[name] = value
	}
	return row
}

func (r Row) String(name string) string {
	return strings.TrimSpace(r.Cells[name])
}

// Int parses the cell, empty or unparsable cells are 0.
func (r Row) Int(name string) int {
	value := r.String(name)
	if value == "" {
		return 0
	}
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return int(f)
	}
	return 0
}

// LooksLikeJSON is true for values starting with [ or { after trimming.
func LooksLikeJSON(value string) bool {
	value = strings.TrimSpace(value)
	return strings.HasPrefix(value, "[") || strings.HasPrefix(value, "{")
}

// DecodeEmbedded decodes a JSON cell into T. Non JSON values are kept verbatim in Raw,
// unparsable JSON is logged and replaced by empty.
func DecodeEmbedded[T any](r Row, name string, empty T) Embedded[T] {
	value := r.String(name)
	if value == "" {
		return Embedded[T]{Value: empty}
	}
	if !LooksLikeJSON(value) {
		return Embedded[T]{Value: empty, Raw: value}
	}
	var decoded T
	if err := json.Unmarshal([]byte(value), &decoded); err != nil {
		log.WithError(err).
			WithField("row", r.Number).
			WithField("field", name).
			Warn("malformed embedded json, using empty value")
		return Embedded[T]{Value: empty}
	}
	return Embedded[T]{Value: decoded}
}
