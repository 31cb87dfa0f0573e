package sheets

import (
	"context"

	"github.com/pkg/errors"
)

// Provider is the tabular data gateway. Rows are ordered cell strings, header row included
// when the range covers it. Writes are not atomic across ranges.
type Provider interface {
	ReadRange(ctx context.Context, rangeSpec string) ([][]string, error)
	AppendRows(ctx context.Context, rangeSpec string, rows [][]string) error
	BatchUpdateRanges(ctx context.Context, updates []RangeValues) error
	DeleteRow(ctx context.Context, table string, row int) error
}

type RangeValues struct {
	Range  string
	Values [][]string
}

var ErrUpstream = errors.New("spreadsheet service unavailable")

type upstreamError struct {
	op  string
	err error
}

func (e *upstreamError) Error() string {
	return e.op + ": " + e.err.Error()
}

func (e *upstreamError) Is(target error) bool {
	return target == ErrUpstream
}

func (e *upstreamError) Unwrap() error {
	return e.err
}

func upstream(op string, err error) error {
	if err == nil {
		return nil
	}
	return &upstreamError{op: op, err: err}
}
