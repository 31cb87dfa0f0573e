package sheets

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

const valueInputOption = "RAW"

type googleImpl struct {
	values        *gsheets.SpreadsheetsValuesService
	spreadsheets  *gsheets.SpreadsheetsService
	spreadsheetID string
}

// NewGoogle authenticates with a service account key. privateKey may carry escaped
// newlines as it usually does when passed through the environment.
func NewGoogle(ctx context.Context, email, privateKey, spreadsheetID string) (Provider, error) {
	if email == "" || privateKey == "" || spreadsheetID == "" {
		return nil, errors.New("google sheets credentials are not configured")
	}
	conf := &jwt.Config{
		Email:      email,
		PrivateKey: []byte(strings.ReplaceAll(privateKey, `\n`, "\n")),
		Scopes:     []string{gsheets.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}
	svc, err := gsheets.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, errors.Wrap(err, "create sheets service")
	}
	return &googleImpl{
		values:        svc.Spreadsheets.Values,
		spreadsheets:  svc.Spreadsheets,
		spreadsheetID: spreadsheetID,
	}, nil
}

func (g *googleImpl) ReadRange(ctx context.Context, rangeSpec string) ([][]string, error) {
	resp, err := g.values.Get(g.spreadsheetID, rangeSpec).Context(ctx).Do()
	if err != nil {
		return nil, upstream("read range", err)
	}
	rows := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		cells := make([]string, 0, len(row))
		for _, cell := range row {
			cells = append(cells, fmt.Sprint(cell))
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

func (g *googleImpl) AppendRows(ctx context.Context, rangeSpec string, rows [][]string) error {
	_, err := g.values.Append(g.spreadsheetID, rangeSpec, &gsheets.ValueRange{Values: toValues(rows)}).
		ValueInputOption(valueInputOption).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return upstream("append rows", err)
}

func (g *googleImpl) BatchUpdateRanges(ctx context.Context, updates []RangeValues) error {
	data := make([]*gsheets.ValueRange, 0, len(updates))
	for _, upd := range updates {
		data = append(data, &gsheets.ValueRange{
			Range:  upd.Range,
			Values: toValues(upd.Values),
		})
	}
	req := &gsheets.BatchUpdateValuesRequest{
		ValueInputOption: valueInputOption,
		Data:             data,
	}
	_, err := g.values.BatchUpdate(g.spreadsheetID, req).Context(ctx).Do()
	return upstream("batch update", err)
}

func (g *googleImpl) DeleteRow(ctx context.Context, table string, row int) error {
	sheetID, err := g.sheetID(ctx, table)
	if err != nil {
		return upstream("delete row", err)
	}
	req := &gsheets.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheets.Request{{
			DeleteDimension: &gsheets.DeleteDimensionRequest{
				Range: &gsheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(row - 1),
					EndIndex:   int64(row),
					// sheet 0 and index 0 are valid values
					ForceSendFields: []string{"SheetId", "StartIndex"},
				},
			},
		}},
	}
	_, err = g.spreadsheets.BatchUpdate(g.spreadsheetID, req).Context(ctx).Do()
	return upstream("delete row", err)
}

func (g *googleImpl) sheetID(ctx context.Context, table string) (int64, error) {
	resp, err := g.spreadsheets.Get(g.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, err
	}
	for _, sheet := range resp.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == table {
			return sheet.Properties.SheetId, nil
		}
	}
	return 0, errors.Errorf("table %s not found", table)
}

func toValues(rows [][]string) [][]interface{} {
	values := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		cells := make([]interface{}, 0, len(row))
		for _, cell := range row {
			cells = append(cells, cell)
		}
		values = append(values, cells)
	}
	return values
}
