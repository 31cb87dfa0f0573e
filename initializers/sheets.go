package initializers

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"bbs-backend/config"
	recordformat "bbs-backend/lib/record-format"
	"bbs-backend/lib/sheets"
	sheetmodels "bbs-backend/models/sheet"
)

const (
	backendGoogle = "google"
	backendXlsx   = "xlsx"
)

func InitSheets(ctx context.Context) sheets.Provider {
	gateway, err := newGateway(ctx)
	if err != nil {
		panic(err.Error())
	}
	checkHeaders(ctx, gateway)
	return gateway
}

func newGateway(ctx context.Context) (sheets.Provider, error) {
	conf := config.Conf.Sheets
	switch conf.Backend {
	case backendGoogle:
		return sheets.NewGoogle(ctx, conf.ServiceAccountEmail, conf.PrivateKey, conf.SpreadsheetID)
	case backendXlsx:
		wb, err := sheets.NewWorkbook(conf.XlsxPath)
		if err != nil {
			return nil, err
		}
		for _, schema := range sheetmodels.All {
			if err = wb.EnsureHeaders(schema.Table, schema.Headers()); err != nil {
				return nil, errors.Wrapf(err, "failed to prepare table %s", schema.Table)
			}
		}
		return wb, nil
	}
	return nil, errors.Errorf("unknown sheets backend %q", conf.Backend)
}

// checkHeaders only logs: a broken table fails its own requests, the rest keep serving.
func checkHeaders(ctx context.Context, gateway sheets.Provider) {
	for _, schema := range sheetmodels.All {
		logger := log.WithField("table", schema.Table)
		rows, err := gateway.ReadRange(ctx, schema.RowRange(1))
		if err != nil {
			logger.WithError(err).Warn("table header is not readable")
			continue
		}
		if len(rows) == 0 {
			logger.Warn("table has no header row")
			continue
		}
		if err = recordformat.CheckHeader(schema, rows[0]); err != nil {
			logger.WithError(err).Warn("table header does not match")
		}
	}
}
