package xlsexport

import (
	"bytes"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	apimodels "bbs-backend/models/api"
)

type Provider interface {
	ExportObservationList(list []apimodels.DashboardObservationView) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance()
}

func NewInstance() Provider {
	return impl{}
}

type impl struct{}

type column struct {
	header string
	value  func(rec apimodels.DashboardObservationView) interface{}
}

var observationColumns = []column{
	{"Record ID", func(r apimodels.DashboardObservationView) interface{} { return r.RecordID }},
	{"Date", func(r apimodels.DashboardObservationView) interface{} { return r.Date }},
	{"Employee ID", func(r apimodels.DashboardObservationView) interface{} { return r.EmployeeID }},
	{"Employee", func(r apimodels.DashboardObservationView) interface{} { return r.EmployeeName }},
	{"Group", func(r apimodels.DashboardObservationView) interface{} { return r.Group }},
	{"Type", func(r apimodels.DashboardObservationView) interface{} { return r.Type }},
	{"Category", func(r apimodels.DashboardObservationView) interface{} {
		return nameOrID(r.SafetyCategoryName, r.SafetyCategoryID)
	}},
	{"Sub-category", func(r apimodels.DashboardObservationView) interface{} {
		return nameOrID(r.SubSafetyCategoryName, r.SubSafetyCategoryID)
	}},
	{"Observed work", func(r apimodels.DashboardObservationView) interface{} { return r.ObservedWork }},
	{"Options", func(r apimodels.DashboardObservationView) interface{} { return OptionNames(r.ObservationView) }},
	{"Safe actions", func(r apimodels.DashboardObservationView) interface{} { return r.SafeActionCount }},
	{"Unsafe actions", func(r apimodels.DashboardObservationView) interface{} { return r.UnsafeActionCount }},
	{"Action type", func(r apimodels.DashboardObservationView) interface{} { return r.ActionType }},
	{"Unsafe action type", func(r apimodels.DashboardObservationView) interface{} { return r.ActionTypeUnsafe }},
	{"Status", func(r apimodels.DashboardObservationView) interface{} { return r.Status.ToHuman() }},
	{"Admin note", func(r apimodels.DashboardObservationView) interface{} { return deref(r.AdminNote) }},
	{"Approved date", func(r apimodels.DashboardObservationView) interface{} { return deref(r.ApprovedDate) }},
	{"Approved by", func(r apimodels.DashboardObservationView) interface{} { return deref(r.ApprovedBy) }},
}

func ObservationHeaders() []string {
	headers := make([]string, 0, len(observationColumns))
	for _, c := range observationColumns {
		headers = append(headers, c.header)
	}
	return headers
}

func (i impl) ExportObservationList(list []apimodels.DashboardObservationView) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("failed to close xlsx file")
		}
	}()
	sheet := "Sheet1"
	row, err := writeHeader(f, sheet, 0, ObservationHeaders())
	if err != nil {
		return nil, errors.Wrap(err, "failed to write xlsx header")
	}
	if len(list) != 0 {
		if _, err = writeObservationData(f, sheet, list, row); err != nil {
			return nil, errors.Wrap(err, "failed to write xlsx data")
		}
	}
	if err = f.SetSheetName(sheet, "Observations"); err != nil {
		return nil, errors.Wrap(err, "failed to rename xlsx sheet")
	}
	return f.WriteToBuffer()
}

func writeObservationData(f *excelize.File, sheet string, list []apimodels.DashboardObservationView, row int) (int, error) {
	if err := applyDataCellStyle(f, sheet, 1, row+1, len(observationColumns), row+len(list)); err != nil {
		return row, err
	}
	for _, item := range list {
		row++
		for idx, c := range observationColumns {
			if err := writeColumn(f, sheet, idx+1, row, c.value(item)); err != nil {
				return row, err
			}
		}
	}
	return row, nil
}

// OptionNames is the comma joined list of selected option names.
func OptionNames(rec apimodels.ObservationView) string {
	if rec.SelectedOptions.Raw != "" {
		return rec.SelectedOptions.Raw
	}
	names := make([]string, 0, len(rec.SelectedOptions.Value))
	for _, opt := range rec.SelectedOptions.Value {
		names = append(names, opt.Name)
	}
	return strings.Join(names, ", ")
}

func nameOrID(name, id string) string {
	if name != "" {
		return name
	}
	return id
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
