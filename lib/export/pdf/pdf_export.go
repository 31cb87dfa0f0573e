package pdfexport

import (
	"bytes"
	"strconv"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"

	xlsexport "bbs-backend/lib/export/xls"
	apimodels "bbs-backend/models/api"
)

const (
	labelWidth = 55
	lineHeight = 7
)

// GenerateObservationReport renders one observation as a two column A4 report.
func GenerateObservationReport(rec apimodels.ObservationView) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("GenerateObservationReport panic recover: %v", r)
		}
	}()
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Observation "+rec.RecordID, true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr("Behavior Based Safety observation"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, tr(rec.RecordID+" / "+rec.Status.ToHuman()), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	valueWidth := pageWidth - left - right - labelWidth

	for _, field := range ReportFields(rec) {
		pdf.SetFont("Helvetica", "B", 10)
		y := pdf.GetY()
		pdf.MultiCell(labelWidth, lineHeight, tr(field[0]), "1", "L", false)
		labelBottom := pdf.GetY()
		pdf.SetXY(left+labelWidth, y)
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(valueWidth, lineHeight, tr(field[1]), "1", "L", false)
		if labelBottom > pdf.GetY() {
			pdf.SetY(labelBottom)
		}
	}
	if pdf.Error() != nil {
		return nil, pdf.Error()
	}

	buf := new(bytes.Buffer)
	if err = pdf.Output(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReportFields are the label and value pairs printed in the report.
func ReportFields(rec apimodels.ObservationView) [][2]string {
	fields := [][2]string{
		{"Date", rec.Date},
		{"Employee", rec.EmployeeName + " (" + rec.EmployeeID + ")"},
		{"Group", rec.Group},
		{"Type", rec.Type},
		{"Category", rec.SafetyCategoryID},
		{"Sub-category", rec.SubSafetyCategoryID},
		{"Observed work", rec.ObservedWork},
		{"Department notice", rec.DepartmentNotice},
		{"Selected options", xlsexport.OptionNames(rec)},
		{"Safe actions", strconv.Itoa(rec.SafeActionCount)},
		{"Unsafe actions", strconv.Itoa(rec.UnsafeActionCount)},
		{"Action type", rec.ActionType},
		{"Unsafe action type", rec.ActionTypeUnsafe},
		{"Other", rec.Other},
	}
	if rec.EmployeeCode != "" || rec.LevelOfAccident != "" {
		fields = append(fields,
			[2]string{"Employee code", rec.EmployeeCode},
			[2]string{"Level of accident", rec.LevelOfAccident},
		)
	}
	for _, file := range rec.Attachment.Value {
		fields = append(fields, [2]string{"Attachment", file.Name})
	}
	if rec.Status.IsDecided() {
		fields = append(fields,
			[2]string{"Admin note", deref(rec.AdminNote)},
			[2]string{"Approved date", deref(rec.ApprovedDate)},
			[2]string{"Approved by", deref(rec.ApprovedBy)},
		)
	}
	return fields
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
