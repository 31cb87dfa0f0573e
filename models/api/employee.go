package apimodels

import (
	"strings"

	"github.com/pkg/errors"

	sheetmodels "bbs-backend/models/sheet"
)

type EmployeeData struct {
	EmployeeID string `json:"employeeId"`
	// the submission form historically posts employeerId
	LegacyEmployeeID string `json:"employeerId,omitempty"`
	FullName         string `json:"fullName"`
	Department       string `json:"department"`
	Group            string `json:"group"`
	Position         string `json:"position"`
}

func (e *EmployeeData) Normalize() {
	if e.EmployeeID == "" {
		e.EmployeeID = e.LegacyEmployeeID
	}
	e.LegacyEmployeeID = ""
	e.EmployeeID = strings.TrimSpace(e.EmployeeID)
	e.FullName = strings.TrimSpace(e.FullName)
}

func (e EmployeeData) Validate() error {
	if e.EmployeeID == "" && e.LegacyEmployeeID == "" {
		return errors.New("employeeId is required")
	}
	if strings.TrimSpace(e.FullName) == "" {
		return errors.New("fullName is required")
	}
	return nil
}

type EmployeeView struct {
	EmployeeData
	UpdatedAt string `json:"updatedAt"`
	Row       int    `json:"row"`
}

func EmployeeConvert(row sheetmodels.Row) EmployeeView {
	return EmployeeView{
		EmployeeData: EmployeeData{
			EmployeeID: row.String("employeeId"),
			FullName:   row.String("fullName"),
			Department: row.String("department"),
			Group:      row.String("group"),
			Position:   row.String("position"),
		},
		UpdatedAt: row.String("updatedAt"),
		Row:       row.Number,
	}
}
