package apimodels

import (
	"strings"

	"github.com/pkg/errors"

	"bbs-backend/models"
	sheetmodels "bbs-backend/models/sheet"
)

type ObservationData struct {
	Date                string                                        `json:"date"`
	EmployeeID          string                                        `json:"employeeId"`
	EmployeeName        string                                        `json:"employeeName"`
	Group               string                                        `json:"group"`
	Type                string                                        `json:"type"`
	SafetyCategoryID    string                                        `json:"safetyCategoryId"`
	SubSafetyCategoryID string                                        `json:"subSafetyCategoryId"`
	ObservedWork        string                                        `json:"observedWork"`
	DepartmentNotice    string                                        `json:"departmentNotice"`
	VehicleEquipment    sheetmodels.Embedded[map[string]any]          `json:"vehicleEquipment"`
	SelectedOptions     sheetmodels.Embedded[[]sheetmodels.OptionRef] `json:"selectedOptions"`
	SafeActionCount     int                                           `json:"safeActionCount"`
	UnsafeActionCount   int                                           `json:"unsafeActionCount"`
	ActionType          string                                        `json:"actionType"`
	ActionTypeUnsafe    string                                        `json:"actionTypeUnsafe"`
	Other               string                                        `json:"other"`
	EmployeeCode        string                                        `json:"employeeCode,omitempty"`
	LevelOfAccident     string                                        `json:"levelOfAccident,omitempty"`
}

// ObservationSubmit is the body of the observation variant of POST /api/post.
type ObservationSubmit struct {
	ObservationData
	UploadedFiles []sheetmodels.FileRef `json:"uploadedFiles"`
}

func (o ObservationSubmit) Validate() error {
	if strings.TrimSpace(o.EmployeeID) == "" {
		return errors.New("employeeId is required")
	}
	if strings.TrimSpace(o.Date) == "" {
		return errors.New("date is required")
	}
	if strings.TrimSpace(o.Group) == "" {
		return errors.New("group is required")
	}
	if o.SafeActionCount < 0 || o.UnsafeActionCount < 0 {
		return errors.New("action counts must not be negative")
	}
	return nil
}

func (o ObservationSubmit) IsShe() bool {
	return o.Group == models.SheGroup
}

type SubmitResult struct {
	RecordID     string `json:"recordId"`
	TotalFiles   int    `json:"totalFiles"`
	SuccessCount int    `json:"successCount"`
}

type ObservationView struct {
	ObservationData
	RecordID     string                                      `json:"recordId"`
	Attachment   sheetmodels.Embedded[[]sheetmodels.FileRef] `json:"attachment"`
	Status       models.RecordStatus                         `json:"status"`
	AdminNote    *string                                     `json:"adminNote"`
	ApprovedDate *string                                     `json:"approvedDate"`
	ApprovedBy   *string                                     `json:"approvedBy"`
	Row          int                                         `json:"row"`
	Version      string                                      `json:"version"`
}

// DashboardObservationView is an observation with category ids resolved to names.
type DashboardObservationView struct {
	ObservationView
	SafetyCategoryName    string `json:"safetyCategoryName"`
	SubSafetyCategoryName string `json:"subSafetyCategoryName"`
}

type DashboardView struct {
	Records       []DashboardObservationView `json:"records"`
	Categories    []CategoryView             `json:"categories"`
	SubCategories []SubCategoryView          `json:"subcategories"`
}

func ObservationConvert(row sheetmodels.Row, version string) ObservationView {
	view := ObservationView{
		ObservationData: ObservationData{
			Date:                row.String("date"),
			EmployeeID:          row.String("employeeId"),
			EmployeeName:        row.String("employeeName"),
			Group:               row.String("group"),
			Type:                row.String("type"),
			SafetyCategoryID:    row.String("safetyCategoryId"),
			SubSafetyCategoryID: row.String("subSafetyCategoryId"),
			ObservedWork:        row.String("observedWork"),
			DepartmentNotice:    row.String("departmentNotice"),
			VehicleEquipment:    sheetmodels.DecodeEmbedded(row, "vehicleEquipment", map[string]any{}),
			SelectedOptions:     sheetmodels.DecodeEmbedded(row, "selectedOptions", []sheetmodels.OptionRef{}),
			SafeActionCount:     row.Int("safeActionCount"),
			UnsafeActionCount:   row.Int("unsafeActionCount"),
			ActionType:          row.String("actionType"),
			ActionTypeUnsafe:    row.String("actionTypeUnsafe"),
			Other:               row.String("other"),
			EmployeeCode:        row.String("employeeCode"),
			LevelOfAccident:     row.String("levelOfAccident"),
		},
		RecordID:   row.String("recordId"),
		Attachment: sheetmodels.DecodeEmbedded(row, "attachment", []sheetmodels.FileRef{}),
		Status:     models.StatusOrDefault(row.String("status")),
		Row:        row.Number,
		Version:    version,
	}
	note := row.String("adminNote")
	if view.Status.IsDecided() {
		view.AdminNote = &note
	} else {
		view.AdminNote = optional(note)
	}
	// a re-asserted pending keeps the decider and time of that call
	view.ApprovedDate = optional(row.String("approvedDate"))
	view.ApprovedBy = optional(row.String("approvedBy"))
	return view
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
