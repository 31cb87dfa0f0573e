package apimodels

import (
	"encoding/json"

	"bbs-backend/models"
)

type ApprovalRequest struct {
	RecordID   string              `json:"recordId"`
	Status     models.RecordStatus `json:"status"`
	AdminNote  string              `json:"adminNote"`
	ApprovedBy string              `json:"approvedBy"`
	// Version is the etag the caller last saw, empty to skip the check
	Version string `json:"version"`
}

type ApprovalDecision struct {
	RecordID     string              `json:"recordId"`
	Status       models.RecordStatus `json:"status"`
	AdminNote    string              `json:"adminNote"`
	ApprovedDate string              `json:"approvedDate"`
	ApprovedBy   string              `json:"approvedBy"`
	Table        string              `json:"table"`
	Row          int                 `json:"row"`
	Version      string              `json:"version"`
}

type ApprovalStatusView struct {
	RecordID     string              `json:"recordId"`
	Status       models.RecordStatus `json:"status"`
	AdminNote    *string             `json:"adminNote"`
	ApprovedDate *string             `json:"approvedDate"`
	ApprovedBy   *string             `json:"approvedBy"`
	Version      string              `json:"version"`
}

func ApprovalStatusConvert(rec ObservationView) ApprovalStatusView {
	return ApprovalStatusView{
		RecordID:     rec.RecordID,
		Status:       rec.Status,
		AdminNote:    rec.AdminNote,
		ApprovedDate: rec.ApprovedDate,
		ApprovedBy:   rec.ApprovedBy,
		Version:      rec.Version,
	}
}

// TypedRequest is the envelope of POST /api/post and PUT /api/put.
type TypedRequest struct {
	Type string          `json:"type"`
	ID   string          `json:"id"`
	Data json.RawMessage `json:"data"`
}

type UploadedFile struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	WebViewLink string `json:"webViewLink"`
}
