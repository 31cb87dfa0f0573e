package approvalhandler

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"bbs-backend/lib/apperrors"
	rowlocator "bbs-backend/lib/row-locator"
	"bbs-backend/lib/sheets"
	initchecker "bbs-backend/lib/utils/init-checker"
	"bbs-backend/lib/utils/lock"
	"bbs-backend/models"
	apimodels "bbs-backend/models/api"
	sheetmodels "bbs-backend/models/sheet"
)

type Provider interface {
	Decide(ctx context.Context, request apimodels.ApprovalRequest, now time.Time) (apimodels.ApprovalDecision, error)
	Status(ctx context.Context, recordID string) (apimodels.ApprovalStatusView, error)
}

var Instance Provider

// decision columns, in write order
var decisionColumns = []string{"status", "adminNote", "approvedDate", "approvedBy"}

func NewHandler(gateway sheets.Provider, defaultApprover string, lockWait time.Duration) {
	Instance = NewInstance(gateway, defaultApprover, lockWait)
}

func NewInstance(gateway sheets.Provider, defaultApprover string, lockWait time.Duration) Provider {
	instance := impl{
		gateway:         gateway,
		defaultApprover: defaultApprover,
		lockWait:        lockWait,
	}
	initchecker.CheckInit(
		"gateway", instance.gateway,
	)
	return instance
}

type impl struct {
	gateway         sheets.Provider
	defaultApprover string
	lockWait        time.Duration
}

type located struct {
	schema  sheetmodels.Schema
	header  []string
	row     int
	cells   []string
	version string
}

func (i impl) getLogger(recordID string) *log.Entry {
	return log.WithField("record_id", recordID)
}

func (i impl) Decide(ctx context.Context, request apimodels.ApprovalRequest, now time.Time) (apimodels.ApprovalDecision, error) {
	request.RecordID = strings.TrimSpace(request.RecordID)
	if request.RecordID == "" || request.Status == "" {
		return apimodels.ApprovalDecision{}, apperrors.NewValidation("recordId and status are required")
	}
	if !request.Status.IsValid() {
		return apimodels.ApprovalDecision{}, apperrors.NewValidation("status must be one of pending, approved, rejected")
	}
	approvedBy := strings.TrimSpace(request.ApprovedBy)
	if approvedBy == "" {
		approvedBy = i.defaultApprover
	}

	var decision apimodels.ApprovalDecision
	ok, err := lock.WithKey(ctx, "approval:"+request.RecordID, i.lockWait, func() error {
		var decideErr error
		decision, decideErr = i.decide(ctx, request, approvedBy, now)
		return decideErr
	})
	if err != nil {
		return apimodels.ApprovalDecision{}, err
	}
	if !ok {
		return apimodels.ApprovalDecision{}, apperrors.NewConflict("record is being updated by another request, try again")
	}
	return decision, nil
}

func (i impl) decide(ctx context.Context, request apimodels.ApprovalRequest, approvedBy string, now time.Time) (apimodels.ApprovalDecision, error) {
	logger := i.getLogger(request.RecordID)
	loc, err := i.locate(ctx, request.RecordID)
	if err != nil {
		return apimodels.ApprovalDecision{}, err
	}
	if request.Version != "" && request.Version != loc.version {
		return apimodels.ApprovalDecision{}, apperrors.NewConflict("record was changed since it was read")
	}

	decision := apimodels.ApprovalDecision{
		RecordID:     request.RecordID,
		Status:       request.Status,
		AdminNote:    request.AdminNote,
		ApprovedDate: now.UTC().Format(models.TimestampLayout),
		ApprovedBy:   approvedBy,
		Table:        loc.schema.Table,
		Row:          loc.row,
	}
	values := map[string]string{
		"status":       string(decision.Status),
		"adminNote":    decision.AdminNote,
		"approvedDate": decision.ApprovedDate,
		"approvedBy":   decision.ApprovedBy,
	}

	// compare and swap against the locate read
	current, err := i.gateway.ReadRange(ctx, loc.schema.RowRange(loc.row))
	if err != nil {
		return apimodels.ApprovalDecision{}, apperrors.WrapUpstream(err, "failed to read record")
	}
	if len(current) == 0 || sheetmodels.ContentVersion(current[0]) != loc.version {
		logger.WithField("row", loc.row).Warn("record changed between read and write")
		return apimodels.ApprovalDecision{}, apperrors.NewConflict("record was changed by another request")
	}

	updates := make([]sheets.RangeValues, 0, len(decisionColumns))
	for _, name := range decisionColumns {
		updates = append(updates, sheets.RangeValues{
			Range:  loc.schema.CellsRange(loc.row, name, name),
			Values: [][]string{{values[name]}},
		})
	}
	if err = i.gateway.BatchUpdateRanges(ctx, updates); err != nil {
		logger.WithError(err).Error("decision write failed, row may be partially updated")
		return apimodels.ApprovalDecision{}, apperrors.WrapUpstream(err, "failed to save decision")
	}

	written := make([]string, len(loc.schema.Columns))
	copy(written, loc.cells)
	for name, value := range values {
		written[loc.schema.Index(name)] = value
	}
	decision.Version = sheetmodels.ContentVersion(written)

	logger.
		WithField("table", decision.Table).
		WithField("row", decision.Row).
		WithField("status", decision.Status).
		Info("observation decision saved")
	return decision, nil
}

func (i impl) Status(ctx context.Context, recordID string) (apimodels.ApprovalStatusView, error) {
	recordID = strings.TrimSpace(recordID)
	if recordID == "" {
		return apimodels.ApprovalStatusView{}, apperrors.NewValidation("recordId is required")
	}
	loc, err := i.locate(ctx, recordID)
	if err != nil {
		return apimodels.ApprovalStatusView{}, err
	}
	row := sheetmodels.NewRow(loc.row, loc.header, loc.cells)
	return apimodels.ApprovalStatusConvert(apimodels.ObservationConvert(row, loc.version)), nil
}

// locate searches the observation tables in order. Only the primary table is required
// to be readable.
func (i impl) locate(ctx context.Context, recordID string) (located, error) {
	for idx, schema := range sheetmodels.ObservationSchemas {
		table, err := i.gateway.ReadRange(ctx, schema.FullRange())
		if err != nil {
			if idx == 0 {
				return located{}, apperrors.WrapUpstream(err, "failed to read records")
			}
			i.getLogger(recordID).WithError(err).WithField("table", schema.Table).Warn("table is not readable, skipped")
			continue
		}
		if len(table) == 0 {
			continue
		}
		row, err := rowlocator.LocateInRows(table, headerIndex(table[0], "recordId"), recordID)
		if errors.Is(err, rowlocator.ErrNotFound) {
			continue
		}
		cells := table[row-1]
		return located{
			schema:  schema,
			header:  table[0],
			row:     row,
			cells:   cells,
			version: sheetmodels.ContentVersion(cells),
		}, nil
	}
	return located{}, apperrors.NewNotFound("record not found")
}

func headerIndex(header []string, name string) int {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}
