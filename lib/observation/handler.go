package observationhandler

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"bbs-backend/lib/apperrors"
	recordformat "bbs-backend/lib/record-format"
	rowlocator "bbs-backend/lib/row-locator"
	"bbs-backend/lib/sheets"
	initchecker "bbs-backend/lib/utils/init-checker"
	"bbs-backend/lib/utils/lock"
	"bbs-backend/models"
	apimodels "bbs-backend/models/api"
	sheetmodels "bbs-backend/models/sheet"
)

type Provider interface {
	Submit(ctx context.Context, request apimodels.ObservationSubmit, now time.Time) (apimodels.SubmitResult, error)
	List(ctx context.Context, schema sheetmodels.Schema, status string) ([]apimodels.ObservationView, error)
	Get(ctx context.Context, recordID string) (apimodels.ObservationView, error)
	Dashboard(ctx context.Context, status string) (apimodels.DashboardView, error)
}

var Instance Provider

const (
	submitLockKey  = "observation:submit"
	submitLockWait = 10 * time.Second
)

func NewHandler(gateway sheets.Provider) {
	Instance = NewInstance(gateway)
}

func NewInstance(gateway sheets.Provider) Provider {
	instance := impl{
		gateway: gateway,
	}
	initchecker.CheckInit(
		"gateway", instance.gateway,
	)
	return instance
}

type impl struct {
	gateway sheets.Provider
}

func (i impl) getLogger(recordID string) *log.Entry {
	return log.WithField("record_id", recordID)
}

func (i impl) Submit(ctx context.Context, request apimodels.ObservationSubmit, now time.Time) (apimodels.SubmitResult, error) {
	if err := request.Validate(); err != nil {
		return apimodels.SubmitResult{}, apperrors.NewValidation(err.Error())
	}
	schema := sheetmodels.Record
	if request.IsShe() {
		schema = sheetmodels.SheViolation
	}
	files := make([]sheetmodels.FileRef, 0, len(request.UploadedFiles))
	successCount := 0
	for _, file := range request.UploadedFiles {
		files = append(files, file)
		if strings.TrimSpace(file.ID) != "" {
			successCount++
		}
	}

	var recordID string
	ok, err := lock.WithKey(ctx, submitLockKey, submitLockWait, func() error {
		var idErr error
		recordID, idErr = i.nextRecordID(ctx, now)
		if idErr != nil {
			return idErr
		}
		values, cellsErr := observationCells(request, recordID, files)
		if cellsErr != nil {
			return apperrors.NewValidation(cellsErr.Error())
		}
		if !request.IsShe() {
			delete(values, "employeeCode")
			delete(values, "levelOfAccident")
		}
		if appendErr := i.gateway.AppendRows(ctx, schema.FullRange(), [][]string{schema.Serialize(values)}); appendErr != nil {
			i.getLogger(recordID).WithField("table", schema.Table).WithError(appendErr).Error("observation append failed")
			return apperrors.WrapUpstream(appendErr, "failed to save observation")
		}
		return nil
	})
	if err != nil {
		return apimodels.SubmitResult{}, err
	}
	if !ok {
		return apimodels.SubmitResult{}, apperrors.NewConflict("too many submissions in progress, try again")
	}
	i.getLogger(recordID).WithField("table", schema.Table).WithField("files", len(files)).Info("observation submitted")
	return apimodels.SubmitResult{
		RecordID:     recordID,
		TotalFiles:   len(files),
		SuccessCount: successCount,
	}, nil
}

// nextRecordID is BBS_<now millis>, moved forward one millisecond at a time while the id
// is already used in either observation table.
func (i impl) nextRecordID(ctx context.Context, now time.Time) (string, error) {
	used := map[string]bool{}
	for idx, schema := range sheetmodels.ObservationSchemas {
		column, err := i.gateway.ReadRange(ctx, schema.IDRange())
		if err != nil {
			if idx == 0 {
				return "", apperrors.WrapUpstream(err, "failed to read "+schema.Table)
			}
			log.WithError(err).WithField("table", schema.Table).Warn("table is not readable, ids not checked")
			continue
		}
		for _, id := range rowlocator.Column(column, 0) {
			used[id] = true
		}
	}
	millis := now.UnixMilli()
	for {
		recordID := fmt.Sprintf("%s%d", models.RecordIDPrefix, millis)
		if !used[recordID] {
			return recordID, nil
		}
		millis++
	}
}

func observationCells(request apimodels.ObservationSubmit, recordID string, files []sheetmodels.FileRef) (map[string]string, error) {
	vehicle := request.VehicleEquipment.Value
	if vehicle == nil {
		vehicle = map[string]any{}
	}
	vehicleCell := request.VehicleEquipment.Raw
	if vehicleCell == "" {
		encoded, err := sheetmodels.EncodeJSON(vehicle)
		if err != nil {
			return nil, err
		}
		vehicleCell = encoded
	}
	optionsCell, err := sheetmodels.EncodeJSON(CanonicalOptions(request.SelectedOptions))
	if err != nil {
		return nil, err
	}
	attachmentCell, err := sheetmodels.EncodeJSON(files)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"recordId":            recordID,
		"date":                request.Date,
		"employeeId":          strings.TrimSpace(request.EmployeeID),
		"employeeName":        request.EmployeeName,
		"group":               request.Group,
		"type":                request.Type,
		"safetyCategoryId":    request.SafetyCategoryID,
		"subSafetyCategoryId": request.SubSafetyCategoryID,
		"observedWork":        request.ObservedWork,
		"departmentNotice":    request.DepartmentNotice,
		"vehicleEquipment":    vehicleCell,
		"selectedOptions":     optionsCell,
		"safeActionCount":     strconv.Itoa(request.SafeActionCount),
		"unsafeActionCount":   strconv.Itoa(request.UnsafeActionCount),
		"actionType":          request.ActionType,
		"actionTypeUnsafe":    request.ActionTypeUnsafe,
		"other":               request.Other,
		"attachment":          attachmentCell,
		"status":              string(models.StatusPending),
		"employeeCode":        request.EmployeeCode,
		"levelOfAccident":     request.LevelOfAccident,
	}, nil
}

// CanonicalOptions turns a comma joined name list into {id: 0, name} pairs so every write
// path stores selectedOptions as a JSON array.
func CanonicalOptions(options sheetmodels.Embedded[[]sheetmodels.OptionRef]) []sheetmodels.OptionRef {
	if options.Raw == "" {
		if options.Value == nil {
			return []sheetmodels.OptionRef{}
		}
		return options.Value
	}
	result := []sheetmodels.OptionRef{}
	if sheetmodels.LooksLikeJSON(options.Raw) {
		if err := json.Unmarshal([]byte(options.Raw), &result); err != nil {
			log.WithError(err).Warn("malformed selectedOptions, stored empty")
			return []sheetmodels.OptionRef{}
		}
		return result
	}
	for _, name := range strings.Split(options.Raw, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		result = append(result, sheetmodels.OptionRef{Name: name})
	}
	return result
}

func (i impl) List(ctx context.Context, schema sheetmodels.Schema, status string) ([]apimodels.ObservationView, error) {
	filter, err := parseStatusFilter(status)
	if err != nil {
		return nil, err
	}
	table, err := i.gateway.ReadRange(ctx, schema.FullRange())
	if err != nil {
		return nil, apperrors.WrapUpstream(err, "failed to read "+schema.Table)
	}
	list, err := recordformat.Observations(table, schema)
	if err != nil {
		if errors.Is(err, recordformat.ErrNoData) {
			return nil, apperrors.NewNotFound("no data found in " + schema.Table)
		}
		return nil, err
	}
	return filterByStatus(list, filter), nil
}

func (i impl) Get(ctx context.Context, recordID string) (apimodels.ObservationView, error) {
	recordID = strings.TrimSpace(recordID)
	if recordID == "" {
		return apimodels.ObservationView{}, apperrors.NewValidation("recordId is required")
	}
	for _, schema := range sheetmodels.ObservationSchemas {
		list, err := i.List(ctx, schema, "")
		if err != nil {
			if apperrors.Is(err, apperrors.KindNotFound) {
				continue
			}
			return apimodels.ObservationView{}, err
		}
		for _, rec := range list {
			if rec.RecordID == recordID {
				return rec, nil
			}
		}
	}
	return apimodels.ObservationView{}, apperrors.NewNotFound("record not found")
}

// Dashboard reads records and the category tables concurrently and resolves category
// names on every record.
func (i impl) Dashboard(ctx context.Context, status string) (apimodels.DashboardView, error) {
	filter, err := parseStatusFilter(status)
	if err != nil {
		return apimodels.DashboardView{}, err
	}
	schemas := []sheetmodels.Schema{
		sheetmodels.Record,
		sheetmodels.Category,
		sheetmodels.SubCategory,
		sheetmodels.Department,
		sheetmodels.Option,
	}
	tables := make([][][]string, len(schemas))
	g, gCtx := errgroup.WithContext(ctx)
	for idx, schema := range schemas {
		g.Go(func() error {
			table, err := i.gateway.ReadRange(gCtx, schema.FullRange())
			if err != nil {
				return apperrors.WrapUpstream(err, "failed to read "+schema.Table)
			}
			tables[idx] = table
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return apimodels.DashboardView{}, err
	}

	records, err := recordformat.Observations(tables[0], sheetmodels.Record)
	if err != nil && !errors.Is(err, recordformat.ErrNoData) {
		return apimodels.DashboardView{}, err
	}
	categories, err := recordformat.Categories(tables[1])
	if err != nil && !errors.Is(err, recordformat.ErrNoData) {
		return apimodels.DashboardView{}, err
	}
	subCategories, err := recordformat.SubCategories(tables[2], recordformat.Refs{
		Departments: tables[3],
		Options:     tables[4],
	})
	if err != nil && !errors.Is(err, recordformat.ErrNoData) {
		return apimodels.DashboardView{}, err
	}

	categoryNames := map[string]string{}
	for _, c := range categories {
		categoryNames[strconv.Itoa(c.ID)] = c.Name
	}
	subCategoryNames := map[string]string{}
	for _, s := range subCategories {
		subCategoryNames[strconv.Itoa(s.ID)] = s.Name
	}

	view := apimodels.DashboardView{
		Records:       []apimodels.DashboardObservationView{},
		Categories:    categories,
		SubCategories: subCategories,
	}
	if view.Categories == nil {
		view.Categories = []apimodels.CategoryView{}
	}
	if view.SubCategories == nil {
		view.SubCategories = []apimodels.SubCategoryView{}
	}
	for _, rec := range filterByStatus(records, filter) {
		view.Records = append(view.Records, apimodels.DashboardObservationView{
			ObservationView:       rec,
			SafetyCategoryName:    categoryNames[rec.SafetyCategoryID],
			SubSafetyCategoryName: subCategoryNames[rec.SubSafetyCategoryID],
		})
	}
	return view, nil
}

func parseStatusFilter(status string) (models.RecordStatus, error) {
	filter := models.RecordStatus(strings.TrimSpace(status))
	if filter != "" && !filter.IsValid() {
		return "", apperrors.NewValidation("status must be one of pending, approved, rejected")
	}
	return filter, nil
}

func filterByStatus(list []apimodels.ObservationView, status models.RecordStatus) []apimodels.ObservationView {
	if status == "" {
		return list
	}
	result := make([]apimodels.ObservationView, 0, len(list))
	for _, rec := range list {
		if rec.Status == status {
			result = append(result, rec)
		}
	}
	return result
}
