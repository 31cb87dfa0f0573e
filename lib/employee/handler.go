package employeehandler

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"bbs-backend/lib/apperrors"
	"bbs-backend/lib/cache"
	recordformat "bbs-backend/lib/record-format"
	rowlocator "bbs-backend/lib/row-locator"
	"bbs-backend/lib/sheets"
	initchecker "bbs-backend/lib/utils/init-checker"
	"bbs-backend/models"
	apimodels "bbs-backend/models/api"
	sheetmodels "bbs-backend/models/sheet"
)

type Provider interface {
	Create(ctx context.Context, data apimodels.EmployeeData, now time.Time) error
	Update(ctx context.Context, employeeID string, data apimodels.EmployeeData, now time.Time) (apimodels.EmployeeView, error)
	Delete(ctx context.Context, employeeID string) error
	List(ctx context.Context) ([]apimodels.EmployeeView, error)
	// Refresh reloads the cached list from storage
	Refresh(ctx context.Context) error
}

var Instance Provider

const cacheKey = "employees"

func NewHandler(gateway sheets.Provider, store cache.Store, policy cache.Policy) {
	Instance = NewInstance(gateway, store, policy)
}

func NewInstance(gateway sheets.Provider, store cache.Store, policy cache.Policy) Provider {
	instance := &impl{
		gateway: gateway,
	}
	initchecker.CheckInit(
		"gateway", instance.gateway,
		"store", store,
	)
	instance.cache = cache.NewReadThrough(store, cacheKey, policy, instance.load)
	return instance
}

type impl struct {
	gateway sheets.Provider
	cache   *cache.ReadThrough
}

func (i *impl) getLogger(employeeID string) *log.Entry {
	return log.
		WithField("table", sheetmodels.Employee.Table).
		WithField("employee_id", employeeID)
}

func (i *impl) Create(ctx context.Context, data apimodels.EmployeeData, now time.Time) error {
	if err := data.Validate(); err != nil {
		return apperrors.NewValidation(err.Error())
	}
	data.Normalize()
	row := employeeCells(data, now)
	if err := i.gateway.AppendRows(ctx, sheetmodels.Employee.FullRange(), [][]string{row}); err != nil {
		i.getLogger(data.EmployeeID).WithError(err).Error("employee append failed")
		return apperrors.WrapUpstream(err, "failed to save employee")
	}
	i.invalidate(ctx)
	i.getLogger(data.EmployeeID).Info("employee created")
	return nil
}

func (i *impl) Update(ctx context.Context, employeeID string, data apimodels.EmployeeData, now time.Time) (apimodels.EmployeeView, error) {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return apimodels.EmployeeView{}, apperrors.NewValidation("id is required")
	}
	if data.EmployeeID == "" && data.LegacyEmployeeID == "" {
		data.EmployeeID = employeeID
	}
	if err := data.Validate(); err != nil {
		return apimodels.EmployeeView{}, apperrors.NewValidation(err.Error())
	}
	data.Normalize()

	row, err := i.locate(ctx, employeeID)
	if err != nil {
		return apimodels.EmployeeView{}, err
	}
	cells := employeeCells(data, now)
	err = i.gateway.BatchUpdateRanges(ctx, []sheets.RangeValues{{
		Range:  sheetmodels.Employee.RowRange(row),
		Values: [][]string{cells},
	}})
	if err != nil {
		i.getLogger(employeeID).WithError(err).Error("employee update failed")
		return apimodels.EmployeeView{}, apperrors.WrapUpstream(err, "failed to update employee")
	}
	i.invalidate(ctx)
	i.getLogger(employeeID).WithField("row", row).Info("employee updated")
	return apimodels.EmployeeConvert(sheetmodels.NewRow(row, sheetmodels.Employee.Headers(), cells)), nil
}

func (i *impl) Delete(ctx context.Context, employeeID string) error {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return apperrors.NewValidation("id is required")
	}
	row, err := i.locate(ctx, employeeID)
	if err != nil {
		return err
	}
	if err = i.gateway.DeleteRow(ctx, sheetmodels.Employee.Table, row); err != nil {
		return apperrors.WrapUpstream(err, "failed to delete employee")
	}
	i.invalidate(ctx)
	i.getLogger(employeeID).WithField("row", row).Info("employee deleted")
	return nil
}

func (i *impl) List(ctx context.Context) ([]apimodels.EmployeeView, error) {
	data, err := i.cache.Get(ctx)
	if err != nil {
		if errors.Is(err, recordformat.ErrNoData) {
			return nil, apperrors.NewNotFound("no data found in " + sheetmodels.Employee.Table)
		}
		return nil, apperrors.WrapUpstream(err, "failed to read employees")
	}
	list := []apimodels.EmployeeView{}
	if err = json.Unmarshal(data, &list); err != nil {
		return nil, apperrors.WrapUpstream(err, "failed to decode cached employees")
	}
	return list, nil
}

func (i *impl) Refresh(ctx context.Context) error {
	_, err := i.cache.Refresh(ctx)
	return err
}

// load reads the table and keeps the first row of each employeeId.
func (i *impl) load(ctx context.Context) ([]byte, error) {
	table, err := i.gateway.ReadRange(ctx, sheetmodels.Employee.FullRange())
	if err != nil {
		return nil, err
	}
	list, err := recordformat.Employees(table)
	if err != nil {
		return nil, cache.Permanent(err)
	}
	return json.Marshal(Dedup(list))
}

// Dedup keeps the first occurrence of every employeeId.
func Dedup(list []apimodels.EmployeeView) []apimodels.EmployeeView {
	seen := make(map[string]bool, len(list))
	result := make([]apimodels.EmployeeView, 0, len(list))
	for _, employee := range list {
		if seen[employee.EmployeeID] {
			continue
		}
		seen[employee.EmployeeID] = true
		result = append(result, employee)
	}
	return result
}

func (i *impl) locate(ctx context.Context, employeeID string) (int, error) {
	column, err := i.gateway.ReadRange(ctx, sheetmodels.Employee.IDRange())
	if err != nil {
		return 0, apperrors.WrapUpstream(err, "failed to read employees")
	}
	row, err := rowlocator.LocateInRows(column, 0, employeeID)
	if err != nil {
		return 0, apperrors.NewNotFound("employee not found")
	}
	return row, nil
}

func (i *impl) invalidate(ctx context.Context) {
	if err := i.cache.Invalidate(ctx); err != nil {
		log.WithError(err).Warn("employee cache invalidation failed")
	}
}

func employeeCells(data apimodels.EmployeeData, now time.Time) []string {
	return sheetmodels.Employee.Serialize(map[string]string{
		"employeeId": data.EmployeeID,
		"fullName":   data.FullName,
		"department": data.Department,
		"group":      data.Group,
		"position":   data.Position,
		"updatedAt":  now.UTC().Format(models.TimestampLayout),
	})
}
