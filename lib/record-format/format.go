package recordformat

import (
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	apimodels "bbs-backend/models/api"
	sheetmodels "bbs-backend/models/sheet"
)

// ErrNoData means the read returned no rows at all, not even a header.
var ErrNoData = errors.New("no data")

// Refs are the reference tables joined into sub-categories.
type Refs struct {
	Departments [][]string
	Options     [][]string
}

// CheckHeader compares a read header row with the schema.
func CheckHeader(schema sheetmodels.Schema, header []string) error {
	seen := map[string]bool{}
	unexpected := []string{}
	for _, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		seen[name] = true
		if schema.Index(name) < 0 {
			unexpected = append(unexpected, name)
		}
	}
	missing := []string{}
	for _, name := range schema.Headers() {
		if !seen[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 && len(unexpected) == 0 {
		return nil
	}
	return errors.Errorf("table %s header mismatch: missing %v, unexpected %v", schema.Table, missing, unexpected)
}

// Rows zips every data row with the header. Blank rows are skipped but keep their numbering.
func Rows(table [][]string, schema sheetmodels.Schema) ([]sheetmodels.Row, error) {
	if len(table) == 0 {
		return nil, ErrNoData
	}
	header := table[0]
	if err := CheckHeader(schema, header); err != nil {
		log.WithField("schema", schema.Name).Warn(err.Error())
	}
	rows := make([]sheetmodels.Row, 0, len(table)-1)
	for i := 1; i < len(table); i++ {
		if isBlank(table[i]) {
			continue
		}
		rows = append(rows, sheetmodels.NewRow(i+1, header, table[i]))
	}
	return rows, nil
}

func Observations(table [][]string, schema sheetmodels.Schema) ([]apimodels.ObservationView, error) {
	rows, err := Rows(table, schema)
	if err != nil {
		return nil, err
	}
	result := make([]apimodels.ObservationView, 0, len(rows))
	for _, row := range rows {
		result = append(result, apimodels.ObservationConvert(row, sheetmodels.ContentVersion(table[row.Number-1])))
	}
	return result, nil
}

func Employees(table [][]string) ([]apimodels.EmployeeView, error) {
	return convert(table, sheetmodels.Employee, apimodels.EmployeeConvert)
}

func Categories(table [][]string) ([]apimodels.CategoryView, error) {
	return convert(table, sheetmodels.Category, apimodels.CategoryConvert)
}

func Groups(table [][]string) ([]apimodels.GroupView, error) {
	return convert(table, sheetmodels.Group, apimodels.GroupConvert)
}

func Departments(table [][]string) ([]apimodels.DepartmentView, error) {
	return convert(table, sheetmodels.Department, apimodels.DepartmentConvert)
}

func Options(table [][]string) ([]apimodels.OptionView, error) {
	return convert(table, sheetmodels.Option, apimodels.OptionConvert)
}

// SubCategories resolves department ids to {id, shortname} and attaches options grouped by
// sub_category_id. Missing references become {} and [] instead of failing the record.
func SubCategories(table [][]string, refs Refs) ([]apimodels.SubCategoryView, error) {
	list, err := convert(table, sheetmodels.SubCategory, apimodels.SubCategoryConvert)
	if err != nil {
		return nil, err
	}

	departments := map[int]apimodels.DepartmentView{}
	if deps, err := Departments(refs.Departments); err == nil {
		for _, dep := range deps {
			departments[dep.ID] = dep
		}
	}
	options := map[int][]apimodels.OptionView{}
	if opts, err := Options(refs.Options); err == nil {
		for _, opt := range opts {
			options[opt.SubCategoryID] = append(options[opt.SubCategoryID], opt)
		}
	}

	for i := range list {
		for _, id := range list[i].DepartmentIDs {
			dep, ok := departments[id]
			if !ok {
				list[i].Departments = append(list[i].Departments, sheetmodels.DepartmentRef{})
				continue
			}
			list[i].Departments = append(list[i].Departments, sheetmodels.DepartmentRef{ID: dep.ID, ShortName: dep.ShortName})
		}
		if opts, ok := options[list[i].ID]; ok {
			list[i].Options = opts
		}
	}
	return list, nil
}

// Format dispatches on the schema name and returns the typed slice for it.
func Format(table [][]string, schemaName string, refs Refs) (any, error) {
	switch schemaName {
	case sheetmodels.SchemaRecord:
		return Observations(table, sheetmodels.Record)
	case sheetmodels.SchemaSheViolation:
		return Observations(table, sheetmodels.SheViolation)
	case sheetmodels.SchemaEmployee:
		return Employees(table)
	case sheetmodels.SchemaCategory:
		return Categories(table)
	case sheetmodels.SchemaSubCategory:
		return SubCategories(table, refs)
	case sheetmodels.SchemaDepartment:
		return Departments(table)
	case sheetmodels.SchemaGroup:
		return Groups(table)
	case sheetmodels.SchemaOption:
		return Options(table)
	}
	return nil, errors.Errorf("unknown schema %q", schemaName)
}

func convert[T any](table [][]string, schema sheetmodels.Schema, conv func(sheetmodels.Row) T) ([]T, error) {
	rows, err := Rows(table, schema)
	if err != nil {
		return nil, err
	}
	result := make([]T, 0, len(rows))
	for _, row := range rows {
		result = append(result, conv(row))
	}
	return result, nil
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
