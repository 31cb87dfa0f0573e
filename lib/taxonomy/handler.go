package taxonomyhandler

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"bbs-backend/lib/apperrors"
	recordformat "bbs-backend/lib/record-format"
	rowlocator "bbs-backend/lib/row-locator"
	"bbs-backend/lib/sheets"
	initchecker "bbs-backend/lib/utils/init-checker"
	apimodels "bbs-backend/models/api"
	sheetmodels "bbs-backend/models/sheet"
)

type Provider interface {
	List(ctx context.Context, schemaName string) (any, error)
	Create(ctx context.Context, schemaName string, data apimodels.TaxonomyData) (apimodels.TaxonomyResult, error)
	Update(ctx context.Context, schemaName string, id int, data apimodels.TaxonomyData) (apimodels.TaxonomyResult, error)
	Delete(ctx context.Context, schemaName string, id int) error
}

var Instance Provider

// Types are the schemas managed by the console.
var Types = []string{
	sheetmodels.SchemaCategory,
	sheetmodels.SchemaSubCategory,
	sheetmodels.SchemaDepartment,
	sheetmodels.SchemaGroup,
	sheetmodels.SchemaOption,
}

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

func (i impl) getLogger(schema sheetmodels.Schema) *log.Entry {
	return log.WithField("type", schema.Name).WithField("table", schema.Table)
}

func IsTaxonomy(schemaName string) bool {
	for _, name := range Types {
		if name == schemaName {
			return true
		}
	}
	return false
}

func schemaFor(schemaName string) (sheetmodels.Schema, error) {
	if !IsTaxonomy(schemaName) {
		return sheetmodels.Schema{}, apperrors.NewValidation("unknown type " + strconv.Quote(schemaName))
	}
	schema, _ := sheetmodels.ByName(schemaName)
	return schema, nil
}

func (i impl) List(ctx context.Context, schemaName string) (any, error) {
	schema, err := schemaFor(schemaName)
	if err != nil {
		return nil, err
	}
	table, err := i.gateway.ReadRange(ctx, schema.FullRange())
	if err != nil {
		return nil, apperrors.WrapUpstream(err, "failed to read "+schema.Table)
	}
	refs := recordformat.Refs{}
	if schema.Name == sheetmodels.SchemaSubCategory {
		if refs, err = i.readRefs(ctx); err != nil {
			return nil, err
		}
	}
	list, err := recordformat.Format(table, schema.Name, refs)
	if err != nil {
		if errors.Is(err, recordformat.ErrNoData) {
			return nil, apperrors.NewNotFound("no data found in " + schema.Table)
		}
		return nil, err
	}
	return list, nil
}

// readRefs reads the department and option tables for the sub-category join.
func (i impl) readRefs(ctx context.Context) (recordformat.Refs, error) {
	refs := recordformat.Refs{}
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		table, err := i.gateway.ReadRange(gCtx, sheetmodels.Department.FullRange())
		if err != nil {
			return apperrors.WrapUpstream(err, "failed to read "+sheetmodels.Department.Table)
		}
		refs.Departments = table
		return nil
	})
	g.Go(func() error {
		table, err := i.gateway.ReadRange(gCtx, sheetmodels.Option.FullRange())
		if err != nil {
			return apperrors.WrapUpstream(err, "failed to read "+sheetmodels.Option.Table)
		}
		refs.Options = table
		return nil
	})
	if err := g.Wait(); err != nil {
		return recordformat.Refs{}, err
	}
	return refs, nil
}

func (i impl) Create(ctx context.Context, schemaName string, data apimodels.TaxonomyData) (apimodels.TaxonomyResult, error) {
	schema, err := schemaFor(schemaName)
	if err != nil {
		return apimodels.TaxonomyResult{}, err
	}
	if err = data.Validate(schema.Name); err != nil {
		return apimodels.TaxonomyResult{}, apperrors.NewValidation(err.Error())
	}
	column, err := i.readIDs(ctx, schema)
	if err != nil {
		return apimodels.TaxonomyResult{}, err
	}
	id := NextID(column)
	cells, err := taxonomyCells(schema, id, data)
	if err != nil {
		return apimodels.TaxonomyResult{}, apperrors.NewValidation(err.Error())
	}
	if err = i.gateway.AppendRows(ctx, schema.FullRange(), [][]string{cells}); err != nil {
		return apimodels.TaxonomyResult{}, apperrors.WrapUpstream(err, "failed to save "+schema.Name)
	}
	i.getLogger(schema).WithField("id", id).Info("taxonomy entry created")
	return apimodels.TaxonomyResult{Type: schema.Name, ID: id}, nil
}

func (i impl) Update(ctx context.Context, schemaName string, id int, data apimodels.TaxonomyData) (apimodels.TaxonomyResult, error) {
	schema, err := schemaFor(schemaName)
	if err != nil {
		return apimodels.TaxonomyResult{}, err
	}
	if err = data.Validate(schema.Name); err != nil {
		return apimodels.TaxonomyResult{}, apperrors.NewValidation(err.Error())
	}
	row, err := i.locate(ctx, schema, id)
	if err != nil {
		return apimodels.TaxonomyResult{}, err
	}
	cells, err := taxonomyCells(schema, id, data)
	if err != nil {
		return apimodels.TaxonomyResult{}, apperrors.NewValidation(err.Error())
	}
	err = i.gateway.BatchUpdateRanges(ctx, []sheets.RangeValues{{
		Range:  schema.RowRange(row),
		Values: [][]string{cells},
	}})
	if err != nil {
		return apimodels.TaxonomyResult{}, apperrors.WrapUpstream(err, "failed to update "+schema.Name)
	}
	i.getLogger(schema).WithField("id", id).WithField("row", row).Info("taxonomy entry updated")
	return apimodels.TaxonomyResult{Type: schema.Name, ID: id, Row: row}, nil
}

func (i impl) Delete(ctx context.Context, schemaName string, id int) error {
	schema, err := schemaFor(schemaName)
	if err != nil {
		return err
	}
	row, err := i.locate(ctx, schema, id)
	if err != nil {
		return err
	}
	if err = i.gateway.DeleteRow(ctx, schema.Table, row); err != nil {
		return apperrors.WrapUpstream(err, "failed to delete "+schema.Name)
	}
	i.getLogger(schema).WithField("id", id).WithField("row", row).Info("taxonomy entry deleted")
	return nil
}

func (i impl) readIDs(ctx context.Context, schema sheetmodels.Schema) ([]string, error) {
	rows, err := i.gateway.ReadRange(ctx, schema.IDRange())
	if err != nil {
		return nil, apperrors.WrapUpstream(err, "failed to read "+schema.Table)
	}
	return rowlocator.Column(rows, 0), nil
}

func (i impl) locate(ctx context.Context, schema sheetmodels.Schema, id int) (int, error) {
	column, err := i.readIDs(ctx, schema)
	if err != nil {
		return 0, err
	}
	row, err := rowlocator.Locate(column, strconv.Itoa(id))
	if err != nil {
		return 0, apperrors.NewNotFound(schema.Name + " not found")
	}
	return row, nil
}

// NextID is one more than the largest numeric id below the header.
func NextID(column []string) int {
	maxID := 0
	for idx := 1; idx < len(column); idx++ {
		id, err := strconv.Atoi(strings.TrimSpace(column[idx]))
		if err == nil && id > maxID {
			maxID = id
		}
	}
	return maxID + 1
}

func taxonomyCells(schema sheetmodels.Schema, id int, data apimodels.TaxonomyData) ([]string, error) {
	values := map[string]string{
		"id":   strconv.Itoa(id),
		"name": strings.TrimSpace(data.Name),
	}
	switch schema.Name {
	case sheetmodels.SchemaDepartment:
		values["shortname"] = strings.TrimSpace(data.ShortName)
	case sheetmodels.SchemaOption:
		values["sub_category_id"] = strconv.Itoa(data.SubCategoryID)
	case sheetmodels.SchemaSubCategory:
		values["category_id"] = strconv.Itoa(data.CategoryID)
		ids := data.DepartmentIDs
		if ids == nil {
			ids = []int{}
		}
		encoded, err := sheetmodels.EncodeJSON(ids)
		if err != nil {
			return nil, err
		}
		values["departcategory_id"] = encoded
	}
	return schema.Serialize(values), nil
}
