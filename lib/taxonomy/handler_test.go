package taxonomyhandler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"bbs-backend/lib/apperrors"
	"bbs-backend/lib/sheets"
	apimodels "bbs-backend/models/api"
	sheetmodels "bbs-backend/models/sheet"
)

func newWorkbook(t *testing.T) *sheets.Workbook {
	wb := sheets.NewMemoryWorkbook()
	for _, schema := range sheetmodels.All {
		require.Nil(t, wb.EnsureHeaders(schema.Table, schema.Headers()))
	}
	return wb
}

func TestNextID(t *testing.T) {
	require.Equal(t, 1, NextID(nil))
	require.Equal(t, 1, NextID([]string{"id"}))
	require.Equal(t, 8, NextID([]string{"id", "3", "", "x", " 7 ", "2"}))
}

func TestTaxonomy(t *testing.T) {
	ctx := context.Background()

	t.Run(`create assigns max id plus one`, func(t *testing.T) {
		wb := newWorkbook(t)
		require.Nil(t, wb.AppendRows(ctx, sheetmodels.Category.FullRange(), [][]string{{"4", "PPE"}, {"2", "Tools"}}))
		handler := NewInstance(wb)
		result, err := handler.Create(ctx, sheetmodels.SchemaCategory, apimodels.TaxonomyData{Name: "Housekeeping"})
		require.Nil(t, err)
		require.Equal(t, 5, result.ID)

		list, err := handler.List(ctx, sheetmodels.SchemaCategory)
		require.Nil(t, err)
		categories := list.([]apimodels.CategoryView)
		require.Len(t, categories, 3)
		require.Equal(t, apimodels.CategoryView{ID: 5, Name: "Housekeeping", Row: 4}, categories[2])
	})

	t.Run(`sub-category is listed with its joins`, func(t *testing.T) {
		wb := newWorkbook(t)
		handler := NewInstance(wb)
		dep, err := handler.Create(ctx, sheetmodels.SchemaDepartment, apimodels.TaxonomyData{Name: "Civil", ShortName: "CV"})
		require.Nil(t, err)
		sub, err := handler.Create(ctx, sheetmodels.SchemaSubCategory, apimodels.TaxonomyData{
			Name:          "Helmet",
			CategoryID:    1,
			DepartmentIDs: []int{dep.ID, 42},
		})
		require.Nil(t, err)
		_, err = handler.Create(ctx, sheetmodels.SchemaOption, apimodels.TaxonomyData{Name: "Worn", SubCategoryID: sub.ID})
		require.Nil(t, err)

		list, err := handler.List(ctx, sheetmodels.SchemaSubCategory)
		require.Nil(t, err)
		subs := list.([]apimodels.SubCategoryView)
		require.Len(t, subs, 1)
		require.Equal(t, []sheetmodels.DepartmentRef{{ID: 1, ShortName: "CV"}, {}}, subs[0].Departments)
		require.Len(t, subs[0].Options, 1)
		require.Equal(t, "Worn", subs[0].Options[0].Name)
	})

	t.Run(`update and delete by id`, func(t *testing.T) {
		wb := newWorkbook(t)
		require.Nil(t, wb.AppendRows(ctx, sheetmodels.Group.FullRange(), [][]string{{"1", "G1"}, {"2", "G2"}}))
		handler := NewInstance(wb)

		result, err := handler.Update(ctx, sheetmodels.SchemaGroup, 2, apimodels.TaxonomyData{Name: "Night shift"})
		require.Nil(t, err)
		require.Equal(t, 3, result.Row)

		require.Nil(t, handler.Delete(ctx, sheetmodels.SchemaGroup, 1))
		list, err := handler.List(ctx, sheetmodels.SchemaGroup)
		require.Nil(t, err)
		require.Equal(t, []apimodels.GroupView{{ID: 2, Name: "Night shift", Row: 2}}, list)

		err = handler.Delete(ctx, sheetmodels.SchemaGroup, 1)
		require.True(t, apperrors.Is(err, apperrors.KindNotFound))
	})

	t.Run(`validation`, func(t *testing.T) {
		handler := NewInstance(newWorkbook(t))
		_, err := handler.Create(ctx, sheetmodels.SchemaEmployee, apimodels.TaxonomyData{Name: "x"})
		require.True(t, apperrors.Is(err, apperrors.KindValidation))
		_, err = handler.Create(ctx, sheetmodels.SchemaOption, apimodels.TaxonomyData{Name: "x"})
		require.True(t, apperrors.Is(err, apperrors.KindValidation))
		_, err = handler.Create(ctx, sheetmodels.SchemaDepartment, apimodels.TaxonomyData{Name: "x"})
		require.True(t, apperrors.Is(err, apperrors.KindValidation))
		_, err = handler.List(ctx, "records")
		require.True(t, apperrors.Is(err, apperrors.KindValidation))
	})
}
