package apimodels

import (
	"strings"

	"github.com/pkg/errors"

	sheetmodels "bbs-backend/models/sheet"
)

type CategoryView struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Row  int    `json:"row"`
}

func CategoryConvert(row sheetmodels.Row) CategoryView {
	return CategoryView{
		ID:   row.Int("id"),
		Name: row.String("name"),
		Row:  row.Number,
	}
}

type GroupView struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Row  int    `json:"row"`
}

func GroupConvert(row sheetmodels.Row) GroupView {
	return GroupView{
		ID:   row.Int("id"),
		Name: row.String("name"),
		Row:  row.Number,
	}
}

type DepartmentView struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortname"`
	Row       int    `json:"row"`
}

func DepartmentConvert(row sheetmodels.Row) DepartmentView {
	return DepartmentView{
		ID:        row.Int("id"),
		Name:      row.String("name"),
		ShortName: row.String("shortname"),
		Row:       row.Number,
	}
}

type OptionView struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	SubCategoryID int    `json:"sub_category_id"`
	Row           int    `json:"row"`
}

func OptionConvert(row sheetmodels.Row) OptionView {
	return OptionView{
		ID:            row.Int("id"),
		Name:          row.String("name"),
		SubCategoryID: row.Int("sub_category_id"),
		Row:           row.Number,
	}
}

type SubCategoryView struct {
	ID          int                         `json:"id"`
	CategoryID  int                         `json:"category_id"`
	Name        string                      `json:"name"`
	Departments []sheetmodels.DepartmentRef `json:"departcategory_id"`
	Options     []OptionView                `json:"option"`
	Row         int                         `json:"row"`

	// DepartmentIDs are the raw ids before the department join
	DepartmentIDs []int `json:"-"`
}

func SubCategoryConvert(row sheetmodels.Row) SubCategoryView {
	ids := sheetmodels.DecodeEmbedded(row, "departcategory_id", []sheetmodels.FlexInt{})
	view := SubCategoryView{
		ID:            row.Int("id"),
		CategoryID:    row.Int("category_id"),
		Name:          row.String("name"),
		Departments:   []sheetmodels.DepartmentRef{},
		Options:       []OptionView{},
		DepartmentIDs: make([]int, 0, len(ids.Value)),
		Row:           row.Number,
	}
	for _, id := range ids.Value {
		view.DepartmentIDs = append(view.DepartmentIDs, id.Int())
	}
	return view
}

// TaxonomyData is the management console payload. Fields not used by a type are ignored.
type TaxonomyData struct {
	Name          string `json:"name"`
	ShortName     string `json:"shortname"`
	CategoryID    int    `json:"category_id"`
	SubCategoryID int    `json:"sub_category_id"`
	DepartmentIDs []int  `json:"departcategory_id"`
}

func (t TaxonomyData) Validate(schema string) error {
	if strings.TrimSpace(t.Name) == "" {
		return errors.New("name is required")
	}
	switch schema {
	case sheetmodels.SchemaSubCategory:
		if t.CategoryID <= 0 {
			return errors.New("category_id is required")
		}
	case sheetmodels.SchemaOption:
		if t.SubCategoryID <= 0 {
			return errors.New("sub_category_id is required")
		}
	case sheetmodels.SchemaDepartment:
		if strings.TrimSpace(t.ShortName) == "" {
			return errors.New("shortname is required")
		}
	}
	return nil
}

type TaxonomyResult struct {
	Type string `json:"type"`
	ID   int    `json:"id"`
	Row  int    `json:"row,omitempty"`
}
