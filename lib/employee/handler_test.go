package employeehandler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bbs-backend/lib/apperrors"
	"bbs-backend/lib/cache"
	"bbs-backend/lib/sheets"
	apimodels "bbs-backend/models/api"
	sheetmodels "bbs-backend/models/sheet"
)

var updatedAt = time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)

type countingGateway struct {
	sheets.Provider
	reads int
}

func (g *countingGateway) ReadRange(ctx context.Context, spec string) ([][]string, error) {
	if spec == sheetmodels.Employee.FullRange() {
		g.reads++
	}
	return g.Provider.ReadRange(ctx, spec)
}

func newGateway(t *testing.T, rows ...[]string) *countingGateway {
	wb := sheets.NewMemoryWorkbook()
	require.Nil(t, wb.EnsureHeaders(sheetmodels.Employee.Table, sheetmodels.Employee.Headers()))
	if len(rows) > 0 {
		require.Nil(t, wb.AppendRows(context.Background(), sheetmodels.Employee.FullRange(), rows))
	}
	return &countingGateway{Provider: wb}
}

func TestEmployees(t *testing.T) {
	ctx := context.Background()

	t.Run(`created employee is listed with its row`, func(t *testing.T) {
		handler := NewInstance(newGateway(t), cache.NewMemoryStore(), cache.DefaultPolicy())
		err := handler.Create(ctx, apimodels.EmployeeData{
			LegacyEmployeeID: "5LD01234",
			FullName:         "Test User",
			Department:       "CV",
			Group:            "G1",
			Position:         "employee",
		}, updatedAt)
		require.Nil(t, err)

		list, err := handler.List(ctx)
		require.Nil(t, err)
		require.Len(t, list, 1)
		require.Equal(t, apimodels.EmployeeData{
			EmployeeID: "5LD01234",
			FullName:   "Test User",
			Department: "CV",
			Group:      "G1",
			Position:   "employee",
		}, list[0].EmployeeData)
		require.Equal(t, 2, list[0].Row)
		require.Equal(t, "2024-03-05T10:30:00.000Z", list[0].UpdatedAt)
	})

	t.Run(`list is served from cache until a write`, func(t *testing.T) {
		gw := newGateway(t, []string{"E1", "One"})
		handler := NewInstance(gw, cache.NewMemoryStore(), cache.DefaultPolicy())
		_, err := handler.List(ctx)
		require.Nil(t, err)
		_, err = handler.List(ctx)
		require.Nil(t, err)
		require.Equal(t, 1, gw.reads)

		require.Nil(t, handler.Create(ctx, apimodels.EmployeeData{EmployeeID: "E2", FullName: "Two"}, updatedAt))
		list, err := handler.List(ctx)
		require.Nil(t, err)
		require.Len(t, list, 2)
		require.Equal(t, 2, gw.reads)
	})

	t.Run(`duplicates keep the first occurrence`, func(t *testing.T) {
		handler := NewInstance(newGateway(t,
			[]string{"E1", "First"},
			[]string{"E2", "Other"},
			[]string{"E1", "Second"},
		), cache.NewMemoryStore(), cache.DefaultPolicy())
		list, err := handler.List(ctx)
		require.Nil(t, err)
		require.Len(t, list, 2)
		require.Equal(t, "First", list[0].FullName)

		view, err := handler.Update(ctx, "E1", apimodels.EmployeeData{FullName: "Renamed"}, updatedAt)
		require.Nil(t, err)
		require.Equal(t, 2, view.Row)
	})

	t.Run(`update overwrites the row`, func(t *testing.T) {
		gw := newGateway(t, []string{"E1", "One", "CV", "G1", "staff", "old"})
		handler := NewInstance(gw, cache.NewMemoryStore(), cache.DefaultPolicy())
		view, err := handler.Update(ctx, "E1", apimodels.EmployeeData{FullName: "One Renamed", Department: "QA"}, updatedAt)
		require.Nil(t, err)
		require.Equal(t, "E1", view.EmployeeID)

		rows, err := gw.ReadRange(ctx, sheetmodels.Employee.RowRange(2))
		require.Nil(t, err)
		require.Equal(t, []string{"E1", "One Renamed", "QA", "", "", "2024-03-05T10:30:00.000Z"}, rows[0])
	})

	t.Run(`unknown employee`, func(t *testing.T) {
		handler := NewInstance(newGateway(t, []string{"E1", "One"}), cache.NewMemoryStore(), cache.DefaultPolicy())
		_, err := handler.Update(ctx, "E9", apimodels.EmployeeData{FullName: "x"}, updatedAt)
		require.True(t, apperrors.Is(err, apperrors.KindNotFound))
		err = handler.Delete(ctx, "E9")
		require.True(t, apperrors.Is(err, apperrors.KindNotFound))
	})

	t.Run(`delete removes the row`, func(t *testing.T) {
		handler := NewInstance(newGateway(t, []string{"E1", "One"}, []string{"E2", "Two"}), cache.NewMemoryStore(), cache.DefaultPolicy())
		require.Nil(t, handler.Delete(ctx, "E1"))
		list, err := handler.List(ctx)
		require.Nil(t, err)
		require.Len(t, list, 1)
		require.Equal(t, "E2", list[0].EmployeeID)
		require.Equal(t, 2, list[0].Row)
	})

	t.Run(`validation`, func(t *testing.T) {
		handler := NewInstance(newGateway(t), cache.NewMemoryStore(), cache.DefaultPolicy())
		err := handler.Create(ctx, apimodels.EmployeeData{FullName: "No Id"}, updatedAt)
		require.True(t, apperrors.Is(err, apperrors.KindValidation))
		_, err = handler.Update(ctx, "", apimodels.EmployeeData{}, updatedAt)
		require.True(t, apperrors.Is(err, apperrors.KindValidation))
	})

	t.Run(`empty table is not found`, func(t *testing.T) {
		handler := NewInstance(&emptyGateway{Provider: sheets.NewMemoryWorkbook()}, cache.NewMemoryStore(), cache.DefaultPolicy())
		_, err := handler.List(ctx)
		require.True(t, apperrors.Is(err, apperrors.KindNotFound))
	})
}

type emptyGateway struct {
	sheets.Provider
}

func (g *emptyGateway) ReadRange(ctx context.Context, spec string) ([][]string, error) {
	return [][]string{}, nil
}

func TestDedup(t *testing.T) {
	list := []apimodels.EmployeeView{
		{EmployeeData: apimodels.EmployeeData{EmployeeID: "A"}, Row: 2},
		{EmployeeData: apimodels.EmployeeData{EmployeeID: "A"}, Row: 3},
	}
	require.Equal(t, list[:1], Dedup(list))
}
