package xlsexport

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"bbs-backend/models"
	apimodels "bbs-backend/models/api"
	sheetmodels "bbs-backend/models/sheet"
)

func TestExportObservationList(t *testing.T) {
	note := "Good"
	list := []apimodels.DashboardObservationView{
		{
			ObservationView: apimodels.ObservationView{
				ObservationData: apimodels.ObservationData{
					Date:             "2024-03-01",
					EmployeeID:       "E1",
					SafetyCategoryID: "1",
					SelectedOptions: sheetmodels.Embedded[[]sheetmodels.OptionRef]{
						Value: []sheetmodels.OptionRef{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}},
					},
					SafeActionCount: 3,
				},
				RecordID:  "BBS_1",
				Status:    models.StatusApproved,
				AdminNote: &note,
			},
			SafetyCategoryName: "PPE",
		},
		{
			ObservationView: apimodels.ObservationView{
				ObservationData: apimodels.ObservationData{SafetyCategoryID: "9"},
				RecordID:        "BBS_2",
				Status:          models.StatusPending,
			},
		},
	}

	buf, err := NewInstance().ExportObservationList(list)
	require.Nil(t, err)

	f, err := excelize.OpenReader(buf)
	require.Nil(t, err)
	rows, err := f.GetRows("Observations")
	require.Nil(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, ObservationHeaders(), rows[0])
	require.Equal(t, "BBS_1", rows[1][0])
	require.Equal(t, "PPE", rows[1][6])
	require.Equal(t, "A, B", rows[1][9])
	require.Equal(t, "3", rows[1][10])
	require.Equal(t, "Approved", rows[1][14])
	require.Equal(t, "Good", rows[1][15])
	require.Equal(t, "9", rows[2][6])
	require.Equal(t, "Pending", rows[2][14])
}

func TestExportEmptyList(t *testing.T) {
	buf, err := NewInstance().ExportObservationList(nil)
	require.Nil(t, err)
	f, err := excelize.OpenReader(buf)
	require.Nil(t, err)
	rows, err := f.GetRows("Observations")
	require.Nil(t, err)
	require.Len(t, rows, 1)
}
