package rowlocator

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestLocate(t *testing.T) {
	column := []string{"recordId", "BBS_1", "BBS_2", "BBS_2", "bbs_3"}

	t.Run(`first data row is sheet row 2`, func(t *testing.T) {
		row, err := Locate(column, "BBS_1")
		require.Nil(t, err)
		require.Equal(t, 2, row)
	})

	t.Run(`first match wins`, func(t *testing.T) {
		row, err := Locate(column, "BBS_2")
		require.Nil(t, err)
		require.Equal(t, 3, row)
	})

	t.Run(`header is skipped`, func(t *testing.T) {
		_, err := Locate(column, "recordId")
		require.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run(`no normalization`, func(t *testing.T) {
		_, err := Locate(column, "BBS_3")
		require.True(t, errors.Is(err, ErrNotFound))
		_, err = Locate(column, " BBS_1")
		require.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run(`empty column`, func(t *testing.T) {
		_, err := Locate(nil, "BBS_1")
		require.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run(`locate in rows with ragged cells`, func(t *testing.T) {
		rows := [][]string{{"id", "name"}, {}, {"7", "x"}}
		row, err := LocateInRows(rows, 0, "7")
		require.Nil(t, err)
		require.Equal(t, 3, row)
		require.Equal(t, []string{"name", "", "x"}, Column(rows, 1))
	})
}
