package initchecker

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckInit(t *testing.T) {
	t.Run(`initialized dependencies pass`, func(t *testing.T) {
		require.NotPanics(t, func() {
			CheckInit("reader", strings.NewReader("x"), "name", "bbs")
		})
	})

	t.Run(`nil dependency`, func(t *testing.T) {
		require.PanicsWithValue(t, "store dependency not initialized", func() {
			CheckInit("store", nil)
		})
	})

	t.Run(`typed nil inside an interface`, func(t *testing.T) {
		var reader *strings.Reader
		var dep io.Reader = reader
		require.PanicsWithValue(t, "reader dependency not initialized", func() {
			CheckInit("reader", dep)
		})
	})

	t.Run(`malformed pairs`, func(t *testing.T) {
		require.Panics(t, func() { CheckInit("store") })
		require.Panics(t, func() { CheckInit(1, "x") })
	})
}
