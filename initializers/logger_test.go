package initializers

import (
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"bbs-backend/fiberlog"
)

func TestInitLogger(t *testing.T) {
	defer log.SetLevel(log.InfoLevel)

	t.Run(`configured level`, func(t *testing.T) {
		cfg := InitLogger("warn")
		require.Equal(t, log.WarnLevel, log.GetLevel())
		require.Equal(t, log.DebugLevel, cfg.Logger.GetLevel())
		require.Contains(t, cfg.Tags, fiberlog.RequestID)
	})

	t.Run(`unknown level falls back to info`, func(t *testing.T) {
		InitLogger("loud")
		require.Equal(t, log.InfoLevel, log.GetLevel())
	})
}
